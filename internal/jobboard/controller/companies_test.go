package controller

import (
	"context"
	"strings"
	"testing"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestCompanyService_CreateCompany(t *testing.T) {
	create := func(_ context.Context, c *models.Company) error {
		c.ID = uuid.New()
		return nil
	}

	t.Run("with logo", func(t *testing.T) {
		blobs := &MockBlobStore{}
		service := NewCompanyService(&MockRepository{createCompany: create}, blobs, &MockProducer{}, zaptest.NewLogger(t))

		company, err := service.CreateCompany(context.Background(), recruiter, CompanyInput{
			Name:        "Acme",
			LogoName:    "acme.png",
			ContentType: "image/png",
			Logo:        strings.NewReader("png"),
		})
		require.NoError(t, err)
		assert.Contains(t, company.LogoURL, "http://blobs/company-logos/logo-")
		assert.Len(t, blobs.uploads, 1)
	})

	t.Run("logo upload failure still creates company", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		blobs := &MockBlobStore{err: errStore}
		service := NewCompanyService(&MockRepository{createCompany: create}, blobs, &MockProducer{}, zap.New(core))

		company, err := service.CreateCompany(context.Background(), recruiter, CompanyInput{
			Name:     "Acme",
			LogoName: "acme.jpg",
			Logo:     strings.NewReader("jpg"),
		})
		require.NoError(t, err)
		assert.Empty(t, company.LogoURL)
		assert.Equal(t, 1, logs.FilterMessage("Failed to upload company logo").Len())
	})

	t.Run("bad logo type", func(t *testing.T) {
		service := NewCompanyService(&MockRepository{}, &MockBlobStore{}, &MockProducer{}, zaptest.NewLogger(t))
		_, err := service.CreateCompany(context.Background(), recruiter, CompanyInput{
			Name:        "Acme",
			LogoName:    "acme.gif",
			ContentType: "image/gif",
			Logo:        strings.NewReader("gif"),
		})
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("missing name", func(t *testing.T) {
		service := NewCompanyService(&MockRepository{}, &MockBlobStore{}, &MockProducer{}, zaptest.NewLogger(t))
		_, err := service.CreateCompany(context.Background(), recruiter, CompanyInput{})
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("candidate", func(t *testing.T) {
		service := NewCompanyService(&MockRepository{}, &MockBlobStore{}, &MockProducer{}, zaptest.NewLogger(t))
		_, err := service.CreateCompany(context.Background(), candidate, CompanyInput{Name: "Acme"})
		assert.ErrorIs(t, err, e.ErrForbidden)
	})
}

func TestCompanyService_ListCompanies(t *testing.T) {
	mockRepo := &MockRepository{
		listCompanies: func(context.Context) ([]models.Company, error) {
			return []models.Company{{Name: "Acme"}, {Name: "Globex"}}, nil
		},
	}
	service := NewCompanyService(mockRepo, &MockBlobStore{}, &MockProducer{}, zaptest.NewLogger(t))

	companies, err := service.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 2)
}
