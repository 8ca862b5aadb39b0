package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/storage"
	"github.com/gartstein/jobboard/internal/jobboard/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
}

// CompanyInput is the add-company form. Logo is optional.
type CompanyInput struct {
	Name        string    `json:"name" validate:"required" msg:"Company name is required"`
	LogoName    string    `json:"logo" validate:"omitempty,image" msg:"Only PNG or JPEG images are allowed"`
	ContentType string    `json:"-"`
	Logo        io.Reader `json:"-"`
}

type CompanyService struct {
	repo     CompanyRepository
	blobs    BlobStore
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(repo CompanyRepository, blobs BlobStore, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		blobs:    blobs,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		s.logger.Error("Failed to list companies", zap.Error(err))
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany adds a company. A logo that fails to upload is logged and
// the company is created without one.
func (s *CompanyService) CreateCompany(ctx context.Context, identity *models.Identity, input CompanyInput) (*models.Company, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	company := &models.Company{Name: input.Name}
	if input.LogoName != "" && input.Logo != nil {
		name := storage.RandomName("logo", input.Name, extension(input.LogoName))
		url, err := s.blobs.Upload(ctx, storage.BucketCompanyLogos, name, input.Logo)
		if err != nil {
			s.logger.Warn("Failed to upload company logo", zap.Error(err), zap.String("company", input.Name))
		} else {
			company.LogoURL = url
		}
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		s.logger.Error("Failed to create company", zap.Error(err), zap.String("company", input.Name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.producer.Produce(events.CompanyCreated, company.ID.String(), company)
	return company, nil
}
