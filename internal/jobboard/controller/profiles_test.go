package controller

import (
	"context"
	"testing"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProfileService_SelectRole(t *testing.T) {
	profiles := map[string]*models.Profile{}
	mockRepo := &MockRepository{
		createProfile: func(_ context.Context, p *models.Profile) error {
			if _, ok := profiles[p.UserID]; ok {
				return e.ErrDuplicate
			}
			profiles[p.UserID] = p
			return nil
		},
		getProfile: func(_ context.Context, id string) (*models.Profile, error) {
			if p, ok := profiles[id]; ok {
				return p, nil
			}
			return nil, e.ErrNotFound
		},
	}
	service := NewProfileService(mockRepo, zaptest.NewLogger(t))
	ctx := context.Background()

	identity := &models.Identity{UserID: "u1", FirstName: "Ada", LastName: "L", Email: "ada@example.com"}

	role, err := service.ResolveRole(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	_, err = service.SelectRole(ctx, identity, models.Role("admin"))
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	profile, err := service.SelectRole(ctx, identity, models.RoleRecruiter)
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, profile.Role)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, models.RoleRecruiter, identity.Role)

	role, err = service.ResolveRole(ctx, &models.Identity{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, role)

	// the role is a one-time choice, even for a token without the claim
	_, err = service.SelectRole(ctx, &models.Identity{UserID: "u1"}, models.RoleCandidate)
	assert.ErrorIs(t, err, e.ErrRoleAlreadySet)
	_, err = service.SelectRole(ctx, identity, models.RoleCandidate)
	assert.ErrorIs(t, err, e.ErrRoleAlreadySet)
}
