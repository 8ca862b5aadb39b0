package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
}

// ProfileService stores the role chosen during onboarding.
type ProfileService struct {
	repo   ProfileRepository
	logger *zap.Logger
}

func NewProfileService(repo ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		logger: logger.Named("profile_service"),
	}
}

// SelectRole records the caller's role. The role can be chosen once.
func (s *ProfileService) SelectRole(ctx context.Context, identity *models.Identity, role models.Role) (*models.Profile, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: no identity", e.ErrForbidden)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be candidate or recruiter", e.ErrInvalidInput)
	}
	if identity.Role != models.RoleNone {
		return nil, e.ErrRoleAlreadySet
	}

	profile := &models.Profile{
		UserID:    identity.UserID,
		Role:      role,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, e.ErrDuplicate) {
			return nil, e.ErrRoleAlreadySet
		}
		s.logger.Error("Failed to store role", zap.Error(err), zap.String("user_id", identity.UserID))
		return nil, fmt.Errorf("failed to store role: %w", err)
	}

	s.logger.Info("Role selected", zap.String("user_id", identity.UserID), zap.String("role", string(role)))
	identity.Role = role
	return profile, nil
}

// ResolveRole returns the stored role of identity, or no role when the
// identity has not been onboarded.
func (s *ProfileService) ResolveRole(ctx context.Context, identity *models.Identity) (models.Role, error) {
	profile, err := s.repo.GetProfile(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile.Role, nil
}
