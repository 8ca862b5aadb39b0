package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/jobboard/internal/jobboard/db"
	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SavedRepository hands out candidate-scoped saved item stores.
type SavedRepository interface {
	SavedItems(candidateID string) db.SavedItemStore
}

// SavedService reconciles a candidate's bookmarks. Save and Unsave are
// idempotent: saving a saved item or unsaving an unsaved one succeeds
// without changing anything.
type SavedService struct {
	repo     SavedRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewSavedService(repo SavedRepository, producer EventProducer, logger *zap.Logger) *SavedService {
	return &SavedService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("saved_service"),
	}
}

type savedEvent struct {
	CandidateID string    `json:"candidate_id"`
	ItemID      uuid.UUID `json:"item_id"`
}

// Save bookmarks itemID for the candidate. The existence check is a fast
// path only; a concurrent insert that loses the race hits the unique index
// and is treated as success.
func (s *SavedService) Save(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return err
	}
	store := s.repo.SavedItems(identity.UserID)

	exists, err := store.Exists(ctx, itemID)
	if err != nil {
		s.logger.Error("Failed to check saved item", zap.Error(err), zap.String("item_id", itemID.String()))
		return fmt.Errorf("failed to check saved item: %w", err)
	}
	if exists {
		return nil
	}

	found, err := store.ItemExists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to look up item: %w", err)
	}
	if !found {
		return e.ErrNotFound
	}

	if err := store.Insert(ctx, itemID); err != nil {
		if errors.Is(err, e.ErrDuplicate) {
			s.logger.Warn("Item already saved",
				zap.String("candidate_id", identity.UserID),
				zap.String("item_id", itemID.String()),
			)
			return nil
		}
		s.logger.Error("Failed to save item", zap.Error(err), zap.String("item_id", itemID.String()))
		return fmt.Errorf("failed to save item: %w", err)
	}

	s.producer.Produce(events.ItemSaved, itemID.String(), savedEvent{CandidateID: identity.UserID, ItemID: itemID})
	return nil
}

// Unsave removes the bookmark on itemID. Removing a bookmark that does not
// exist succeeds.
func (s *SavedService) Unsave(ctx context.Context, identity *models.Identity, itemID uuid.UUID) error {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return err
	}

	if err := s.repo.SavedItems(identity.UserID).Delete(ctx, itemID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Warn("Item was not saved",
				zap.String("candidate_id", identity.UserID),
				zap.String("item_id", itemID.String()),
			)
			return nil
		}
		s.logger.Error("Failed to unsave item", zap.Error(err), zap.String("item_id", itemID.String()))
		return fmt.Errorf("failed to unsave item: %w", err)
	}

	s.producer.Produce(events.ItemUnsaved, itemID.String(), savedEvent{CandidateID: identity.UserID, ItemID: itemID})
	return nil
}

// Toggle flips the bookmark from the state the caller last saw and returns
// the new state.
func (s *SavedService) Toggle(ctx context.Context, identity *models.Identity, itemID uuid.UUID, alreadySaved bool) (bool, error) {
	if alreadySaved {
		if err := s.Unsave(ctx, identity, itemID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Save(ctx, identity, itemID); err != nil {
		return false, err
	}
	return true, nil
}

// ListSavedJobs returns the candidate's saved jobs, most recently saved first.
func (s *SavedService) ListSavedJobs(ctx context.Context, identity *models.Identity) ([]models.SavedJob, error) {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return nil, err
	}
	jobs, err := s.repo.SavedItems(identity.UserID).Jobs(ctx)
	if err != nil {
		s.logger.Error("Failed to list saved jobs", zap.Error(err), zap.String("candidate_id", identity.UserID))
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	return jobs, nil
}

// ListSavedInternships returns the candidate's saved internships.
func (s *SavedService) ListSavedInternships(ctx context.Context, identity *models.Identity) ([]models.SavedInternship, error) {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return nil, err
	}
	internships, err := s.repo.SavedItems(identity.UserID).Internships(ctx)
	if err != nil {
		s.logger.Error("Failed to list saved internships", zap.Error(err), zap.String("candidate_id", identity.UserID))
		return nil, fmt.Errorf("failed to list saved internships: %w", err)
	}
	return internships, nil
}
