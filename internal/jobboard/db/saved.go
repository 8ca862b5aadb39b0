package db

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedItemStore is a handle on one candidate's saved items. Every query it
// runs is restricted to that candidate.
type SavedItemStore interface {
	// Exists reports whether the item is already saved.
	Exists(ctx context.Context, itemID uuid.UUID) (bool, error)
	// ItemExists reports whether a job or internship with this id exists.
	ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error)
	// Insert saves the item; a second insert fails with ErrDuplicate.
	Insert(ctx context.Context, itemID uuid.UUID) error
	// Delete removes the bookmark; ErrNotFound when nothing was saved.
	Delete(ctx context.Context, itemID uuid.UUID) error
	// SavedIDs returns the subset of itemIDs that are saved.
	SavedIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	Jobs(ctx context.Context) ([]models.SavedJob, error)
	Internships(ctx context.Context) ([]models.SavedInternship, error)
}

type savedScope struct {
	db          *gorm.DB
	candidateID string
}

// SavedItems returns a handle scoped to candidateID. Handles are cheap and
// owned by the caller; nothing is cached between calls.
func (r *Repository) SavedItems(candidateID string) SavedItemStore {
	return &savedScope{db: r.db, candidateID: candidateID}
}

func (s *savedScope) Exists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&models.SavedItem{}).
		Where("candidate_id = ? AND job_id = ?", s.candidateID, itemID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (s *savedScope) ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Internship{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *savedScope) Insert(ctx context.Context, itemID uuid.UUID) error {
	item := &models.SavedItem{CandidateID: s.candidateID, JobID: itemID}
	return translate(s.db.WithContext(ctx).Create(item).Error)
}

func (s *savedScope) Delete(ctx context.Context, itemID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ?", s.candidateID, itemID).
		Delete(&models.SavedItem{})
	return affected(result)
}

func (s *savedScope) SavedIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	saved := make(map[uuid.UUID]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return saved, nil
	}
	var ids []uuid.UUID
	result := s.db.WithContext(ctx).Model(&models.SavedItem{}).
		Where("candidate_id = ? AND job_id IN ?", s.candidateID, itemIDs).
		Pluck("job_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

// bookmarks returns the candidate's saved rows, newest first.
func (s *savedScope) bookmarks(ctx context.Context) ([]models.SavedItem, []uuid.UUID, error) {
	var items []models.SavedItem
	result := s.db.WithContext(ctx).
		Where("candidate_id = ?", s.candidateID).
		Order("created_at DESC").
		Find(&items)
	if result.Error != nil {
		return nil, nil, result.Error
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.JobID)
	}
	return items, ids, nil
}

func (s *savedScope) Jobs(ctx context.Context) ([]models.SavedJob, error) {
	items, ids, err := s.bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	saved := []models.SavedJob{}
	if len(ids) == 0 {
		return saved, nil
	}

	var jobs []models.Job
	if err := s.db.WithContext(ctx).Preload("Company").Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}
	for _, item := range items {
		if job, ok := byID[item.JobID]; ok {
			saved = append(saved, models.SavedJob{Job: job, SavedDate: item.CreatedAt})
		}
	}
	return saved, nil
}

func (s *savedScope) Internships(ctx context.Context) ([]models.SavedInternship, error) {
	items, ids, err := s.bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	saved := []models.SavedInternship{}
	if len(ids) == 0 {
		return saved, nil
	}

	var internships []models.Internship
	if err := s.db.WithContext(ctx).Preload("Company").Where("id IN ?", ids).Find(&internships).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Internship, len(internships))
	for _, internship := range internships {
		byID[internship.ID] = internship
	}
	for _, item := range items {
		if internship, ok := byID[item.JobID]; ok {
			saved = append(saved, models.SavedInternship{Internship: internship, SavedDate: item.CreatedAt})
		}
	}
	return saved, nil
}

