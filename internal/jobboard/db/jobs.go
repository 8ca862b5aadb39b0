package db

import (
	"context"
	"strings"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applyFilter adds the listing filter to a postings query on table.
func applyFilter(q *gorm.DB, table string, filter models.JobFilter) *gorm.DB {
	if s := strings.TrimSpace(filter.LocationMatch); s != "" {
		q = q.Where("LOWER("+table+".location) LIKE LOWER(?)", likePattern(s))
	}
	if filter.CompanyID != nil {
		q = q.Where(table+".company_id = ?", *filter.CompanyID)
	}
	if s := strings.TrimSpace(filter.TextMatch); s != "" {
		q = q.Where("LOWER("+table+".title) LIKE LOWER(?)", likePattern(s))
	}
	return q
}

func (r *Repository) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	jobs := []models.Job{}
	q := applyFilter(r.db.WithContext(ctx).Model(&models.Job{}), "jobs", filter)
	if err := q.Preload("Company").Order("jobs.created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *Repository) ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error) {
	jobs := []models.Job{}
	result := r.db.WithContext(ctx).
		Preload("Company").
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

// GetJob returns the job with its company and applications.
func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	result := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&job, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &job, nil
}

func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Omit("Company", "Applications").Create(job).Error)
}

func (r *Repository) UpdateHiringStatus(ctx context.Context, id uuid.UUID, isOpen bool) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("is_open", isOpen)
	return affected(result)
}

// DeleteJob removes the job together with its applications and bookmarks.
func (r *Repository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("job_id = ?", id).Delete(&models.SavedItem{}).Error; err != nil {
			return err
		}
		return affected(tx.db.Delete(&models.Job{}, "id = ?", id))
	})
}
