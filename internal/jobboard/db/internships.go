package db

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
)

func (r *Repository) ListInternships(ctx context.Context, filter models.JobFilter) ([]models.Internship, error) {
	internships := []models.Internship{}
	q := applyFilter(r.db.WithContext(ctx).Model(&models.Internship{}), "internships", filter)
	if err := q.Preload("Company").Order("internships.created_at DESC").Find(&internships).Error; err != nil {
		return nil, err
	}
	return internships, nil
}

func (r *Repository) GetInternship(ctx context.Context, id uuid.UUID) (*models.Internship, error) {
	var internship models.Internship
	result := r.db.WithContext(ctx).Preload("Company").First(&internship, "id = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &internship, nil
}

func (r *Repository) CreateInternship(ctx context.Context, internship *models.Internship) error {
	return translate(r.db.WithContext(ctx).Omit("Company").Create(internship).Error)
}
