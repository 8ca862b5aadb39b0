package db

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
)

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies := []models.Company{}
	if err := r.db.WithContext(ctx).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}
