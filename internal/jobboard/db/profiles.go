package db

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// CreateProfile inserts the profile; ErrDuplicate when one already exists.
func (r *Repository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

// UpsertProfileContact stores the display fields of profile. An existing
// row keeps its role; only first name, last name and email are replaced.
func (r *Repository) UpsertProfileContact(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "email"}),
	}).Create(profile).Error)
}
