package db

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit("Job").Create(appt).Error)
}

func (r *Repository) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).Preload("Job.Company").First(&appt, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

// ListAppointments returns appointments where userID is the recruiter
// (asRecruiter) or the applicant, latest slot first.
func (r *Repository) ListAppointments(ctx context.Context, userID string, asRecruiter bool) ([]models.Appointment, error) {
	column := "applicant_id"
	if asRecruiter {
		column = "recruiter_id"
	}
	appts := []models.Appointment{}
	result := r.db.WithContext(ctx).
		Preload("Job.Company").
		Where(column+" = ?", userID).
		Order("scheduled_time DESC").
		Find(&appts)
	if result.Error != nil {
		return nil, result.Error
	}
	return appts, nil
}

func (r *Repository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return affected(result)
}
