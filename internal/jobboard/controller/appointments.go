package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentRepository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListAppointments(ctx context.Context, userID string, asRecruiter bool) ([]models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string) error
}

// AppointmentInput schedules an interview. RoomID is generated when empty.
type AppointmentInput struct {
	JobID         uuid.UUID `json:"job_id" validate:"required" msg:"Job is required"`
	ApplicantID   string    `json:"applicant_id" validate:"required" msg:"Applicant is required"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required" msg:"Scheduled time is required"`
	Duration      int       `json:"duration" validate:"gt=0" msg:"Duration must be greater than 0"`
	RoomID        string    `json:"room_id"`
}

var appointmentStatuses = map[string]bool{
	models.AppointmentScheduled: true,
	models.AppointmentCompleted: true,
	models.AppointmentCancelled: true,
}

type AppointmentService struct {
	repo     AppointmentRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewAppointmentService(repo AppointmentRepository, producer EventProducer, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("appointment_service"),
	}
}

// Schedule books an interview on one of the calling recruiter's jobs.
func (s *AppointmentService) Schedule(ctx context.Context, identity *models.Identity, input AppointmentInput) (*models.Appointment, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	job, err := s.repo.GetJob(ctx, input.JobID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.RecruiterID != identity.UserID {
		return nil, fmt.Errorf("%w: not the owner of job %s", e.ErrForbidden, job.ID)
	}

	roomID := input.RoomID
	if roomID == "" {
		roomID = "room-" + uuid.NewString()
	}
	appt := &models.Appointment{
		JobID:         input.JobID,
		ApplicantID:   input.ApplicantID,
		RecruiterID:   identity.UserID,
		ScheduledTime: input.ScheduledTime.UTC(),
		Duration:      input.Duration,
		Status:        models.AppointmentScheduled,
		RoomID:        roomID,
	}
	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		s.logger.Error("Failed to create appointment", zap.Error(err), zap.String("job_id", input.JobID.String()))
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.producer.Produce(events.AppointmentScheduled, appt.ID.String(), appt)
	return appt, nil
}

// List returns the caller's appointments, as recruiter or as applicant
// depending on the caller's role.
func (s *AppointmentService) List(ctx context.Context, identity *models.Identity) ([]models.Appointment, error) {
	if identity == nil || !identity.Role.Valid() {
		return nil, fmt.Errorf("%w: role required", e.ErrForbidden)
	}
	appts, err := s.repo.ListAppointments(ctx, identity.UserID, identity.Role == models.RoleRecruiter)
	if err != nil {
		s.logger.Error("Failed to list appointments", zap.Error(err), zap.String("user_id", identity.UserID))
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// Get returns an appointment to one of its two participants.
func (s *AppointmentService) Get(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Appointment, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: no identity", e.ErrForbidden)
	}
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !appt.HasParticipant(identity.UserID) {
		return nil, fmt.Errorf("%w: not a participant", e.ErrForbidden)
	}
	return appt, nil
}

// UpdateStatus moves an appointment to scheduled, completed or cancelled.
func (s *AppointmentService) UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Appointment, error) {
	if !appointmentStatuses[status] {
		return nil, validation.Errors{"status": "Status must be scheduled, completed or cancelled"}
	}
	appt, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAppointmentStatus(ctx, id, status); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to update appointment status", zap.Error(err), zap.String("appointment_id", id.String()))
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	appt.Status = status

	s.producer.Produce(events.AppointmentStatusChanged, id.String(), appt)
	return appt, nil
}
