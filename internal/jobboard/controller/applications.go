package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/storage"
	"github.com/gartstein/jobboard/internal/jobboard/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApplicationRepository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListApplicationsByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	ListApplicationsForRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	UpsertProfileContact(ctx context.Context, profile *models.Profile) error
}

// ApplicationInput is the apply-to-job form.
type ApplicationInput struct {
	Experience  int       `json:"experience" validate:"min=0" msg:"Experience must be at least 0"`
	Skills      string    `json:"skills" validate:"required" msg:"Skills are required"`
	Education   string    `json:"education" validate:"oneof=Intermediate Graduate 'Post Graduate'" msg:"Education is required"`
	ResumeName  string    `json:"resume" validate:"document" msg:"Only PDF or Word documents are allowed"`
	ContentType string    `json:"-"`
	Resume      io.Reader `json:"-"`
}

type ApplicationService struct {
	repo     ApplicationRepository
	blobs    BlobStore
	producer EventProducer
	logger   *zap.Logger
}

func NewApplicationService(repo ApplicationRepository, blobs BlobStore, producer EventProducer, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		blobs:    blobs,
		producer: producer,
		logger:   logger.Named("application_service"),
	}
}

type applicationStatusEvent struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	CandidateID   string    `json:"candidate_id"`
	Status        string    `json:"status"`
}

// Apply uploads the resume and then records the application with status
// "applied". The uploaded resume is kept even when the insert fails.
func (s *ApplicationService) Apply(ctx context.Context, identity *models.Identity, jobID uuid.UUID, input ApplicationInput) (*models.Application, error) {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return nil, err
	}
	if input.Resume == nil {
		return nil, validation.Errors{"resume": "Resume is required"}
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !job.IsOpen {
		return nil, fmt.Errorf("%w: job is no longer accepting applications", e.ErrInvalidInput)
	}

	name := storage.RandomName("resume", identity.UserID, extension(input.ResumeName))
	url, err := s.blobs.Upload(ctx, storage.BucketResumes, name, input.Resume)
	if err != nil {
		s.logger.Error("Failed to upload resume", zap.Error(err), zap.String("candidate_id", identity.UserID))
		return nil, fmt.Errorf("failed to upload resume: %w", err)
	}

	app := &models.Application{
		JobID:       jobID,
		CandidateID: identity.UserID,
		Name:        displayName(identity),
		Experience:  input.Experience,
		Skills:      input.Skills,
		Education:   input.Education,
		Resume:      url,
		Status:      models.StatusApplied,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, e.ErrDuplicate) {
			s.logger.Warn("Duplicate application",
				zap.String("candidate_id", identity.UserID),
				zap.String("job_id", jobID.String()),
				zap.String("orphaned_resume", url),
			)
			return nil, e.ErrAlreadyApplied
		}
		s.logger.Error("Failed to submit application", zap.Error(err), zap.String("job_id", jobID.String()))
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	s.recordContact(ctx, identity)

	s.producer.Produce(events.ApplicationSubmitted, app.ID.String(), app)
	return app, nil
}

// recordContact copies the candidate's name and email from the token into
// the profile read by the recruiter view.
func (s *ApplicationService) recordContact(ctx context.Context, identity *models.Identity) {
	if identity.FirstName == "" && identity.LastName == "" && identity.Email == "" {
		return
	}
	err := s.repo.UpsertProfileContact(ctx, &models.Profile{
		UserID:    identity.UserID,
		Role:      identity.Role,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
	})
	if err != nil {
		s.logger.Warn("Failed to record candidate contact", zap.Error(err), zap.String("candidate_id", identity.UserID))
	}
}

// ListForCandidate returns the caller's applications with job title and
// company name.
func (s *ApplicationService) ListForCandidate(ctx context.Context, identity *models.Identity) ([]models.Application, error) {
	if err := requireRole(identity, models.RoleCandidate); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByCandidate(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("Failed to list applications", zap.Error(err), zap.String("candidate_id", identity.UserID))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListForRecruiter returns every application against the caller's jobs,
// annotated with job, company and candidate fields.
func (s *ApplicationService) ListForRecruiter(ctx context.Context, identity *models.Identity) ([]models.Application, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsForRecruiter(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("Failed to list applications", zap.Error(err), zap.String("recruiter_id", identity.UserID))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus sets the status of one application. Only the recruiter who
// owns the job may do this.
func (s *ApplicationService) UpdateStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, status string) (*models.Application, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validation.Errors{"status": "Status is required"}
	}

	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.Job == nil || app.Job.RecruiterID != identity.UserID {
		return nil, fmt.Errorf("%w: not the owner of job %s", e.ErrForbidden, app.JobID)
	}

	if err := s.repo.UpdateApplicationStatus(ctx, id, status); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to update application status", zap.Error(err), zap.String("application_id", id.String()))
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	app.Status = status

	s.producer.Produce(events.ApplicationStatusChanged, id.String(), applicationStatusEvent{
		ApplicationID: id,
		JobID:         app.JobID,
		CandidateID:   app.CandidateID,
		Status:        status,
	})
	return app, nil
}

// GroupByJob groups applications by job id, keeping their order.
func GroupByJob(apps []models.Application) map[uuid.UUID][]models.Application {
	groups := make(map[uuid.UUID][]models.Application)
	for _, app := range apps {
		groups[app.JobID] = append(groups[app.JobID], app)
	}
	return groups
}

// GroupByStatus groups applications by their exact status string.
func GroupByStatus(apps []models.Application) map[string][]models.Application {
	groups := make(map[string][]models.Application)
	for _, app := range apps {
		groups[app.Status] = append(groups[app.Status], app)
	}
	return groups
}
