package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gartstein/jobboard/internal/jobboard/db"
	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/gartstein/jobboard/internal/jobboard/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobRepository is the storage used by JobService.
type JobRepository interface {
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	CreateJob(ctx context.Context, job *models.Job) error
	UpdateHiringStatus(ctx context.Context, id uuid.UUID, isOpen bool) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ListInternships(ctx context.Context, filter models.JobFilter) ([]models.Internship, error)
	GetInternship(ctx context.Context, id uuid.UUID) (*models.Internship, error)
	CreateInternship(ctx context.Context, internship *models.Internship) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	SavedItems(candidateID string) db.SavedItemStore
}

// PostingInput is the post-job form, shared by jobs and internships.
type PostingInput struct {
	Title        string    `json:"title" validate:"required" msg:"Title is required"`
	Description  string    `json:"description" validate:"required" msg:"Description is required"`
	Location     string    `json:"location" validate:"required" msg:"Select a location"`
	CompanyID    uuid.UUID `json:"company_id" validate:"required" msg:"Select or Add a new Company"`
	Requirements string    `json:"requirements"`
	Salary       string    `json:"salary"`
	Type         string    `json:"type"`
}

// JobService manages jobs and internships.
type JobService struct {
	repo     JobRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewJobService(repo JobRepository, producer EventProducer, logger *zap.Logger) *JobService {
	return &JobService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("job_service"),
	}
}

type jobStatusEvent struct {
	JobID  uuid.UUID `json:"job_id"`
	IsOpen bool      `json:"isOpen"`
}

// savedFlags returns which of ids the caller has saved. Only candidates
// save postings; other callers get an empty set.
func (s *JobService) savedFlags(ctx context.Context, identity *models.Identity, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if identity == nil || identity.Role != models.RoleCandidate || len(ids) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	return s.repo.SavedItems(identity.UserID).SavedIDs(ctx, ids)
}

// ListJobs returns the jobs matching filter, newest first, each with the
// caller's saved flag.
func (s *JobService) ListJobs(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.JobListing, error) {
	jobs, err := s.repo.ListJobs(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	saved, err := s.savedFlags(ctx, identity, ids)
	if err != nil {
		s.logger.Error("Failed to load saved flags", zap.Error(err))
		return nil, fmt.Errorf("failed to load saved flags: %w", err)
	}

	listings := make([]models.JobListing, 0, len(jobs))
	for _, job := range jobs {
		listings = append(listings, models.JobListing{Job: job, Saved: saved[job.ID]})
	}
	return listings, nil
}

// GetJob returns one job. Applications are only kept for the owning
// recruiter.
func (s *JobService) GetJob(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.JobListing, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if identity == nil || identity.UserID != job.RecruiterID {
		job.Applications = nil
	}

	saved, err := s.savedFlags(ctx, identity, []uuid.UUID{job.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load saved flags: %w", err)
	}
	return &models.JobListing{Job: *job, Saved: saved[job.ID]}, nil
}

func (s *JobService) checkCompany(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return validation.Errors{"company_id": "Select or Add a new Company"}
		}
		return fmt.Errorf("failed to get company: %w", err)
	}
	return nil
}

// CreateJob posts a new open job owned by the calling recruiter.
func (s *JobService) CreateJob(ctx context.Context, identity *models.Identity, input PostingInput) (*models.Job, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if err := s.checkCompany(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Requirements: input.Requirements,
		Salary:       input.Salary,
		Type:         input.Type,
		CompanyID:    input.CompanyID,
		RecruiterID:  identity.UserID,
		IsOpen:       true,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Error("Failed to create job", zap.Error(err), zap.String("recruiter_id", identity.UserID))
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.producer.Produce(events.JobCreated, job.ID.String(), job)
	return job, nil
}

// ownedJob loads a job and checks the caller owns it.
func (s *JobService) ownedJob(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.Job, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.RecruiterID != identity.UserID {
		return nil, fmt.Errorf("%w: not the owner of job %s", e.ErrForbidden, id)
	}
	return job, nil
}

// UpdateHiringStatus opens or closes a job. Only the owner may do this.
func (s *JobService) UpdateHiringStatus(ctx context.Context, identity *models.Identity, id uuid.UUID, isOpen bool) (*models.Job, error) {
	job, err := s.ownedJob(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHiringStatus(ctx, id, isOpen); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to update hiring status", zap.Error(err), zap.String("job_id", id.String()))
		return nil, fmt.Errorf("failed to update hiring status: %w", err)
	}
	job.IsOpen = isOpen

	s.producer.Produce(events.JobStatusChanged, id.String(), jobStatusEvent{JobID: id, IsOpen: isOpen})
	return job, nil
}

// DeleteJob removes a job with its applications and bookmarks.
func (s *JobService) DeleteJob(ctx context.Context, identity *models.Identity, id uuid.UUID) error {
	job, err := s.ownedJob(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.logger.Error("Failed to delete job", zap.Error(err), zap.String("job_id", id.String()))
		return fmt.Errorf("failed to delete job: %w", err)
	}

	job.Applications = nil
	s.producer.Produce(events.JobDeleted, id.String(), job)
	return nil
}

// MyJobs lists the calling recruiter's jobs.
func (s *JobService) MyJobs(ctx context.Context, identity *models.Identity) ([]models.Job, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	jobs, err := s.repo.ListJobsByRecruiter(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("Failed to list recruiter jobs", zap.Error(err), zap.String("recruiter_id", identity.UserID))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// ListInternships is ListJobs for internships.
func (s *JobService) ListInternships(ctx context.Context, identity *models.Identity, filter models.JobFilter) ([]models.InternshipListing, error) {
	internships, err := s.repo.ListInternships(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list internships", zap.Error(err))
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(internships))
	for _, internship := range internships {
		ids = append(ids, internship.ID)
	}
	saved, err := s.savedFlags(ctx, identity, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved flags: %w", err)
	}

	listings := make([]models.InternshipListing, 0, len(internships))
	for _, internship := range internships {
		listings = append(listings, models.InternshipListing{Internship: internship, Saved: saved[internship.ID]})
	}
	return listings, nil
}

func (s *JobService) GetInternship(ctx context.Context, identity *models.Identity, id uuid.UUID) (*models.InternshipListing, error) {
	internship, err := s.repo.GetInternship(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	saved, err := s.savedFlags(ctx, identity, []uuid.UUID{internship.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load saved flags: %w", err)
	}
	return &models.InternshipListing{Internship: *internship, Saved: saved[internship.ID]}, nil
}

// CreateInternship posts a new open internship owned by the calling recruiter.
func (s *JobService) CreateInternship(ctx context.Context, identity *models.Identity, input PostingInput) (*models.Internship, error) {
	if err := requireRole(identity, models.RoleRecruiter); err != nil {
		return nil, err
	}
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if err := s.checkCompany(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	internship := &models.Internship{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Requirements: input.Requirements,
		Salary:       input.Salary,
		Type:         input.Type,
		CompanyID:    input.CompanyID,
		RecruiterID:  identity.UserID,
		IsOpen:       true,
	}
	if err := s.repo.CreateInternship(ctx, internship); err != nil {
		s.logger.Error("Failed to create internship", zap.Error(err), zap.String("recruiter_id", identity.UserID))
		return nil, fmt.Errorf("failed to create internship: %w", err)
	}

	s.producer.Produce(events.InternshipCreated, internship.ID.String(), internship)
	return internship, nil
}
