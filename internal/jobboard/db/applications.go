package db

import (
	"context"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/google/uuid"
)

// applicationRow is one row of the applications ⋈ jobs ⋈ companies ⋈
// profiles read.
type applicationRow struct {
	ID                 uuid.UUID
	JobID              uuid.UUID
	CandidateID        string
	Name               string
	Experience         int
	Skills             string
	Education          string
	Resume             string
	Status             string
	CreatedAt          time.Time
	JobTitle           string
	CompanyName        string
	CandidateFirstName string
	CandidateLastName  string
	CandidateEmail     string
}

func (row applicationRow) toModel() models.Application {
	return models.Application{
		ID:          row.ID,
		JobID:       row.JobID,
		CandidateID: row.CandidateID,
		Name:        row.Name,
		Experience:  row.Experience,
		Skills:      row.Skills,
		Education:   row.Education,
		Resume:      row.Resume,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		Job: &models.Job{
			ID:      row.JobID,
			Title:   row.JobTitle,
			Company: &models.Company{Name: row.CompanyName},
		},
		Candidate: &models.Profile{
			UserID:    row.CandidateID,
			FirstName: row.CandidateFirstName,
			LastName:  row.CandidateLastName,
			Email:     row.CandidateEmail,
		},
	}
}

// listAnnotated runs the single joined read behind both application views.
func (r *Repository) listAnnotated(ctx context.Context, where string, args ...interface{}) ([]models.Application, error) {
	var rows []applicationRow
	result := r.db.WithContext(ctx).
		Table("applications").
		Select(`applications.id, applications.job_id, applications.candidate_id,
			applications.name, applications.experience, applications.skills,
			applications.education, applications.resume, applications.status,
			applications.created_at,
			jobs.title AS job_title,
			COALESCE(companies.name, '') AS company_name,
			COALESCE(profiles.first_name, '') AS candidate_first_name,
			COALESCE(profiles.last_name, '') AS candidate_last_name,
			COALESCE(profiles.email, '') AS candidate_email`).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Joins("LEFT JOIN companies ON companies.id = jobs.company_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = applications.candidate_id").
		Where(where, args...).
		Order("applications.created_at DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	apps := make([]models.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toModel())
	}
	return apps, nil
}

// ListApplicationsByCandidate returns the candidate's applications annotated
// with job title and company name.
func (r *Repository) ListApplicationsByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	return r.listAnnotated(ctx, "applications.candidate_id = ?", candidateID)
}

// ListApplicationsForRecruiter returns every application against the
// recruiter's jobs, newest first, annotated with job, company and candidate
// display fields.
func (r *Repository) ListApplicationsForRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error) {
	return r.listAnnotated(ctx, "jobs.recruiter_id = ?", recruiterID)
}

func (r *Repository) CreateApplication(ctx context.Context, app *models.Application) error {
	return translate(r.db.WithContext(ctx).Omit("Job", "Candidate").Create(app).Error)
}

// GetApplication returns the application with its job preloaded.
func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Preload("Job").First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	return affected(result)
}
