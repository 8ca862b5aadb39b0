package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common application statuses. Status is free-form; recruiters may set others.
const (
	StatusApplied   = "applied"
	StatusInterview = "Interview"
	StatusRejected  = "Rejected"
	StatusOffer     = "Offer"
)

// Application is a candidate's submission against a job. A candidate holds
// at most one application per job.
type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job" json:"job_id"`
	Job         *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	CandidateID string    `gorm:"not null;uniqueIndex:idx_application_candidate_job" json:"candidate_id"`
	Candidate   *Profile  `gorm:"foreignKey:CandidateID;references:UserID" json:"candidate,omitempty"`
	Name        string    `json:"name,omitempty"`
	Experience  int       `json:"experience"`
	Skills      string    `json:"skills"`
	Education   string    `json:"education"`
	// Resume is the public URL of the uploaded resume.
	Resume    string    `json:"resume"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
