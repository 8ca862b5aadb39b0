package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedItem is a candidate's bookmark on a job or an internship. JobID holds
// either kind of posting id.
type SavedItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID string    `gorm:"not null;uniqueIndex:idx_saved_candidate_item" json:"candidate_id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_candidate_item" json:"job_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SavedItem) TableName() string {
	return "saved_jobs"
}

func (s *SavedItem) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SavedJob is a saved Job together with the time it was bookmarked.
type SavedJob struct {
	Job
	SavedDate time.Time `json:"savedDate"`
}

// SavedInternship is a saved Internship together with the time it was bookmarked.
type SavedInternship struct {
	Internship
	SavedDate time.Time `json:"savedDate"`
}
