// Package models defines the domain models of the job board: postings
// (jobs and internships), companies, applications, saved items,
// interview appointments and user profiles. The types carry gorm tags
// and are persisted as-is by the db package.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is a posting owned by a recruiter.
type Job struct {
	// ID is the unique identifier for the job.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Title is the display title, matched by free-text search.
	Title string `gorm:"not null" json:"title"`
	// Description is the markdown body of the posting.
	Description string `gorm:"type:text" json:"description"`
	// Location is matched by substring search.
	Location string `json:"location"`
	// Requirements is optional free text.
	Requirements string `gorm:"type:text" json:"requirements,omitempty"`
	// Salary and Type are display-only.
	Salary string `json:"salary,omitempty"`
	Type   string `json:"type,omitempty"`
	// CompanyID references the hiring company.
	CompanyID uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	// RecruiterID is the identity that owns the posting.
	RecruiterID string `gorm:"index;not null" json:"recruiter_id"`
	// IsOpen is the hiring-status flag.
	IsOpen bool `gorm:"column:is_open" json:"isOpen"`
	// Applications is only populated on single-job reads.
	Applications []Application `gorm:"foreignKey:JobID" json:"applications,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// Internship has the same shape as Job but lives in its own table.
type Internship struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Location     string    `json:"location"`
	Requirements string    `gorm:"type:text" json:"requirements,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Type         string    `json:"type,omitempty"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Company      *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	RecruiterID  string    `gorm:"index;not null" json:"recruiter_id"`
	IsOpen       bool      `gorm:"column:is_open" json:"isOpen"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i *Internship) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// JobListing is a Job as seen by one caller, with that caller's bookmark state.
type JobListing struct {
	Job
	Saved bool `json:"saved"`
}

// InternshipListing is the Internship counterpart of JobListing.
type InternshipListing struct {
	Internship
	Saved bool `json:"saved"`
}

// JobFilter narrows listing reads. Empty fields do not filter.
type JobFilter struct {
	// TextMatch is a case-insensitive substring of the title.
	TextMatch string
	// LocationMatch is a case-insensitive substring of the location.
	LocationMatch string
	// CompanyID restricts results to one company.
	CompanyID *uuid.UUID
}
