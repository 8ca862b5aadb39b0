package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is an interview slot between a recruiter and an applicant.
type Appointment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID         uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	Job           *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	ApplicantID   string    `gorm:"not null;index" json:"applicant_id"`
	RecruiterID   string    `gorm:"not null;index" json:"recruiter_id"`
	ScheduledTime time.Time `gorm:"not null" json:"scheduled_time"`
	// Duration is in minutes.
	Duration  int       `json:"duration"`
	Status    string    `gorm:"not null" json:"status"`
	RoomID    string    `json:"room_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether userID is the applicant or the recruiter.
func (a *Appointment) HasParticipant(userID string) bool {
	return a.ApplicantID == userID || a.RecruiterID == userID
}
