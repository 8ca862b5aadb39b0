// Package notify turns job board events into candidate and recruiter
// notifications. Delivery is a structured log line per recipient.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/events"
	"go.uber.org/zap"
)

// Notification is one message for one user.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

type applicationPayload struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id"`
}

type applicationStatusPayload struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CandidateID   string `json:"candidate_id"`
	Status        string `json:"status"`
}

type appointmentPayload struct {
	ID            string    `json:"id"`
	JobID         string    `json:"job_id"`
	ApplicantID   string    `json:"applicant_id"`
	RecruiterID   string    `json:"recruiter_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Duration      int       `json:"duration"`
	Status        string    `json:"status"`
	RoomID        string    `json:"room_id"`
}

// Build returns the notifications for event. Events nobody is notified
// about yield none.
func Build(event events.Event) ([]Notification, error) {
	switch event.Type {
	case events.ApplicationSubmitted:
		var p applicationPayload
		if err := decode(event, &p); err != nil {
			return nil, err
		}
		return []Notification{{
			Recipient: p.CandidateID,
			Subject:   "Application received",
			Body:      fmt.Sprintf("Your application to job %s was submitted.", p.JobID),
		}}, nil

	case events.ApplicationStatusChanged:
		var p applicationStatusPayload
		if err := decode(event, &p); err != nil {
			return nil, err
		}
		return []Notification{{
			Recipient: p.CandidateID,
			Subject:   "Application status updated",
			Body:      fmt.Sprintf("Your application to job %s is now %q.", p.JobID, p.Status),
		}}, nil

	case events.AppointmentScheduled:
		var p appointmentPayload
		if err := decode(event, &p); err != nil {
			return nil, err
		}
		when := p.ScheduledTime.UTC().Format(time.RFC1123)
		return []Notification{
			{
				Recipient: p.ApplicantID,
				Subject:   "Interview scheduled",
				Body:      fmt.Sprintf("Your interview is on %s for %d minutes in room %s.", when, p.Duration, p.RoomID),
			},
			{
				Recipient: p.RecruiterID,
				Subject:   "Interview scheduled",
				Body:      fmt.Sprintf("Interview with %s on %s in room %s.", p.ApplicantID, when, p.RoomID),
			},
		}, nil

	case events.AppointmentStatusChanged:
		var p appointmentPayload
		if err := decode(event, &p); err != nil {
			return nil, err
		}
		body := fmt.Sprintf("The interview in room %s is now %s.", p.RoomID, p.Status)
		return []Notification{
			{Recipient: p.ApplicantID, Subject: "Interview updated", Body: body},
			{Recipient: p.RecruiterID, Subject: "Interview updated", Body: body},
		}, nil
	}
	return nil, nil
}

func decode(event events.Event, v interface{}) error {
	if err := json.Unmarshal(event.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}
	return nil
}

// Notifier delivers notifications built from consumed events.
type Notifier struct {
	logger *zap.Logger
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger.Named("notifier")}
}

// Handle is an events.Consumer handler.
func (n *Notifier) Handle(_ context.Context, event events.Event) error {
	notifications, err := Build(event)
	if err != nil {
		return err
	}
	for _, msg := range notifications {
		if msg.Recipient == "" {
			n.logger.Warn("Notification without recipient", zap.String("event_type", string(event.Type)), zap.String("key", event.Key))
			continue
		}
		n.logger.Info("Notification",
			zap.String("recipient", msg.Recipient),
			zap.String("subject", msg.Subject),
			zap.String("body", msg.Body),
			zap.String("event_type", string(event.Type)),
		)
	}
	return nil
}
