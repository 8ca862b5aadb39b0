// Package controller implements the business logic (service layer) of the
// job board: saving postings, posting and listing jobs, applying, reviewing
// applications, scheduling interviews and selecting a role. Services
// validate input, enforce ownership, call the repository and publish
// domain events.
package controller

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/gartstein/jobboard/internal/jobboard/models"
)

// EventProducer publishes domain events. Produce must not block.
type EventProducer interface {
	Produce(eventType events.EventType, key string, payload interface{})
}

// BlobStore stores uploaded files and returns their public URL.
type BlobStore interface {
	Upload(ctx context.Context, bucket, name string, r io.Reader) (string, error)
}

// Upload is a file received with a form.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

func requireRole(identity *models.Identity, role models.Role) error {
	if identity == nil {
		return fmt.Errorf("%w: no identity", e.ErrForbidden)
	}
	if identity.Role != role {
		return fmt.Errorf("%w: %s only", e.ErrForbidden, role)
	}
	return nil
}

func displayName(identity *models.Identity) string {
	if identity.Name != "" {
		return identity.Name
	}
	return strings.TrimSpace(identity.FirstName + " " + identity.LastName)
}

func extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}
