// Package storage is the object store for uploaded resumes and company
// logos. Objects live under a base directory, one sub-directory per bucket,
// and are exposed through public URLs of the form
// <base>/storage/v1/object/public/<bucket>/<name>.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BucketResumes      = "resumes"
	BucketCompanyLogos = "company-logos"

	publicPrefix = "/storage/v1/object/public/"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BlobStore writes objects to the local filesystem.
type BlobStore struct {
	root    string
	baseURL string
	buckets map[string]bool
	logger  *zap.Logger
}

// NewBlobStore creates the bucket directories under root.
func NewBlobStore(root, baseURL string, logger *zap.Logger) (*BlobStore, error) {
	s := &BlobStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		buckets: map[string]bool{BucketResumes: true, BucketCompanyLogos: true},
		logger:  logger.Named("blob_store"),
	}
	for bucket := range s.buckets {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return s, nil
}

// RandomName builds an object name with a random middle part, e.g.
// resume-3f2a9c1e-user_123.pdf.
func RandomName(prefix, owner, ext string) string {
	name := fmt.Sprintf("%s-%s-%s", prefix, uuid.NewString()[:8], owner)
	return sanitize(name + ext)
}

func sanitize(name string) string {
	return unsafeName.ReplaceAllString(name, "_")
}

func (s *BlobStore) path(bucket, name string) (string, error) {
	if !s.buckets[bucket] {
		return "", fmt.Errorf("%w: unknown bucket %q", e.ErrInvalidInput, bucket)
	}
	clean := sanitize(filepath.Base(name))
	if clean == "" || clean == "." || clean == ".." {
		return "", fmt.Errorf("%w: invalid object name", e.ErrInvalidInput)
	}
	return filepath.Join(s.root, bucket, clean), nil
}

// PublicURL returns the URL under which an object is served.
func (s *BlobStore) PublicURL(bucket, name string) string {
	return s.baseURL + publicPrefix + bucket + "/" + sanitize(name)
}

// Upload stores r as bucket/name and returns its public URL. Existing
// objects are not overwritten.
func (s *BlobStore) Upload(ctx context.Context, bucket, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := s.path(bucket, name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: object %s/%s", e.ErrDuplicate, bucket, name)
		}
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close object: %w", err)
	}

	s.logger.Debug("Object uploaded", zap.String("bucket", bucket), zap.String("name", filepath.Base(p)))
	return s.PublicURL(bucket, filepath.Base(p)), nil
}

// Open returns a reader for bucket/name; ErrNotFound when absent.
func (s *BlobStore) Open(bucket, name string) (*os.File, error) {
	p, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, e.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
