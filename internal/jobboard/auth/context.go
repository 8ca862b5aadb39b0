package auth

import (
	"context"

	"github.com/gartstein/jobboard/internal/jobboard/models"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// WithIdentity stores identity in ctx.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, userContextKey, identity)
}

// IdentityFromContext returns the caller, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(userContextKey).(*models.Identity)
	return identity
}
