package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"go.uber.org/zap"
)

// RoleResolver looks up the role an identity selected during onboarding.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identity *models.Identity) (models.Role, error)
}

// resolveRole fills identity.Role from resolver when the token carried none.
func resolveRole(ctx context.Context, identity *models.Identity, resolver RoleResolver) error {
	if identity.Role != models.RoleNone || resolver == nil {
		return nil
	}
	role, err := resolver.ResolveRole(ctx, identity)
	if err != nil {
		return err
	}
	identity.Role = role
	return nil
}

// access is the level of authentication a request path requires.
type access int

const (
	accessPublic access = iota
	accessAuthenticated
	accessRole
)

const (
	signInRedirect     = "/?sign-in=true"
	onboardingRedirect = "/onboarding"
)

func accessFor(r *http.Request) access {
	path := r.URL.Path
	switch {
	case path == "/healthz",
		strings.HasPrefix(path, "/storage/"),
		path == "/v1/navigation":
		return accessPublic
	case strings.HasPrefix(path, "/v1/onboarding"):
		return accessAuthenticated
	case strings.HasPrefix(path, "/v1/"):
		return accessRole
	default:
		return accessPublic
	}
}

type errorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func writeError(w http.ResponseWriter, code int, msg, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, Redirect: redirect})
}

// HTTPMiddleware authenticates requests. Public paths get an identity when a
// valid token is present, without a role if the lookup fails; other paths reject anonymous callers with 401 and,
// outside onboarding, callers without a role with 403.
func HTTPMiddleware(next http.Handler, verifier *Verifier, resolver RoleResolver, logger *zap.Logger) http.Handler {
	logger = logger.Named("auth")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := accessFor(r)

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			if level == accessPublic {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusUnauthorized, err.Error(), signInRedirect)
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			if level == accessPublic {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid token", signInRedirect)
			return
		}

		if err := resolveRole(r.Context(), identity, resolver); err != nil {
			if level != accessPublic {
				logger.Error("Failed to resolve role", zap.Error(err), zap.String("user_id", identity.UserID))
				writeError(w, http.StatusInternalServerError, "internal server error", "")
				return
			}
			// public paths continue with no role
			logger.Warn("Failed to resolve role", zap.Error(err), zap.String("user_id", identity.UserID))
		}

		if level == accessRole && identity.Role == models.RoleNone {
			writeError(w, http.StatusForbidden, "role selection required", onboardingRedirect)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}
