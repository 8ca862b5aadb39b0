// This is a **mock session provider**, issuing the role-bearing JWTs the
// job board expects from its identity provider.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/auth"
	"github.com/gartstein/jobboard/internal/jobboard/models"
	"go.uber.org/zap"
)

const (
	defaultPort   = "8081"
	defaultSecret = "dev-secret-change-me"
	tokenTTL      = 24 * time.Hour
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type tokenIssuer struct {
	secret   string
	audience string
	logger   *zap.Logger
}

// ServeHTTP issues a token for ?sub=&role=&name=&email=. role may be empty
// to simulate a user who has not finished onboarding.
func (t *tokenIssuer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	identity := models.Identity{
		UserID: q.Get("sub"),
		Name:   q.Get("name"),
		Email:  q.Get("email"),
		Role:   models.Role(q.Get("role")),
	}
	if identity.UserID == "" {
		identity.UserID = "user_12345"
	}
	if identity.Role != models.RoleNone && !identity.Role.Valid() {
		http.Error(w, "role must be candidate or recruiter", http.StatusBadRequest)
		return
	}

	token, err := auth.GenerateToken(identity, t.secret, t.audience, tokenTTL)
	if err != nil {
		t.logger.Error("Failed to generate token", zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TokenResponse{Token: token, ExpiresAt: time.Now().Add(tokenTTL)}); err != nil {
		t.logger.Error("Failed to encode token", zap.Error(err))
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	issuer := &tokenIssuer{
		secret:   getEnv("JOBBOARD_JWT_SECRET", defaultSecret),
		audience: os.Getenv("JOBBOARD_JWT_AUDIENCE"),
		logger:   logger.Named("auth_mock"),
	}
	port := getEnv("AUTH_PORT", defaultPort)

	mux := http.NewServeMux()
	mux.Handle("/token", issuer)

	logger.Info("Authentication service running", zap.String("port", port))
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
