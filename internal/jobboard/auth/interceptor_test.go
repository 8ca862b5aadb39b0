package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const saveMethod = "/jobboard.v1.SavedItemService/SaveItem"

type staticResolver struct {
	role  models.Role
	err   error
	calls int
}

func (s *staticResolver) ResolveRole(_ context.Context, _ *models.Identity) (models.Role, error) {
	s.calls++
	return s.role, s.err
}

func TestAuthInterceptor(t *testing.T) {
	const (
		validSecret   = "test-secret"
		invalidSecret = "wrong-secret"
		userID        = "test-user"
	)

	// Helper to generate test tokens
	generateToken := func(secret string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  userID,
			"role": "candidate",
			"exp":  expiresAt.Unix(),
		})
		tokenString, _ := token.SignedString([]byte(secret))
		return tokenString
	}

	tests := []struct {
		name        string
		fullMethod  string
		token       string
		wantError   bool
		expectedErr codes.Code
	}{
		{
			name:        "protected method valid token",
			fullMethod:  saveMethod,
			token:       generateToken(validSecret, time.Now().Add(1*time.Hour)),
			wantError:   false,
			expectedErr: codes.OK,
		},
		{
			name:        "protected method invalid token",
			fullMethod:  saveMethod,
			token:       generateToken(invalidSecret, time.Now().Add(1*time.Hour)),
			wantError:   true,
			expectedErr: codes.Unauthenticated,
		},
		{
			name:        "protected method expired token",
			fullMethod:  saveMethod,
			token:       generateToken(validSecret, time.Now().Add(-1*time.Hour)),
			wantError:   true,
			expectedErr: codes.Unauthenticated,
		},
		{
			name:        "protected method missing metadata",
			fullMethod:  saveMethod,
			wantError:   true,
			expectedErr: codes.Unauthenticated,
		},
		{
			name:        "unprotected method no token",
			fullMethod:  "/grpc.health.v1.Health/Check",
			wantError:   false,
			expectedErr: codes.OK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := NewAuthInterceptor(NewVerifier(validSecret, ""), nil)
			unaryInterceptor := interceptor.Unary()

			// Create context with metadata if token is provided
			ctx := context.Background()
			if tt.token != "" {
				md := metadata.Pairs("authorization", "Bearer "+tt.token)
				ctx = metadata.NewIncomingContext(ctx, md)
			}

			// Mock handler that checks for the identity in context
			handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
				if tt.fullMethod == saveMethod {
					identity := IdentityFromContext(ctx)
					if identity == nil || identity.UserID != userID || identity.Role != models.RoleCandidate {
						return nil, status.Error(codes.Unauthenticated, "identity not in context")
					}
				}
				return "response", nil
			}

			info := &grpc.UnaryServerInfo{FullMethod: tt.fullMethod}
			resp, err := unaryInterceptor(ctx, nil, info, handler)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if status.Code(err) != tt.expectedErr {
					t.Errorf("expected error code %v, got %v", tt.expectedErr, status.Code(err))
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if resp != "response" {
					t.Error("handler response mismatch")
				}
			}
		})
	}
}

func TestAuthInterceptorResolvesMissingRole(t *testing.T) {
	const secret = "test-secret"
	token, err := GenerateToken(models.Identity{UserID: "u1"}, secret, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	info := &grpc.UnaryServerInfo{FullMethod: saveMethod}

	resolver := &staticResolver{role: models.RoleCandidate}
	var got *models.Identity
	_, err = NewAuthInterceptor(NewVerifier(secret, ""), resolver).Unary()(ctx, nil, info,
		func(ctx context.Context, _ interface{}) (interface{}, error) {
			got = IdentityFromContext(ctx)
			return nil, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Role != models.RoleCandidate {
		t.Fatalf("expected resolved candidate role, got %+v", got)
	}
	if resolver.calls != 1 {
		t.Errorf("expected one resolver call, got %d", resolver.calls)
	}

	failing := &staticResolver{err: errors.New("db down")}
	_, err = NewAuthInterceptor(NewVerifier(secret, ""), failing).Unary()(ctx, nil, info,
		func(context.Context, interface{}) (interface{}, error) { return nil, nil })
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", status.Code(err))
	}
}

func TestExtractTokenFromMetadata(t *testing.T) {
	tests := []struct {
		name        string
		metadata    metadata.MD
		wantToken   string
		wantErrCode codes.Code
	}{
		{
			name:        "valid authorization header",
			metadata:    metadata.Pairs("authorization", "Bearer valid-token"),
			wantToken:   "valid-token",
			wantErrCode: codes.OK,
		},
		{
			name:        "missing authorization header",
			metadata:    metadata.MD{},
			wantErrCode: codes.Unauthenticated,
		},
		{
			name:        "malformed authorization header",
			metadata:    metadata.Pairs("authorization", "InvalidPrefix valid-token"),
			wantErrCode: codes.Unauthenticated,
		},
		{
			name:        "empty bearer token",
			metadata:    metadata.Pairs("authorization", "Bearer "),
			wantErrCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := extractTokenFromMetadata(tt.metadata)

			if tt.wantErrCode != codes.OK {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if status.Code(err) != tt.wantErrCode {
					t.Errorf("expected error code %v, got %v", tt.wantErrCode, status.Code(err))
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token)
			}
		})
	}
}

func TestNewAuthInterceptor(t *testing.T) {
	verifier := NewVerifier("test-secret", "")
	interceptor := NewAuthInterceptor(verifier, nil)

	if interceptor.verifier != verifier {
		t.Error("verifier not stored")
	}

	protectedMethods := []string{
		"/jobboard.v1.SavedItemService/SaveItem",
		"/jobboard.v1.SavedItemService/UnsaveItem",
		"/jobboard.v1.SavedItemService/ToggleItem",
	}

	for _, method := range protectedMethods {
		if !interceptor.protectedMethods[method] {
			t.Errorf("missing protected method: %s", method)
		}
	}
}
