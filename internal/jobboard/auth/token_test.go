package auth

import (
	"testing"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	const validSecret = "test-secret"
	validToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user123",
		"aud": "jobboard",
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	})
	validTokenString, _ := validToken.SignedString([]byte(validSecret))

	tests := []struct {
		name        string
		tokenString string
		secret      string
		audience    string
		wantValid   bool
	}{
		{
			name:        "valid token",
			tokenString: validTokenString,
			secret:      validSecret,
			wantValid:   true,
		},
		{
			name:        "valid token with audience",
			tokenString: validTokenString,
			secret:      validSecret,
			audience:    "jobboard",
			wantValid:   true,
		},
		{
			name:        "wrong audience",
			tokenString: validTokenString,
			secret:      validSecret,
			audience:    "other",
			wantValid:   false,
		},
		{
			name:        "invalid signature",
			tokenString: validTokenString,
			secret:      "wrong-secret",
			wantValid:   false,
		},
		{
			name: "expired token",
			tokenString: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"exp": time.Now().Add(-1 * time.Hour).Unix(),
				})
				tokenString, _ := token.SignedString([]byte(validSecret))
				return tokenString
			}(),
			secret:    validSecret,
			wantValid: false,
		},
		{
			name:        "malformed token",
			tokenString: "invalid.token.string",
			secret:      validSecret,
			wantValid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := validateToken(tt.tokenString, tt.secret, tt.audience)

			if tt.wantValid {
				require.NoError(t, err)
				assert.Equal(t, "user123", claims["sub"])
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	identity := models.Identity{
		UserID:    "user_1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      models.RoleRecruiter,
	}
	token, err := GenerateToken(identity, "secret", "jobboard", time.Minute)
	require.NoError(t, err)

	got, err := NewVerifier("secret", "jobboard").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, *got)
}

func TestIdentityFromClaims(t *testing.T) {
	t.Run("role from metadata", func(t *testing.T) {
		identity, err := identityFromClaims(jwt.MapClaims{
			"sub":      "u1",
			"metadata": map[string]interface{}{"role": "candidate"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleCandidate, identity.Role)
	})

	t.Run("unknown role is dropped", func(t *testing.T) {
		identity, err := identityFromClaims(jwt.MapClaims{"sub": "u1", "role": "admin"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleNone, identity.Role)
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := identityFromClaims(jwt.MapClaims{"role": "candidate"})
		assert.Error(t, err)
	})
}
