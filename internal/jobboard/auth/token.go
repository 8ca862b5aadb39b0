package auth

import (
	"fmt"
	"time"

	"github.com/gartstein/jobboard/internal/jobboard/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken issues an HS256 session token for identity. The session
// provider does this in production; the mock provider and tests use it too.
func GenerateToken(identity models.Identity, secret, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity.UserID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if audience != "" {
		claims["aud"] = audience
	}
	optional := map[string]string{
		"name":       identity.Name,
		"email":      identity.Email,
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"role":       string(identity.Role),
	}
	for k, v := range optional {
		if v != "" {
			claims[k] = v
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verifier validates session tokens and turns their claims into identities.
type Verifier struct {
	secret   string
	audience string
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{secret: secret, audience: audience}
}

// Verify checks the signature, expiry and audience of tokenString.
func (v *Verifier) Verify(tokenString string) (*models.Identity, error) {
	claims, err := validateToken(tokenString, v.secret, v.audience)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(claims)
}

// validateToken checks the token signature and returns parsed claims if valid.
func validateToken(tokenString, secret, audience string) (jwt.MapClaims, error) {
	var opts []jwt.ParserOption
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func identityFromClaims(claims jwt.MapClaims) (*models.Identity, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("invalid token claims: missing subject")
	}
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}

	role := models.Role(str("role"))
	if role == models.RoleNone {
		// Role may also arrive inside the provider's metadata object.
		if meta, ok := claims["metadata"].(map[string]interface{}); ok {
			r, _ := meta["role"].(string)
			role = models.Role(r)
		}
	}
	if !role.Valid() {
		role = models.RoleNone
	}

	return &models.Identity{
		UserID:    sub,
		Name:      str("name"),
		Email:     str("email"),
		FirstName: str("first_name"),
		LastName:  str("last_name"),
		Role:      role,
	}, nil
}
