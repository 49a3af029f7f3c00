package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTValidator validates HS256-signed bearer tokens issued by the portal
// backend. Only the signature and standard time claims are checked; the
// token subject becomes the caller identity.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(signingSecret string) *JWTValidator {
	return &JWTValidator{secret: []byte(signingSecret)}
}

// Validate parses and verifies a token string, returning its subject
func (v *JWTValidator) Validate(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("no signing secret configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return subject, nil
}
