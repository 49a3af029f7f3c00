package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tubetrade/rfq-api/internal/config"
	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests.
// Two mechanisms are accepted: a shared x-api-key header for
// machine-to-machine callers, and an HS256 bearer token for portal sessions.
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       string
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AuthConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(cfg.SigningSecret),
		apiKey:       cfg.APIKey,
		logger:       logger,
	}
}

// Authenticate is the main authentication middleware
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Try API key first
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if m.validateAPIKey(apiKey) {
				ctx := WithCallerContext(r.Context(), &CallerContext{
					Subject:  "api-key",
					AuthType: "api_key",
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			m.logger.Warn("invalid API key attempt",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Fall back to bearer token
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		subject, err := m.jwtValidator.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			m.logger.Warn("bearer token rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := WithCallerContext(r.Context(), &CallerContext{
			Subject:  subject,
			AuthType: "bearer",
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) validateAPIKey(provided string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) == 1
}
