package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pesokrava/review_moderation/internal/delivery/http/response"
	"github.com/Pesokrava/review_moderation/internal/pkg/auth"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

type contextKey string

const moderatorKey contextKey = "moderator"

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RequireModerator rejects requests without a valid moderator bearer token
func RequireModerator(validator TokenValidator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				response.Error(w, http.StatusUnauthorized, "Authentication credentials were not provided")
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				response.Error(w, http.StatusUnauthorized, "Authorization header must be: Bearer <token>")
				return
			}

			claims, err := validator.Validate(strings.TrimSpace(token))
			if err != nil {
				log.WithFields(map[string]any{
					"path":  r.URL.Path,
					"error": err.Error(),
				}).Debug("Rejected moderator token")
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), moderatorKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ModeratorFromContext returns the authenticated moderator's subject
func ModeratorFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(moderatorKey).(string)
	return subject, ok
}
