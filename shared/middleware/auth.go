package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/shared/auth"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
)

type contextKey struct{}

var userIDKey = contextKey{}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// WithUserID stores the authenticated user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id stored by the JWT middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// NewJWTMiddleware rejects requests without a valid bearer token.
// A missing token yields 401, a token that fails verification yields 403.
func NewJWTMiddleware(verifier TokenVerifier, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if ok {
					utilities.WriteError(w, http.StatusUnauthorized, "Access denied")
					return
				}
				utilities.WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				utilities.WriteError(w, http.StatusForbidden, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID())))
		})
	}
}

// extractBearerToken returns the token from an Authorization header value.
// ok is false when a header is present but uses a scheme other than Bearer.
func extractBearerToken(header string) (token string, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", true
	}

	parts := strings.SplitN(header, " ", 2)
	if !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	if len(parts) < 2 {
		return "", true
	}

	return strings.TrimSpace(parts[1]), true
}
