// Package api implements the Folio REST API using chi.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/auth"
)

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// ClaimsFrom returns the verified claims stored by RequireAdmin.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RequireAdmin rejects requests without a valid admin bearer token.
// A missing token answers 401, a bad or expired one 403.
func RequireAdmin(v TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Verify(auth.BearerToken(r.Header.Get("Authorization")))
			if err != nil {
				logger.Debug("auth rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				writeError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}
