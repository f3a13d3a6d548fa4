package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mrops-br/storefront-api/internal/infrastructure/auth"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

var (
	errMissingToken = errors.New("authentication required")
	errForbidden    = errors.New("admin role required")
)

// Authenticate attaches the principal of a valid bearer token to the
// request context. Requests without a valid token pass through anonymously;
// RequireUser and RequireAdmin turn them away on protected routes.
func Authenticate(tokens *auth.TokenManager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := tokens.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "Ignoring invalid bearer token",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireUser rejects anonymous requests with 401
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			response.Error(w, http.StatusUnauthorized, errMissingToken.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, errMissingToken.Error())
			return
		}
		if !principal.IsAdmin() {
			response.Error(w, http.StatusForbidden, errForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
