package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthChain(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour, "storefront")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	adminToken, _, err := tokens.Issue(&domain.User{ID: "a1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	userToken, _, err := tokens.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		_, _ = io.WriteString(w, p.UserID)
	})

	public := func(next http.Handler) http.Handler { return next }

	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		header string
		want   int
	}{
		{"user route anonymous", RequireUser, "", http.StatusUnauthorized},
		{"user route with user", RequireUser, "Bearer " + userToken, http.StatusOK},
		{"admin route anonymous", RequireAdmin, "", http.StatusUnauthorized},
		{"admin route with user", RequireAdmin, "Bearer " + userToken, http.StatusForbidden},
		{"admin route with admin", RequireAdmin, "bearer " + adminToken, http.StatusOK},
		{"garbage token", RequireUser, "Bearer nope", http.StatusUnauthorized},
		{"garbage token on admin route", RequireAdmin, "Bearer nope", http.StatusUnauthorized},
		{"garbage token on public route", public, "Bearer nope", http.StatusOK},
		{"wrong scheme", RequireUser, "Basic " + userToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticate(tokens, logger)(tt.guard(ok))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
