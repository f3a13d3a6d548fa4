package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "storefront")
	user := &domain.User{ID: "u1", Email: "ann@example.com", Role: domain.RoleAdmin}

	token, expiresAt, err := m.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	p, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "ann@example.com", p.Email)
	assert.True(t, p.IsAdmin())
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour, "storefront").Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour, "storefront").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, "storefront")
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := m.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour, "storefront").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), &Principal{UserID: "u1"})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
}
