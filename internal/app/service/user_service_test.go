package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService() *UserService {
	return NewUserService(memory.NewUserRepository(testTracer, testLogger), bcrypt.MinCost, testTracer, testMeter, testLogger)
}

func register(t *testing.T, svc *UserService, email string) *dto.UserResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ann",
		Email:    email,
		Password: "correct horse",
	})
	require.NoError(t, err)
	return user
}

func TestUserServiceRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	user := register(t, svc, "Ann@Example.com")
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "user", user.Role)

	got, err := svc.Authenticate(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEqual(t, "correct horse", got.PasswordHash)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserServiceRegisterDuplicate(t *testing.T) {
	svc := newUserService()
	register(t, svc, "ann@example.com")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Name: "A", Email: "ANN@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserServiceRegisterValidation(t *testing.T) {
	_, err := newUserService().Register(context.Background(), &dto.RegisterRequest{Name: "A", Email: "a@b.io", Password: "short"})
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "password")
}

func TestUserServiceRegisterMultibytePassword(t *testing.T) {
	_, err := newUserService().Register(context.Background(), &dto.RegisterRequest{
		Name: "A", Email: "a@b.io", Password: strings.Repeat("ü", 72),
	})
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at most 72 bytes", verr.Fields["password"])
}

func TestUserServiceUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()
	user := register(t, svc, "ann@example.com")

	_, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		Name:            "Ann B",
		Email:           "ann@example.com",
		CurrentPassword: "not it",
		NewPassword:     "new password",
	})
	assert.ErrorIs(t, err, domain.ErrIncorrectPassword)

	updated, err := svc.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{
		Name:            "Ann B",
		Email:           "annb@example.com",
		CurrentPassword: "correct horse",
		NewPassword:     "new password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, "annb@example.com", updated.Email)

	_, err = svc.Authenticate(ctx, &dto.LoginRequest{Email: "annb@example.com", Password: "new password"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, "missing", &dto.UpdateProfileRequest{Name: "x", Email: "x@y.io"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserServiceRoles(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()
	user := register(t, svc, "ann@example.com")
	register(t, svc, "bob@example.com")

	promoted, err := svc.UpdateRole(ctx, &dto.UpdateRoleRequest{ID: user.ID, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", promoted.Role)

	_, err = svc.UpdateRole(ctx, &dto.UpdateRoleRequest{ID: user.ID, Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.UpdateRole(ctx, &dto.UpdateRoleRequest{ID: "missing", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
