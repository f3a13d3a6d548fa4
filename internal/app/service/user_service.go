package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, credential checks and account management
type UserService struct {
	repo           domain.UserRepository
	bcryptCost     int
	tracer         trace.Tracer
	logger         *slog.Logger
	userOperations metric.Int64Counter
}

// NewUserService creates a new user service. A bcryptCost outside the
// range accepted by bcrypt selects bcrypt.DefaultCost.
func NewUserService(
	repo domain.UserRepository,
	bcryptCost int,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	userOperations, _ := meter.Int64Counter(
		"users.operations",
		metric.WithDescription("Total number of user operations"),
	)

	return &UserService{
		repo:           repo,
		bcryptCost:     bcryptCost,
		tracer:         tracer,
		logger:         logger,
		userOperations: userOperations,
	}
}

// Register creates a user account with the default role
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	user, err := domain.NewUser(req.Name, req.Email, hash)
	if err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.fail(ctx, span, "register", storeError(err))
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.success(ctx, "register")

	s.logger.InfoContext(ctx, "User registered",
		slog.String("user_id", user.ID),
	)

	span.SetStatus(codes.Ok, "User registered")
	return dto.ToUserResponse(user), nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, "authenticate", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, s.fail(ctx, span, "authenticate", domain.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, s.fail(ctx, span, "authenticate", storeError(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, s.fail(ctx, span, "authenticate", domain.ErrInvalidCredentials)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.success(ctx, "authenticate")

	span.SetStatus(codes.Ok, "User authenticated")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUser")
	defer span.End()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", storeError(err))
	}

	span.SetStatus(codes.Ok, "User retrieved")
	return dto.ToUserResponse(user), nil
}

// UpdateProfile updates the name and email of a user, and the password when
// both the current and the new password are supplied
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, "update_profile", err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, span, "update_profile", storeError(err))
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, s.fail(ctx, span, "update_profile", domain.ErrIncorrectPassword)
		}
		hash, err := s.hash(req.NewPassword)
		if err != nil {
			return nil, s.fail(ctx, span, "update_profile", err)
		}
		user.PasswordHash = hash
	}

	user.Name = req.Name
	user.Email = domain.NormalizeEmail(req.Email)
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.fail(ctx, span, "update_profile", storeError(err))
	}

	s.success(ctx, "update_profile")

	s.logger.InfoContext(ctx, "User profile updated",
		slog.String("user_id", userID),
	)

	span.SetStatus(codes.Ok, "Profile updated")
	return dto.ToUserResponse(user), nil
}

// ListUsers retrieves all users, newest first
func (s *UserService) ListUsers(ctx context.Context) ([]*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ListUsers")
	defer span.End()

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", storeError(err))
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	s.success(ctx, "list")

	span.SetStatus(codes.Ok, "Users listed")
	return dto.ToUserResponseList(users), nil
}

// UpdateRole changes the role of a user
func (s *UserService) UpdateRole(ctx context.Context, req *dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateRole")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", req.ID),
		attribute.String("user.role", req.Role),
	)

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, s.fail(ctx, span, "update_role", err)
	}

	user, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, span, "update_role", storeError(err))
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.fail(ctx, span, "update_role", storeError(err))
	}

	s.success(ctx, "update_role")

	s.logger.InfoContext(ctx, "User role updated",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)),
	)

	span.SetStatus(codes.Ok, "Role updated")
	return dto.ToUserResponse(user), nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &dto.ValidationError{Fields: map[string]string{"password": "must be at most 72 bytes"}}
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	s.logger.WarnContext(ctx, "User operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.userOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "failure"),
		),
	)
	return err
}

func (s *UserService) success(ctx context.Context, operation string) {
	s.userOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "success"),
		),
	)
}
