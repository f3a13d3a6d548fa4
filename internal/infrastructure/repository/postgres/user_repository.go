package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const userColumns = `id, name, email, password_hash, image, role, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// UserRepository is a PostgreSQL implementation of domain.UserRepository
type UserRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *slog.Logger
}

// NewUserRepository creates a user repository over pool
func NewUserRepository(pool *pgxpool.Pool, tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		pool:   pool,
		tracer: tracer,
		logger: logger,
	}
}

// Create inserts a user; a duplicate email yields domain.ErrEmailTaken
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Image, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return spanError(span, domain.ErrEmailTaken)
	}
	if err != nil {
		return spanError(span, fmt.Errorf("failed to insert user: %w", err))
	}

	r.logger.InfoContext(ctx, "User created in repository",
		slog.String("user_id", user.ID),
	)

	span.SetStatus(codes.Ok, "User created")
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	return r.findOne(ctx, span, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail retrieves a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	return r.findOne(ctx, span, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
}

func (r *UserRepository) findOne(ctx context.Context, span trace.Span, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, spanError(span, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find user: %w", err))
	}

	span.SetStatus(codes.Ok, "User found")
	return user, nil
}

// Update overwrites the mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", user.ID))

	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET name = $2, email = $3, password_hash = $4, image = $5, role = $6, updated_at = $7
		 WHERE id = $1`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Image, string(user.Role), user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return spanError(span, domain.ErrEmailTaken)
	}
	if err != nil {
		return spanError(span, fmt.Errorf("failed to update user: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return spanError(span, domain.ErrUserNotFound)
	}

	span.SetStatus(codes.Ok, "User updated")
	return nil
}

// FindAll retrieves all users, newest first
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindAll")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find users: %w", err))
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to read users: %w", err))
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	span.SetStatus(codes.Ok, "Users retrieved")
	return users, nil
}
