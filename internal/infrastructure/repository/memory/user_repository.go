package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// UserRepository is an in-memory implementation of domain.UserRepository
type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository(tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
		tracer:  tracer,
		logger:  logger,
	}
}

// Create stores a new user; emails are unique
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		span.RecordError(domain.ErrEmailTaken)
		span.SetStatus(codes.Error, "Email taken")
		return domain.ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	c := *user
	r.users[user.ID] = &c
	r.byEmail[user.Email] = user.ID

	r.logger.InfoContext(ctx, "User created in repository",
		slog.String("user_id", user.ID),
	)

	span.SetStatus(codes.Ok, "User created")
	return nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		span.SetStatus(codes.Error, "User not found")
		return nil, domain.ErrUserNotFound
	}
	c := *user
	span.SetStatus(codes.Ok, "User found")
	return &c, nil
}

// FindByEmail retrieves a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[domain.NormalizeEmail(email)]
	if !exists {
		span.SetStatus(codes.Error, "User not found")
		return nil, domain.ErrUserNotFound
	}
	c := *r.users[id]
	span.SetStatus(codes.Ok, "User found")
	return &c, nil
}

// Update replaces a stored user, keeping the email index consistent
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", user.ID))

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[user.ID]
	if !exists {
		span.SetStatus(codes.Error, "User not found")
		return domain.ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		span.SetStatus(codes.Error, "Email taken")
		return domain.ErrEmailTaken
	}

	delete(r.byEmail, existing.Email)
	c := *user
	r.users[user.ID] = &c
	r.byEmail[user.Email] = user.ID

	r.logger.InfoContext(ctx, "User updated in repository",
		slog.String("user_id", user.ID),
	)

	span.SetStatus(codes.Ok, "User updated")
	return nil
}

// FindAll retrieves all users, newest first
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	_, span := r.tracer.Start(ctx, "UserRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		c := *user
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})

	span.SetAttributes(attribute.Int("user.count", len(users)))
	span.SetStatus(codes.Ok, "Users retrieved")
	return users, nil
}
