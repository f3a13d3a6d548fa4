package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Image     string             `bson:"image,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Image:        d.Image,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// UserRepository is a MongoDB implementation of domain.UserRepository.
// Email uniqueness is enforced by a unique index.
type UserRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewUserRepository creates a user repository over the users collection
func NewUserRepository(c *Client, tracer trace.Tracer, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		coll:   c.db.Collection(usersCollection),
		tracer: tracer,
		logger: logger,
	}
}

// Create inserts a user and assigns its ObjectID
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	id := primitive.NewObjectID()
	_, err := r.coll.InsertOne(ctx, userDocument{
		ID:        id,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Image:     user.Image,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return spanError(span, domain.ErrEmailTaken)
	}
	if err != nil {
		return spanError(span, fmt.Errorf("failed to insert user: %w", err))
	}
	user.ID = id.Hex()

	span.SetAttributes(attribute.String("user.id", user.ID))
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

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, spanError(span, domain.ErrUserNotFound)
	}
	return r.findOne(ctx, span, bson.D{{Key: "_id", Value: oid}})
}

// FindByEmail retrieves a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	return r.findOne(ctx, span, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
}

func (r *UserRepository) findOne(ctx context.Context, span trace.Span, filter bson.D) (*domain.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, spanError(span, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find user: %w", err))
	}

	span.SetStatus(codes.Ok, "User found")
	return doc.toDomain(), nil
}

// Update overwrites the mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", user.ID))

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return spanError(span, domain.ErrUserNotFound)
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "password", Value: user.PasswordHash},
		{Key: "image", Value: user.Image},
		{Key: "role", Value: string(user.Role)},
		{Key: "updatedAt", Value: user.UpdatedAt},
	}}})
	if mongo.IsDuplicateKeyError(err) {
		return spanError(span, domain.ErrEmailTaken)
	}
	if err != nil {
		return spanError(span, fmt.Errorf("failed to update user: %w", err))
	}
	if res.MatchedCount == 0 {
		return spanError(span, domain.ErrUserNotFound)
	}

	span.SetStatus(codes.Ok, "User updated")
	return nil
}

// FindAll retrieves all users, newest first
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.FindAll")
	defer span.End()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(catalogSort))
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find users: %w", err))
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to decode users: %w", err))
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}

	span.SetAttributes(attribute.Int("user.count", len(users)))
	span.SetStatus(codes.Ok, "Users retrieved")
	return users, nil
}
