package mongodb

import (
	"context"
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

type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// ContactRepository is a MongoDB implementation of domain.ContactRepository
type ContactRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewContactRepository creates a contact repository over the contacts collection
func NewContactRepository(c *Client, tracer trace.Tracer, logger *slog.Logger) *ContactRepository {
	return &ContactRepository{
		coll:   c.db.Collection(contactsCollection),
		tracer: tracer,
		logger: logger,
	}
}

// Create stores a contact message
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	ctx, span := r.tracer.Start(ctx, "ContactRepository.Create")
	defer span.End()

	id := primitive.NewObjectID()
	_, err := r.coll.InsertOne(ctx, contactDocument{
		ID:        id,
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   contact.Subject,
		Message:   contact.Message,
		CreatedAt: contact.CreatedAt,
	})
	if err != nil {
		return spanError(span, fmt.Errorf("failed to insert contact: %w", err))
	}
	contact.ID = id.Hex()

	span.SetAttributes(attribute.String("contact.id", contact.ID))
	r.logger.InfoContext(ctx, "Contact created in repository",
		slog.String("contact_id", contact.ID),
	)

	span.SetStatus(codes.Ok, "Contact created")
	return nil
}

// FindAll retrieves all contact messages, newest first
func (r *ContactRepository) FindAll(ctx context.Context) ([]*domain.Contact, error) {
	ctx, span := r.tracer.Start(ctx, "ContactRepository.FindAll")
	defer span.End()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(catalogSort))
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find contacts: %w", err))
	}

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to decode contacts: %w", err))
	}

	contacts := make([]*domain.Contact, len(docs))
	for i, d := range docs {
		contacts[i] = &domain.Contact{
			ID:        d.ID.Hex(),
			Name:      d.Name,
			Email:     d.Email,
			Subject:   d.Subject,
			Message:   d.Message,
			CreatedAt: d.CreatedAt.UTC(),
		}
	}

	span.SetAttributes(attribute.Int("contact.count", len(contacts)))
	span.SetStatus(codes.Ok, "Contacts retrieved")
	return contacts, nil
}
