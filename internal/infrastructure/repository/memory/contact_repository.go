package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ContactRepository is an in-memory implementation of domain.ContactRepository.
// Messages are kept in insertion order.
type ContactRepository struct {
	mu       sync.RWMutex
	contacts []*domain.Contact
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewContactRepository creates a new in-memory contact repository
func NewContactRepository(tracer trace.Tracer, logger *slog.Logger) *ContactRepository {
	return &ContactRepository{
		tracer: tracer,
		logger: logger,
	}
}

// Create stores a contact message
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	ctx, span := r.tracer.Start(ctx, "ContactRepository.Create")
	defer span.End()

	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("contact.id", contact.ID))

	r.mu.Lock()
	c := *contact
	r.contacts = append(r.contacts, &c)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Contact created in repository",
		slog.String("contact_id", contact.ID),
	)

	span.SetStatus(codes.Ok, "Contact created")
	return nil
}

// FindAll retrieves all contact messages, newest first
func (r *ContactRepository) FindAll(ctx context.Context) ([]*domain.Contact, error) {
	_, span := r.tracer.Start(ctx, "ContactRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	contacts := make([]*domain.Contact, 0, len(r.contacts))
	for i := len(r.contacts) - 1; i >= 0; i-- {
		c := *r.contacts[i]
		contacts = append(contacts, &c)
	}

	span.SetAttributes(attribute.Int("contact.count", len(contacts)))
	span.SetStatus(codes.Ok, "Contacts retrieved")
	return contacts, nil
}
