package postgres

import (
	"context"
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

// ContactRepository is a PostgreSQL implementation of domain.ContactRepository
type ContactRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *slog.Logger
}

// NewContactRepository creates a contact repository over pool
func NewContactRepository(pool *pgxpool.Pool, tracer trace.Tracer, logger *slog.Logger) *ContactRepository {
	return &ContactRepository{
		pool:   pool,
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

	_, err := r.pool.Exec(ctx,
		`INSERT INTO contacts (id, name, email, subject, message, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		contact.ID, contact.Name, contact.Email, contact.Subject, contact.Message, contact.CreatedAt,
	)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to insert contact: %w", err))
	}

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

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, subject, message, created_at FROM contacts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find contacts: %w", err))
	}

	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Contact, error) {
		var c domain.Contact
		if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		return &c, nil
	})
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to read contacts: %w", err))
	}

	span.SetAttributes(attribute.Int("contact.count", len(contacts)))
	span.SetStatus(codes.Ok, "Contacts retrieved")
	return contacts, nil
}
