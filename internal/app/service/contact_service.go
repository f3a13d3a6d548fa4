package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ContactService stores contact form submissions
type ContactService struct {
	repo      domain.ContactRepository
	tracer    trace.Tracer
	logger    *slog.Logger
	submitted metric.Int64Counter
}

// NewContactService creates a new contact service
func NewContactService(
	repo domain.ContactRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ContactService {
	submitted, _ := meter.Int64Counter(
		"contacts.submitted.total",
		metric.WithDescription("Total number of contact form submissions"),
	)

	return &ContactService{
		repo:      repo,
		tracer:    tracer,
		logger:    logger,
		submitted: submitted,
	}
}

// Submit validates and stores a contact message
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) (*dto.ContactSubmittedResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ContactService.Submit")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	contact := domain.NewContact(req.Name, req.Email, req.Subject, req.Message)
	if err := s.repo.Create(ctx, contact); err != nil {
		err = storeError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store contact")
		s.logger.ErrorContext(ctx, "Failed to store contact",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("contact.id", contact.ID))
	s.submitted.Add(ctx, 1)

	s.logger.InfoContext(ctx, "Contact form submitted",
		slog.String("contact_id", contact.ID),
		slog.String("subject", contact.Subject),
	)

	span.SetStatus(codes.Ok, "Contact stored")
	return &dto.ContactSubmittedResponse{
		Message: "Contact form submitted successfully",
		Contact: dto.ToContactResponse(contact),
	}, nil
}

// ListContacts retrieves all contact messages, newest first
func (s *ContactService) ListContacts(ctx context.Context) ([]*dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ContactService.ListContacts")
	defer span.End()

	contacts, err := s.repo.FindAll(ctx)
	if err != nil {
		err = storeError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list contacts")
		s.logger.ErrorContext(ctx, "Failed to list contacts",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("contact.count", len(contacts)))
	span.SetStatus(codes.Ok, "Contacts listed")
	return dto.ToContactResponseList(contacts), nil
}
