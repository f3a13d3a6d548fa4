package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutService prices a submitted cart against the current catalog.
// No order is persisted and no payment is taken.
type CheckoutService struct {
	products domain.ProductRepository
	tracer   trace.Tracer
	logger   *slog.Logger
	quotes   metric.Int64Counter
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	products domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CheckoutService {
	quotes, _ := meter.Int64Counter(
		"checkout.quotes",
		metric.WithDescription("Total number of checkout quotes"),
	)

	return &CheckoutService{
		products: products,
		tracer:   tracer,
		logger:   logger,
		quotes:   quotes,
	}
}

// Quote folds the submitted lines into a cart, reprices every line from the
// store and checks stock
func (s *CheckoutService) Quote(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Quote")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, err)
	}

	var requested domain.Cart
	for _, item := range req.Items {
		requested = requested.Add(domain.LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if requested.IsEmpty() {
		return nil, s.fail(ctx, span, domain.ErrEmptyCart)
	}

	var priced domain.Cart
	for _, line := range requested.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, s.fail(ctx, span, storeError(err))
		}
		if !product.InStock(line.Quantity) {
			return nil, s.fail(ctx, span, fmt.Errorf("%w: %s has %d left", domain.ErrInsufficientStock, product.Name, product.Stock))
		}
		priced = priced.Add(domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}

	resp := dto.ToCheckoutResponse(priced)

	span.SetAttributes(
		attribute.Int("checkout.lines", len(resp.Items)),
		attribute.Float64("checkout.total", resp.Total),
	)
	s.quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))

	s.logger.InfoContext(ctx, "Checkout quoted",
		slog.Int("lines", len(resp.Items)),
		slog.Float64("total", resp.Total),
	)

	span.SetStatus(codes.Ok, "Checkout quoted")
	return resp, nil
}

func (s *CheckoutService) fail(ctx context.Context, span trace.Span, err error) error {
	s.logger.WarnContext(ctx, "Checkout rejected",
		slog.String("error", err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, "Checkout rejected")
	s.quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "failure")))
	return err
}
