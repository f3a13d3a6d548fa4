package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.Float64("product.price", req.Price),
		attribute.String("product.category", req.Category),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.Float64("price", req.Price),
	)

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, "create", "Validation failed", err)
	}

	product, err := domain.NewProduct(req.Name, req.Description, req.Price, req.Image, req.Category, req.Stock)
	if err != nil {
		return nil, s.fail(ctx, span, "create", "Validation failed", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "create", "Failed to store product", storeError(err))
	}

	span.SetAttributes(attribute.String("product.id", product.ID))

	// Record metrics
	s.productCreatedCounter.Add(ctx, 1)
	s.success(ctx, "create")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.logger.InfoContext(ctx, "Getting product by ID",
		slog.String("product_id", id),
	)

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", "Failed to get product", storeError(err))
	}

	s.success(ctx, "read")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// UpdateProduct applies a partial update to a product
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.logger.InfoContext(ctx, "Updating product",
		slog.String("product_id", id),
	)

	if err := dto.Validate(req); err != nil {
		return nil, s.fail(ctx, span, "update", "Validation failed", err)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", "Failed to get product", storeError(err))
	}

	req.Apply(product)
	product.UpdatedAt = time.Now().UTC()
	if err := product.Validate(); err != nil {
		return nil, s.fail(ctx, span, "update", "Validation failed", err)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "update", "Failed to store product", storeError(err))
	}

	s.success(ctx, "update")

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", "Failed to delete product", storeError(err))
	}

	s.success(ctx, "delete")

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation, status string, err error) error {
	result := "failure"
	if errors.Is(err, domain.ErrProductNotFound) {
		result = "not_found"
		s.logger.WarnContext(ctx, "Product not found", slog.String("operation", operation))
	} else {
		s.logger.ErrorContext(ctx, status,
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
	return err
}

func (s *ProductService) success(ctx context.Context, operation string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "success"),
		),
	)
}
