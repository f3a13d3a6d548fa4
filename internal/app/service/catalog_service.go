package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// CatalogService answers paginated, filtered and faceted catalog queries
type CatalogService struct {
	repo          domain.ProductRepository
	pageSize      int
	timeout       time.Duration
	tracer        trace.Tracer
	logger        *slog.Logger
	queries       metric.Int64Counter
	queryDuration metric.Float64Histogram
}

// NewCatalogService creates a new catalog service. A pageSize below one
// selects domain.DefaultPageSize; a non-positive timeout disables the
// store deadline.
func NewCatalogService(
	repo domain.ProductRepository,
	pageSize int,
	timeout time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	queries, _ := meter.Int64Counter(
		"catalog.queries",
		metric.WithDescription("Total number of catalog queries"),
	)

	queryDuration, _ := meter.Float64Histogram(
		"catalog.query.duration",
		metric.WithDescription("Catalog query duration"),
		metric.WithUnit("ms"),
	)

	return &CatalogService{
		repo:          repo,
		pageSize:      pageSize,
		timeout:       timeout,
		tracer:        tracer,
		logger:        logger,
		queries:       queries,
		queryDuration: queryDuration,
	}
}

// PageSize returns the fixed number of products per page
func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// Query runs a catalog search. Count, page fetch and facet aggregation are
// issued concurrently and all three must succeed.
func (s *CatalogService) Query(ctx context.Context, req *dto.CatalogRequest) (*dto.CatalogResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Query")
	defer span.End()

	start := time.Now()
	filter := domain.NewProductFilter(req.Query, req.Category)
	page := domain.NormalizePage(req.Page)
	window := domain.NewPageWindow(page, s.pageSize)

	span.SetAttributes(
		attribute.String("catalog.text", filter.Text),
		attribute.String("catalog.category", filter.Category),
		attribute.Int("catalog.page", page),
	)

	s.logger.InfoContext(ctx, "Querying catalog",
		slog.String("text", filter.Text),
		slog.String("category", filter.Category),
		slog.Int("page", page),
	)

	result, err := s.fetch(ctx, filter, window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog query failed")
		s.logger.ErrorContext(ctx, "Failed to query catalog",
			slog.String("error", err.Error()),
		)
		s.record(ctx, start, "failure")
		return nil, err
	}
	result.Page = page
	result.TotalPages = domain.TotalPages(result.TotalItems, s.pageSize)

	span.SetAttributes(
		attribute.Int("catalog.total_items", result.TotalItems),
		attribute.Int("catalog.returned", len(result.Items)),
	)

	s.logger.InfoContext(ctx, "Catalog queried successfully",
		slog.Int("total_items", result.TotalItems),
		slog.Int("returned", len(result.Items)),
	)

	s.record(ctx, start, "success")
	span.SetStatus(codes.Ok, "Catalog queried successfully")
	return dto.ToCatalogResponse(result), nil
}

func (s *CatalogService) fetch(ctx context.Context, filter domain.ProductFilter, window domain.PageWindow) (*domain.CatalogPage, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		total  int
		items  []*domain.Product
		facets []domain.CategoryFacet
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("%w: count products: %w", domain.ErrStoreUnavailable, err)
		}
		total = n
		return nil
	})

	g.Go(func() error {
		products, err := s.repo.Find(gctx, filter, window)
		if err != nil {
			return fmt.Errorf("%w: find products: %w", domain.ErrStoreUnavailable, err)
		}
		items = products
		return nil
	})

	// Facets always cover the whole catalog, regardless of filter.
	g.Go(func() error {
		counts, err := s.repo.CountByCategory(gctx)
		if err != nil {
			return fmt.Errorf("%w: count categories: %w", domain.ErrStoreUnavailable, err)
		}
		facets = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Product{}
	}
	if facets == nil {
		facets = []domain.CategoryFacet{}
	}
	domain.SortFacets(facets)

	return &domain.CatalogPage{
		Items:      items,
		Facets:     facets,
		TotalItems: total,
	}, nil
}

func (s *CatalogService) record(ctx context.Context, start time.Time, result string) {
	attrs := metric.WithAttributes(attribute.String("result", result))
	s.queries.Add(ctx, 1, attrs)
	s.queryDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}
