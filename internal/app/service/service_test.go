package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var (
	testTracer = tracenoop.NewTracerProvider().Tracer("test")
	testMeter  = metricnoop.NewMeterProvider().Meter("test")
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var errConnRefused = errors.New("dial tcp: connection refused")

func newProductRepo() *memory.ProductRepository {
	return memory.NewProductRepository(testTracer, testLogger)
}

func seedProduct(t *testing.T, repo domain.ProductRepository, name, description, category string, createdAt time.Time) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       10,
		Stock:       5,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// failingProductRepo fails the operations named in failOn and delegates the rest.
type failingProductRepo struct {
	domain.ProductRepository
	failOn map[string]bool
	err    error
}

func (r *failingProductRepo) Count(ctx context.Context, f domain.ProductFilter) (int, error) {
	if r.failOn["count"] {
		return 0, r.err
	}
	return r.ProductRepository.Count(ctx, f)
}

func (r *failingProductRepo) Find(ctx context.Context, f domain.ProductFilter, w domain.PageWindow) ([]*domain.Product, error) {
	if r.failOn["find"] {
		return nil, r.err
	}
	return r.ProductRepository.Find(ctx, f, w)
}

func (r *failingProductRepo) CountByCategory(ctx context.Context) ([]domain.CategoryFacet, error) {
	if r.failOn["facets"] {
		return nil, r.err
	}
	return r.ProductRepository.CountByCategory(ctx)
}

func (r *failingProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if r.failOn["create"] {
		return r.err
	}
	return r.ProductRepository.Create(ctx, p)
}

// blockingProductRepo blocks every catalog read until ctx is done.
type blockingProductRepo struct {
	domain.ProductRepository
}

func (r *blockingProductRepo) Count(ctx context.Context, _ domain.ProductFilter) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func (r *blockingProductRepo) Find(ctx context.Context, _ domain.ProductFilter, _ domain.PageWindow) ([]*domain.Product, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (r *blockingProductRepo) CountByCategory(ctx context.Context) ([]domain.CategoryFacet, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
