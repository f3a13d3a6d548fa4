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

// ProductRepository is an in-memory implementation of domain.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product, assigning an ID when it has none
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return err
	}

	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = cloneProduct(product)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.String("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product found")
	return cloneProduct(product), nil
}

// Update replaces a stored product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.products[product.ID]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	updated := cloneProduct(product)
	updated.CreatedAt = existing.CreatedAt
	r.products[product.ID] = updated

	span.SetStatus(codes.Ok, "Product updated")
	return nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}
	delete(r.products, id)

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

// Find returns the matching products newest first, restricted to window
func (r *ProductRepository) Find(ctx context.Context, filter domain.ProductFilter, window domain.PageWindow) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Find")
	defer span.End()

	span.SetAttributes(
		attribute.String("filter.text", filter.Text),
		attribute.String("filter.category", filter.Category),
		attribute.Int("window.skip", window.Skip),
		attribute.Int("window.limit", window.Limit),
	)

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return nil, err
	}

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		return domain.NewestFirst(matched[i], matched[j])
	})

	products := []*domain.Product{}
	if window.Skip >= 0 && window.Skip < len(matched) {
		end := len(matched)
		if window.Limit > 0 && window.Limit < end-window.Skip {
			end = window.Skip + window.Limit
		}
		products = matched[window.Skip:end]
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Count returns the number of matching products
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return 0, err
	}

	count := len(r.match(filter))
	span.SetAttributes(attribute.Int("product.count", count))
	span.SetStatus(codes.Ok, "Products counted")
	return count, nil
}

// CountByCategory groups every stored product by category
func (r *ProductRepository) CountByCategory(ctx context.Context) ([]domain.CategoryFacet, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CountByCategory")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context done")
		return nil, err
	}

	r.mu.RLock()
	counts := make(map[string]int)
	for _, product := range r.products {
		counts[product.Category]++
	}
	r.mu.RUnlock()

	facets := make([]domain.CategoryFacet, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, domain.CategoryFacet{Name: name, Count: count})
	}
	domain.SortFacets(facets)

	span.SetAttributes(attribute.Int("category.count", len(facets)))
	span.SetStatus(codes.Ok, "Categories counted")
	return facets, nil
}

func (r *ProductRepository) match(filter domain.ProductFilter) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Matches(product) {
			matched = append(matched, cloneProduct(product))
		}
	}
	return matched
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}
