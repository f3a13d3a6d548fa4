package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const productColumns = `id, name, description, price, image, category, stock, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause translates a ProductFilter into a WHERE clause and its
// positional arguments. Text is matched as a literal substring with ILIKE.
func whereClause(f domain.ProductFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.HasText() {
		args = append(args, "%"+likeEscaper.Replace(f.Text)+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, "(name ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	if f.HasCategory() {
		args = append(args, f.Category)
		clauses = append(clauses, "category = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// findQuery builds the paged catalog query for f and window
func findQuery(f domain.ProductFilter, window domain.PageWindow) (string, []any) {
	where, args := whereClause(f)
	args = append(args, window.Skip, window.Limit)
	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id DESC" +
		" OFFSET $" + strconv.Itoa(len(args)-1) +
		" LIMIT $" + strconv.Itoa(len(args))
	return query, args
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Image,
		&p.Category,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// ProductRepository is a PostgreSQL implementation of domain.ProductRepository
type ProductRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a product repository over pool
func NewProductRepository(pool *pgxpool.Pool, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		pool:   pool,
		tracer: tracer,
		logger: logger,
	}
}

// Create inserts a product, assigning an ID when it has none
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("product.id", product.ID))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Category,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to insert product: %w", err))
	}

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

	product, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, spanError(span, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find product: %w", err))
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// Update overwrites every mutable field. created_at is never written.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, image = $5, category = $6, stock = $7, updated_at = $8
		 WHERE id = $1`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Category,
		product.Stock,
		product.UpdatedAt,
	)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to update product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return spanError(span, domain.ErrProductNotFound)
	}

	span.SetStatus(codes.Ok, "Product updated")
	return nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return spanError(span, fmt.Errorf("failed to delete product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return spanError(span, domain.ErrProductNotFound)
	}

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

	query, args := findQuery(filter, window)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find products: %w", err))
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, spanError(span, fmt.Errorf("failed to scan product: %w", err))
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to read products: %w", err))
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Count returns the number of matching products
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	where, args := whereClause(filter)
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&count); err != nil {
		return 0, spanError(span, fmt.Errorf("failed to count products: %w", err))
	}

	span.SetAttributes(attribute.Int("product.count", count))
	span.SetStatus(codes.Ok, "Products counted")
	return count, nil
}

// CountByCategory groups the whole catalog by category
func (r *ProductRepository) CountByCategory(ctx context.Context) ([]domain.CategoryFacet, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CountByCategory")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY category COLLATE "C"`)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to count categories: %w", err))
	}

	facets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryFacet, error) {
		var f domain.CategoryFacet
		err := row.Scan(&f.Name, &f.Count)
		return f, err
	})
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to read categories: %w", err))
	}

	span.SetAttributes(attribute.Int("category.count", len(facets)))
	span.SetStatus(codes.Ok, "Categories counted")
	return facets, nil
}
