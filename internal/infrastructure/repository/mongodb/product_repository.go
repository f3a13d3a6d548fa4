package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
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

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image"`
	Category    string             `bson:"category"`
	Stock       int                `bson:"stock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toProductDocument(p *domain.Product, id primitive.ObjectID) *productDocument {
	return &productDocument{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// filterDocument translates a ProductFilter into a query document. Text is
// matched as a literal, case-insensitive substring.
func filterDocument(f domain.ProductFilter) bson.D {
	filter := bson.D{}
	if f.HasText() {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
		}})
	}
	if f.HasCategory() {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	return filter
}

// catalogSort is newest first with the id as tie-breaker
var catalogSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// categoryPipeline groups the whole catalog by category
var categoryPipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$category"},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}},
	{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "name", Value: "$_id"},
		{Key: "count", Value: 1},
	}}},
	{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
}

// ProductRepository is a MongoDB implementation of domain.ProductRepository
type ProductRepository struct {
	coll   *mongo.Collection
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a product repository over the products collection
func NewProductRepository(c *Client, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		coll:   c.db.Collection(productsCollection),
		tracer: tracer,
		logger: logger,
	}
}

// Create inserts a product and assigns its ObjectID
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	id := primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, toProductDocument(product, id)); err != nil {
		return spanError(span, fmt.Errorf("failed to insert product: %w", err))
	}
	product.ID = id.Hex()

	span.SetAttributes(attribute.String("product.id", product.ID))
	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product. Malformed ids are reported as not found.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, spanError(span, domain.ErrProductNotFound)
	}

	var doc productDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, spanError(span, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find product: %w", err))
	}

	span.SetStatus(codes.Ok, "Product found")
	return doc.toDomain(), nil
}

// Update overwrites every mutable field. createdAt is never written.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID))

	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return spanError(span, domain.ErrProductNotFound)
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: product.Name},
		{Key: "description", Value: product.Description},
		{Key: "price", Value: product.Price},
		{Key: "image", Value: product.Image},
		{Key: "category", Value: product.Category},
		{Key: "stock", Value: product.Stock},
		{Key: "updatedAt", Value: product.UpdatedAt},
	}}})
	if err != nil {
		return spanError(span, fmt.Errorf("failed to update product: %w", err))
	}
	if res.MatchedCount == 0 {
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

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return spanError(span, domain.ErrProductNotFound)
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return spanError(span, fmt.Errorf("failed to delete product: %w", err))
	}
	if res.DeletedCount == 0 {
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

	opts := options.Find().
		SetSort(catalogSort).
		SetSkip(int64(window.Skip)).
		SetLimit(int64(window.Limit))

	cursor, err := r.coll.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to find products: %w", err))
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to decode products: %w", err))
	}

	products := make([]*domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Count returns the number of matching products
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	n, err := r.coll.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, spanError(span, fmt.Errorf("failed to count products: %w", err))
	}

	span.SetAttributes(attribute.Int64("product.count", n))
	span.SetStatus(codes.Ok, "Products counted")
	return int(n), nil
}

// CountByCategory aggregates the whole catalog by category
func (r *ProductRepository) CountByCategory(ctx context.Context) ([]domain.CategoryFacet, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CountByCategory")
	defer span.End()

	cursor, err := r.coll.Aggregate(ctx, categoryPipeline)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("failed to aggregate categories: %w", err))
	}

	var rows []struct {
		Name  string `bson:"name"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, spanError(span, fmt.Errorf("failed to decode categories: %w", err))
	}

	facets := make([]domain.CategoryFacet, len(rows))
	for i, row := range rows {
		facets[i] = domain.CategoryFacet{Name: row.Name, Count: row.Count}
	}

	span.SetAttributes(attribute.Int("category.count", len(facets)))
	span.SetStatus(codes.Ok, "Categories counted")
	return facets, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
