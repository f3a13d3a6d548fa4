package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(repo domain.ProductRepository) *ProductService {
	return NewProductService(repo, testTracer, testMeter, testLogger)
}

func TestProductServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newProductService(newProductRepo())

	created, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{
		Name:     "Red Shoe",
		Price:    59.5,
		Category: "shoes",
		Stock:    4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	price := 45.0
	updated, err := svc.UpdateProduct(ctx, created.ID, &dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.Price)
	assert.Equal(t, "Red Shoe", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProductByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), domain.ErrProductNotFound)
}

func TestProductServiceCreateValidation(t *testing.T) {
	svc := newProductService(newProductRepo())

	_, err := svc.CreateProduct(context.Background(), &dto.CreateProductRequest{Price: -2})
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "category")
	assert.Contains(t, verr.Fields, "price")
}

func TestProductServiceUpdateRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()
	p := seedProduct(t, repo, "Hat", "", "hats", time.Now())
	svc := newProductService(repo)

	blank := "  "
	_, err := svc.UpdateProduct(ctx, p.ID, &dto.UpdateProductRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidProductName)

	empty := ""
	_, err = svc.UpdateProduct(ctx, p.ID, &dto.UpdateProductRequest{Name: &empty})
	require.Error(t, err)
}

func TestProductServiceUpdateMissing(t *testing.T) {
	stock := 1
	_, err := newProductService(newProductRepo()).UpdateProduct(context.Background(), "nope", &dto.UpdateProductRequest{Stock: &stock})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductServiceStoreFailure(t *testing.T) {
	repo := &failingProductRepo{
		ProductRepository: newProductRepo(),
		failOn:            map[string]bool{"create": true},
		err:               errConnRefused,
	}

	_, err := newProductService(repo).CreateProduct(context.Background(), &dto.CreateProductRequest{Name: "x", Category: "c"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
