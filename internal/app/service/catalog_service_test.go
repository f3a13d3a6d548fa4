package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(repo domain.ProductRepository) *CatalogService {
	return NewCatalogService(repo, 9, time.Second, testTracer, testMeter, testLogger)
}

func seedN(t *testing.T, repo domain.ProductRepository, n int, category string) []*domain.Product {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := make([]*domain.Product, n)
	for i := 0; i < n; i++ {
		products[i] = seedProduct(t, repo, fmt.Sprintf("Product %02d", i), "", category, base.Add(time.Duration(i)*time.Minute))
	}
	return products
}

func TestCatalogQueryPagination(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()
	seedN(t, repo, 10, "misc")
	catalog := newCatalog(repo)

	first, err := catalog.Query(ctx, &dto.CatalogRequest{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Products, 9)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 10, first.TotalItems)

	second, err := catalog.Query(ctx, &dto.CatalogRequest{Page: 2})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "Product 00", second.Products[0].Name)
	assert.Equal(t, 2, second.CurrentPage)
}

func TestCatalogQueryNormalizesPage(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo()
	seedN(t, repo, 3, "misc")
	catalog := newCatalog(repo)

	for _, page := range []int{0, -1, -100} {
		resp, err := catalog.Query(ctx, &dto.CatalogRequest{Page: page})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.CurrentPage)
		assert.Len(t, resp.Products, 3)
	}
}

func TestCatalogQueryPageBeyondLast(t *testing.T) {
	repo := newProductRepo()
	seedN(t, repo, 4, "misc")

	resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{Page: 7})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.NotNil(t, resp.Products)
	assert.Equal(t, 7, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 4, resp.TotalItems)
}

func TestCatalogQueryHugePage(t *testing.T) {
	repo := newProductRepo()
	seedN(t, repo, 3, "misc")

	resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{Page: 1024819115206086202})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.Equal(t, 1024819115206086202, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 3, resp.TotalItems)
}

func TestCatalogQueryEmptyCatalog(t *testing.T) {
	resp, err := newCatalog(newProductRepo()).Query(context.Background(), &dto.CatalogRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Equal(t, 0, resp.TotalPages)
	assert.Empty(t, resp.Products)
	assert.Empty(t, resp.Categories)
	assert.NotNil(t, resp.Categories)
}

func TestCatalogQueryOrdersNewestFirst(t *testing.T) {
	repo := newProductRepo()
	now := time.Now()
	seedProduct(t, repo, "t1", "", "c", now.Add(-2*time.Hour))
	seedProduct(t, repo, "t3", "", "c", now)
	seedProduct(t, repo, "t2", "", "c", now.Add(-time.Hour))

	resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{Page: 1})
	require.NoError(t, err)
	names := make([]string, len(resp.Products))
	for i, p := range resp.Products {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"t3", "t2", "t1"}, names)
}

func TestCatalogQueryTextFilter(t *testing.T) {
	repo := newProductRepo()
	now := time.Now()
	seedProduct(t, repo, "Red Shoe", "", "shoes", now)
	seedProduct(t, repo, "Sneaker", "Comes in RED", "shoes", now)
	seedProduct(t, repo, "Blue Hat", "", "hats", now)

	resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{Query: "red"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalItems)
	for _, p := range resp.Products {
		assert.NotEqual(t, "Blue Hat", p.Name)
	}
}

func TestCatalogQueryTextAndCategoryAreConjunctive(t *testing.T) {
	repo := newProductRepo()
	now := time.Now()
	seedProduct(t, repo, "Red Shoe", "", "shoes", now)
	seedProduct(t, repo, "Red Hat", "", "hats", now)

	resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{Query: "red", Category: "hats"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Red Hat", resp.Products[0].Name)
}

func TestCatalogQueryFacetsIgnoreFilters(t *testing.T) {
	repo := newProductRepo()
	seedN(t, repo, 3, "shoes")
	seedN(t, repo, 2, "hats")
	catalog := newCatalog(repo)

	resp, err := catalog.Query(context.Background(), &dto.CatalogRequest{Category: "hats"})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	for _, p := range resp.Products {
		assert.Equal(t, "hats", p.Category)
	}
	assert.Equal(t, []*dto.CategoryFacetResponse{
		{Name: "hats", Count: 2},
		{Name: "shoes", Count: 3},
	}, resp.Categories)

	filtered, err := catalog.Query(context.Background(), &dto.CatalogRequest{Query: "no such product", Page: 3})
	require.NoError(t, err)
	sum := 0
	for _, f := range filtered.Categories {
		sum += f.Count
	}
	assert.Equal(t, 5, sum)
}

func TestCatalogQueryIsIdempotent(t *testing.T) {
	repo := newProductRepo()
	seedN(t, repo, 12, "a")
	seedN(t, repo, 3, "b")
	catalog := newCatalog(repo)
	req := &dto.CatalogRequest{Query: "product", Page: 2}

	first, err := catalog.Query(context.Background(), req)
	require.NoError(t, err)
	second, err := catalog.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCatalogQueryStoreUnavailable(t *testing.T) {
	for _, op := range []string{"count", "find", "facets"} {
		t.Run(op, func(t *testing.T) {
			repo := &failingProductRepo{
				ProductRepository: newProductRepo(),
				failOn:            map[string]bool{op: true},
				err:               errConnRefused,
			}

			resp, err := newCatalog(repo).Query(context.Background(), &dto.CatalogRequest{})
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
			assert.ErrorIs(t, err, errConnRefused)
		})
	}
}

func TestCatalogQueryTimeout(t *testing.T) {
	repo := &blockingProductRepo{ProductRepository: newProductRepo()}
	catalog := NewCatalogService(repo, 9, 20*time.Millisecond, testTracer, testMeter, testLogger)

	start := time.Now()
	_, err := catalog.Query(context.Background(), &dto.CatalogRequest{})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewCatalogServiceDefaultsPageSize(t *testing.T) {
	catalog := NewCatalogService(newProductRepo(), 0, 0, testTracer, testMeter, testLogger)
	assert.Equal(t, domain.DefaultPageSize, catalog.PageSize())
}
