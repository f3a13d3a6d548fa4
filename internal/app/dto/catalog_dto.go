package dto

import "github.com/mrops-br/storefront-api/internal/domain"

// CatalogRequest is the decoded query string of GET /products
type CatalogRequest struct {
	Query    string
	Category string
	Page     int
}

// CategoryFacetResponse is one entry of the category facet list
type CategoryFacetResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogResponse is one page of the product catalog
type CatalogResponse struct {
	Products    []*ProductResponse       `json:"products"`
	Categories  []*CategoryFacetResponse `json:"categories"`
	CurrentPage int                      `json:"currentPage"`
	TotalPages  int                      `json:"totalPages"`
	TotalItems  int                      `json:"totalItems"`
}

// ToCatalogResponse converts a domain CatalogPage to CatalogResponse
func ToCatalogResponse(page *domain.CatalogPage) *CatalogResponse {
	categories := make([]*CategoryFacetResponse, len(page.Facets))
	for i, f := range page.Facets {
		categories[i] = &CategoryFacetResponse{Name: f.Name, Count: f.Count}
	}

	return &CatalogResponse{
		Products:    ToProductResponseList(page.Items),
		Categories:  categories,
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
	}
}
