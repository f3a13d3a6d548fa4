package domain

import (
	"math"
	"sort"
	"strings"
)

// DefaultPageSize is the number of products returned per catalog page.
const DefaultPageSize = 9

// ProductFilter is a conjunction of optional clauses. An empty field places
// no constraint on the product.
type ProductFilter struct {
	// Text matches case-insensitively as a substring of the name or the description.
	Text string
	// Category matches exactly.
	Category string
}

// NewProductFilter builds a filter from raw request values.
func NewProductFilter(text, category string) ProductFilter {
	return ProductFilter{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}
}

// HasText reports whether the text clause is set.
func (f ProductFilter) HasText() bool {
	return f.Text != ""
}

// HasCategory reports whether the category clause is set.
func (f ProductFilter) HasCategory() bool {
	return f.Category != ""
}

// Matches evaluates the filter against a single product.
func (f ProductFilter) Matches(p *Product) bool {
	if f.HasCategory() && p.Category != f.Category {
		return false
	}
	if f.HasText() {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

// PageWindow is the (skip, limit) slice of an ordered result set.
type PageWindow struct {
	Skip  int
	Limit int
}

// NormalizePage coerces absent or non-positive page numbers to 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NewPageWindow returns the window for a 1-based page. Skip saturates at
// math.MaxInt, so pages too far out for an int offset land past the end.
func NewPageWindow(page, pageSize int) PageWindow {
	skip := NormalizePage(page) - 1
	if pageSize > 0 && skip > math.MaxInt/pageSize {
		skip = math.MaxInt
	} else {
		skip *= pageSize
	}
	return PageWindow{
		Skip:  skip,
		Limit: pageSize,
	}
}

// TotalPages is ceil(totalItems / pageSize), 0 for an empty result.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// CategoryFacet is the number of catalog products carrying a category.
type CategoryFacet struct {
	Name  string
	Count int
}

// SortFacets orders facets by name ascending.
func SortFacets(facets []CategoryFacet) {
	sort.Slice(facets, func(i, j int) bool {
		return facets[i].Name < facets[j].Name
	})
}

// NewestFirst reports whether a sorts before b in catalog order: creation
// time descending, ties broken by id descending.
func NewestFirst(a, b *Product) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// CatalogQuery is a catalog search request.
type CatalogQuery struct {
	Text     string
	Category string
	Page     int
}

// CatalogPage is one page of catalog results with category facets.
type CatalogPage struct {
	Items      []*Product
	Facets     []CategoryFacet
	Page       int
	TotalPages int
	TotalItems int
}
