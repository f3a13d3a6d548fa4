package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, catalog *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		catalog: catalog,
		logger:  logger,
	}
}

// ListProducts handles GET /products?q=&category=&page=
// A missing or malformed page is treated as page 1.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pageParam(query.Get("page"))

	result, err := h.catalog.Query(r.Context(), &dto.CatalogRequest{
		Query:    query.Get("q"),
		Category: query.Get("category"),
		Page:     page,
	})
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching products")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error creating product")
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err, "Error fetching product")
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, r, h.logger, err, "Error updating product")
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err, "Error deleting product")
		return
	}

	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

// pageParam reads the leading integer of s, so "2.5" and "3abc" give 2 and 3.
// No digits yields 0; out-of-range values saturate.
func pageParam(s string) int {
	s = strings.TrimSpace(s)
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(sign + s[:end])
	if errors.Is(err, strconv.ErrRange) {
		if sign == "-" {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}
