package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/product-services/internal/coerce"
	repo "github.com/rogerio-castellano/product-services/internal/repo"
)

const (
	errProductNotFound = "Product not found"
	errInvalidInput    = "invalid input"
)

// parseProductID reads the {id} path segment by its leading integer, so "2abc" is 2.
func parseProductID(r *http.Request) (int, bool) {
	v := coerce.Int(chi.URLParam(r, "id"))
	if math.IsNaN(v) || math.Abs(v) > 1<<53 {
		return 0, false
	}
	return int(v), true
}

// GetProductsHandler godoc
// @Summary List products
// @Description Filters by a case-insensitive name substring, then returns one page.
// @Tags products
// @Produce json
// @Param name query string false "Filter by name"
// @Param page query int false "Page number, 1-based" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{
		Name:  q.Get("name"),
		Page:  repo.DefaultPage,
		Limit: repo.DefaultLimit,
	}
	if q.Has("page") {
		filter.Page = q.Get("page")
	}
	if q.Has("limit") {
		filter.Limit = q.Get("limit")
	}

	products, err := productRepo.List(r.Context(), filter)
	if err != nil {
		log.Printf("failed to list products: %v", err)
		writeText(w, http.StatusInternalServerError, "could not fetch products")
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(r)
	if !ok {
		writeText(w, http.StatusNotFound, errProductNotFound)
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeText(w, http.StatusNotFound, errProductNotFound)
			return
		}
		log.Printf("failed to fetch product %d: %v", id, err)
		writeText(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	if err := writeJSON(w, http.StatusOK, toResponse(product)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description The id is one more than the last product's id, or 1 for an empty registry.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {string} string "Name and price are required; invalid input when price is not a JSON number"
// @Failure 500 {string} string "Internal error"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, errInvalidInput)
		return
	}

	if !validateProduct(req) {
		writeText(w, http.StatusBadRequest, errNameAndPriceRequired)
		return
	}

	created, err := productRepo.Create(r.Context(), *req.Name, *req.Price)
	if err != nil {
		log.Printf("failed to create product: %v", err)
		writeText(w, http.StatusInternalServerError, "could not create product")
		return
	}

	if err := writeJSON(w, http.StatusCreated, toResponse(created)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description A non-empty name replaces the current one; a price replaces the current one whenever sent, 0 included.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, errInvalidInput)
		return
	}

	id, ok := parseProductID(r)
	if !ok {
		writeText(w, http.StatusNotFound, errProductNotFound)
		return
	}

	updated, err := productRepo.Update(r.Context(), id, patchFromRequest(req))
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeText(w, http.StatusNotFound, errProductNotFound)
			return
		}
		log.Printf("failed to update product %d: %v", id, err)
		writeText(w, http.StatusInternalServerError, "could not update product")
		return
	}

	if err := writeJSON(w, http.StatusOK, toResponse(updated)); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProductID(r)
	if !ok {
		writeText(w, http.StatusNotFound, errProductNotFound)
		return
	}

	if err := productRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeText(w, http.StatusNotFound, errProductNotFound)
			return
		}
		log.Printf("failed to delete product %d: %v", id, err)
		writeText(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
