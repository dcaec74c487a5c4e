package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/service"
)

// CatalogService is the inventory cache the product routes read from.
type CatalogService interface {
	service.ProductSource
	Reload(ctx context.Context) error
}

// ProductsHandler serves the cached inventory and the item matcher.
type ProductsHandler struct {
	catalog CatalogService
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(catalog CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// ListProducts handles GET /api/products requests.
//
// @Summary      List inventory
// @Description  Returns the cached inventory in API order. ready is false until the initial load attempt has finished; a failed load yields ready=true with an empty list.
// @Tags         Products
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CatalogResponse} "Cached inventory"
// @Router       /api/products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(dto.CatalogResponse{
		Ready:    h.catalog.Ready(),
		Products: h.catalog.Products(),
	})
}

// SearchProducts handles GET /api/products/search requests.
//
// @Summary      Suggest products
// @Description  Diacritic- and case-insensitive fuzzy search over the cached inventory. Lower scores are closer matches.
// @Tags         Products
// @Produce      json
// @Param        q     query string true  "Search text"
// @Param        limit query int    false "Maximum suggestions (default 5)"
// @Success      200 {object} dto.SuccessResponse{data=[]dto.SearchResult} "Suggestions"
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Router       /api/products/search [get]
func (h *ProductsHandler) SearchProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := service.DefaultFuzzyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
			return
		}
		limit = n
	}

	suggestions := service.FuzzySearch(h.catalog.Products(), c.Query("q"), limit)
	results := make([]dto.SearchResult, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, dto.SearchResult{Product: s.Product, Score: s.Score})
	}
	builder.SuccessOK(results)
}

// MatchProduct handles GET /api/products/match requests.
//
// @Summary      Resolve an item name
// @Description  Exact match after trimming, lower-casing and removing diacritics. The first catalog entry wins.
// @Tags         Products
// @Produce      json
// @Param        name query string true "Item name as typed"
// @Success      200 {object} dto.SuccessResponse{data=dto.MatchResponse} "Match result"
// @Router       /api/products/match [get]
func (h *ProductsHandler) MatchProduct(c *gin.Context) {
	product, ok := service.MatchExact(h.catalog.Products(), c.Query("name"))
	NewResponseBuilder(c).SuccessOK(dto.MatchResponse{Matched: ok, Product: product})
}

// ReloadProducts handles POST /api/products/reload requests.
//
// @Summary      Reload inventory
// @Description  Fetches the inventory again. A failed reload keeps the previous list.
// @Tags         Products
// @Produce      json
// @Param        X-API-Key header string false "API key (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=dto.CatalogResponse} "Reloaded inventory"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      502 {object} dto.ErrorResponse "Inventory API failed"
// @Failure      503 {object} dto.ErrorResponse "Inventory API circuit open"
// @Security     ApiKeyAuth
// @Router       /api/products/reload [post]
func (h *ProductsHandler) ReloadProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			status = http.StatusServiceUnavailable
		}
		builder.Error(status, i18n.ErrKeyUpstreamDown, err)
		return
	}

	builder.SuccessOK(dto.CatalogResponse{
		Ready:    h.catalog.Ready(),
		Products: h.catalog.Products(),
	})
}
