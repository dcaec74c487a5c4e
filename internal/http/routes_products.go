package http

import (
	"github.com/gin-gonic/gin"
)

// ProductRoutes handles inventory route registration.
type ProductRoutes struct {
	handler *ProductsHandler
}

// NewProductRoutes creates a new ProductRoutes instance.
func NewProductRoutes(catalog CatalogService) *ProductRoutes {
	return &ProductRoutes{handler: NewProductsHandler(catalog)}
}

// RegisterPublicRoutes registers the read-only inventory routes.
func (r *ProductRoutes) RegisterPublicRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	products := rg.Group("/products")
	{
		products.GET("", r.handler.ListProducts)
		products.GET("/search", r.handler.SearchProducts)
		products.GET("/match", r.handler.MatchProduct)
	}
}

// RegisterProtectedRoutes registers the inventory reload route.
func (r *ProductRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.POST("/products/reload", r.handler.ReloadProducts)
}
