package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pvs-dispatch/internal/api/models"
	"pvs-dispatch/internal/data"
)

// CatalogHandler serves the equipment library.
type CatalogHandler struct {
	catalog *data.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *data.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	if h.catalog == nil {
		abortWithError(c, http.StatusServiceUnavailable, "NO_CATALOG", "no equipment catalog loaded")
		return
	}
	c.JSON(http.StatusOK, models.CatalogResponse{
		Names:   h.catalog.Names(),
		Catalog: h.catalog,
	})
}
