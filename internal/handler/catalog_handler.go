package handler

import (
	"errors"
	"net/http"

	"quote-service/internal/catalog"
	"quote-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogHandler serves the product catalog endpoints.
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler builds a catalog handler over the loaded store.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// ListCatalog handles retrieving the active catalog with global rates
func (h *CatalogHandler) ListCatalog(c echo.Context) error {
	log := logger.FromEcho(c)

	products := h.store.Products()
	log.Info("Catalog listed",
		zap.Int("count", len(products)),
		zap.String("source", h.store.Source()))

	return c.JSON(http.StatusOK, echo.Map{
		"globalRates": h.store.Global(),
		"products":    products,
	})
}

// GetProduct handles retrieving a single product with effective rates
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Getting product by ID", zap.String("product_id", id))

	product, err := h.store.Product(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			log.Warn("Product not found", zap.String("product_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Product not found",
			})
		}
		log.Error("Failed to resolve product",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to resolve product",
		})
	}

	log.Info("Product retrieved successfully",
		zap.String("product_id", id),
		zap.String("product_name", product.Name),
		zap.String("archetype", product.Archetype))
	return c.JSON(http.StatusOK, product)
}

// ReloadCatalog handles re-fetching the catalog from its source
func (h *CatalogHandler) ReloadCatalog(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Reloading catalog")

	if err := h.store.Reload(c.Request().Context()); err != nil {
		log.Error("Catalog reload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to reload catalog",
		})
	}

	log.Info("Catalog reloaded",
		zap.String("source", h.store.Source()),
		zap.Int("products", len(h.store.Products())))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Catalog reloaded successfully",
		"source":  h.store.Source(),
	})
}
