package handler

import (
	"errors"
	"net/http"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/service"
	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StorefrontHandler struct {
	catalog service.CatalogReader
	logger  *zap.Logger
}

func NewStorefrontHandler(catalog service.CatalogReader, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *StorefrontHandler) Home(c *gin.Context) {
	products, err := h.catalog.ListSellable(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list coffees",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Unable to load coffees right now.")
		return
	}
	c.HTML(http.StatusOK, "home.html", page(c, gin.H{"Products": products}))
}

func (h *StorefrontHandler) Product(c *gin.Context) {
	product, err := h.catalog.GetByRef(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			renderError(c, http.StatusNotFound, "That coffee could not be found.")
			return
		}
		h.logger.Error("Failed to load product",
			zap.String("request_id", requestID(c)),
			zap.String("product_ref", c.Param("id")),
			zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Error loading product details")
		return
	}
	c.HTML(http.StatusOK, "product.html", page(c, gin.H{
		"Title":   product.Name,
		"Product": product,
	}))
}

// Success empties the cart; the order itself is recorded by the webhook.
func (h *StorefrontHandler) Success(c *gin.Context) {
	s := session.From(c)
	crt := s.Cart()
	crt.Clear()
	s.SetCart(crt)
	saveSession(c, h.logger)
	c.HTML(http.StatusOK, "success.html", page(c, gin.H{"Title": "Thank you"}))
}

func (h *StorefrontHandler) Cancel(c *gin.Context) {
	c.HTML(http.StatusOK, "cancel.html", page(c, gin.H{"Title": "Checkout cancelled"}))
}

func (h *StorefrontHandler) NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Not found")
}
