package handler

import (
	"errors"
	"net/http"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/service"
	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartHandler struct {
	cartService *service.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// cartItemRequest is accepted as JSON or as a form post.
type cartItemRequest struct {
	CoffeeID string `json:"coffeeId" form:"coffeeId"`
	Grind    string `json:"grind" form:"grind"`
	Action   string `json:"action" form:"action"`
}

func cartError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// bindLine validates the product reference and grind of a cart request. It
// writes the 400 response itself and reports false on failure.
func bindLine(c *gin.Context) (cartItemRequest, string, domain.Grind, bool) {
	var req cartItemRequest
	if err := c.ShouldBind(&req); err != nil {
		cartError(c, http.StatusBadRequest, "Invalid request body")
		return req, "", "", false
	}
	ref, err := cart.NormalizeRef(req.CoffeeID)
	if err != nil {
		cartError(c, http.StatusBadRequest, "Invalid coffee id")
		return req, "", "", false
	}
	grind, err := domain.ParseGrind(req.Grind)
	if err != nil {
		cartError(c, http.StatusBadRequest, "Invalid grind option")
		return req, "", "", false
	}
	return req, ref, grind, true
}

func (h *CartHandler) respondCount(c *gin.Context, crt cart.Cart) {
	session.From(c).SetCart(crt)
	if !saveSession(c, h.logger) {
		cartError(c, http.StatusInternalServerError, "Unable to save cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cartCount": crt.Count()})
}

func (h *CartHandler) Add(c *gin.Context) {
	_, ref, grind, ok := bindLine(c)
	if !ok {
		return
	}
	crt := session.From(c).Cart()
	crt.Add(ref, grind)
	h.respondCount(c, crt)
}

func (h *CartHandler) Update(c *gin.Context) {
	req, ref, grind, ok := bindLine(c)
	if !ok {
		return
	}
	crt := session.From(c).Cart()
	if err := crt.Update(ref, grind, cart.Direction(req.Action)); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			cartError(c, http.StatusNotFound, "Item not found in cart")
			return
		}
		cartError(c, http.StatusBadRequest, "Invalid action")
		return
	}
	h.respondCount(c, crt)
}

func (h *CartHandler) Remove(c *gin.Context) {
	_, ref, grind, ok := bindLine(c)
	if !ok {
		return
	}
	crt := session.From(c).Cart()
	crt.Remove(ref, grind)
	h.respondCount(c, crt)
}

func (h *CartHandler) View(c *gin.Context) {
	view, err := h.cartService.Reconcile(c.Request.Context(), session.From(c).Cart())
	if err != nil {
		h.logger.Error("Failed to reconcile cart",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.HTML(http.StatusOK, "cart.html", page(c, gin.H{"Title": "Cart", "Cart": view}))
}

func (h *CartHandler) Data(c *gin.Context) {
	view, err := h.cartService.Reconcile(c.Request.Context(), session.From(c).Cart())
	if err != nil {
		h.logger.Error("Failed to reconcile cart",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Count(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cartCount": session.From(c).Cart().Count()})
}
