package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	orders    *service.OrderAdminService
	inventory *service.InventoryService
	logger    *zap.Logger
}

func NewAdminHandler(orders *service.OrderAdminService, inventory *service.InventoryService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		orders:    orders,
		inventory: inventory,
		logger:    logger,
	}
}

func (h *AdminHandler) Orders(c *gin.Context) {
	filter := domain.ParseDashboardFilter(c.Query("filter"))

	dash, err := h.orders.Dashboard(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to load orders dashboard",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.HTML(http.StatusInternalServerError, "orders.html", page(c, gin.H{
			"Title":           "Orders",
			"SelectedFilter":  filter,
			"Filters":         domain.DashboardFilters,
			"AllowedStatuses": domain.OrderStatuses,
			"Error":           "Unable to load orders right now.",
		}))
		return
	}

	c.HTML(http.StatusOK, "orders.html", page(c, gin.H{
		"Title":           "Orders",
		"Orders":          dash.Orders,
		"ItemsByOrderID":  dash.ItemsByOrderID,
		"SelectedFilter":  dash.SelectedFilter,
		"Filters":         dash.Filters,
		"AllowedStatuses": dash.AllowedStatuses,
	}))
}

func (h *AdminHandler) OrdersAPI(c *gin.Context) {
	filter := domain.ParseDashboardFilter(c.Query("filter"))

	dash, err := h.orders.Dashboard(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to load filtered orders",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Unable to load filtered orders right now.",
			"request_id": requestID(c),
		})
		return
	}

	orders := dash.Orders
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":          orders,
		"itemsByOrderId":  dash.ItemsByOrderID,
		"selectedFilter":  dash.SelectedFilter,
		"filters":         dash.Filters,
		"allowedStatuses": dash.AllowedStatuses,
	})
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	filter := domain.ParseDashboardFilter(c.PostForm("filter"))

	_, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), c.PostForm("status"), requestID(c))
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve) && ve.Field == "id":
			c.String(http.StatusBadRequest, "Invalid order id")
		case errors.As(err, &ve):
			c.String(http.StatusBadRequest, "Invalid order status")
		case errors.Is(err, domain.ErrOrderNotFound):
			c.String(http.StatusNotFound, "Order not found")
		default:
			h.logger.Error("Failed to update order status",
				zap.String("request_id", requestID(c)),
				zap.String("order_id", c.Param("id")),
				zap.Error(err))
			c.String(http.StatusInternalServerError, "Unable to update order status")
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/orders?filter="+url.QueryEscape(string(filter)))
}

func (h *AdminHandler) Inventory(c *gin.Context) {
	rows, err := h.inventory.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load inventory",
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		c.HTML(http.StatusInternalServerError, "inventory.html", page(c, gin.H{
			"Title": "Inventory",
			"Error": "Unable to load inventory right now.",
		}))
		return
	}

	c.HTML(http.StatusOK, "inventory.html", page(c, gin.H{
		"Title":   "Inventory",
		"Rows":    rows,
		"Success": c.Query("success"),
		"Error":   c.Query("error"),
		"Yield":   domain.RoastYield.String(),
	}))
}

func (h *AdminHandler) RoastSession(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.Redirect(http.StatusSeeOther, inventoryRedirect("", "Enter at least one roast amount greater than 0 grams."))
		return
	}

	entries := service.ParseRoastForm(c.Request.PostForm)
	if err := h.inventory.LogRoastSession(c.Request.Context(), entries); err != nil {
		var rse *service.RoastSessionError
		message := "Unable to complete roast session update."
		if errors.As(err, &rse) {
			message = rse.Message
		}
		c.Redirect(http.StatusSeeOther, inventoryRedirect("", message))
		return
	}

	c.Redirect(http.StatusSeeOther, inventoryRedirect("Roast session logged and inventory updated.", ""))
}

func inventoryRedirect(success, failure string) string {
	q := url.Values{}
	if success != "" {
		q.Set("success", success)
	}
	if failure != "" {
		q.Set("error", failure)
	}
	if len(q) == 0 {
		return "/admin/inventory"
	}
	return "/admin/inventory?" + q.Encode()
}
