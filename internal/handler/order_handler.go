package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// OrderRequest is the checkout payload
type OrderRequest struct {
	Items           []store.OrderLine     `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentInfo     model.PaymentInfo     `json:"payment_info"`
	ItemsPrice      float64               `json:"items_price"`
	TaxPrice        float64               `json:"tax_price"`
	ShippingPrice   float64               `json:"shipping_price"`
	TotalPrice      float64               `json:"total_price"`
}

// CreateOrder handles POST /api/orders
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	current, _ := middleware.CurrentUser(c)

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	totals := store.OrderTotals{
		Items:    decimal.NewFromFloat(req.ItemsPrice),
		Tax:      decimal.NewFromFloat(req.TaxPrice),
		Shipping: decimal.NewFromFloat(req.ShippingPrice),
		Total:    decimal.NewFromFloat(req.TotalPrice),
	}

	order, err := store.PlaceOrder(c.Request().Context(), database.GetDB(), current.ID, req.Items, req.ShippingAddress, req.PaymentInfo, totals)
	if err != nil {
		log.Warn("Order rejected", zap.Uint("user_id", current.ID), zap.Error(err))
		prometheus.RecordOrderOperation("rejected")
		return jsonError(c, err)
	}

	prometheus.OrdersPlacedCounter.Inc()
	prometheus.RecordOrderOperation("place")
	log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", current.ID),
		zap.Int("lines", len(order.Items)))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order": order})
}

// MyOrders handles GET /api/orders/my
func MyOrders(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)

	orders, err := store.ListMyOrders(c.Request().Context(), database.GetDB(), current.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders})
}

// GetOrder handles GET /api/orders/:id. Owner or admin only.
func GetOrder(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := store.GetOrderAuthorized(c.Request().Context(), database.GetDB(), id, current.ID, current.IsAdmin())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

// ListOrders handles GET /api/orders (admin), optionally filtered by status
func ListOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	status := model.OrderStatus(c.QueryParam("status"))

	result, err := store.ListOrders(c.Request().Context(), database.GetDB(), status, page, limit)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  result.Orders,
		"total":   result.Total,
		"pages":   result.Pages,
		"page":    result.Page,
	})
}

// UpdateOrderStatus handles PUT /api/orders/:id/status (admin)
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	order, err := store.UpdateOrderStatus(c.Request().Context(), database.GetDB(), id, model.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		log.Warn("Order status update rejected", zap.Uint("order_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	prometheus.RecordOrderOperation("status_update")
	log.Info("Order status updated",
		zap.Uint("order_id", id),
		zap.String("status", string(order.Status)))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

// DeleteOrder handles DELETE /api/orders/:id (admin)
func DeleteOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	if err := store.DeleteOrder(c.Request().Context(), database.GetDB(), id); err != nil {
		return jsonError(c, err)
	}

	prometheus.RecordOrderOperation("delete")
	logger.FromContext(c).Info("Order deleted", zap.Uint("order_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "order deleted"})
}
