package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sawitmart/order-service/internal/gateway"
	"github.com/sawitmart/order-service/internal/logging"
	"github.com/sawitmart/order-service/internal/service"
)

type OrderHandler struct {
	Svc *service.OrderService
}

func parseUintDefault(s string, def uint) uint {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint(v)
	}
	return def
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func httpStatusFor(err error) int {
	var upstreamErr *gateway.UpstreamError
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrInvalidShippingMethod):
		return http.StatusUnprocessableEntity
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req service.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		status := httpStatusFor(err)
		l.Warn("create_order_error", "status", status, "error", err)
		return echo.NewHTTPError(status, err.Error())
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)

	orders, err := h.Svc.ListOrders(ctx, page, size)
	if err != nil {
		l.Warn("get_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetShippingOptions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_shipping_options")

	destinationCity := c.QueryParam("destination_city")
	productID := parseUintDefault(c.QueryParam("product_id"), 0)
	quantity := parseUintDefault(c.QueryParam("quantity"), 0)

	options, err := h.Svc.GetShippingOptions(ctx, destinationCity, productID, quantity)
	if err != nil {
		status := httpStatusFor(err)
		l.Warn("get_shipping_options_error", "status", status, "error", err)
		return echo.NewHTTPError(status, err.Error())
	}

	return c.JSON(http.StatusOK, options)
}

func (h *OrderHandler) GetOrderByReference(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order_by_reference")

	order, err := h.Svc.GetOrderByPaymentReference(ctx, c.Param("ref"))
	if err != nil {
		status := httpStatusFor(err)
		l.Warn("get_order_by_reference_error", "status", status, "error", err)
		return echo.NewHTTPError(status, err.Error())
	}
	if order == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_payment_status")

	var req struct {
		PaymentReference string `json:"payment_reference"`
		Status           string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_payment_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.PaymentReference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_reference required")
	}

	ok, err := h.Svc.UpdatePaymentStatus(ctx, req.PaymentReference, req.Status)
	if err != nil {
		l.Warn("update_payment_status_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("update_payment_status", "reference", req.PaymentReference, "found", ok)
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}
