package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookstore-backend/internal/events"
	"bookstore-backend/internal/logging"
	"bookstore-backend/internal/middleware/auth"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/service/order"
	"bookstore-backend/internal/transport"
	"bookstore-backend/internal/util"
)

type OrderHTTP struct {
	Svc      *order.Service
	Producer *events.Producer
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ord, err := h.Svc.Checkout(ctx, userID, req.AddressID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrValidation):
			l.Warn("checkout_error", "status", 400, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			l.Warn("checkout_error", "status", 404, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, order.ErrEmptyCart):
			l.Warn("checkout_error", "status", 409, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, order.ErrInsufficientStock):
			l.Warn("checkout_error", "status", 409, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("checkout_error", "status", 500, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, map[string]any{
		"type":         "order_created",
		"userID":       userID,
		"orderID":      ord.ID,
		"order_number": ord.OrderNumber,
		"total":        ord.TotalAmount,
	})
	l.Info("checkout_success", "userID", userID, "orderID", ord.ID)
	return c.JSON(http.StatusCreated, ord)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.GetUserOrders(ctx, userID, limit, offset)
	if err != nil {
		logging.FromContext(ctx).Error("get_orders_error", "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ord, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		logging.FromContext(ctx).Error("get_order_error", "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	role, _ := c.Get("role").(string)
	if ord.UserID != userID && role != "admin" {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, ord)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ord, err := h.Svc.UpdateStatus(ctx, orderID, models.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrValidation):
			l.Warn("update_status_error", "status", 400, "orderID", orderID, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrNotFound):
			l.Warn("update_status_error", "status", 404, "orderID", orderID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, order.ErrInvalidTransition):
			l.Warn("update_status_error", "status", 409, "orderID", orderID, "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("update_status_error", "status", 500, "orderID", orderID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, map[string]any{
		"type":    "order_status_changed",
		"userID":  ord.UserID,
		"orderID": ord.ID,
		"status":  ord.Status,
	})
	l.Info("update_status_success", "orderID", ord.ID, "new_status", ord.Status)
	return c.JSON(http.StatusOK, ord)
}
