package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookstore-backend/internal/events"
	"bookstore-backend/internal/logging"
	"bookstore-backend/internal/middleware/auth"
	"bookstore-backend/internal/service/cart"
	"bookstore-backend/internal/transport"
)

type CartHTTP struct {
	Svc      *cart.Service
	Producer *events.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.BookID, req.Quantity)
	if err != nil {
		return cartError(l, "add_to_cart_error", userID, err)
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":     "cart_item_added",
		"userID":   userID,
		"bookID":   item.BookID,
		"quantity": item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	bookID, err := pathID(c, "bookID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, bookID, req.Quantity)
	if err != nil {
		return cartError(l, "update_quantity_error", userID, err)
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":     "cart_quantity_updated",
		"userID":   userID,
		"bookID":   bookID,
		"quantity": req.Quantity,
	})
	if item == nil {
		// quantity <= 0 removed the line
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	bookID, err := pathID(c, "bookID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, bookID); err != nil {
		return cartError(l, "remove_from_cart_error", userID, err)
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"bookID": bookID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) CartTotal(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.cart_total")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	total, err := h.Svc.CartTotal(ctx, userID)
	if err != nil {
		return cartError(l, "cart_total_error", userID, err)
	}

	return c.JSON(http.StatusOK, transport.CartTotalResponse{Total: total})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("clear_cart_error", "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.NoContent(http.StatusNoContent)
}

func cartError(l *slog.Logger, op string, userID uint, err error) error {
	switch {
	case errors.Is(err, cart.ErrValidation):
		l.Warn(op, "status", 400, "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound):
		l.Warn(op, "status", 404, "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrInsufficientStock):
		l.Warn(op, "status", 409, "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(op, "status", 500, "userID", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
