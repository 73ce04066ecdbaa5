package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookstore-backend/internal/events"
	"bookstore-backend/internal/logging"
	"bookstore-backend/internal/middleware/auth"
	"bookstore-backend/internal/service/catalog"
	"bookstore-backend/internal/service/rating"
	"bookstore-backend/internal/transport"
	"bookstore-backend/internal/util"
)

type BookHTTP struct {
	Catalog  *catalog.Service
	Rating   *rating.Service
	Producer *events.Producer
}

func (h *BookHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.Catalog.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		logging.FromContext(ctx).Error("get_book_error", "bookID", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, books, err := h.Catalog.ListBooks(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_books_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": books,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *BookHTTP) RateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.rate_book")

	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	bookID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.RateBookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("rate_book_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	book, err := h.Rating.RateBook(ctx, bookID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrValidation):
			l.Warn("rate_book_error", "status", 400, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, rating.ErrNotFound):
			l.Warn("rate_book_error", "status", 404, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			l.Error("rate_book_error", "status", 500, "userID", userID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, events.TopicBookEvents, map[string]any{
		"type":          "book_rated",
		"userID":        userID,
		"bookID":        bookID,
		"rating":        req.Rating,
		"rating_avg":    book.RatingAvg,
		"total_ratings": book.TotalRatings,
	})
	l.Info("rate_book_success", "userID", userID, "bookID", bookID)
	return c.JSON(http.StatusOK, book)
}
