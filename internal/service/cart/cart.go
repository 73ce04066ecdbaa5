package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *Service) AddToCart(ctx context.Context, userID, bookID uint, quantity uint) (*models.CartItem, error) {
	if bookID == 0 {
		return nil, fmt.Errorf("book id required: %w", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be > 0: %w", ErrValidation)
	}

	item, err := s.Repo.AddToCart(ctx, userID, bookID, quantity)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("user or book not found: %w", ErrNotFound)
	case errors.Is(err, repo.ErrInsufficientStock):
		return nil, fmt.Errorf("requested quantity exceeds available stock: %w", ErrInsufficientStock)
	}
	return item, err
}

// UpdateQuantity overwrites the line's quantity; zero or negative removes the
// line and succeeds even when there is nothing to remove.
func (s *Service) UpdateQuantity(ctx context.Context, userID, bookID uint, quantity int) (*models.CartItem, error) {
	if bookID == 0 {
		return nil, fmt.Errorf("book id required: %w", ErrValidation)
	}

	item, err := s.Repo.UpdateQuantity(ctx, userID, bookID, quantity)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
	case errors.Is(err, repo.ErrInsufficientStock):
		return nil, fmt.Errorf("requested quantity exceeds available stock: %w", ErrInsufficientStock)
	}
	return item, err
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, bookID uint) error {
	if bookID == 0 {
		return fmt.Errorf("book id required: %w", ErrValidation)
	}

	err := s.Repo.RemoveFromCart(ctx, userID, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return err
}

// CartTotal sums price times quantity over the user's lines. The accumulation
// is exact decimal arithmetic with no intermediate rounding.
func (s *Service) CartTotal(ctx context.Context, userID uint) (decimal.Decimal, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(items) == 0 {
		return decimal.Zero, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.BookID)
	}
	books, err := s.Repo.GetBooksByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, it := range items {
		book, ok := books[it.BookID]
		if !ok {
			return decimal.Zero, fmt.Errorf("book %d not found: %w", it.BookID, ErrNotFound)
		}
		total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

func (s *Service) ClearCart(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

// MoveFromWishlist is the wishlist subsystem's single entry point into the
// cart: it adds one copy of the book, with the usual stock validation.
func (s *Service) MoveFromWishlist(ctx context.Context, userID, bookID uint) (*models.CartItem, error) {
	return s.AddToCart(ctx, userID, bookID, 1)
}
