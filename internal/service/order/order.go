package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid transition")
)

type Service struct {
	Repo *repo.GormRepo
}

// Checkout converts the user's cart into a pending order as one atomic unit.
// The shipping address must belong to the user; a foreign address id surfaces
// as not-found.
func (s *Service) Checkout(ctx context.Context, userID, addressID uint) (*models.Order, error) {
	if addressID == 0 {
		return nil, fmt.Errorf("address id required: %w", ErrValidation)
	}

	ord, err := s.Repo.CreateOrder(ctx, userID, addressID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("user or address not found: %w", ErrNotFound)
	case errors.Is(err, repo.ErrEmptyCart):
		return nil, fmt.Errorf("nothing to check out: %w", ErrEmptyCart)
	case errors.Is(err, repo.ErrInsufficientStock):
		return nil, fmt.Errorf("stock changed since the items were added: %w", ErrInsufficientStock)
	}
	return ord, err
}

func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	ord, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order not found: %w", ErrNotFound)
	}
	return ord, err
}

func (s *Service) GetUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

// UpdateStatus is consumed by vendor/admin workflows; the transition graph is
// enforced, a blind overwrite is not possible.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}

	ord, err := s.Repo.UpdateOrderStatus(ctx, orderID, status)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("order not found: %w", ErrNotFound)
	case errors.Is(err, repo.ErrInvalidTransition):
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidTransition)
	}
	return ord, err
}
