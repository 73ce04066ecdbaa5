package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
)

var ErrNotFound = errors.New("not found")

// Service is the read surface of the catalog store that cart and checkout
// consume; writes stay with the vendor workflows.
type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book not found: %w", ErrNotFound)
	}
	return book, err
}

func (s *Service) ListBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	return s.Repo.ListBooks(ctx, offset, limit)
}
