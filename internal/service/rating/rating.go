package rating

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// Service folds integer star ratings into a book's running mean. Individual
// ratings are not kept; the fold is lossy and irreversible.
type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) RateBook(ctx context.Context, bookID uint, rating int) (*models.Book, error) {
	if bookID == 0 {
		return nil, fmt.Errorf("book id required: %w", ErrValidation)
	}

	book, err := s.Repo.RateBook(ctx, bookID, rating)
	switch {
	case errors.Is(err, repo.ErrInvalidRating):
		return nil, fmt.Errorf("rating must be an integer between 1 and 5: %w", ErrValidation)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("book not found: %w", ErrNotFound)
	}
	return book, err
}
