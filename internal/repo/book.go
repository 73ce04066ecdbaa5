package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookstore-backend/internal/models"
)

func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormRepo) ListBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	q := r.DB.WithContext(ctx).Model(&models.Book{}).Where("approved = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var books []models.Book
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return 0, nil, err
	}
	return total, books, nil
}

func (r *GormRepo) GetBooksByIDs(ctx context.Context, ids []uint) (map[uint]models.Book, error) {
	var books []models.Book
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	return byID, nil
}

// RateBook folds one 1..5 star rating into the book's running mean. The exact
// point sum and the count move together under a row lock; the stored mean is
// recomputed from the exact sum, so it cannot drift across accumulations.
func (r *GormRepo) RateBook(ctx context.Context, bookID uint, rating int) (*models.Book, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var book models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
			return err
		}

		book.RatingPoints += int64(rating)
		book.TotalRatings++
		book.RatingAvg = decimal.NewFromInt(book.RatingPoints).
			DivRound(decimal.NewFromInt(book.TotalRatings), 2)

		return tx.Model(&book).Updates(map[string]any{
			"rating_points": book.RatingPoints,
			"total_ratings": book.TotalRatings,
			"rating_avg":    book.RatingAvg,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}
