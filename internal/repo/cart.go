package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookstore-backend/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart creates the user's line for the book or increments it. The book row
// is locked for the stock check so two carts cannot both pass validation on the
// same remaining stock.
func (r *GormRepo) AddToCart(ctx context.Context, userID, bookID uint, quantity uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return err
		}

		var book models.Book
		if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
			return err
		}

		newQuantity := quantity
		var existing models.CartItem
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		switch {
		case err == nil:
			newQuantity += existing.Quantity
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if book.StockQuantity < int(newQuantity) {
			return ErrInsufficientStock
		}

		if existing.ID != 0 {
			if err := tx.Model(&existing).Update("quantity", newQuantity).Error; err != nil {
				return err
			}
			existing.Quantity = newQuantity
			item = existing
			return nil
		}

		item = models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity overwrites the stored quantity after re-validating stock.
// A non-positive quantity is a removal and succeeds even when no line exists.
func (r *GormRepo) UpdateQuantity(ctx context.Context, userID, bookID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		err := r.DB.WithContext(ctx).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Delete(&models.CartItem{}).Error
		return nil, err
	}

	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error; err != nil {
			return err
		}

		var book models.Book
		if err := lockForUpdate(tx).First(&book, bookID).Error; err != nil {
			return err
		}
		if book.StockQuantity < quantity {
			return ErrInsufficientStock
		}

		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = uint(quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, bookID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
