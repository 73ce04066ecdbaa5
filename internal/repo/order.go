package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookstore-backend/internal/models"
)

const orderNumberAttempts = 5

func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// uniqueOrderNumber picks a free order number inside the transaction. The
// unique index on orders.order_number still backs the reservation; the loop
// only bounds the retry on the unlikely collision.
func uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := generateOrderNumber()
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number in %d attempts", orderNumberAttempts)
}

// CreateOrder turns the user's cart into an order in one transaction: it locks
// the cart lines and book rows, re-validates and decrements stock, snapshots
// prices into order items and clears the cart. Any failure rolls the whole
// thing back; no order, item, stock or cart change stays visible.
func (r *GormRepo) CreateOrder(ctx context.Context, userID, addressID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return err
		}

		var address models.Address
		if err := tx.First(&address, addressID).Error; err != nil {
			return err
		}
		if address.UserID != userID {
			// A foreign address id reads the same as a missing one.
			return gorm.ErrRecordNotFound
		}

		var items []models.CartItem
		if err := lockForUpdate(tx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		bookIDs := make([]uint, 0, len(items))
		for _, it := range items {
			bookIDs = append(bookIDs, it.BookID)
		}
		var books []models.Book
		if err := lockForUpdate(tx).Where("id IN ?", bookIDs).Find(&books).Error; err != nil {
			return err
		}
		booksByID := make(map[uint]models.Book, len(books))
		for _, b := range books {
			booksByID[b.ID] = b
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			book, ok := booksByID[it.BookID]
			if !ok {
				return gorm.ErrRecordNotFound
			}

			res := tx.Model(&models.Book{}).
				Where("id = ? AND stock_quantity >= ?", it.BookID, it.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			lineTotal := book.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			orderItems = append(orderItems, models.OrderItem{
				BookID:     it.BookID,
				VendorID:   book.VendorID,
				Quantity:   it.Quantity,
				UnitPrice:  book.Price,
				TotalPrice: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		number, err := uniqueOrderNumber(tx)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:      userID,
			OrderNumber: number,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			AddressID:   addressID,
			Items:       orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves the order along the status machine; anything off the
// transition table is rejected without touching the row.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
		}
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Preload("Items").First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
