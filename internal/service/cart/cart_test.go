package cart

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
)

func newTestEnv(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return &Service{Repo: repo.New(db)}, db
}

func seedUser(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	user := models.User{Email: "reader@example.com", Name: "Reader", Role: "user"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedBook(t *testing.T, db *gorm.DB, title, price string, stock int) uint {
	t.Helper()
	book := models.Book{
		Title:         title,
		Author:        "Author",
		ISBN:          title + "-isbn",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Approved:      true,
	}
	require.NoError(t, db.Create(&book).Error)
	return book.ID
}

func TestAddToCart_CreatesThenIncrements(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Dune", "10.00", 10)

	item, err := svc.AddToCart(ctx, userID, bookID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity)

	item, err = svc.AddToCart(ctx, userID, bookID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(5), item.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-adding the same book must not duplicate the line")
}

func TestAddToCart_StockBoundary(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Solaris", "12.50", 5)

	_, err := svc.AddToCart(ctx, userID, bookID, 5)
	require.NoError(t, err, "quantity equal to remaining stock must succeed")

	_, err = svc.AddToCart(ctx, userID, bookID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock, "resulting total beyond stock must fail")
}

func TestAddToCart_OverStockOnFirstAdd(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Ubik", "9.99", 3)

	_, err := svc.AddToCart(ctx, userID, bookID, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAddToCart_MissingUserOrBook(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Hyperion", "20.00", 5)

	_, err := svc.AddToCart(ctx, userID+100, bookID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddToCart(ctx, userID, bookID+100, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddToCart_Validation(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Foundation", "7.00", 5)

	_, err := svc.AddToCart(ctx, userID, bookID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddToCart(ctx, userID, 0, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateQuantity_Overwrites(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Neuromancer", "11.00", 10)

	_, err := svc.AddToCart(ctx, userID, bookID, 4)
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, userID, bookID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.Quantity, "update overwrites, it does not increment")

	_, err = svc.UpdateQuantity(ctx, userID, bookID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Dhalgren", "14.00", 5)

	_, err := svc.UpdateQuantity(ctx, userID, bookID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Contact", "13.00", 5)

	_, err := svc.AddToCart(ctx, userID, bookID, 2)
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, userID, bookID, 0)
	require.NoError(t, err)
	assert.Nil(t, item)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// removing an already-removed line is not an error
	item, err = svc.UpdateQuantity(ctx, userID, bookID, -1)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestRemoveFromCart(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Blindsight", "16.00", 5)

	_, err := svc.AddToCart(ctx, userID, bookID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromCart(ctx, userID, bookID))

	err = svc.RemoveFromCart(ctx, userID, bookID)
	assert.ErrorIs(t, err, ErrNotFound, "direct removal of a missing line is not-found")
}

func TestCartTotal(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookA := seedBook(t, db, "Book A", "10.00", 10)
	bookB := seedBook(t, db, "Book B", "15.00", 10)

	_, err := svc.AddToCart(ctx, userID, bookA, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, userID, bookB, 1)
	require.NoError(t, err)

	total, err := svc.CartTotal(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("35.00").Equal(total), "got %s", total)
}

func TestCartTotal_EmptyCart(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)

	total, err := svc.CartTotal(ctx, userID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestClearCart_Idempotent(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Anathem", "18.00", 5)

	_, err := svc.AddToCart(ctx, userID, bookID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, userID))
	require.NoError(t, svc.ClearCart(ctx, userID), "clearing an empty cart succeeds")

	items, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCart_InsertionOrder(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookB := seedBook(t, db, "Second", "5.00", 10)
	bookA := seedBook(t, db, "First", "5.00", 10)

	_, err := svc.AddToCart(ctx, userID, bookB, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, userID, bookA, 1)
	require.NoError(t, err)

	items, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, bookB, items[0].BookID)
	assert.Equal(t, bookA, items[1].BookID)
}

func TestMoveFromWishlist(t *testing.T) {
	svc, db := newTestEnv(t)
	ctx := context.Background()

	userID := seedUser(t, db)
	bookID := seedBook(t, db, "Exhalation", "8.00", 1)

	item, err := svc.MoveFromWishlist(ctx, userID, bookID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), item.Quantity)

	_, err = svc.MoveFromWishlist(ctx, userID, bookID)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
