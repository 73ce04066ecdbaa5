package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"unique;not null"          json:"email"`
	Name  string `gorm:"not null"                 json:"name"`
	Role  string `gorm:"not null;default:user"    json:"role"`
}

type Address struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint   `gorm:"index;not null"           json:"user_id"`
	Street  string `gorm:"not null"                 json:"street"`
	City    string `gorm:"not null"                 json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type Vendor struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Approved bool   `gorm:"not null;default:false"   json:"approved"`
}

// Book carries denormalized rating state: RatingPoints is the exact sum of all
// submitted ratings, RatingAvg the half-up rounded mean recomputed from it on
// every write. The three rating fields change only together.
type Book struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"                     json:"id"`
	Title         string          `gorm:"not null"                                     json:"title"`
	Author        string          `gorm:"not null"                                     json:"author"`
	ISBN          string          `gorm:"unique"                                       json:"isbn"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null"                  json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	VendorID      *uint           `gorm:"index"                                        json:"vendor_id,omitempty"`
	Approved      bool            `gorm:"not null;default:false"                       json:"approved"`
	RatingAvg     decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0"         json:"rating_avg"`
	RatingPoints  int64           `gorm:"not null;default:0"                           json:"-"`
	TotalRatings  int64           `gorm:"not null;default:0"                           json:"total_ratings"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_book;not null" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_user_book;not null" json:"book_id"`
	Quantity  uint      `gorm:"default:1;check:quantity > 0"       json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is immutable after creation except for Status.
type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint            `gorm:"index;not null"              json:"user_id"`
	OrderNumber string          `gorm:"uniqueIndex;not null"        json:"order_number"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"not null"                    json:"status"`
	AddressID   uint            `gorm:"not null"                    json:"address_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"          json:"items"`
}

// OrderItem snapshots the book's price at order time; UnitPrice and TotalPrice
// never follow later price changes.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID    uint            `gorm:"index;not null"              json:"order_id"`
	BookID     uint            `gorm:"not null"                    json:"book_id"`
	VendorID   *uint           `json:"vendor_id,omitempty"`
	Quantity   uint            `gorm:"check:quantity > 0"          json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
}
