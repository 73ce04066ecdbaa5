package transport

import "github.com/shopspring/decimal"

type AddToCartRequest struct {
	BookID   uint `json:"book_id"`
	Quantity uint `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartTotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

type CheckoutRequest struct {
	AddressID uint `json:"address_id"`
}

type RateBookRequest struct {
	Rating int `json:"rating"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
