package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
)

// OrderItem is one line of an order. Price is captured at purchase time and
// never follows later catalog price changes.
type OrderItem struct {
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"name,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type Order struct {
	ID                uuid.UUID       `json:"id"`
	UserID            int64           `json:"user_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ShippingAddressID int64           `json:"shipping_address_id"`
	Status            OrderStatus     `json:"status"`
	Items             []OrderItem     `json:"items,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
