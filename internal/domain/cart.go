package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (user, product) row awaiting checkout. Quantity is always
// at least 1; removing an item deletes the row instead of zeroing it.
type CartItem struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with its product, as read by the placement
// transaction while the product row is locked.
type CartLine struct {
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
	Stock     int32
}

// CartView is what the cart listing endpoint returns: the item plus the
// product fields a storefront renders.
type CartView struct {
	ProductID int64           `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
}
