package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the catalog; this core only reads price and stock under
// lock and decrements stock during placement. Stock never goes below zero.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CategoryID  int64
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
