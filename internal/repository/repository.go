package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	// ErrTxConflict covers serialization failures, deadlocks and lock
	// timeouts. The whole placement can be retried from the top.
	ErrTxConflict = errors.New("transaction conflict")
)

// InsufficientStockError names the first product whose requested quantity
// exceeded the locked stock value.
type InsufficientStockError struct {
	ProductID int64
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the placement and read-path surface of the order ledger.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, userID, shippingAddressID int64) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Order, int64, error)
	GetOrderWithItems(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error)
	RunMigrations(*Credentials) error
	Close() error
}

// CartRepository owns the cart rows outside of placement. Placement itself
// reads and clears them inside its own transaction.
type CartRepository interface {
	GetCartItems(ctx context.Context, userID int64) ([]domain.CartView, error)
	AddCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, productID int64) error
}
