package service

import (
	"context"
	"testing"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_Success(t *testing.T) {
	placed := &domain.Order{
		ID:          uuid.New(),
		UserID:      1,
		TotalAmount: decimal.RequireFromString("36.50"),
		Status:      domain.OrderStatusCreated,
	}
	repo := &MockOrderRepository{PlacedOrder: placed}
	svc := NewPlacementService(repo, testLogger())

	order, err := svc.PlaceOrder(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, order.ID)
	assert.True(t, placed.TotalAmount.Equal(order.TotalAmount))
}

func TestPlaceOrder_EmptyCartPassthrough(t *testing.T) {
	repo := &MockOrderRepository{PlaceErr: repository.ErrEmptyCart}
	svc := NewPlacementService(repo, testLogger())

	_, err := svc.PlaceOrder(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repository.ErrEmptyCart)
}

func TestPlaceOrder_InsufficientStockPassthrough(t *testing.T) {
	repo := &MockOrderRepository{PlaceErr: &repository.InsufficientStockError{
		ProductID: 7,
		Requested: 2,
		Available: 1,
	}}
	svc := NewPlacementService(repo, testLogger())

	_, err := svc.PlaceOrder(context.Background(), 1, 10)

	var stockErr *repository.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(7), stockErr.ProductID)
}

func TestPlaceOrder_ConflictPassthrough(t *testing.T) {
	repo := &MockOrderRepository{PlaceErr: repository.ErrTxConflict}
	svc := NewPlacementService(repo, testLogger())

	_, err := svc.PlaceOrder(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repository.ErrTxConflict)
}
