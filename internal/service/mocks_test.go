package service

import (
	"context"
	"fmt"

	"github.com/Tima-2025/updated-clef-music-backend/internal/cache"
	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/google/uuid"
)

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	PlacedOrder *domain.Order
	PlaceErr    error

	ListResult []*domain.Order
	ListTotal  int64
	ListErr    error
	GotLimit   int
	GotOffset  int

	Order  *domain.Order
	GetErr error
	Gets   int
}

func (m *MockOrderRepository) PlaceOrder(_ context.Context, _, _ int64) (*domain.Order, error) {
	return m.PlacedOrder, m.PlaceErr
}

func (m *MockOrderRepository) ListOrdersByUser(_ context.Context, _ int64, limit, offset int) ([]*domain.Order, int64, error) {
	m.GotLimit = limit
	m.GotOffset = offset
	return m.ListResult, m.ListTotal, m.ListErr
}

func (m *MockOrderRepository) GetOrderWithItems(_ context.Context, _ int64, _ uuid.UUID) (*domain.Order, error) {
	m.Gets++
	return m.Order, m.GetErr
}

func (m *MockOrderRepository) RunMigrations(*repository.Credentials) error {
	return nil
}

func (m *MockOrderRepository) Close() error {
	return nil
}

// MockOrderCache implements cache.OrderCache with a plain map, no TTL.
type MockOrderCache struct {
	entries map[string]*domain.Order
	GetErr  error
	sets    chan *domain.Order
}

func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{
		entries: make(map[string]*domain.Order),
		sets:    make(chan *domain.Order, 8),
	}
}

func (m *MockOrderCache) key(userID int64, orderID uuid.UUID) string {
	return fmt.Sprintf("%d:%s", userID, orderID)
}

func (m *MockOrderCache) Get(_ context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	order, ok := m.entries[m.key(userID, orderID)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return order, nil
}

func (m *MockOrderCache) Set(_ context.Context, userID int64, order *domain.Order) error {
	m.entries[m.key(userID, order.ID)] = order
	m.sets <- order
	return nil
}

func (m *MockOrderCache) Put(userID int64, order *domain.Order) {
	m.entries[m.key(userID, order.ID)] = order
}
