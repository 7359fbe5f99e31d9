package cache

import (
	"context"
	"errors"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/google/uuid"
)

// OrderCache holds immutable order detail. Keys are scoped by owning user so
// entries cannot cross account boundaries.
type OrderCache interface {
	Get(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error)
	Set(ctx context.Context, userID int64, order *domain.Order) error
}

var ErrCacheMiss = errors.New("cache miss")
