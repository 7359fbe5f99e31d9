package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tima-2025/updated-clef-music-backend/internal/cache"
	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// OrderPage is one window of a user's order history plus the full count.
type OrderPage struct {
	Data  []*domain.Order `json:"data"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
}

// QueryService serves the read path. Orders are immutable once created, so
// order detail is safe to cache; listings and stock never are.
type QueryService struct {
	repo  repository.OrderRepository
	cache cache.OrderCache
	log   *logrus.Logger
	sfg   singleflight.Group // collapses concurrent misses for the same order
}

func NewQueryService(repo repository.OrderRepository, orderCache cache.OrderCache, log *logrus.Logger) *QueryService {
	return &QueryService{
		repo:  repo,
		cache: orderCache,
		log:   log,
	}
}

func (s *QueryService) ListOrders(ctx context.Context, userID int64, page, limit int) (*OrderPage, error) {
	page, limit = clampPagination(page, limit)
	offset := (page - 1) * limit

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Data:  orders,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

func (s *QueryService) GetOrder(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error) {
	// The cache key is scoped to the owner so a hit can never leak another
	// user's order.
	key := fmt.Sprintf("%d:%s", userID, orderID)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		order, cacheErr := s.cache.Get(ctx, userID, orderID)
		if cacheErr == nil {
			return order, nil
		}
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			s.log.WithError(cacheErr).Warn("order cache get failed")
		}

		order, repoErr := s.repo.GetOrderWithItems(ctx, userID, orderID)
		if repoErr != nil {
			return nil, repoErr
		}

		go func() {
			if setErr := s.cache.Set(context.Background(), userID, order); setErr != nil {
				s.log.WithError(setErr).Warn("order cache set failed")
			}
		}()

		return order, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Order), nil
}

// clampPagination applies the defaults and bounds of the listing contract:
// page >= 1 (default 1), limit in [1, 100] (default 20).
func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
