package service

import (
	"context"
	"errors"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// PlacementService runs the atomic checkout. All stock decisions happen inside
// the repository transaction against locked rows; nothing is cached here.
type PlacementService struct {
	repo repository.OrderRepository
	log  *logrus.Logger
}

func NewPlacementService(repo repository.OrderRepository, log *logrus.Logger) *PlacementService {
	return &PlacementService{repo: repo, log: log}
}

func (s *PlacementService) PlaceOrder(ctx context.Context, userID, shippingAddressID int64) (*domain.Order, error) {
	order, err := s.repo.PlaceOrder(ctx, userID, shippingAddressID)
	if err != nil {
		var stockErr *repository.InsufficientStockError
		switch {
		case errors.Is(err, repository.ErrEmptyCart):
			return nil, err
		case errors.As(err, &stockErr):
			s.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			}).Info("placement rejected: insufficient stock")
			return nil, err
		case errors.Is(err, repository.ErrTxConflict):
			s.log.WithField("user_id", userID).Warn("placement transaction conflict")
			return nil, err
		default:
			s.log.WithField("user_id", userID).WithError(err).Error("placement failed")
			return nil, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalAmount,
	}).Info("order placed")
	return order, nil
}
