package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/Tima-2025/updated-clef-music-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderPlacer and OrderQuerier are what the handler needs from the services.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID, shippingAddressID int64) (*domain.Order, error)
}

type OrderQuerier interface {
	ListOrders(ctx context.Context, userID int64, page, limit int) (*service.OrderPage, error)
	GetOrder(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error)
}

// OrderNotifier is invoked after a successful placement only; its failures
// never affect the placement result.
type OrderNotifier interface {
	OrderCreated(order *domain.Order)
}

type OrderHandler struct {
	placer   OrderPlacer
	querier  OrderQuerier
	notifier OrderNotifier
	timeout  time.Duration
}

func NewOrderHandler(placer OrderPlacer, querier OrderQuerier, notifier OrderNotifier, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		placer:   placer,
		querier:  querier,
		notifier: notifier,
		timeout:  timeout,
	}
}

type PlaceOrderRequestDTO struct {
	ShippingAddressID int64 `json:"shipping_address_id"`
}

type PlaceOrderResponseDTO struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ShippingAddressID <= 0 {
		respondError(w, http.StatusBadRequest, "missing_shipping_address", "shipping_address_id is required")
		return
	}

	order, err := h.placer.PlaceOrder(ctx, userID, req.ShippingAddressID)
	if err != nil {
		handlePlacementError(w, err)
		return
	}

	// Notification is fire-and-forget, outside the transaction boundary.
	go h.notifier.OrderCreated(order)

	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{
		Message: "Order created successfully",
		OrderID: order.ID.String(),
	})
}

func handlePlacementError(w http.ResponseWriter, err error) {
	var stockErr *repository.InsufficientStockError
	switch {
	case errors.Is(err, repository.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "Your cart is empty")
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Insufficient stock for one or more items",
			Code:    "insufficient_stock",
			Details: fmt.Sprintf("product %d", stockErr.ProductID),
		})
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "Error creating order")
	}
}

// GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.querier.ListOrders(ctx, userID, page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Error fetching orders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /api/v1/orders/{order_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return
	}

	order, err := h.querier.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Error fetching order details")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
