package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/Tima-2025/updated-clef-music-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CartRepoMock struct {
	views []domain.CartView
	item  *domain.CartItem
	err   error
}

func (m CartRepoMock) GetCartItems(_ context.Context, _ int64) ([]domain.CartView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.views, nil
}

func (m CartRepoMock) AddCartItem(_ context.Context, _, _ int64, _ int32) (*domain.CartItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.item, nil
}

func (m CartRepoMock) UpdateCartItem(_ context.Context, _, _ int64, _ int32) (*domain.CartItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.item, nil
}

func (m CartRepoMock) RemoveCartItem(_ context.Context, _, _ int64) error {
	return m.err
}

func withProductID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCart_Success(t *testing.T) {
	mock := CartRepoMock{views: []domain.CartView{
		{ProductID: 1, Quantity: 2, Name: "Yamaha P-145", Price: decimal.RequireFromString("20.00")},
	}}
	handler := NewCartHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/cart", nil))

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []domain.CartView
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("expected 1 item, got %d", len(response))
	}
	if response[0].Name != "Yamaha P-145" {
		t.Errorf("expected name 'Yamaha P-145', got '%s'", response[0].Name)
	}
}

func TestGetCart_EmptyIsArray(t *testing.T) {
	handler := NewCartHandler(CartRepoMock{views: []domain.CartView{}}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("GET", "/api/v1/cart", nil))

	handler.GetCart(recorder, request)

	// Must be a JSON array, not null
	body := strings.TrimSpace(recorder.Body.String())
	if body != "[]" {
		t.Errorf("expected '[]', got '%s'", body)
	}
}

func TestAddItem_Created(t *testing.T) {
	mock := CartRepoMock{item: &domain.CartItem{UserID: 1, ProductID: 3, Quantity: 2}}
	handler := NewCartHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"product_id": 3, "quantity": 2}`)
	request := withUser(httptest.NewRequest("POST", "/api/v1/cart", body))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, recorder.Code)
	}
}

func TestAddItem_RejectsBadQuantity(t *testing.T) {
	handler := NewCartHandler(CartRepoMock{}, 5*time.Second)

	for _, payload := range []string{
		`{"product_id": 3, "quantity": 0}`,
		`{"product_id": 3, "quantity": -1}`,
		`{"product_id": 3, "quantity": 100}`,
		`{"product_id": 0, "quantity": 1}`,
	} {
		recorder := httptest.NewRecorder()
		request := withUser(httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(payload)))

		handler.AddItem(recorder, request)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("payload %s: expected %d, got %d", payload, http.StatusBadRequest, recorder.Code)
		}
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	handler := NewCartHandler(CartRepoMock{err: repository.ErrCartItemNotFound}, 5*time.Second)

	recorder := httptest.NewRecorder()
	body := strings.NewReader(`{"quantity": 2}`)
	request := withUser(withProductID(httptest.NewRequest("PUT", "/api/v1/cart/3", body), "3"))

	handler.UpdateItem(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestRemoveItem_Success(t *testing.T) {
	handler := NewCartHandler(CartRepoMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(withProductID(httptest.NewRequest("DELETE", "/api/v1/cart/3", nil), "3"))

	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}
}
