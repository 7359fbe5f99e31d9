package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
)

func (r *Repository) GetCartItems(ctx context.Context, userID int64) ([]domain.CartView, error) {
	const query = `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.image_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.product_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartView, 0)
	for rows.Next() {
		var item domain.CartView
		if e2 := rows.Scan(&item.ProductID, &item.Quantity, &item.Name, &item.Price, &item.ImageURL); e2 != nil {
			return nil, fmt.Errorf("scan cart item: %w", e2)
		}
		items = append(items, item)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}

	return items, nil
}

// AddCartItem upserts: a second add of the same product increments the
// existing quantity instead of creating a duplicate row.
func (r *Repository) AddCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error) {
	const query = `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING user_id, product_id, quantity, updated_at`

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, userID, productID, quantity).Scan(
		&item.UserID, &item.ProductID, &item.Quantity, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &item, nil
}

func (r *Repository) UpdateCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error) {
	const query = `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
		RETURNING user_id, product_id, quantity, updated_at`

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, query, quantity, userID, productID).Scan(
		&item.UserID, &item.ProductID, &item.Quantity, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return &item, nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, userID, productID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
