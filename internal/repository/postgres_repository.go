package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tima-2025/updated-clef-music-backend/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// PlaceOrder converts the user's cart into an order as one transaction:
// lock product rows, validate stock, freeze prices, write the order and its
// items, decrement stock, clear the cart. Any failure rolls the whole thing
// back, so no partial state is ever visible.
func (r *Repository) PlaceOrder(ctx context.Context, userID, shippingAddressID int64) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapTxError("begin placement transaction", err)
	}
	defer tx.Rollback()

	// Locks are acquired in ascending product id order. Two checkouts that
	// share products therefore always take the shared locks in the same
	// sequence and cannot deadlock each other.
	const lockQuery = `
		SELECT ci.product_id, ci.quantity, p.price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.product_id
		FOR UPDATE OF p`

	rows, err := tx.QueryContext(ctx, lockQuery, userID)
	if err != nil {
		return nil, mapTxError("lock cart products", err)
	}

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if e2 := rows.Scan(&line.ProductID, &line.Quantity, &line.Price, &line.Stock); e2 != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", e2)
		}
		lines = append(lines, line)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, mapTxError("read cart lines", e2)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity > line.Stock {
			return nil, &InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.Stock,
			}
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &domain.Order{
		ID:                uuid.New(),
		UserID:            userID,
		TotalAmount:       total,
		ShippingAddressID: shippingAddressID,
		Status:            domain.OrderStatusCreated,
	}

	const insertOrder = `
		INSERT INTO orders (id, user_id, total_amount, shipping_address_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	err = tx.QueryRowContext(ctx, insertOrder,
		order.ID, order.UserID, order.TotalAmount, order.ShippingAddressID, order.Status,
	).Scan(&order.CreatedAt)
	if err != nil {
		return nil, mapTxError("insert order", err)
	}

	productIDs := make([]int64, len(lines))
	quantities := make([]int64, len(lines))
	prices := make([]string, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
		quantities[i] = int64(line.Quantity)
		prices[i] = line.Price.String()
	}

	const insertItems = `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		SELECT $1, unnest($2::bigint[]), unnest($3::int[]), unnest($4::numeric[])`
	if _, e2 := tx.ExecContext(ctx, insertItems,
		order.ID, pq.Array(productIDs), pq.Array(quantities), pq.Array(prices)); e2 != nil {
		return nil, mapTxError("insert order items", e2)
	}

	const decrementStock = `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2`
	for _, line := range lines {
		if _, e2 := tx.ExecContext(ctx, decrementStock, line.Quantity, line.ProductID); e2 != nil {
			return nil, mapTxError("decrement stock", e2)
		}
	}

	if _, e2 := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); e2 != nil {
		return nil, mapTxError("clear cart", e2)
	}

	if e2 := tx.Commit(); e2 != nil {
		return nil, mapTxError("commit placement", e2)
	}

	order.Items = make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		order.Items[i] = domain.OrderItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Price,
		}
	}
	return order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Order, int64, error) {
	const query = `
		SELECT id, user_id, total_amount, shipping_address_id, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, limit)
	for rows.Next() {
		var order domain.Order
		if e2 := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.ShippingAddressID,
			&order.Status,
			&order.CreatedAt,
		); e2 != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", e2)
		}
		orders = append(orders, &order)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", e2)
	}

	// Total is the full count for the user, independent of the page window.
	var total int64
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders by user id: %w", err)
	}

	return orders, total, nil
}

// GetOrderWithItems scopes the lookup to the owning user. A missing order and
// another user's order are indistinguishable to the caller.
func (r *Repository) GetOrderWithItems(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error) {
	const orderQuery = `
		SELECT id, user_id, total_amount, shipping_address_id, status, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, orderQuery, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.ShippingAddressID,
		&order.Status,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	const itemsQuery = `
		SELECT oi.product_id, oi.quantity, oi.price_at_purchase, p.name, p.image_url
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1`

	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if e2 := rows.Scan(&item.ProductID, &item.Quantity, &item.PriceAtPurchase, &item.ProductName, &item.ImageURL); e2 != nil {
			return nil, fmt.Errorf("scan order item: %w", e2)
		}
		order.Items = append(order.Items, item)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, fmt.Errorf("row iteration error: %w", e2)
	}

	return &order, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// mapTxError folds retryable engine failures (serialization, deadlock, lock
// timeout) into ErrTxConflict; everything else stays a persistence error.
func mapTxError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%s: %w", op, ErrTxConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
