package postgres

import (
	"context"
	"fmt"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetProductForUpdate locks the product row until the transaction ends.
// Soft-deleted products are still returned; deletion only hides them
// from listings.
func (r *OrderRepository) GetProductForUpdate(ctx context.Context, productID int64) (domain.Product, error) {
	const query = `
SELECT id, title, description, price, inventory, image, deleted, created_at, updated_at
FROM products
WHERE id = $1
FOR UPDATE`

	var p domain.Product
	err := r.queryRow(ctx, query, productID).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Inventory, &p.Image, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ProductNotFoundError{ProductID: productID}
		}
		return domain.Product{}, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// DecrementInventory subtracts quantity from the product's stock. The
// inventory >= quantity guard restates the non-negative invariant at
// the SQL level; with the row locked it cannot fire after a successful
// validation pass.
func (r *OrderRepository) DecrementInventory(ctx context.Context, productID int64, quantity int) error {
	const stmt = `
UPDATE products
SET inventory = inventory - $2, updated_at = NOW()
WHERE id = $1 AND inventory >= $2`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decrement inventory for product %d: %w", productID, domain.ErrInsufficientStock)
	}
	return nil
}

// CreateOrder inserts the order row and one row per line, preserving
// line input order, and fills the generated ids back into order.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	const orderStmt = `
INSERT INTO orders (user_id, total, status, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`

	err := r.queryRow(ctx, orderStmt, order.UserID, order.Total, order.Status, order.CreatedAt).
		Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	const lineStmt = `
INSERT INTO order_items (order_id, product_id, quantity, price)
VALUES ($1, $2, $3, $4)
RETURNING id`

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		err := r.queryRow(ctx, lineStmt, line.OrderID, line.ProductID, line.Quantity, line.Price).
			Scan(&line.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID int64) (domain.Order, error) {
	const query = `
SELECT id, user_id, total, status, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	var o domain.Order
	var status string
	err := r.queryRow(ctx, query, orderID).Scan(&o.ID, &o.UserID, &o.Total, &status, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order for update: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	const stmt = `UPDATE orders SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
