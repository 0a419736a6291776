package postgres

import (
	"context"
	"fmt"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderQueryRepository serves the read-only aggregate queries. It never
// mutates and reads only committed rows, so it needs no transaction
// plumbing.
type OrderQueryRepository struct {
	pool *pgxpool.Pool
}

func NewOrderQueryRepository(pool *pgxpool.Pool) *OrderQueryRepository {
	return &OrderQueryRepository{pool: pool}
}

func (r *OrderQueryRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (r *OrderQueryRepository) SumOrderTotals(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders`).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order totals: %w", err)
	}
	return sum, nil
}

func (r *OrderQueryRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const query = `
SELECT id, user_id, total, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

	orders, err := r.listOrders(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return r.attachLines(ctx, orders)
}

func (r *OrderQueryRepository) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	const query = `
SELECT id, user_id, total, status, created_at
FROM orders
ORDER BY created_at DESC, id DESC`

	orders, err := r.listOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.attachLines(ctx, orders)
}

func (r *OrderQueryRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return orders, nil
}

// attachLines loads the lines of all listed orders in one query, with
// the referenced product joined in for display. Lines come back in
// insertion order per order.
func (r *OrderQueryRepository) attachLines(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	const query = `
SELECT
	l.id, l.order_id, l.product_id, l.quantity, l.price,
	p.id, p.title, p.description, p.price, p.inventory, p.image, p.deleted, p.created_at, p.updated_at
FROM order_items l
JOIN products p ON p.id = l.product_id
WHERE l.order_id = ANY($1)
ORDER BY l.order_id, l.id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		var product domain.Product
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.Price,
			&product.ID, &product.Title, &product.Description, &product.Price, &product.Inventory,
			&product.Image, &product.Deleted, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		line.Product = &product

		i, ok := index[line.OrderID]
		if !ok {
			continue
		}
		orders[i].Lines = append(orders[i].Lines, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate order lines: %w", rows.Err())
	}
	return orders, nil
}
