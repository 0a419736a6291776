package postgres

import (
	"context"
	"fmt"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	const stmt = `
INSERT INTO products (title, description, price, inventory, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	err := r.pool.QueryRow(ctx, stmt,
		product.Title,
		product.Description,
		product.Price,
		product.Inventory,
		product.Image,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetProduct loads a product by id, soft-deleted ones included.
func (r *ProductRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	const query = `
SELECT id, title, description, price, inventory, image, deleted, created_at, updated_at
FROM products
WHERE id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Inventory, &p.Image, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ProductNotFoundError{ProductID: productID}
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	const stmt = `
UPDATE products
SET title = $2, description = $3, price = $4, inventory = $5, image = $6, updated_at = $7
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Inventory,
		product.Image,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ProductNotFoundError{ProductID: product.ID}
	}
	return nil
}

func (r *ProductRepository) SoftDeleteProduct(ctx context.Context, productID int64) error {
	const stmt = `UPDATE products SET deleted = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, productID)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ProductNotFoundError{ProductID: productID}
	}
	return nil
}

// ListProducts returns non-deleted products in creation order.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const query = `
SELECT id, title, description, price, inventory, image, deleted, created_at, updated_at
FROM products
WHERE deleted = FALSE
ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Inventory, &p.Image, &p.Deleted, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate products: %w", rows.Err())
	}
	return products, nil
}
