package app

import (
	"context"

	"github.com/Profanor/micro-commerce-app/internal/clock"
	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	// SoftDeleteProduct flags the product as deleted; the row stays for
	// historical order lines.
	SoftDeleteProduct(ctx context.Context, productID int64) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductService is the product-management collaborator: plain CRUD
// plus the soft-delete flag. Inventory decrements during placement
// belong to OrderService, not here.
type ProductService struct {
	repo  ProductRepository
	clock clock.Clock
}

func NewProductService(repo ProductRepository, clk clock.Clock) *ProductService {
	return &ProductService{
		repo:  repo,
		clock: clk,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Inventory   int
	Image       string
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if in.Title == "" {
		return domain.Product{}, domain.ErrTitleRequired
	}
	if in.Price.IsNegative() {
		return domain.Product{}, domain.ErrNegativePrice
	}
	if in.Inventory < 0 {
		return domain.Product{}, domain.ErrNegativeInventory
	}

	now := s.clock.Now()
	product := domain.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Inventory:   in.Inventory,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	return s.repo.GetProduct(ctx, productID)
}

type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Inventory   *int
	Image       *string
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return domain.Product{}, domain.ErrTitleRequired
		}
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return domain.Product{}, domain.ErrNegativePrice
		}
		product.Price = *in.Price
	}
	if in.Inventory != nil {
		if *in.Inventory < 0 {
			return domain.Product{}, domain.ErrNegativeInventory
		}
		product.Inventory = *in.Inventory
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID int64) error {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.repo.SoftDeleteProduct(ctx, productID)
}

// ListProducts returns products visible in listings, i.e. not
// soft-deleted.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}
