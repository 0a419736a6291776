package app

import (
	"context"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderQueryRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	SumOrderTotals(ctx context.Context) (decimal.Decimal, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderQueryService answers read-only questions about committed orders.
type OrderQueryService struct {
	repo OrderQueryRepository
}

func NewOrderQueryService(repo OrderQueryRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

func (s *OrderQueryService) CountOrders(ctx context.Context) (int64, error) {
	return s.repo.CountOrders(ctx)
}

// TotalRevenue sums every order's total regardless of status. Zero when
// no orders exist.
func (s *OrderQueryService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.SumOrderTotals(ctx)
}

// OrdersForUser returns the user's orders with lines and the referenced
// products attached.
func (s *OrderQueryService) OrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

// AllOrders is the unfiltered variant for administrative consumers.
func (s *OrderQueryService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAllOrders(ctx)
}
