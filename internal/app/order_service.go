package app

import (
	"context"

	"github.com/Profanor/micro-commerce-app/internal/clock"
	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// GetProductForUpdate loads a product row and locks it for the
	// duration of the surrounding transaction.
	GetProductForUpdate(ctx context.Context, productID int64) (domain.Product, error)
	DecrementInventory(ctx context.Context, productID int64, quantity int) error
	// CreateOrder persists the order and its lines as one unit and
	// fills in the generated identities.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderForUpdate(ctx context.Context, orderID int64) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

// OrderService is the order placement engine. It holds no state of its
// own; every call runs as one transaction against the repository, so it
// is safe to use from any number of goroutines.
type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
	}
}

type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

type PlaceOrderInput struct {
	UserID int64
	Items  []OrderItemInput
}

// PlaceOrder converts the requested items into a durable order. All
// stock checks, inventory decrements and row inserts happen inside a
// single transaction with the touched product rows locked, so two
// placements racing for the last units cannot both succeed.
//
// Items are processed strictly in input order and repeated product ids
// are not merged: each occurrence checks and consumes stock on its own,
// seeing whatever the earlier occurrences left. Placement is not
// idempotent; calling it twice creates two orders and decrements stock
// twice.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	now := s.clock.Now()
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		// Each product row is read and locked once, on first touch.
		// remaining tracks stock consumed by earlier lines of this
		// request so that a repeated product id fails as soon as the
		// running balance is exhausted.
		products := make(map[int64]domain.Product, len(in.Items))
		remaining := make(map[int64]int, len(in.Items))
		locked := make([]int64, 0, len(in.Items))

		lines := make([]domain.OrderLine, 0, len(in.Items))
		total := decimal.Zero

		for _, item := range in.Items {
			product, seen := products[item.ProductID]
			if !seen {
				var err error
				product, err = s.repo.GetProductForUpdate(txCtx, item.ProductID)
				if err != nil {
					return err
				}
				products[item.ProductID] = product
				remaining[item.ProductID] = product.Inventory
				locked = append(locked, item.ProductID)
			}

			if remaining[item.ProductID] < item.Quantity {
				return domain.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: remaining[item.ProductID],
				}
			}
			remaining[item.ProductID] -= item.Quantity

			// The price read above is the one frozen on the line and
			// summed into the total; it is never re-read.
			lines = append(lines, domain.OrderLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// Every line validated; now apply the decrements.
		for _, productID := range locked {
			consumed := products[productID].Inventory - remaining[productID]
			if consumed == 0 {
				continue
			}
			if err := s.repo.DecrementInventory(txCtx, productID, consumed); err != nil {
				return err
			}
		}

		order := domain.Order{
			UserID:    in.UserID,
			Total:     total,
			Status:    domain.OrderStatusCreated,
			CreatedAt: now,
			Lines:     lines,
		}
		if err := s.repo.CreateOrder(txCtx, &order); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return result, nil
}

// MarkOrderPaid records the payment collaborator's status transition.
func (s *OrderService) MarkOrderPaid(ctx context.Context, orderID int64) (domain.Order, error) {
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusPaid {
			return domain.ErrOrderAlreadyPaid
		}

		if err := s.repo.UpdateOrderStatus(txCtx, orderID, domain.OrderStatusPaid); err != nil {
			return err
		}

		order.Status = domain.OrderStatusPaid
		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return result, nil
}
