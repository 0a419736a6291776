package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAlreadyPaid  = errors.New("order already paid")
	ErrTitleRequired     = errors.New("product title required")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrNegativeInventory = errors.New("inventory cannot be negative")
	ErrInvalidID         = errors.New("invalid id")
)

// ProductNotFoundError identifies which requested product is unknown.
// Matches ErrProductNotFound under errors.Is.
type ProductNotFoundError struct {
	ProductID int64
}

func (e ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InsufficientStockError carries the requested vs. available counts for
// the line that failed validation. Available reflects inventory as left
// by earlier lines of the same request when a product id is repeated.
// Matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// TransactionFailedError wraps a storage-level conflict or timeout. The
// whole placement rolled back, so the caller may retry from scratch.
type TransactionFailedError struct {
	Err error
}

func (e *TransactionFailedError) Error() string {
	return "transaction failed: " + e.Err.Error()
}

func (e *TransactionFailedError) Unwrap() error {
	return e.Err
}
