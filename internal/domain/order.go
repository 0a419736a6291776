package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order is a placed purchase. Immutable after creation except for the
// status transition performed by the payment collaborator.
type Order struct {
	ID        int64
	UserID    int64
	Total     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
	Lines     []OrderLine
}

// OrderLine belongs to exactly one order. Price is the unit price
// frozen at order-creation time; it is never re-derived from the
// product's current price.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	// Product is populated by read queries for display; nil on the
	// order returned from placement.
	Product *Product
}
