package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Products are never physically deleted;
// the Deleted flag hides them from listings while historical order
// lines keep referencing them.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       decimal.Decimal
	Inventory   int
	Image       string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
