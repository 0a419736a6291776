package events

import (
	"encoding/json"
	"time"

	"github.com/Profanor/micro-commerce-app/internal/domain"
)

const EventOrderCreated = "OrderCreated"

// Envelope is the wire frame shared by every event on the orders topic.
type Envelope struct {
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderLinePayload struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID int64              `json:"order_id"`
	UserID  int64              `json:"user_id"`
	Total   string             `json:"total"`
	Lines   []OrderLinePayload `json:"lines"`
}

func newOrderCreatedPayload(order domain.Order) OrderCreatedPayload {
	lines := make([]OrderLinePayload, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLinePayload{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price.String(),
		})
	}
	return OrderCreatedPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total.String(),
		Lines:   lines,
	}
}
