package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Profanor/micro-commerce-app/internal/app"
	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const userIDHeader = "X-User-ID"

// OrderPlacer is the minimal interface needed to place an order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in app.PlaceOrderInput) (domain.Order, error)
}

// OrderPayer marks an order paid on behalf of the payment collaborator.
type OrderPayer interface {
	MarkOrderPaid(ctx context.Context, orderID int64) (domain.Order, error)
}

// OrderReader serves the read-only aggregate queries.
type OrderReader interface {
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	OrdersForUser(ctx context.Context, userID int64) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderCreatedNotifier receives successfully placed orders, e.g. the
// Kafka publisher. May be nil when eventing is disabled.
type OrderCreatedNotifier interface {
	OrderCreated(ctx context.Context, order domain.Order)
}

type placeOrderRequest struct {
	UserID int64                 `json:"user_id"`
	Items  []placeOrderLineInput `json:"items"`
}

type placeOrderLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// HandlePlaceOrder returns the handler for POST /orders.
func HandlePlaceOrder(svc OrderPlacer, notifier OrderCreatedNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidUserID, "user_id is required")
			return
		}

		items := make([]app.OrderItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, app.OrderItemInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}

		order, err := svc.PlaceOrder(r.Context(), app.PlaceOrderInput{
			UserID: req.UserID,
			Items:  items,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if notifier != nil {
			notifier.OrderCreated(r.Context(), order)
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(order))
	}
}

// HandleMyOrders returns the handler for GET /orders/my. The caller's
// identity arrives pre-resolved in the X-User-ID header.
func HandleMyOrders(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidUserID, "missing or invalid "+userIDHeader+" header")
			return
		}

		orders, err := svc.OrdersForUser(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderListResponse(orders))
	}
}

// HandleAllOrders returns the handler for GET /orders/all.
func HandleAllOrders(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.AllOrders(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderListResponse(orders))
	}
}

// HandleOrderCount returns the handler for GET /orders/count.
func HandleOrderCount(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.CountOrders(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"count": count})
	}
}

// HandleOrderRevenue returns the handler for GET /orders/revenue.
func HandleOrderRevenue(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		revenue, err := svc.TotalRevenue(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"revenue": revenue})
	}
}

// HandleMarkOrderPaid returns the handler for POST /orders/{id}/pay.
func HandleMarkOrderPaid(svc OrderPayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || orderID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, "invalid order id")
			return
		}

		order, err := svc.MarkOrderPaid(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

type orderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []orderLineResponse `json:"items"`
}

type orderLineResponse struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Product   *productResponse `json:"product,omitempty"`
}

func newOrderResponse(order domain.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		item := orderLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
		if line.Product != nil {
			p := newProductResponse(*line.Product)
			item.Product = &p
		}
		items = append(items, item)
	}
	return orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		Items:     items,
	}
}

func newOrderListResponse(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
