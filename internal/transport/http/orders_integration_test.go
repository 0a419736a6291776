package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Profanor/micro-commerce-app/internal/app"
	"github.com/Profanor/micro-commerce-app/internal/clock"
	"github.com/Profanor/micro-commerce-app/internal/storage/postgres"
	"github.com/Profanor/micro-commerce-app/internal/testutil"
	"go.uber.org/zap"
)

func newIntegrationRouter(t *testing.T) (http.Handler, func(ctx context.Context, title, price string, inventory int) int64) {
	t.Helper()

	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	router := NewRouter(RouterDeps{
		Orders:   app.NewOrderService(postgres.NewOrderRepository(pool), clock.NewSystem()),
		Queries:  app.NewOrderQueryService(postgres.NewOrderQueryRepository(pool)),
		Products: app.NewProductService(postgres.NewProductRepository(pool), clock.NewSystem()),
		Logger:   zap.NewNop(),
	})

	insert := func(ctx context.Context, title, price string, inventory int) int64 {
		return testutil.InsertProduct(t, ctx, pool, title, price, inventory)
	}
	return router, insert
}

func TestOrderflowEndToEnd(t *testing.T) {
	router, insertProduct := newIntegrationRouter(t)
	ctx := context.Background()

	keyboardID := insertProduct(ctx, "Keyboard", "25.99", 50)
	monitorID := insertProduct(ctx, "Monitor", "79.99", 30)

	place := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	get := func(t *testing.T, target string, header map[string]string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for k, v := range header {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("successful order freezes prices and decrements stock", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"user_id":7,"items":[{"product_id":%d,"quantity":2},{"product_id":%d,"quantity":1}]}`,
			keyboardID, monitorID,
		)
		rec := place(t, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}

		var resp struct {
			ID     int64  `json:"id"`
			UserID int64  `json:"user_id"`
			Total  string `json:"total"`
			Status string `json:"status"`
			Items  []struct {
				ProductID int64  `json:"product_id"`
				Quantity  int    `json:"quantity"`
				Price     string `json:"price"`
			} `json:"items"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Total != "131.97" {
			t.Fatalf("expected total 131.97, got %s", resp.Total)
		}
		if resp.Status != "created" {
			t.Fatalf("expected status created, got %s", resp.Status)
		}
		if len(resp.Items) != 2 || resp.Items[0].Price != "25.99" || resp.Items[1].Price != "79.99" {
			t.Fatalf("unexpected items: %+v", resp.Items)
		}

		for _, tc := range []struct {
			id        int64
			inventory int
		}{
			{keyboardID, 48},
			{monitorID, 29},
		} {
			rec := get(t, "/products/"+strconv.FormatInt(tc.id, 10), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), fmt.Sprintf(`"inventory":%d`, tc.inventory)) {
				t.Fatalf("expected inventory %d for product %d, got %s", tc.inventory, tc.id, rec.Body.String())
			}
		}
	})

	t.Run("oversized order rejected with stock details", func(t *testing.T) {
		body := fmt.Sprintf(`{"user_id":7,"items":[{"product_id":%d,"quantity":9999}]}`, keyboardID)
		rec := place(t, body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
		}
		for _, want := range []string{`"requested":9999`, `"available":48`} {
			if !strings.Contains(rec.Body.String(), want) {
				t.Fatalf("expected response to contain %q, got %q", want, rec.Body.String())
			}
		}

		rec = get(t, "/products/"+strconv.FormatInt(keyboardID, 10), nil)
		if !strings.Contains(rec.Body.String(), `"inventory":48`) {
			t.Fatalf("expected inventory untouched at 48, got %s", rec.Body.String())
		}
	})

	t.Run("aggregates reflect placed orders", func(t *testing.T) {
		rec := get(t, "/orders/count", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"count":1`) {
			t.Fatalf("unexpected count response: %d %s", rec.Code, rec.Body.String())
		}

		rec = get(t, "/orders/revenue", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"revenue":"131.97"`) {
			t.Fatalf("unexpected revenue response: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("my orders filtered by header identity", func(t *testing.T) {
		rec := get(t, "/orders/my", map[string]string{userIDHeader: "7"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"total":"131.97"`) {
			t.Fatalf("expected the user's order, got %s", rec.Body.String())
		}

		rec = get(t, "/orders/my", map[string]string{userIDHeader: "8"})
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("expected empty list for other user, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("pay transitions the order once", func(t *testing.T) {
		rec := get(t, "/orders/all", nil)
		var orders []struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil || len(orders) != 1 {
			t.Fatalf("expected one order, got %s (%v)", rec.Body.String(), err)
		}

		target := fmt.Sprintf("/orders/%d/pay", orders[0].ID)
		req := httptest.NewRequest(http.MethodPost, target, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"paid"`) {
			t.Fatalf("unexpected pay response: %d %s", rec.Code, rec.Body.String())
		}

		req = httptest.NewRequest(http.MethodPost, target, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 on second pay, got %d", rec.Code)
		}
	})
}
