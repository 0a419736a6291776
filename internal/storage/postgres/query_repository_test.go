package postgres

import (
	"context"
	"testing"

	"github.com/Profanor/micro-commerce-app/internal/app"
	"github.com/Profanor/micro-commerce-app/internal/clock"
	"github.com/Profanor/micro-commerce-app/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestOrderQueryRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderQueryRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("count and revenue are zero without orders", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		count, err := repo.CountOrders(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 0 {
			t.Fatalf("expected 0 orders, got %d", count)
		}

		sum, err := repo.SumOrderTotals(ctx)
		if err != nil {
			t.Fatalf("sum: %v", err)
		}
		if !sum.Equal(decimal.Zero) {
			t.Fatalf("expected revenue 0, got %s", sum)
		}
	})

	t.Run("aggregates reflect placed orders", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		mouseID := testutil.InsertProduct(t, ctx, pool, "Wireless Mouse", "25.99", 50)
		keyboardID := testutil.InsertProduct(t, ctx, pool, "Mechanical Keyboard", "79.99", 30)

		svc := app.NewOrderService(NewOrderRepository(pool), clock.NewSystem())
		if _, err := svc.PlaceOrder(ctx, app.PlaceOrderInput{
			UserID: 7,
			Items: []app.OrderItemInput{
				{ProductID: mouseID, Quantity: 2},
				{ProductID: keyboardID, Quantity: 1},
			},
		}); err != nil {
			t.Fatalf("place order: %v", err)
		}

		count, err := repo.CountOrders(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 order, got %d", count)
		}

		sum, err := repo.SumOrderTotals(ctx)
		if err != nil {
			t.Fatalf("sum: %v", err)
		}
		if !sum.Equal(mustDec(t, "131.97")) {
			t.Fatalf("expected revenue 131.97, got %s", sum)
		}
	})

	t.Run("listed orders include lines and products", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		mouseID := testutil.InsertProduct(t, ctx, pool, "Wireless Mouse", "25.99", 50)
		keyboardID := testutil.InsertProduct(t, ctx, pool, "Mechanical Keyboard", "79.99", 30)

		svc := app.NewOrderService(NewOrderRepository(pool), clock.NewSystem())
		if _, err := svc.PlaceOrder(ctx, app.PlaceOrderInput{
			UserID: 7,
			Items: []app.OrderItemInput{
				{ProductID: mouseID, Quantity: 2},
				{ProductID: keyboardID, Quantity: 1},
			},
		}); err != nil {
			t.Fatalf("place order for user 7: %v", err)
		}
		if _, err := svc.PlaceOrder(ctx, app.PlaceOrderInput{
			UserID: 8,
			Items:  []app.OrderItemInput{{ProductID: mouseID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("place order for user 8: %v", err)
		}

		orders, err := repo.ListOrdersByUser(ctx, 7)
		if err != nil {
			t.Fatalf("list by user: %v", err)
		}
		if len(orders) != 1 {
			t.Fatalf("expected 1 order for user 7, got %d", len(orders))
		}
		order := orders[0]
		if len(order.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(order.Lines))
		}
		if order.Lines[0].ProductID != mouseID || order.Lines[1].ProductID != keyboardID {
			t.Fatalf("expected lines in placement order, got %+v", order.Lines)
		}
		if order.Lines[0].Product == nil || order.Lines[0].Product.Title != "Wireless Mouse" {
			t.Fatalf("expected product attached to line, got %+v", order.Lines[0].Product)
		}

		all, err := repo.ListAllOrders(ctx)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(all))
		}

		// Every listed order's total must be recomputable from its
		// frozen line prices.
		for _, o := range all {
			sum := decimal.Zero
			for _, line := range o.Lines {
				sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
			if !o.Total.Equal(sum) {
				t.Fatalf("order %d total %s does not match line sum %s", o.ID, o.Total, sum)
			}
		}
	})

	t.Run("lines keep frozen prices after product price change", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		mouseID := testutil.InsertProduct(t, ctx, pool, "Wireless Mouse", "25.99", 50)

		svc := app.NewOrderService(NewOrderRepository(pool), clock.NewSystem())
		if _, err := svc.PlaceOrder(ctx, app.PlaceOrderInput{
			UserID: 7,
			Items:  []app.OrderItemInput{{ProductID: mouseID, Quantity: 2}},
		}); err != nil {
			t.Fatalf("place order: %v", err)
		}

		if _, err := pool.Exec(ctx, `UPDATE products SET price = 99.99 WHERE id = $1`, mouseID); err != nil {
			t.Fatalf("reprice product: %v", err)
		}

		orders, err := repo.ListOrdersByUser(ctx, 7)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(orders))
		}
		line := orders[0].Lines[0]
		if !line.Price.Equal(mustDec(t, "25.99")) {
			t.Fatalf("expected frozen line price 25.99, got %s", line.Price)
		}
		if !line.Product.Price.Equal(mustDec(t, "99.99")) {
			t.Fatalf("expected current product price 99.99, got %s", line.Product.Price)
		}
		if !orders[0].Total.Equal(mustDec(t, "51.98")) {
			t.Fatalf("expected total 51.98, got %s", orders[0].Total)
		}
	})
}
