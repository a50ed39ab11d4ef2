package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"shoppingCart/internal/testutil"
	"shoppingCart/models"
)

func TestOrderRepository_CreateFromCart(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 3)
	userID := testutil.SeedUser(t, d, "buyer@example.com")
	carts := NewCartRepository(d)
	orders := NewOrderRepository(d)
	ctx := context.Background()

	if err := carts.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add 1: %v", err)
	}
	if err := carts.Add(ctx, 3, 1); err != nil {
		t.Fatalf("add 3: %v", err)
	}

	o := &models.Order{ID: uuid.NewString(), UserID: userID}
	created, err := orders.CreateFromCart(ctx, o, &models.OrderPayment{Method: models.PaymentCash})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.OrderStatusPending {
		t.Fatalf("status = %s", created.Status)
	}
	if len(created.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(created.Items))
	}
	// 2 * 1.5 + 1 * 4.5
	if created.Total.String() != "7.5" {
		t.Fatalf("total = %s, want 7.5", created.Total)
	}
	if created.Payment == nil || created.Payment.Method != models.PaymentCash || !created.Payment.Amount.Equal(created.Total) {
		t.Fatalf("payment mismatch: %+v", created.Payment)
	}
	if n, _ := carts.Count(ctx); n != 0 {
		t.Fatalf("cart not cleared: %d", n)
	}

	_, err = orders.CreateFromCart(ctx, &models.Order{ID: uuid.NewString(), UserID: userID}, &models.OrderPayment{Method: models.PaymentCash})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderRepository_FailedCheckoutLeavesCart(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 1)
	carts := NewCartRepository(d)
	orders := NewOrderRepository(d)
	ctx := context.Background()

	if err := carts.Add(ctx, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Unknown user violates the foreign key, so nothing may be committed.
	_, err := orders.CreateFromCart(ctx, &models.Order{ID: uuid.NewString(), UserID: 4242}, &models.OrderPayment{Method: models.PaymentCash})
	if err == nil {
		t.Fatalf("expected foreign key failure")
	}
	if n, _ := carts.Count(ctx); n != 1 {
		t.Fatalf("cart should be untouched, count=%d", n)
	}
}

func TestOrderRepository_StatusAndPaging(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 1)
	userID := testutil.SeedUser(t, d, "pager@example.com")
	carts := NewCartRepository(d)
	orders := NewOrderRepository(d)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		if err := carts.Add(ctx, 1, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
		o, err := orders.CreateFromCart(ctx, &models.Order{ID: uuid.NewString(), UserID: userID}, &models.OrderPayment{Method: models.PaymentCash})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, o.ID)
	}

	var seen []string
	var cur OrderCursor
	for page := 0; page < 10; page++ {
		list, next, err := orders.ListByUserIDPage(ctx, userID, 2, cur)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		for _, o := range list {
			seen = append(seen, o.ID)
		}
		if next.Seq == 0 {
			break
		}
		cur = next
	}
	if len(seen) != 5 {
		t.Fatalf("paged %d orders, want 5 (%v)", len(seen), seen)
	}
	for i := range seen {
		if seen[i] != ids[len(ids)-1-i] {
			t.Fatalf("page order mismatch at %d: got %v want reverse of %v", i, seen, ids)
		}
	}

	ok, err := orders.CompareAndSetStatus(ctx, ids[0], models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil || !ok {
		t.Fatalf("cas pending->cancelled: %v %v", ok, err)
	}
	ok, err = orders.CompareAndSetStatus(ctx, ids[0], models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil || ok {
		t.Fatalf("second cas should not apply: %v %v", ok, err)
	}
	ok, err = orders.CompareAndSetStatus(ctx, "missing", models.OrderStatusPending, models.OrderStatusShipped)
	if err != nil || ok {
		t.Fatalf("cas on missing order: %v %v", ok, err)
	}
}
