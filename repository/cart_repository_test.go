package repository

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"shoppingCart/internal/testutil"
)

func TestCartRepository_ToggleParity(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 1)
	repo := NewCartRepository(d)
	ctx := context.Background()

	for n := 1; n <= 6; n++ {
		present, err := repo.Toggle(ctx, 1)
		if err != nil {
			t.Fatalf("toggle %d: %v", n, err)
		}
		if want := n%2 == 1; present != want {
			t.Fatalf("after %d toggles present=%v want %v", n, present, want)
		}
		it, err := repo.Get(ctx, 1)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if (it != nil) != present {
			t.Fatalf("row state %v disagrees with toggle result %v", it, present)
		}
		if it != nil && it.Quantity != 1 {
			t.Fatalf("toggle-in quantity = %d, want 1", it.Quantity)
		}
	}
}

func TestCartRepository_ConcurrentTogglesStayConsistent(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 1)
	repo := NewCartRepository(d)

	const n = 21
	var mu sync.Mutex
	var ins int
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			present, err := repo.Toggle(ctx, 1)
			if err != nil {
				return err
			}
			if present {
				mu.Lock()
				ins++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent toggles: %v", err)
	}
	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	// Odd number of toggles from absent leaves the product in the cart.
	if count != 1 {
		t.Fatalf("count = %d after %d toggles, want 1", count, n)
	}
	if ins != (n+1)/2 {
		t.Fatalf("inserts = %d, want %d", ins, (n+1)/2)
	}
}

func TestCartRepository_QuantityTransitions(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 3)
	repo := NewCartRepository(d)
	ctx := context.Background()

	if err := repo.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, 1, 3); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if it, _ := repo.Get(ctx, 1); it == nil || it.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", it)
	}
	if err := repo.Add(ctx, 1, 0); err == nil {
		t.Fatalf("expected error for zero add")
	}

	if err := repo.SetQuantity(ctx, 2, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	left, err := repo.Decrement(ctx, 2)
	if err != nil || left != 0 {
		t.Fatalf("decrement to zero: left=%d err=%v", left, err)
	}
	if it, _ := repo.Get(ctx, 2); it != nil {
		t.Fatalf("row should be removed at zero, got %+v", it)
	}
	if left, err := repo.Decrement(ctx, 2); err != nil || left != 0 {
		t.Fatalf("decrement absent: left=%d err=%v", left, err)
	}

	if err := repo.SetQuantity(ctx, 1, 0); err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if it, _ := repo.Get(ctx, 1); it != nil {
		t.Fatalf("set zero should remove row")
	}

	if err := repo.Add(ctx, 3, 2); err != nil {
		t.Fatalf("add 3: %v", err)
	}
	lines, err := repo.Lines(ctx)
	if err != nil || len(lines) != 1 {
		t.Fatalf("lines: %v %+v", err, lines)
	}
	if got := lines[0].Subtotal().String(); got != "9" {
		t.Fatalf("subtotal = %s, want 9", got)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("count after clear = %d", n)
	}
}

func TestBookmarkRepository_Toggle(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	testutil.SeedProducts(t, d, 2)
	repo := NewBookmarkRepository(d)
	ctx := context.Background()

	if on, err := repo.Toggle(ctx, 2); err != nil || !on {
		t.Fatalf("first toggle: %v %v", on, err)
	}
	if ok, _ := repo.Exists(ctx, 2); !ok {
		t.Fatalf("bookmark should exist")
	}
	list, err := repo.Products(ctx)
	if err != nil || len(list) != 1 || list[0].ID != 2 {
		t.Fatalf("products: %v %+v", err, list)
	}
	if on, err := repo.Toggle(ctx, 2); err != nil || on {
		t.Fatalf("second toggle: %v %v", on, err)
	}
	if ok, _ := repo.Exists(ctx, 2); ok {
		t.Fatalf("bookmark should be gone")
	}
}
