package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/config"
	"shoppingCart/internal/logger"
)

func TestOpen_MemoryPreferences(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "shop.db"))
	t.Setenv("PREFS_BACKEND", "memory")
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	a, err := Open(ctx, cfg, logger.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.Users.Restore(ctx); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("fresh install restore: %v", err)
	}
	if _, err := a.Search.Record(ctx, "milk"); err != nil {
		t.Fatalf("record search: %v", err)
	}
	h, err := a.Search.History(ctx)
	if err != nil || len(h) != 1 || h[0] != "milk" {
		t.Fatalf("history = %v %v", h, err)
	}
	if n, err := a.Cart.Count(ctx); err != nil || n != 0 {
		t.Fatalf("cart count = %d %v", n, err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
