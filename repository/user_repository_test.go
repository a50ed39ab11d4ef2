package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"shoppingCart/internal/testutil"
	"shoppingCart/models"
)

func TestUserRepository_CRUDAndQueries(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Name != "Alice" || u.Role != models.RoleUser || u.CreatedAt == "" {
		t.Fatalf("unexpected created user: %+v", u)
	}

	g, err := repo.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Email != "alice@example.com" {
		t.Fatalf("get by id: %v %+v", err, g)
	}

	// Email lookups ignore case.
	g2, err := repo.GetByEmail(ctx, "ALICE@example.com")
	if err != nil || g2 == nil || g2.ID != u.ID {
		t.Fatalf("get by email: %v %+v", err, g2)
	}
	ok, err := repo.ExistsByEmail(ctx, "alice@example.com")
	if err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}

	if _, err := repo.Create(ctx, &models.User{Name: "Dup", Email: "Alice@Example.com"}); err == nil {
		t.Fatalf("expected unique violation for duplicate email")
	}

	if ok, err := repo.ExistsByEmail(ctx, "alice@example.com"); err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}

	u.Name, u.Phone = "Alice B", "+15550100"
	if err := repo.UpdateProfile(ctx, u); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if err := repo.UpdatePassword(ctx, u.ID, "h2"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if err := repo.UpdateRoleByEmail(ctx, "alice@example.com", models.RoleAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}
	g3, _ := repo.GetByID(ctx, u.ID)
	if g3.Name != "Alice B" || g3.Phone != "+15550100" || g3.PasswordHash != "h2" || !g3.IsAdmin() {
		t.Fatalf("updates not applied: %+v", g3)
	}

	if err := repo.UpdateRoleByEmail(ctx, "nobody@example.com", models.RoleAdmin); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("role for missing user: %v", err)
	}
	if err := repo.UpdatePassword(ctx, 999, "x"); err == nil {
		t.Fatalf("expected error updating missing user")
	}

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing user, got %+v err=%v", missing, err)
	}
}

func TestUserRepository_UpsertRemoteKeepsPassword(t *testing.T) {
	d := testutil.OpenInMemoryDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "secret-hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.UpsertRemote(ctx, &models.User{Name: "Bobby", Email: "bob@example.com", Token: "tok"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != u.ID || got.Name != "Bobby" || got.Token != "tok" || got.PasswordHash != "secret-hash" {
		t.Fatalf("unexpected upsert result: %+v", got)
	}

	fresh, err := repo.UpsertRemote(ctx, &models.User{Name: "Carol", Email: "carol@example.com"})
	if err != nil || fresh == nil || fresh.ID == u.ID {
		t.Fatalf("upsert new: %v %+v", err, fresh)
	}
}
