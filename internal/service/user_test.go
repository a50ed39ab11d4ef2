package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/session"
	"shoppingCart/models"
	"shoppingCart/repository"
)

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.users.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.users.Register(ctx, RegisterInput{Name: "Other Ann", Email: "ANN@example.com", Password: "another1"})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindCustom || ae.Message != "User with this email already exists" {
		t.Fatalf("want custom duplicate error, got %v", err)
	}

	var n int
	if err := f.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), RegisterInput{Name: "X", Email: "not-an-email", Password: "123"})
	if !errors.Is(err, apperr.ErrCustom) {
		t.Fatalf("want custom validation error, got %v", err)
	}
}

func TestLoginRestoreLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.users.Register(ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.users.Login(ctx, "bo@example.com", "wrong-pass"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("bad password: %v", err)
	}
	if _, err := f.users.Current(); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("no user before login: %v", err)
	}

	u, err := f.users.Login(ctx, "bo@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if f.state.Token() == "" || f.state.UserID() != u.ID {
		t.Fatalf("state not populated: id=%d token=%q", f.state.UserID(), f.state.Token())
	}

	// A fresh process restores from preferences.
	fresh := session.NewState()
	restorer := NewUserService(repository.NewUserRepository(f.db), f.api, fresh, f.settings, testSecret, 0, nil)
	got, err := restorer.Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.ID != u.ID || fresh.Token() != f.state.Token() {
		t.Fatalf("restored %+v", got)
	}

	if err := f.users.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if f.state.User() != nil || f.state.Token() != "" {
		t.Fatalf("state not cleared")
	}
	if _, err := restorer.Restore(ctx); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("restore after logout: %v", err)
	}
}

func TestRestore_RejectsForeignToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "cy@example.com")
	id := f.state.UserID()
	if err := f.settings.SaveLogin(ctx, id, "garbage"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := f.users.Restore(ctx); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if gotID, _, _ := f.settings.Login(ctx); gotID != 0 {
		t.Fatalf("stale login should be cleared")
	}
}

func TestUpdateProfileAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "di@example.com")

	if _, err := f.users.UpdateProfile(ctx, ProfileInput{Name: "Di", Phone: "nope"}); !errors.Is(err, apperr.ErrCustom) {
		t.Fatalf("bad phone: %v", err)
	}
	u, err := f.users.UpdateProfile(ctx, ProfileInput{Name: "Di Nguyen", Phone: "+84 912 345 678"})
	if err != nil || u.Name != "Di Nguyen" || f.state.User().Phone != "+84 912 345 678" {
		t.Fatalf("update profile: %+v %v", u, err)
	}

	if err := f.users.ResetPassword(ctx, "nobody@example.com", "newsecret"); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("unknown email: %v", err)
	}
	if err := f.users.ResetPassword(ctx, "di@example.com", "newsecret"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.users.Login(ctx, "di@example.com", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestRemoteLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.users.RemoteLogin(ctx, "ghost@example.com", "whatever"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("unknown remote account: %v", err)
	}
	f.signInRemote(t, "eve@example.com")
	u, err := f.users.Current()
	if err != nil || u.Email != "eve@example.com" || u.ID == 0 {
		t.Fatalf("current = %+v err = %v", u, err)
	}
	// Remote accounts have no local password.
	if _, err := f.users.Login(ctx, "eve@example.com", "secret123"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("local login of remote account: %v", err)
	}
}

func TestRemoteRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.users.RemoteRegister(ctx, RegisterInput{Name: "Zed", Email: "not-an-email", Password: "secret123"}); !errors.Is(err, apperr.ErrCustom) {
		t.Fatalf("invalid input: %v", err)
	}
	u, err := f.users.RemoteRegister(ctx, RegisterInput{Name: "Zed", Email: "zed@example.com", Password: "secret123"})
	if err != nil || u.Email != "zed@example.com" || f.state.Token() == "" {
		t.Fatalf("remote register = %+v %v", u, err)
	}
	if err := f.users.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.users.RemoteLogin(ctx, "zed@example.com", "secret123"); err != nil {
		t.Fatalf("login after remote register: %v", err)
	}

	_, err = f.users.RemoteRegister(ctx, RegisterInput{Name: "Zed", Email: "zed@example.com", Password: "secret123"})
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind != apperr.KindNetwork || !strings.Contains(e.Message, ErrDuplicateEmail) {
		t.Fatalf("duplicate remote register: %v", err)
	}
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signIn(t, "staff@example.com")
	if err := f.users.SetRole(ctx, "staff@example.com", models.RoleAdmin); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-admin promote: %v", err)
	}

	admin := models.NewAdmin("Ops", "ops@example.com")
	admin.ID = 9999
	f.state.SetUser(&admin.User)
	if err := f.users.SetRole(ctx, "staff@example.com", models.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if err := f.users.SetRole(ctx, "missing@example.com", models.RoleAdmin); !errors.Is(err, apperr.ErrEmpty) {
		t.Fatalf("missing account: %v", err)
	}
	if err := f.users.SetRole(ctx, "staff@example.com", "owner"); !errors.Is(err, apperr.ErrCustom) {
		t.Fatalf("unknown role: %v", err)
	}

	if _, err := f.users.Login(ctx, "staff@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if u, _ := f.users.Current(); !u.IsAdmin() {
		t.Fatalf("promoted account is not admin: %+v", u)
	}
}
