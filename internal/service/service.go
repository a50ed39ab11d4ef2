// Package service holds the feature operations the application calls. Every method
// makes a single attempt and returns errors as *apperr.Error.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mattn/go-sqlite3"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/session"
	"shoppingCart/models"
)

// fail classifies err and logs it once at the service boundary.
func fail(log *slog.Logger, op string, err error) error {
	e := apperr.Classify(err)
	lvl := slog.LevelWarn
	if e.Kind == apperr.KindUnknown {
		lvl = slog.LevelError
	}
	log.Log(context.Background(), lvl, "operation failed", "op", op, "kind", e.Kind.String(), "error", err)
	return e
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func requireUser(state *session.State) (*models.User, error) {
	u := state.User()
	if u == nil || u.ID == 0 {
		return nil, apperr.Unauthorized("please sign in first")
	}
	return u, nil
}
