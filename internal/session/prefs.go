package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Preferences is the key/value settings store, kept apart from the database tables.
type Preferences interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	keyUserID        = "logged_in_user_id"
	keyAuthToken     = "auth_token"
	keySearchHistory = "search_history"

	// MaxSearchHistory caps the stored query list.
	MaxSearchHistory = 10
)

// Settings are typed accessors over Preferences.
type Settings struct {
	prefs Preferences
}

func NewSettings(p Preferences) *Settings {
	return &Settings{prefs: p}
}

// SaveLogin persists the signed-in user id and token.
func (s *Settings) SaveLogin(ctx context.Context, userID int64, token string) error {
	if err := s.prefs.Set(ctx, keyUserID, strconv.FormatInt(userID, 10)); err != nil {
		return err
	}
	return s.prefs.Set(ctx, keyAuthToken, token)
}

// Login returns the persisted user id and token; id is 0 when nobody is signed in.
func (s *Settings) Login(ctx context.Context) (int64, string, error) {
	raw, ok, err := s.prefs.Get(ctx, keyUserID)
	if err != nil || !ok {
		return 0, "", err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("stored user id %q: %w", raw, err)
	}
	tok, _, err := s.prefs.Get(ctx, keyAuthToken)
	if err != nil {
		return 0, "", err
	}
	return id, tok, nil
}

func (s *Settings) ClearLogin(ctx context.Context) error {
	if err := s.prefs.Delete(ctx, keyUserID); err != nil {
		return err
	}
	return s.prefs.Delete(ctx, keyAuthToken)
}

// SearchHistory returns past queries, most recent first.
func (s *Settings) SearchHistory(ctx context.Context) ([]string, error) {
	raw, ok, err := s.prefs.Get(ctx, keySearchHistory)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode search history: %w", err)
	}
	return out, nil
}

// PushSearch prepends q to the history and trims it to MaxSearchHistory.
// Repeated queries are kept.
func (s *Settings) PushSearch(ctx context.Context, q string) ([]string, error) {
	hist, err := s.SearchHistory(ctx)
	if err != nil {
		return nil, err
	}
	hist = append([]string{q}, hist...)
	if len(hist) > MaxSearchHistory {
		hist = hist[:MaxSearchHistory]
	}
	b, err := json.Marshal(hist)
	if err != nil {
		return nil, err
	}
	if err := s.prefs.Set(ctx, keySearchHistory, string(b)); err != nil {
		return nil, err
	}
	return hist, nil
}

func (s *Settings) ClearSearchHistory(ctx context.Context) error {
	return s.prefs.Delete(ctx, keySearchHistory)
}
