package service

import (
	"context"
	"log/slog"
	"strings"

	"shoppingCart/internal/session"
)

// DefaultSuggestions is the fixed list offered while typing a search.
var DefaultSuggestions = []string{
	"Apples", "Bananas", "Bread", "Butter", "Cheese", "Chicken breast", "Coffee",
	"Eggs", "Milk", "Orange juice", "Pasta", "Rice", "Shampoo", "Tomatoes", "Yogurt",
}

// SearchService keeps the recent-query list and filters suggestions.
type SearchService struct {
	settings    *session.Settings
	suggestions []string
	log         *slog.Logger
}

// NewSearchService uses DefaultSuggestions when suggestions is nil.
func NewSearchService(settings *session.Settings, suggestions []string, log *slog.Logger) *SearchService {
	if suggestions == nil {
		suggestions = DefaultSuggestions
	}
	return &SearchService{settings: settings, suggestions: suggestions, log: orDefault(log)}
}

// History returns past queries, most recent first.
func (s *SearchService) History(ctx context.Context) ([]string, error) {
	h, err := s.settings.SearchHistory(ctx)
	if err != nil {
		return nil, fail(s.log, "search.history", err)
	}
	return h, nil
}

// Record pushes q onto the history and returns the updated list. Blank queries are ignored.
func (s *SearchService) Record(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.History(ctx)
	}
	h, err := s.settings.PushSearch(ctx, q)
	if err != nil {
		return nil, fail(s.log, "search.record", err)
	}
	return h, nil
}

func (s *SearchService) ClearHistory(ctx context.Context) error {
	if err := s.settings.ClearSearchHistory(ctx); err != nil {
		return fail(s.log, "search.clear_history", err)
	}
	return nil
}

// OnSearchQueryChanged filters the suggestions by case-insensitive substring.
// An empty query returns the whole list.
func (s *SearchService) OnSearchQueryChanged(q string) []string {
	if q == "" {
		return append([]string(nil), s.suggestions...)
	}
	needle := strings.ToLower(q)
	out := []string{}
	for _, sug := range s.suggestions {
		if strings.Contains(strings.ToLower(sug), needle) {
			out = append(out, sug)
		}
	}
	return out
}
