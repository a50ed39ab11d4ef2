// Package session holds the signed-in user and simple settings. State is an explicit
// object handed to the services that need it; there is no package-level session.
package session

import (
	"sync"

	"shoppingCart/models"
)

// State is the application context for the current installation.
// Concurrent writers are last-writer-wins.
type State struct {
	mu       sync.RWMutex
	user     *models.User
	token    string
	nextID   int
	watchers map[int]func(*models.User)
}

func NewState() *State {
	return &State{watchers: map[int]func(*models.User){}}
}

// User returns a copy of the signed-in user, or nil.
func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the signed-in user's id, or 0.
func (s *State) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Token implements auth.TokenSource.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) SetToken(tok string) {
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
}

// SetUser replaces the signed-in user and notifies subscribers.
func (s *State) SetUser(u *models.User) {
	var cp *models.User
	if u != nil {
		v := *u
		cp = &v
	}
	s.mu.Lock()
	s.user = cp
	fns := s.snapshotLocked()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(s.User())
	}
}

// Clear signs out.
func (s *State) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.SetUser(nil)
}

// Subscribe registers fn to be called after every user change and returns a cancel func.
func (s *State) Subscribe(fn func(*models.User)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *State) snapshotLocked() []func(*models.User) {
	out := make([]func(*models.User), 0, len(s.watchers))
	for _, fn := range s.watchers {
		out = append(out, fn)
	}
	return out
}
