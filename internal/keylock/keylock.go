// Package keylock provides one mutex per key, created on demand and dropped when unused.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Map serialises work per key; different keys never block each other.
type Map[K comparable] struct {
	mu sync.Mutex
	m  map[K]*entry
}

func New[K comparable]() *Map[K] {
	return &Map[K]{m: map[K]*entry{}}
}

// Lock acquires the mutex for key and returns its unlock func.
func (l *Map[K]) Lock(key K) (unlock func()) {
	l.mu.Lock()
	e, ok := l.m[key]
	if !ok {
		e = &entry{}
		l.m[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, key)
		}
		l.mu.Unlock()
	}
}

// Len reports how many keys currently hold or wait for a lock.
func (l *Map[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
