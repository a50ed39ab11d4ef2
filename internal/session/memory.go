package session

import (
	"context"
	"sync"
)

// MemoryPreferences keeps preferences in process memory.
type MemoryPreferences struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{m: map[string]string{}}
}

func (p *MemoryPreferences) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *MemoryPreferences) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	p.m[key] = value
	p.mu.Unlock()
	return nil
}

func (p *MemoryPreferences) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
	return nil
}
