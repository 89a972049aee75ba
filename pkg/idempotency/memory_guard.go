package idempotency

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	mu      sync.Mutex
	pending map[string]string
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{pending: make(map[string]string)}
}

func (g *MemoryGuard) TryAcquire(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[key]; ok {
		return "", ErrAlreadyPending
	}
	token := uuid.NewString()
	g.pending[key] = token
	return token, nil
}

func (g *MemoryGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[key] == token {
		delete(g.pending, key)
	}
	return nil
}

// Pending reports whether key is currently held.
func (g *MemoryGuard) Pending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}
