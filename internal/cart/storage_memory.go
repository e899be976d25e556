package cart

import (
	"context"
	"sync"
)

// MemoryStorage keeps the snapshot in process memory. Used by tests and as
// a fallback when no Redis client is configured.
type MemoryStorage struct {
	mu    sync.Mutex
	state State
	saved bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return State{}, nil
	}
	return cloneState(m.state), nil
}

func (m *MemoryStorage) Save(_ context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = cloneState(state)
	m.saved = true
	return nil
}

func cloneState(s State) State {
	out := State{}
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}
