package session

import (
	"context"
	"sync"
	"time"

	"github.com/acplabs/merchant-core/internal/cart"
)

const janitorInterval = time.Minute

type memoryEntry struct {
	items     []cart.LineItem
	expiresAt time.Time // zero = never
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is the in-process session store. Expired entries are swept by a
// background janitor goroutine.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	stopJanitor chan struct{}
	wg          sync.WaitGroup
}

func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries:     make(map[string]memoryEntry),
		ttl:         ttl,
		stopJanitor: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.janitorLoop()
	return m
}

func (m *Memory) janitorLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopJanitor:
			return
		}
	}
}

func (m *Memory) sweep() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, id)
		}
	}
}

func (m *Memory) Get(_ context.Context, sessionID string) ([]cart.LineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[sessionID]
	if !ok || e.expired(time.Now()) {
		return nil, ErrNotFound
	}

	out := make([]cart.LineItem, len(e.items))
	copy(out, e.items)
	return out, nil
}

func (m *Memory) Set(_ context.Context, sessionID string, items []cart.LineItem) error {
	stored := make([]cart.LineItem, len(items))
	copy(stored, items)

	e := memoryEntry{items: stored}
	if m.ttl > 0 {
		e.expiresAt = time.Now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// Close stops the janitor and waits for it to finish.
func (m *Memory) Close() error {
	close(m.stopJanitor)
	m.wg.Wait()
	return nil
}
