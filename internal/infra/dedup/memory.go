package dedup

import (
	"context"
	"sync"
	"time"
)

// Memory — дедупликатор в памяти процесса: для одного инстанса и тестов.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Claim(_ context.Context, txID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.seen {
		if now.After(exp) {
			delete(m.seen, id)
		}
	}
	if _, ok := m.seen[txID]; ok {
		return false, nil
	}
	m.seen[txID] = now.Add(m.ttl)
	return true, nil
}

func (m *Memory) Release(_ context.Context, txID string) error {
	m.mu.Lock()
	delete(m.seen, txID)
	m.mu.Unlock()
	return nil
}
