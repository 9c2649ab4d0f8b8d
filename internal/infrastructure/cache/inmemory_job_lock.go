package cache

import (
	"context"
	"sync"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/google/uuid"
)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryJobLock implements JobLock with a process-local map.
// It is suitable for single-instance deployments and testing.
type InMemoryJobLock struct {
	mu      sync.Mutex
	entries map[string]lockEntry
	now     func() time.Time
}

// NewInMemoryJobLock creates an empty in-memory lock
func NewInMemoryJobLock() *InMemoryJobLock {
	return &InMemoryJobLock{
		entries: make(map[string]lockEntry),
		now:     time.Now,
	}
}

// TryLock takes the lock unless a live entry holds it.
// Expired entries are taken over.
func (l *InMemoryJobLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, exists := l.entries[key]; exists && now.Before(e.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.entries[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

// Unlock releases the lock if token still owns it
func (l *InMemoryJobLock) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists && e.token == token {
		delete(l.entries, key)
	}
	return nil
}

// Size returns the number of held locks (for testing/monitoring)
func (l *InMemoryJobLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Ensure InMemoryJobLock implements JobLock
var _ catalogapp.JobLock = (*InMemoryJobLock)(nil)
