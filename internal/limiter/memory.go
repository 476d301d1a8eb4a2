package limiter

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when no Redis is configured and
// in tests. It cannot coordinate across processes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the store clock; tests use it to roll TTLs forward.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && s.now().Before(entry.expiresAt) {
		return false, nil
	}

	s.entries[key] = memoryEntry{
		value:     toString(value),
		expiresAt: s.now().Add(ttl),
	}
	return true, nil
}

func (s *MemoryStore) GetInt(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		return 0, nil
	}

	value, err := strconv.ParseInt(entry.value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return value, nil
}

func (s *MemoryStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		s.entries[key] = memoryEntry{
			value:     "1",
			expiresAt: s.now().Add(ttl),
		}
		return 1, nil
	}

	value, err := strconv.ParseInt(entry.value, 10, 64)
	if err != nil {
		value = 0
	}
	value++

	entry.value = strconv.FormatInt(value, 10)
	s.entries[key] = entry
	return value, nil
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
