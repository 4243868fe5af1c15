package reminder

import (
	"context"
	"sync"
	"time"

	pkgredis "github.com/obinnaeze/renthaven-backend/pkg/redis"
)

// FlagStore is the small keyed-value capability the scheduler runs on. Flags
// are per-user strings with an optional TTL; absence is a normal state.
type FlagStore interface {
	Get(ctx context.Context, userID, flag string) (string, bool, error)
	Set(ctx context.Context, userID, flag, value string, ttl time.Duration) error
	Clear(ctx context.Context, userID string, flags ...string) error
}

// RedisFlagStore keeps reminder flags in redis under the rh:reminder
// namespace. TTL-based re-arming rides on redis key expiry.
type RedisFlagStore struct {
	client *pkgredis.Client
}

func NewRedisFlagStore(client *pkgredis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

func (s *RedisFlagStore) Get(ctx context.Context, userID, flag string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.client.ReminderKey(userID, flag))
	if err != nil {
		if err == pkgredis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisFlagStore) Set(ctx context.Context, userID, flag, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.client.ReminderKey(userID, flag), value, ttl)
}

func (s *RedisFlagStore) Clear(ctx context.Context, userID string, flags ...string) error {
	keys := make([]string, 0, len(flags))
	for _, flag := range flags {
		keys = append(keys, s.client.ReminderKey(userID, flag))
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...)
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryFlagStore is the in-process backend used by tests and local runs
// without redis. TTL expiry is checked lazily on read against the injected
// clock.
type MemoryFlagStore struct {
	mu    sync.Mutex
	now   func() time.Time
	flags map[string]memoryEntry
}

func NewMemoryFlagStore(now func() time.Time) *MemoryFlagStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryFlagStore{now: now, flags: make(map[string]memoryEntry)}
}

func (s *MemoryFlagStore) key(userID, flag string) string {
	return userID + ":" + flag
}

func (s *MemoryFlagStore) Get(_ context.Context, userID, flag string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.flags[s.key(userID, flag)]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.flags, s.key(userID, flag))
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryFlagStore) Set(_ context.Context, userID, flag, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.flags[s.key(userID, flag)] = entry
	return nil
}

func (s *MemoryFlagStore) Clear(_ context.Context, userID string, flags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, flag := range flags {
		delete(s.flags, s.key(userID, flag))
	}
	return nil
}
