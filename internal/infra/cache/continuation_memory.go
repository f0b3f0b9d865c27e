package cache

import (
	"context"
	"sync"
	"time"

	repo "evmarket/internal/repository"
)

// REDIS_ADDR未設定（ローカル/テスト）用。1プロセス内でのみ有効。
type memoryContinuationStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryContinuationStore() repo.ContinuationStore {
	return &memoryContinuationStore{items: map[string]time.Time{}, now: time.Now}
}

func (s *memoryContinuationStore) Save(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	//期限切れの掃除
	for k, exp := range s.items {
		if !exp.After(now) {
			delete(s.items, k)
		}
	}
	s.items[jti] = now.Add(ttl)
	return nil
}

func (s *memoryContinuationStore) Consume(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.items[jti]
	if !ok {
		return false, nil
	}
	delete(s.items, jti)
	return exp.After(s.now()), nil
}
