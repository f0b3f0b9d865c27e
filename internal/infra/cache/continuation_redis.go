package cache

import (
	"context"
	"errors"
	"time"

	repo "evmarket/internal/repository"

	"github.com/redis/go-redis/v9"
)

const continuationPrefix = "payment:continuation:"

type redisContinuationStore struct {
	rdb *redis.Client
}

// DI
func NewRedisContinuationStore(rdb *redis.Client) repo.ContinuationStore {
	return &redisContinuationStore{rdb: rdb}
}

func (s *redisContinuationStore) Save(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, continuationPrefix+jti, "1", ttl).Err()
}

// GETDELで1回だけ取り出す
func (s *redisContinuationStore) Consume(ctx context.Context, jti string) (bool, error) {
	err := s.rdb.GetDel(ctx, continuationPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
