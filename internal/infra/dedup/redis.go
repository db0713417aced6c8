package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL — сколько помним транзакцию. Trakteer ретраит webhook заметно меньше.
const DefaultTTL = 30 * 24 * time.Hour

// Redis — дедупликатор на SETNX, общий для нескольких инстансов.
type Redis struct {
	rdb   *redis.Client
	keyNS string
	ttl   time.Duration
}

func NewRedis(rdb *redis.Client, keyPrefix string, ttl time.Duration) *Redis {
	if keyPrefix == "" {
		keyPrefix = "vipbot:payments:tx:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, keyNS: keyPrefix, ttl: ttl}
}

func (r *Redis) key(txID string) string { return r.keyNS + txID }

func (r *Redis) Claim(ctx context.Context, txID string) (bool, error) {
	return r.rdb.SetNX(ctx, r.key(txID), time.Now().Unix(), r.ttl).Result()
}

func (r *Redis) Release(ctx context.Context, txID string) error {
	return r.rdb.Del(ctx, r.key(txID)).Err()
}
