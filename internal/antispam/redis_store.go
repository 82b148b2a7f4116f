package antispam

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	keyBlacklist    = "antispam:blacklist"
	keyRatePrefix   = "antispam:rate:"
	keyBlockPrefix  = "antispam:block:"
	keyStrikePrefix = "antispam:strike:"
)

// RedisStore shares rate-limit and blacklist state across instances using
// atomic increment-with-expire operations. Expiry is handled by key TTLs, so
// unlike MemoryStore there is no cleanup goroutine.
type RedisStore struct {
	cfg Config
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{cfg: cfg.withDefaults(), rdb: rdb}
}

func (s *RedisStore) Hit(ctx context.Context, ip string) (bool, error) {
	blocked, err := s.rdb.Exists(ctx, keyBlockPrefix+ip).Result()
	if err != nil {
		return false, err
	}
	if blocked > 0 {
		return true, nil
	}

	key := keyRatePrefix + ip
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, s.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if incr.Val() > int64(s.cfg.MaxRequests) {
		if err := s.rdb.Set(ctx, keyBlockPrefix+ip, 1, s.cfg.BlockDuration).Err(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *RedisStore) Strike(ctx context.Context, ip string) (int, error) {
	key := keyStrikePrefix + ip
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, s.cfg.StrikeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) IsBlacklisted(ctx context.Context, ip string) (bool, error) {
	return s.rdb.SIsMember(ctx, keyBlacklist, ip).Result()
}

func (s *RedisStore) Blacklist(ctx context.Context, ip string) error {
	return s.rdb.SAdd(ctx, keyBlacklist, ip).Err()
}

func (s *RedisStore) Close() error { return nil }
