package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// hourlyThrottle 以 IP + 小时为窗口计数。limit <= 0 或未配置 Redis 时不限流。
type hourlyThrottle struct {
	counter redisRateCounter
	prefix  string
	limit   int
	now     func() time.Time
}

// allow 在 Redis 不可用时放行，返回的 error 仅供记录。
func (t *hourlyThrottle) allow(ctx context.Context, clientIP string) (bool, error) {
	if t == nil || t.counter == nil || t.limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("rate:%s:%s:%s", t.prefix, clientIP, t.now().UTC().Format("2006010215"))
	count, err := incrWithTTL(ctx, t.counter, key, time.Hour)
	if err != nil {
		return true, err
	}
	return count <= int64(t.limit), nil
}
