package lock

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// releaseScript 只有在值相同時才刪除，避免釋放其他實例的鎖
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 以 SET NX PX 實作簡單的分散式鎖
type RedisLocker struct {
	client *redis.Client
	owner  string
}

// NewRedisLocker 連線到 url 並以 ping 確認連線
func NewRedisLocker(ctx context.Context, url, owner string) (*RedisLocker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisLockerFromClient(c, owner), nil
}

// NewRedisLockerFromClient 包裝已建立的 client
func NewRedisLockerFromClient(c *redis.Client, owner string) *RedisLocker {
	return &RedisLocker{client: c, owner: owner}
}

// TryLock 嘗試取得 key 的鎖，ttl 到期後自動釋放
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, l.owner, ttl).Result()
}

// Unlock 釋放自己持有的鎖
func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	return releaseScript.Run(ctx, l.client, []string{key}, l.owner).Err()
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
