package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

func NewRedisClient(addr string, db int) *RedisClient {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err == nil {
			opts = parsed
		}
	}
	if opts == nil {
		opts = &redis.Options{Addr: addr, DB: db}
	}

	return &RedisClient{
		Client: redis.NewClient(opts),
		Ctx:    context.Background(),
	}
}

func versionKey(gameID string) string {
	return fmt.Sprintf("game:%s:version", gameID)
}

// VersionTTL bounds how long a mirror entry outlives its last refresh.
// The mirror is best-effort: a failed or out-of-order refresh leaves a
// stale token behind, and a stale token answers polls "unchanged"
// without ever reaching Postgres. Keeping the TTL at a few poll
// intervals means such an entry expires within one or two polls and
// the client falls back to the source of truth.
const VersionTTL = 15 * time.Second

// SetGameVersion writes a game's current version token through to Redis.
func (rc *RedisClient) SetGameVersion(gameID string, token string) error {
	return rc.Client.Set(rc.Ctx, versionKey(gameID), token, VersionTTL).Err()
}

// GetGameVersion returns the mirrored version token for a game, or
// redis.Nil if the mirror has no entry (caller falls back to Postgres).
func (rc *RedisClient) GetGameVersion(gameID string) (string, error) {
	return rc.Client.Get(rc.Ctx, versionKey(gameID)).Result()
}

// DeleteGameVersion drops the mirror entry, e.g. when a game is destroyed.
func (rc *RedisClient) DeleteGameVersion(gameID string) error {
	return rc.Client.Del(rc.Ctx, versionKey(gameID)).Err()
}

// IsNil reports whether err is the go-redis cache-miss sentinel.
func IsNil(err error) bool {
	return err == redis.Nil
}
