package cache

import (
	"context"
	"fmt"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the key only while it still holds the caller's token,
// so an expired lock taken over by another run is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisJobLock implements JobLock with Redis keys.
// It serializes job runs across every process sharing the Redis instance.
type RedisJobLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisJobLock connects to Redis and creates a job lock
func NewRedisJobLock(cfg RedisConfig) (*RedisJobLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisJobLockWithClient(client, ""), nil
}

// NewRedisJobLockWithClient creates a lock over an existing client
func NewRedisJobLockWithClient(client *redis.Client, keyPrefix string) *RedisJobLock {
	if keyPrefix == "" {
		keyPrefix = "job:lock:"
	}
	return &RedisJobLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// TryLock takes the lock with SET NX and a TTL.
// ok is false when another holder owns the key.
func (l *RedisJobLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire job lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases the lock if token still owns it
func (l *RedisJobLock) Unlock(ctx context.Context, key, token string) error {
	if err := unlockScript.Run(ctx, l.client, []string{l.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release job lock %s: %w", key, err)
	}
	return nil
}

// PingContext checks that Redis answers
func (l *RedisJobLock) PingContext(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (l *RedisJobLock) Close() error {
	return l.client.Close()
}

// Ensure RedisJobLock implements JobLock
var _ catalogapp.JobLock = (*RedisJobLock)(nil)
