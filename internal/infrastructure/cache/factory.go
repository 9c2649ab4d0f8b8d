package cache

import (
	"fmt"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JobLockFactory creates job locks based on configuration
type JobLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// JobLockFactoryOption is a functional option for configuring the factory
type JobLockFactoryOption func(*JobLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory lock. Default is true.
func WithInMemoryFallback(allow bool) JobLockFactoryOption {
	return func(f *JobLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewJobLockFactory creates a new factory
func NewJobLockFactory(cfg config.RedisConfig, opts ...JobLockFactoryOption) *JobLockFactory {
	f := &JobLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLock returns a Redis lock when Redis is enabled and reachable,
// otherwise an in-memory lock if fallback is allowed
func (f *JobLockFactory) CreateLock() (catalogapp.JobLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory job lock")
		return NewInMemoryJobLock(), nil
	}

	lock, err := NewRedisJobLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis job lock")
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for job lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory job lock. "+
		"Concurrent runs on other instances are not excluded.",
		zap.Error(err),
	)
	return NewInMemoryJobLock(), nil
}
