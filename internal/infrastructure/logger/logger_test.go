package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("nil config falls back to defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes json to file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		l.Info("hello")
		require.NoError(t, l.Sync())
		assert.FileExists(t, path)
	})

	t.Run("fails on unwritable file output", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	t.Run("FromContext without logger is a no-op logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("WithJobRun tags log entries", func(t *testing.T) {
		ctx, _ := WithJobRun(context.Background(), base, "planned_price_update", "run-1")
		L(ctx).Info("batch done")

		assert.Equal(t, "run-1", GetJobRunID(ctx))
		entries := recorded.FilterMessage("batch done").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "planned_price_update", entries[0].ContextMap()["job"])
		assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	})

	t.Run("WithRequestID stores request id", func(t *testing.T) {
		ctx, _ := WithRequestID(context.Background(), base, "req-42")
		assert.Equal(t, "req-42", GetRequestID(ctx))
	})

	t.Run("WithActor tags tenant and user", func(t *testing.T) {
		ctx, _ := WithActor(context.Background(), base, "tenant-1", "user-1")
		L(ctx).Info("acting")

		entries := recorded.FilterMessage("acting").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "tenant-1", entries[0].ContextMap()["tenant_id"])
		assert.Equal(t, "user-1", entries[0].ContextMap()["user_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("logs errors with run id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)
		ctx, _ := WithJobRun(context.Background(), zap.NewNop(), "job", "run-7")

		gl.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE x", 0 }, errors.New("boom"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "run-7", entries[0].ContextMap()["run_id"])
	})

	t.Run("ignores record not found", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT", 0 }, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT", 1 }, nil)

		require.Len(t, recorded.All(), 1)
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT", 1 }, errors.New("x"))

		assert.Empty(t, recorded.All())
	})

	t.Run("LogMode returns a copy", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
		changed := gl.LogMode(gormlogger.Error).(*GormLogger)
		assert.Equal(t, gormlogger.Info, gl.logLevel)
		assert.Equal(t, gormlogger.Error, changed.logLevel)
	})
}
