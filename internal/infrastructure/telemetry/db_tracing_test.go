package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:50"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_DisabledIsNoop(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, plugin.Register(db))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestDBTracingPlugin_RegisterAndTrace(t *testing.T) {
	db := setupTestDB(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	}()

	core, logs := observer.New(zapcore.InfoLevel)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	plugin := NewDBTracingPlugin(cfg, zap.New(core))
	require.NoError(t, plugin.Register(db))
	assert.Equal(t, 1, logs.FilterMessage("Database tracing enabled").Len())
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Code: "P-1"}).Error)
	var found tracedRow
	require.NoError(t, db.WithContext(ctx).First(&found, "code = ?", "P-1").Error)
	span.End()

	assert.Equal(t, "P-1", found.Code)
	assert.Greater(t, len(sr.Ended()), 1)
}

func TestDBTracingPlugin_DoubleRegistration(t *testing.T) {
	db := setupTestDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	require.NoError(t, plugin.Register(db))
	assert.Error(t, plugin.Register(db))
}

func TestAfterQuery_MarksSlowQuery(t *testing.T) {
	db := setupTestDB(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))
	stmt := db.WithContext(ctx).Table("traced_rows")
	stmt.Statement.RowsAffected = 3
	plugin.afterQuery(stmt)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	var slow, table bool
	for _, a := range spans[0].Attributes() {
		switch a.Key {
		case "db.slow_query":
			slow = a.Value.AsBool()
		case "db.sql.table":
			table = a.Value.AsString() == "traced_rows"
		}
	}
	assert.True(t, slow)
	assert.True(t, table)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
}

func TestAfterQuery_NonRecordingSpan(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.NotPanics(t, func() {
		plugin.afterQuery(db.WithContext(context.Background()))
	})
}

func TestLevelFilterCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: core, minLevel: zapcore.WarnLevel}
	log := zap.New(filtered).With(zap.String("component", "job"))

	log.Info("dropped")
	log.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "job", entry.ContextMap()["component"])
}
