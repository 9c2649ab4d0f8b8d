package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables in spans (dev only)
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the database tracing defaults
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin installs otelgorm plus slow query marking on a gorm DB.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// Register installs the otelgorm plugin and the timing callbacks on db.
// It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Register("otel_slow_query:create", p.afterQuery) },
		func() error { return cb.Query().After("gorm:query").Register("otel_slow_query:query", p.afterQuery) },
		func() error { return cb.Update().After("gorm:update").Register("otel_slow_query:update", p.afterQuery) },
		func() error { return cb.Delete().After("gorm:delete").Register("otel_slow_query:delete", p.afterQuery) },
		func() error { return cb.Row().After("gorm:row").Register("otel_slow_query:row", p.afterQuery) },
		func() error { return cb.Raw().After("gorm:raw").Register("otel_slow_query:raw", p.afterQuery) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// afterQuery annotates the current span with table, row count, errors and
// a slow_query_warning event past the threshold.
func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
