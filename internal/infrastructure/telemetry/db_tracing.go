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
	LogFullSQL      bool // include bind variables in span statements
	SlowQueryThresh time.Duration
	DBName          string
}

// DBTracingPlugin installs otelgorm and annotates spans of slow or failing statements.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
	now    func() time.Time
}

type queryStartKey struct{}

// NewDBTracingPlugin creates a DBTracingPlugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBName == "" {
		cfg.DBName = "storefront"
	}
	return &DBTracingPlugin{config: cfg, logger: logger, now: time.Now}
}

// Register attaches otelgorm and the timing callbacks to db. It is a no-op when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("storefront:timing_create", p.markStart) },
		func() error { return cb.Query().Before("gorm:query").Register("storefront:timing_query", p.markStart) },
		func() error { return cb.Update().Before("gorm:update").Register("storefront:timing_update", p.markStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("storefront:timing_delete", p.markStart) },
		func() error { return cb.Row().Before("gorm:row").Register("storefront:timing_row", p.markStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("storefront:timing_raw", p.markStart) },
		func() error { return cb.Create().After("gorm:create").Register("storefront:inspect_create", p.inspect) },
		func() error { return cb.Query().After("gorm:query").Register("storefront:inspect_query", p.inspect) },
		func() error { return cb.Update().After("gorm:update").Register("storefront:inspect_update", p.inspect) },
		func() error { return cb.Delete().After("gorm:delete").Register("storefront:inspect_delete", p.inspect) },
		func() error { return cb.Row().After("gorm:row").Register("storefront:inspect_row", p.inspect) },
		func() error { return cb.Raw().After("gorm:raw").Register("storefront:inspect_raw", p.inspect) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func (p *DBTracingPlugin) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, p.now())
	}
}

// inspect runs after each statement: it tags the span with table and row count,
// marks failures, and flags statements slower than the threshold.
func (p *DBTracingPlugin) inspect(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	recording := span.IsRecording()

	if recording {
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := p.now().Sub(start)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}

	p.logger.Warn("Slow database statement",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", p.config.SlowQueryThresh),
		zap.String("trace_id", TraceID(ctx)),
	)
	if recording {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
