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

// DBTracingConfig controls GORM span instrumentation.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in db.statement
	SlowQueryThresh time.Duration
	DBName          string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db and annotates its spans with
// row counts, table names and a slow_query flag.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// annotations run before otelgorm ends the span
	after := annotateSpan(cfg.SlowQueryThresh)
	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("billing:trace_start_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("billing:trace_start_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("billing:trace_start_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("billing:trace_start_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("billing:trace_start_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("billing:trace_start_raw", markQueryStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("billing:trace_end_create", after),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("billing:trace_end_query", after),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("billing:trace_end_update", after),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("billing:trace_end_delete", after),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("billing:trace_end_row", after),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("billing:trace_end_raw", after),
	}
	if err := errors.Join(steps...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func annotateSpan(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
