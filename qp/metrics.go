package qp

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("qpcanon.qp")
	meter  = otel.Meter("qpcanon.qp")
)

var (
	opLatency   metric.Float64Histogram
	opTotal     metric.Int64Counter
	cacheBuilds metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics registers the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		opLatency, err = meter.Float64Histogram(
			"qp_operation_duration_seconds",
			metric.WithDescription("Duration of apply, apply_parameters and invert"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		opTotal, err = meter.Int64Counter(
			"qp_operation_total",
			metric.WithDescription("Number of apply, apply_parameters and invert calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheBuilds, err = meter.Int64Counter(
			"qp_cache_builds_total",
			metric.WithDescription("Number of sparsity structure (re)builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startSpan opens a span for one qp operation.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span and closes it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// recordOp records latency and count for op.
func recordOp(ctx context.Context, op string, start time.Time, err error) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("success", err == nil),
	)
	opLatency.Record(ctx, time.Since(start).Seconds(), attrs)
	opTotal.Add(ctx, 1, attrs)
}

// recordCacheBuilds adds n structure builds for the named evaluator.
func recordCacheBuilds(ctx context.Context, which string, n int) {
	if n == 0 || initMetrics() != nil {
		return
	}
	cacheBuilds.Add(ctx, int64(n), metric.WithAttributes(attribute.String("matrix", which)))
}
