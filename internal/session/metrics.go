package session

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"crush-calc/internal/calculator"
)

// Metric instruments. They start as no-ops so sessions work before
// InitMetrics is called (tests, the CLI).
var (
	keyCounter          metric.Int64Counter       = noop.Int64Counter{}
	evaluationCounter   metric.Int64Counter       = noop.Int64Counter{}
	errorCounter        metric.Int64Counter       = noop.Int64Counter{}
	commentaryCounter   metric.Int64Counter       = noop.Int64Counter{}
	commentaryHistogram metric.Float64Histogram   = noop.Float64Histogram{}
	activeSessions      metric.Int64UpDownCounter = noop.Int64UpDownCounter{}
	resultGauge         metric.Float64Gauge       = noop.Float64Gauge{}
)

// InitMetrics registers the calculator session instruments on the global
// meter provider. Call once at startup, after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("session")

	var err error

	keyCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of keypad actions applied"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating key counter: %w", err)
	}

	evaluationCounter, err = meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Total number of completed evaluations, including chained ones"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	commentaryCounter, err = meter.Int64Counter("calculator.commentary.requests.total",
		metric.WithDescription("Commentary requests by kind and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("creating commentary counter: %w", err)
	}

	commentaryHistogram, err = meter.Float64Histogram("calculator.commentary.duration",
		metric.WithDescription("Duration of commentary requests in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return fmt.Errorf("creating commentary histogram: %w", err)
	}

	activeSessions, err = meter.Int64UpDownCounter("calculator.sessions.active",
		metric.WithDescription("Number of live calculator sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating sessions gauge: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The finite result of the last evaluation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

// recordTransition counts one applied action and, when it computed a
// result (evaluate or a chained operator), the evaluation.
func recordTransition(ctx context.Context, a calculator.Action, prev, next calculator.State) {
	keyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", calculator.Name(a))))

	if !prev.Pending() || next == prev {
		return
	}

	var result string
	switch a.(type) {
	case calculator.Evaluate:
		result = next.CurrentOperand
	case calculator.ChooseOperation:
		result = next.PreviousOperand
	default:
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", string(prev.Operation)))
	evaluationCounter.Add(ctx, 1, attrs)

	if v, err := strconv.ParseFloat(result, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		resultGauge.Record(ctx, v, attrs)
	}
}

func recordCommentary(ctx context.Context, kind, outcome string, fallback bool, elapsedMS float64) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
		attribute.Bool("fallback", fallback),
	)
	commentaryCounter.Add(ctx, 1, attrs)
	commentaryHistogram.Record(ctx, elapsedMS, metric.WithAttributes(attribute.String("kind", kind)))
}
