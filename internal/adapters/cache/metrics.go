package cache

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type cacheMetricsCollection struct {
	lookupCount    metric.Int64Counter
	refreshCount   metric.Int64Counter
	refreshFailure metric.Int64Counter
}

var metrics cacheMetricsCollection

func init() {
	const name = "intralinks/cache"
	meter := otel.Meter(name)

	lookupCount, err := meter.Int64Counter(
		"cache/lookup_count",
		metric.WithDescription("Cache lookups by outcome"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create lookup count metric: %w", err))
	}

	refreshCount, err := meter.Int64Counter(
		"cache/refresh_count",
		metric.WithDescription("Background refresh jobs enqueued"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create refresh count metric: %w", err))
	}

	refreshFailure, err := meter.Int64Counter(
		"cache/refresh_failure_count",
		metric.WithDescription("Background refresh jobs that failed or produced nothing"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create refresh failure metric: %w", err))
	}

	metrics = cacheMetricsCollection{
		lookupCount:    lookupCount,
		refreshCount:   refreshCount,
		refreshFailure: refreshFailure,
	}
}

func recordLookup(ctx context.Context, outcome string) {
	metrics.lookupCount.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
