package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type completionMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	completionMetricsOnce sync.Once
	completionInstruments *completionMetrics
)

func ensureCompletionMetrics() *completionMetrics {
	completionMetricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName + "/completion")

		requestCount, err := meter.Int64Counter(
			"ai.completion.request.count",
			metric.WithDescription("Number of completion requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.completion.request.duration",
			metric.WithDescription("Completion request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.completion.request.errors",
			metric.WithDescription("Number of completion request errors"),
		)
		if err != nil {
			return
		}
		rateLimitWait, err := meter.Float64Histogram(
			"ai.completion.rate_limit.wait",
			metric.WithDescription("Time spent waiting for the completion rate limiter in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}

		completionInstruments = &completionMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
			rateLimitWait:   rateLimitWait,
		}
	})
	return completionInstruments
}

func completionAttrs(provider, model string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
}

// RecordCompletionMetric records one completion round trip. statusCode is
// omitted when zero.
func RecordCompletionMetric(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	m := ensureCompletionMetrics()
	if m == nil {
		return
	}

	attrs := completionAttrs(provider, model)
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	m.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordCompletionRateLimitWait records time spent waiting for a rate limiter token.
func RecordCompletionRateLimitWait(ctx context.Context, provider, model string, wait time.Duration) {
	m := ensureCompletionMetrics()
	if m == nil {
		return
	}
	m.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(completionAttrs(provider, model)...))
}
