package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StageOutcome classifies how a coordination stage finished.
type StageOutcome string

const (
	// OutcomeOK marks a stage that completed normally.
	OutcomeOK StageOutcome = "ok"
	// OutcomeRejected marks the ethics gate refusing a batch.
	OutcomeRejected StageOutcome = "rejected"
	// OutcomeError marks a stage that failed with an error.
	OutcomeError StageOutcome = "error"
)

// Stage names used on stage metrics and span events.
const (
	StageEthics   = "ethics_gate"
	StageDetect   = "conflict_detect"
	StageResolve  = "conflict_resolve"
	StageHarmony  = "harmony_score"
	StageSequence = "sequence"
)

var (
	metricsOnce           sync.Once
	metricsInitErr        error
	stageExecutionCounter metric.Int64Counter
	stageRejectionCounter metric.Int64Counter
	stageErrorCounter     metric.Int64Counter
	stageLatencyHistogram metric.Float64Histogram
	stageItemsHistogram   metric.Int64Histogram
)

// StageMetrics captures the fields needed to record one stage execution.
type StageMetrics struct {
	Stage    string
	Outcome  StageOutcome
	Duration time.Duration
	Items    int
}

// RecordStageMetrics emits counters and histograms describing stage behaviour.
func RecordStageMetrics(ctx context.Context, metrics StageMetrics) {
	if err := ensureMetrics(); err != nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("stage.name", metrics.Stage),
		attribute.String("stage.outcome", string(metrics.Outcome)),
	}

	stageExecutionCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	if metrics.Duration > 0 {
		stageLatencyHistogram.Record(ctx, float64(metrics.Duration)/float64(time.Millisecond), metric.WithAttributes(attrs...))
	}

	if metrics.Items > 0 {
		stageItemsHistogram.Record(ctx, int64(metrics.Items), metric.WithAttributes(attrs...))
	}

	switch metrics.Outcome {
	case OutcomeRejected:
		stageRejectionCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	case OutcomeError:
		stageErrorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("concord.coordination")

		stageExecutionCounter, metricsInitErr = meter.Int64Counter(
			"concord.stage.executions_total",
			metric.WithDescription("Coordination stage executions partitioned by outcome"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		stageRejectionCounter, metricsInitErr = meter.Int64Counter(
			"concord.stage.rejections_total",
			metric.WithDescription("Batches refused by the ethics gate"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		stageErrorCounter, metricsInitErr = meter.Int64Counter(
			"concord.stage.errors_total",
			metric.WithDescription("Coordination stages that failed with an error"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		stageLatencyHistogram, metricsInitErr = meter.Float64Histogram(
			"concord.stage.duration_ms",
			metric.WithDescription("Observed stage execution latency"),
			metric.WithUnit("ms"),
		)
		if metricsInitErr != nil {
			return
		}

		stageItemsHistogram, metricsInitErr = meter.Int64Histogram(
			"concord.stage.items",
			metric.WithDescription("Actions handled per stage execution"),
			metric.WithUnit("{action}"),
		)
	})

	return metricsInitErr
}
