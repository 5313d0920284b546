package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/concordai/concord/pkg/domain"
)

// RecordGateVerdict annotates the provided span with the ethics gate outcome.
// Violation descriptions stay off the span; only counts and principles are
// attached so traces never carry raw action payloads.
func RecordGateVerdict(span trace.Span, audit domain.EthicalAudit) {
	if span == nil || !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.Bool("ethics.approved", audit.Approved),
		attribute.Int("ethics.actions_audited", audit.ActionsAudited),
		attribute.Int("ethics.violations.count", len(audit.Violations)),
	)

	if audit.Approved {
		return
	}

	principles := make(map[string]int, len(audit.Violations))
	for _, v := range audit.Violations {
		principles[v.Principle]++
	}

	attrs := make([]attribute.KeyValue, 0, len(principles))
	for principle, count := range principles {
		attrs = append(attrs, attribute.Int("ethics.principle."+principle, count))
	}
	span.AddEvent("ethics.rejected", trace.WithAttributes(attrs...))
}

// RecordCoordinationOutcome attaches coarse-grained result data to the span.
func RecordCoordinationOutcome(span trace.Span, result domain.CoordinationResult, conflicts int) {
	if span == nil || !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.Float64("coordination.harmony", result.Harmony),
		attribute.Int("coordination.conflicts", conflicts),
		attribute.Int("coordination.sequenced", len(result.Sequenced)),
		attribute.Bool("coordination.success", result.Success()),
	)
}
