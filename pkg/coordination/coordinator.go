package coordination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/concordai/concord/pkg/conflict"
	"github.com/concordai/concord/pkg/domain"
	"github.com/concordai/concord/pkg/ethics"
	"github.com/concordai/concord/pkg/harmony"
	"github.com/concordai/concord/pkg/sequence"
	"github.com/concordai/concord/pkg/storage"
	"github.com/concordai/concord/pkg/telemetry"
)

// RuleSource supplies the conflict rule snapshot for each coordination cycle.
// Implementations must return a value that stays immutable once handed out;
// *conflict.RuleWatcher satisfies this.
type RuleSource interface {
	Snapshot() *conflict.RuleSet
}

// Options configures a Coordinator. Every field is optional: zero values fall
// back to the default gate, default rules, an empty in-memory registry, the
// default slog logger, and a private metrics registry.
type Options struct {
	Gate       *ethics.Gate
	Rules      *conflict.RuleSet
	RuleSource RuleSource
	Registry   domain.DomainRegistry
	Logger     *slog.Logger
	Metrics    *Metrics
}

// Coordinator runs action batches through the full pipeline: ethics gate,
// conflict detection, resolution, harmony scoring, and sequencing.
type Coordinator struct {
	gate       *ethics.Gate
	rules      *conflict.RuleSet
	ruleSource RuleSource
	registry   domain.DomainRegistry
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// New creates a Coordinator from the supplied options.
func New(opts Options) *Coordinator {
	if opts.Gate == nil {
		opts.Gate = ethics.NewGate()
	}
	if opts.Registry == nil {
		opts.Registry = storage.NewMemoryDomainRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	return &Coordinator{
		gate:       opts.Gate,
		rules:      opts.Rules,
		ruleSource: opts.RuleSource,
		registry:   opts.Registry,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		tracer:     otel.Tracer("concord.coordination"),
	}
}

// Coordinate runs one batch through the pipeline and returns the sequenced
// result. The input slices are never mutated; every action is deep-copied
// before normalization.
//
// A batch that trips the ethics gate returns a *domain.PolicyViolationError
// carrying the full audit, and no conflict work happens for it. Detection,
// resolution, scoring, and sequencing all use one rule snapshot, so a
// concurrent rule reload never splits a cycle across two rule sets.
func (c *Coordinator) Coordinate(ctx context.Context, actions []domain.DomainAction, cctx domain.CoordinationContext) (domain.CoordinationResult, error) {
	start := time.Now()
	batch := normalizeActions(actions)
	cctx = normalizeContext(cctx)

	var span trace.Span
	ctx, span = c.tracer.Start(ctx, "concord.coordinate",
		trace.WithAttributes(attribute.Int("coordination.batch_size", len(batch))),
	)
	defer span.End()

	audit, err := c.auditBatch(ctx, span, batch, cctx)
	if err != nil {
		c.metrics.RecordCoordination(outcomeFor(err), time.Since(start), len(batch))
		return domain.CoordinationResult{}, err
	}

	rules := c.snapshotRules()
	detector := conflict.NewDetector(rules)

	detectStart := time.Now()
	conflicts := detector.Detect(batch)
	c.recordStage(ctx, telemetry.StageDetect, telemetry.OutcomeOK, detectStart, len(batch))
	c.metrics.RecordConflicts(conflicts)

	resolveStart := time.Now()
	survivors := conflict.Resolve(batch, conflicts)
	c.recordStage(ctx, telemetry.StageResolve, telemetry.OutcomeOK, resolveStart, len(survivors))

	harmonyStart := time.Now()
	score := harmony.NewScorer(detector).Score(survivors)
	c.recordStage(ctx, telemetry.StageHarmony, telemetry.OutcomeOK, harmonyStart, len(survivors))
	c.metrics.ObserveHarmony(score)
	if score < 1.0 {
		// Resolution drops every conflict participant, so survivors should
		// always re-score clean. Anything else means detection disagreed with
		// itself across the two passes.
		c.metrics.RecordResolutionInconsistency()
		c.logger.Warn("survivors still conflict after resolution",
			"harmony", score,
			"survivors", len(survivors),
		)
	}

	sequenceStart := time.Now()
	sequenced := sequence.Sequence(survivors)
	c.recordStage(ctx, telemetry.StageSequence, telemetry.OutcomeOK, sequenceStart, len(sequenced))
	c.metrics.ObserveSequenced(len(sequenced))

	result := domain.CoordinationResult{
		Sequenced:   sequenced,
		Harmony:     score,
		Audit:       audit,
		Context:     cctx,
		CompletedAt: time.Now().UTC(),
	}

	outcome := OutcomeSuccess
	if !result.Success() {
		outcome = OutcomeDisharmony
	}
	c.metrics.RecordCoordination(outcome, time.Since(start), len(batch))
	telemetry.RecordCoordinationOutcome(span, result, len(conflicts))

	c.logger.Info("coordination complete",
		"batch", len(batch),
		"conflicts", len(conflicts),
		"sequenced", len(sequenced),
		"harmony", score,
		"outcome", outcome,
	)

	return result, nil
}

// auditBatch runs the ethics gate and turns a disapproving audit into a
// *domain.PolicyViolationError.
func (c *Coordinator) auditBatch(ctx context.Context, span trace.Span, batch []domain.DomainAction, cctx domain.CoordinationContext) (domain.EthicalAudit, error) {
	gateStart := time.Now()
	audit, err := c.gate.Audit(ctx, batch, cctx)
	if err != nil {
		c.recordStage(ctx, telemetry.StageEthics, telemetry.OutcomeError, gateStart, len(batch))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("ethics evaluation failed", "error", err)
		return domain.EthicalAudit{}, &domain.CoordinationError{
			Err:      err,
			Code:     "ETHICS_EVAL",
			Severity: domain.SeverityHigh,
		}
	}

	telemetry.RecordGateVerdict(span, audit)

	if !audit.Approved {
		c.recordStage(ctx, telemetry.StageEthics, telemetry.OutcomeRejected, gateStart, len(batch))
		c.metrics.RecordViolations(audit.Violations)
		span.SetStatus(codes.Error, "ethics gate rejected batch")
		c.logger.Warn("coordination rejected by ethics gate",
			"violations", len(audit.Violations),
			"audited", audit.ActionsAudited,
		)
		return domain.EthicalAudit{}, &domain.PolicyViolationError{Audit: audit}
	}

	c.recordStage(ctx, telemetry.StageEthics, telemetry.OutcomeOK, gateStart, len(batch))
	return audit, nil
}

// RegisterDomain records a domain descriptor for discovery. Registration is
// never consulted by Coordinate: unknown domains coordinate exactly like
// registered ones.
func (c *Coordinator) RegisterDomain(desc domain.DomainDescriptor) error {
	if desc.RegisteredAt.IsZero() {
		desc.RegisteredAt = time.Now().UTC()
	}

	if err := c.registry.Register(desc); err != nil {
		return fmt.Errorf("register domain: %w", err)
	}

	c.metrics.SetDomainsRegistered(c.registry.Len())
	c.logger.Info("domain registered", "domain_id", desc.ID, "name", desc.Name)
	return nil
}

// Domains lists all registered domain descriptors, sorted by ID.
func (c *Coordinator) Domains() []domain.DomainDescriptor {
	return c.registry.List()
}

// snapshotRules resolves the rule set for one cycle: a live source wins over
// static rules, and nil means detector defaults.
func (c *Coordinator) snapshotRules() *conflict.RuleSet {
	if c.ruleSource != nil {
		if rs := c.ruleSource.Snapshot(); rs != nil {
			return rs
		}
	}
	return c.rules
}

func (c *Coordinator) recordStage(ctx context.Context, stage string, outcome telemetry.StageOutcome, start time.Time, items int) {
	telemetry.RecordStageMetrics(ctx, telemetry.StageMetrics{
		Stage:    stage,
		Outcome:  outcome,
		Duration: time.Since(start),
		Items:    items,
	})
}

// normalizeActions detaches the batch from caller memory, fills empty IDs by
// position, and canonicalizes priorities so downstream stages never see an
// unknown tier.
func normalizeActions(actions []domain.DomainAction) []domain.DomainAction {
	batch := make([]domain.DomainAction, 0, len(actions))
	for i, action := range actions {
		a := action.Clone()
		if a.ID == "" {
			a.ID = fmt.Sprintf("action-%d", i)
		}
		a.Priority = a.Priority.Normalize()
		batch = append(batch, a)
	}
	return batch
}

func normalizeContext(cctx domain.CoordinationContext) domain.CoordinationContext {
	out := cctx.Clone()
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	return out
}

func outcomeFor(err error) string {
	if domain.SeverityOf(err) == domain.SeverityCritical {
		return OutcomeRejected
	}
	return OutcomeError
}
