package ethics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordai/concord/pkg/domain"
)

const principlesModule = `package concord.ethics

violations contains violation if {
	input.action.type == "dump_waste"
	violation := {
		"principle": "non_maleficence",
		"description": "waste dumping is categorically prohibited",
		"severity": 1.5,
	}
}

violations contains violation if {
	input.requirements.impact_assessment == "required"
	not input.action.params.impact_assessment
	violation := {
		"principle": "accountability",
		"description": sprintf("action %v is missing an impact assessment", [input.action.id]),
		"severity": 0.4,
	}
}
`

func newTestRegoEvaluator(t *testing.T) *RegoEvaluator {
	t.Helper()
	evaluator, err := NewRegoEvaluator(context.Background(), RegoOptions{
		Modules: map[string]string{"principles.rego": principlesModule},
	})
	require.NoError(t, err)
	return evaluator
}

func TestRegoEvaluatorCleanAction(t *testing.T) {
	evaluator := newTestRegoEvaluator(t)

	violations, err := evaluator.Evaluate(context.Background(),
		action("a-0", "climate", "reduce_emissions"), domain.CoordinationContext{})

	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestRegoEvaluatorClampsSeverity(t *testing.T) {
	evaluator := newTestRegoEvaluator(t)

	violations, err := evaluator.Evaluate(context.Background(),
		action("a-0", "industry", "dump_waste"), domain.CoordinationContext{})

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "non_maleficence", violations[0].Principle)
	assert.Equal(t, 1.0, violations[0].Severity, "severities above 1 clamp to 1")
	assert.Equal(t, "a-0", violations[0].Action.ID)
}

func TestRegoEvaluatorReadsRequirements(t *testing.T) {
	evaluator := newTestRegoEvaluator(t)
	cc := domain.CoordinationContext{
		Constraints: domain.EthicalConstraints{
			Requirements: map[string]string{"impact_assessment": "required"},
		},
	}

	missing, err := evaluator.Evaluate(context.Background(),
		action("a-1", "energy", "expand_grid"), cc)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "accountability", missing[0].Principle)
	assert.InDelta(t, 0.4, missing[0].Severity, 1e-9)
	assert.Contains(t, missing[0].Description, "a-1")

	satisfied := action("a-2", "energy", "expand_grid")
	satisfied.Params = map[string]string{"impact_assessment": "complete"}
	none, err := evaluator.Evaluate(context.Background(), satisfied, cc)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRegoEvaluatorComposesWithGate(t *testing.T) {
	gate := NewGate(ProhibitionMatcher{}, newTestRegoEvaluator(t))

	audit, err := gate.Audit(context.Background(), []domain.DomainAction{
		action("a-0", "industry", "dump_waste"),
	}, domain.CoordinationContext{})

	require.NoError(t, err)
	assert.False(t, audit.Approved)
	require.Len(t, audit.Violations, 1, "pattern scan passes, rego principle flags")
}

func TestNewRegoEvaluatorRejectsBadModule(t *testing.T) {
	_, err := NewRegoEvaluator(context.Background(), RegoOptions{
		Modules: map[string]string{"broken.rego": "package concord.ethics\n\nviolations contains if {"},
	})
	assert.Error(t, err)
}

func TestNewRegoEvaluatorRequiresModules(t *testing.T) {
	_, err := NewRegoEvaluator(context.Background(), RegoOptions{})
	assert.Error(t, err)
}
