package coordination

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordai/concord/pkg/domain"
)

func TestMetricsRecordCoordination(t *testing.T) {
	m := NewMetrics()

	m.RecordCoordination(OutcomeSuccess, 120*time.Millisecond, 4)
	m.RecordCoordination(OutcomeSuccess, 80*time.Millisecond, 2)
	m.RecordCoordination(OutcomeRejected, 10*time.Millisecond, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.coordinationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.coordinationsTotal.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.coordinationsTotal.WithLabelValues(OutcomeError)))
}

func TestMetricsRecordViolationsByPrinciple(t *testing.T) {
	m := NewMetrics()

	m.RecordViolations([]domain.EthicalViolation{
		{Principle: domain.PrincipleNonMaleficence},
		{Principle: domain.PrincipleNonMaleficence},
		{Principle: "accountability"},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.violationsTotal.WithLabelValues(domain.PrincipleNonMaleficence)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.violationsTotal.WithLabelValues("accountability")))
}

func TestMetricsRecordConflictsByType(t *testing.T) {
	m := NewMetrics()

	m.RecordConflicts([]domain.DomainConflict{
		{Type: domain.ConflictIntraDomain},
		{Type: domain.ConflictCrossDomain},
		{Type: domain.ConflictCrossDomain},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflictsTotal.WithLabelValues(string(domain.ConflictIntraDomain))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.conflictsTotal.WithLabelValues(string(domain.ConflictCrossDomain))))
}

func TestMetricsHandlerServesExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordCoordination(OutcomeSuccess, 50*time.Millisecond, 3)
	m.SetDomainsRegistered(2)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "concord_coordinations_total")
	assert.Contains(t, string(body), "concord_domains_registered 2")
}

func TestCoordinatorRecordsOutcomeMetrics(t *testing.T) {
	m := NewMetrics()
	c := newTestCoordinator(Options{Metrics: m})

	_, err := c.Coordinate(context.Background(), []domain.DomainAction{
		action("a-0", "climate", "reduce_emissions"),
		action("a-1", "economy", "green_growth"),
	}, domain.CoordinationContext{})
	require.NoError(t, err)

	_, err = c.Coordinate(context.Background(), []domain.DomainAction{
		action("b-0", "economy", "exploitative_growth"),
	}, domain.CoordinationContext{})
	require.Error(t, err)

	_, err = c.Coordinate(context.Background(), []domain.DomainAction{
		action("c-0", "climate", "protect_forest"),
		action("c-1", "economy", "expand_agriculture"),
	}, domain.CoordinationContext{})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.coordinationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.coordinationsTotal.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.violationsTotal.WithLabelValues(domain.PrincipleNonMaleficence)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflictsTotal.WithLabelValues(string(domain.ConflictCrossDomain))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.resolutionInconsistencies))
}
