package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPipelineCounters(t *testing.T) {
	p := New()

	p.IncRun(StatusOK)
	p.IncRun(StatusOK)
	p.IncRun(StatusError)
	p.IncDegraded("sentiment", "sentiment", "extraction")
	p.ObserveStep("input", 20*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(p.runs.WithLabelValues(StatusOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues(StatusError)))
	require.Equal(t, 2.0, testutil.ToFloat64(p.degraded.WithLabelValues("sentiment")))
	require.Equal(t, 1, testutil.CollectAndCount(p.steps))
}

func TestNilPipelineIsNoop(t *testing.T) {
	var p *Pipeline
	p.IncRun(StatusOK)
	p.IncDegraded("x")
	p.ObserveStep("input", time.Second)
}

func TestHandlerServesRegistry(t *testing.T) {
	p := New()
	p.IncRun(StatusOK)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `crm_pipeline_runs_total{status="ok"} 1`))
}
