package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crm"

// Run outcomes recorded on crm_pipeline_runs_total.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Pipeline holds the collectors for message handling runs.
type Pipeline struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	steps    *prometheus.HistogramVec
	degraded *prometheus.CounterVec
}

// New registers the pipeline collectors on a fresh registry.
func New() *Pipeline {
	p := &Pipeline{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Message handling runs by outcome.",
		}, []string{"status"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Duration of each pipeline step.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_calls_total",
			Help:      "Collaborator failures replaced by a default result.",
		}, []string{"component"}),
	}
	p.registry.MustRegister(p.runs, p.steps, p.degraded)
	return p
}

func (p *Pipeline) ObserveStep(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.steps.WithLabelValues(step).Observe(d.Seconds())
}

func (p *Pipeline) IncRun(status string) {
	if p == nil {
		return
	}
	p.runs.WithLabelValues(status).Inc()
}

func (p *Pipeline) IncDegraded(components ...string) {
	if p == nil {
		return
	}
	for _, c := range components {
		p.degraded.WithLabelValues(c).Inc()
	}
}

func (p *Pipeline) Runs() *prometheus.CounterVec {
	return p.runs
}

func (p *Pipeline) Degraded() *prometheus.CounterVec {
	return p.degraded
}

func (p *Pipeline) Registry() *prometheus.Registry {
	return p.registry
}

// Handler exposes the registry in the Prometheus text format.
func (p *Pipeline) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
