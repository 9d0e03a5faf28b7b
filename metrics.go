package tpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registerer prometheus.Registerer

	submitted prometheus.Counter
	rejected  prometheus.Counter
	started   prometheus.Counter
	completed prometheus.Counter
	panicked  prometheus.Counter
	pending   prometheus.GaugeFunc
	alive     prometheus.Gauge
	duration  prometheus.Histogram
}

func newMetrics(pool string, pending func() float64) *metrics {
	labels := prometheus.Labels{"pool": pool}

	return &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tpool_jobs_submitted_total",
			Help:        "Total number of jobs passed to Execute, including rejected ones",
			ConstLabels: labels,
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tpool_jobs_rejected_total",
			Help:        "Total number of jobs refused because the pool was stopped",
			ConstLabels: labels,
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tpool_jobs_started_total",
			Help:        "Total number of jobs delivered to a worker",
			ConstLabels: labels,
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tpool_jobs_completed_total",
			Help:        "Total number of jobs that returned normally",
			ConstLabels: labels,
		}),
		panicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "tpool_jobs_panicked_total",
			Help:        "Total number of jobs that terminated their worker",
			ConstLabels: labels,
		}),
		pending: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "tpool_jobs_pending",
				Help:        "Number of submitted jobs not yet delivered to a worker",
				ConstLabels: labels,
			},
			pending,
		),
		alive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "tpool_workers_alive",
			Help:        "Number of live worker goroutines",
			ConstLabels: labels,
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "tpool_job_duration_seconds",
			Help:        "Job execution time in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.submitted,
		m.rejected,
		m.started,
		m.completed,
		m.panicked,
		m.pending,
		m.alive,
		m.duration,
	}
}

// register adds all collectors to r or, on the first failure, none of them.
// A nil r is a no-op.
func (m *metrics) register(r prometheus.Registerer) error {
	if r == nil {
		return nil
	}

	cs := m.collectors()
	for i, c := range cs {
		if err := r.Register(c); err != nil {
			for _, registered := range cs[:i] {
				r.Unregister(registered)
			}
			return err
		}
	}

	m.registerer = r

	return nil
}

func (m *metrics) unregister() {
	if m.registerer == nil {
		return
	}

	for _, c := range m.collectors() {
		m.registerer.Unregister(c)
	}
	m.registerer = nil
}
