package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ArtifactMetrics describes the model artifacts loaded at startup.
type ArtifactMetrics struct {
	service string

	loadTotal    *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	features     prometheus.Gauge
}

func NewArtifactMetrics(service string, reg prometheus.Registerer) *ArtifactMetrics {
	loadTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "load_total",
			Help:      "Total artifact load attempts by status.",
		},
		[]string{"service", "status"},
	)
	loadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "load_duration_seconds",
			Help:      "Artifact load duration in seconds by status.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "status"},
	)
	features := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "features",
			Help:      "Feature space dimension of the loaded model.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	if reg != nil {
		reg.MustRegister(loadTotal, loadDuration, features)
	}

	return &ArtifactMetrics{
		service:      service,
		loadTotal:    loadTotal,
		loadDuration: loadDuration,
		features:     features,
	}
}

func (m *ArtifactMetrics) ObserveLoad(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loadTotal.WithLabelValues(m.service, status).Inc()
	m.loadDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *ArtifactMetrics) SetFeatures(dim int) {
	m.features.Set(float64(dim))
}
