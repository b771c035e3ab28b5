package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	stageResults   *prom.CounterVec
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	filesWritten   *prom.CounterVec
	bytesWritten   *prom.CounterVec
	slugCollisions prom.Gauge
	lastSuccess    prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitegen",
			Name:      "build_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.ExponentialBuckets(0.001, 4, 8),
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "build_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"outcome"}),
		filesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "files_written_total",
			Help:      "Files written by kind (page, index, sitemap)",
		}, []string{"kind"}),
		bytesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitegen",
			Name:      "bytes_written_total",
			Help:      "Bytes written by file kind",
		}, []string{"kind"}),
		slugCollisions: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitegen",
			Name:      "slug_collisions",
			Help:      "Posts whose page was overwritten by a later post with the same slug in the last run",
		}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitegen",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful generation run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.filesWritten, pr.bytesWritten, pr.slugCollisions, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
	if outcome == OutcomeSuccess {
		p.lastSuccess.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) AddFileWritten(kind string, bytes int) {
	if p == nil {
		return
	}
	p.filesWritten.WithLabelValues(kind).Inc()
	p.bytesWritten.WithLabelValues(kind).Add(float64(bytes))
}

func (p *PrometheusRecorder) SetSlugCollisions(n int) {
	if p == nil {
		return
	}
	p.slugCollisions.Set(float64(n))
}

// WriteTextfile writes everything gathered from g to path in the Prometheus
// text exposition format.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
