package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yatagai/antenna/pkg/domain/model"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "antenna_runs_total",
			Help: "Total number of finished runs by status",
		},
		[]string{"status", "trigger"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antenna_run_duration_seconds",
			Help:    "Wall-clock duration of finished runs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	channelCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "antenna_channels_kept",
			Help: "Number of channels kept by the latest successful run",
		},
	)
)

func observeRun(record *model.RunRecord) {
	runsTotal.WithLabelValues(string(record.Status), string(record.Trigger)).Inc()

	// Skipped runs never executed anything; their near-zero duration would
	// only distort the histogram.
	if record.Status != model.RunStatusSkipped {
		runDuration.Observe(record.Duration().Seconds())
	}

	if record.Status == model.RunStatusSucceeded && record.ChannelCount > 0 {
		channelCount.Set(float64(record.ChannelCount))
	}
}
