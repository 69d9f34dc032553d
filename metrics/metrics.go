package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rss_feed_reader"

var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of article mutations",
		},
		[]string{"operation", "result"},
	)

	RollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Total number of optimistic updates rolled back",
		},
		[]string{"operation"},
	)

	BackgroundSyncFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_sync_failures_total",
			Help:      "Total number of failed fire-and-forget synchronizations",
		},
		[]string{"operation"},
	)

	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of article page loads",
		},
		[]string{"result"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Total number of remote synchronization runs",
		},
		[]string{"result"},
	)

	SyncedArticlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synced_articles_total",
			Help:      "Total number of articles stored by synchronization",
		},
	)

	RemoteOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "remote_online",
			Help:      "Remote service reachability (1 = online, 0 = offline)",
		},
	)
)

const (
	ResultSuccess    = "success"
	ResultFailure    = "failure"
	ResultSuperseded = "superseded"
	ResultSkipped    = "skipped"
)

func RecordMutation(operation string, err error) {
	if err != nil {
		MutationsTotal.WithLabelValues(operation, ResultFailure).Inc()
		return
	}
	MutationsTotal.WithLabelValues(operation, ResultSuccess).Inc()
}

func SetRemoteOnline(online bool) {
	if online == true {
		RemoteOnline.Set(1)
		return
	}
	RemoteOnline.Set(0)
}
