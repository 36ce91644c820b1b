package cqlbind

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	prepareFails prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		cacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cqlbind",
			Name:      "statement_cache_hits_total",
			Help:      "Statement cache lookups served by an existing prepared statement.",
		}),
		cacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cqlbind",
			Name:      "statement_cache_misses_total",
			Help:      "Statement cache lookups that prepared a new statement.",
		}),
		prepareFails: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "cqlbind",
			Name:      "statement_prepare_failures_total",
			Help:      "Statement preparations rejected by the session.",
		}),
	}
}
