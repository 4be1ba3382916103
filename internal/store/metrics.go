package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "texman",
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "State store query duration for the named query.",
	}, []string{"query", "success"})
	queryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "texman",
		Subsystem: "store",
		Name:      "query_total",
		Help:      "State store query count for the named query.",
	}, []string{"query", "success"})
)

// query tracks timing and outcome of a single database call, grounded on
// the reference corpus's datastore/postgres instrumentation.
type query struct {
	name  string
	start time.Time
}

func newQuery(name string) *query {
	return &query{name: name, start: time.Now()}
}

func (q *query) observe(err error) {
	success := "true"
	if err != nil {
		success = "false"
	}
	queryDuration.WithLabelValues(q.name, success).Observe(time.Since(q.start).Seconds())
	queryCount.WithLabelValues(q.name, success).Inc()
}

func (q *query) done() {}
