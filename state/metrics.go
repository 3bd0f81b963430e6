package state

import "github.com/prometheus/client_golang/prometheus"

var (
	readsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitvault_state_reads_total",
			Help: "Channel reads by key and outcome.",
		},
		[]string{"key", "status"},
	)
	writesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitvault_state_writes_total",
			Help: "Successful channel writes and removals by key.",
		},
		[]string{"key"},
	)
	writeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitvault_state_write_failures_total",
			Help: "Channel writes rejected by the backing store, by key.",
		},
		[]string{"key"},
	)
	notificationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitvault_state_notifications_total",
			Help: "Change notifications delivered to subscribers.",
		},
	)
	invalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitvault_state_remote_invalidations_total",
			Help: "Cache invalidations caused by changes from other hubs, by key.",
		},
		[]string{"key"},
	)
)

func init() {
	prometheus.MustRegister(readsTotal, writesTotal, writeFailuresTotal, notificationsTotal, invalidationsTotal)
}
