package filer

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filerctl",
		Subsystem: "filer",
		Name:      "commands_total",
		Help:      "Remote commands executed, by resource kind.",
	}, []string{"filer", "kind"})

	CommandErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filerctl",
		Subsystem: "filer",
		Name:      "command_errors_total",
		Help:      "Remote commands rejected or failed, by resource kind.",
	}, []string{"filer", "kind"})

	CommandSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "filerctl",
		Subsystem: "filer",
		Name:      "command_seconds",
		Help:      "Remote command round-trip time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"filer"})
)

func init() {
	prometheus.MustRegister(
		CommandsTotal,
		CommandErrorsTotal,
		CommandSeconds,
	)
}
