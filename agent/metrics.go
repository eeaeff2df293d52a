package agent

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Up = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "filer_up",
			Help:      "Whether the filer answered its version probe on the last poll.",
		},
		[]string{"filer"},
	)

	Aggregates = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "aggregates",
			Help:      "Number of aggregates by state.",
		},
		[]string{"filer", "state"},
	)

	Volumes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "volumes",
			Help:      "Number of volumes by state.",
		},
		[]string{"filer", "state"},
	)

	Exports = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "exports",
			Help:      "Number of exports, partitioned into active and inactive.",
		},
		[]string{"filer", "state"},
	)

	Licenses = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "licenses",
			Help:      "Number of licensed services.",
		},
		[]string{"filer"},
	)

	PollSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "filerctl",
			Subsystem: "agent",
			Name:      "poll_duration_seconds",
			Help:      "Duration of one full poll cycle.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"filer"},
	)
)

func init() {
	prometheus.MustRegister(Up, Aggregates, Volumes, Exports, Licenses, PollSeconds)
}
