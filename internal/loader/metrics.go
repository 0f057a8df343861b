package loader

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storyfeed",
			Subsystem: "loader",
			Name:      "loads_total",
			Help:      "Load outcomes by loader (issued, fulfilled, failed, discarded, invalid)",
		},
		[]string{"loader", "outcome"},
	)

	hooksRegistered = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storyfeed",
			Subsystem: "loader",
			Name:      "hooks_registered",
			Help:      "Completion hooks currently registered",
		},
		[]string{"loader"},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, hooksRegistered)
}
