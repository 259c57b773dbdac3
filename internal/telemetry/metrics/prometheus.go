package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the registry served on the metrics server. Next to
// the runtime and process collectors it exposes <namespace>_version_info,
// always 1, labeled with the commit the service was built from.
func SetupPrometheus(namespace, versionInfo string) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	if versionInfo == "" {
		versionInfo = "unknown"
	}

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsGC, collectors.MetricsScheduler),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "version_info",
			Help:        "Commit the service was built from.",
			ConstLabels: prometheus.Labels{"commit": versionInfo},
		}, func() float64 { return 1 }),
	)

	return promRegistry
}
