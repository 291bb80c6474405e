package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry metrics. Collectors work unregistered, so library-style use and
// tests can increment them freely; only the server binary registers them.
var (
	RPCProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_registry_rpc_probes_total",
			Help: "RPC endpoint probes by outcome (ok, transport_error, bad_status, rpc_error, chain_mismatch, timeout).",
		},
		[]string{"outcome"},
	)

	RPCProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "network_registry_rpc_probe_duration_seconds",
			Help:    "Duration of individual RPC endpoint probes.",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_registry_enrichment_total",
			Help: "Remote chain list enrichment attempts by status (ok, error, disabled).",
		},
		[]string{"status"},
	)

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_registry_resolutions_total",
			Help: "Network config resolutions by outcome (ok, unknown_network, no_healthy_endpoint, no_preferred).",
		},
		[]string{"outcome"},
	)
)

// MustRegisterMetrics registers all registry collectors with the default
// prometheus registry. Call once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		RPCProbesTotal,
		RPCProbeDuration,
		EnrichmentTotal,
		ResolutionsTotal,
	)
}
