package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// API
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests."},
		[]string{"handler", "method", "code"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms..~10s
		},
		[]string{"handler", "method"},
	)

	// Provisioning
	ProvisionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "numbers_provisioned_total", Help: "Provisioning outcomes."},
		[]string{"origin", "result"}, // virtual|real|none x ok|quota_exceeded|unknown_user
	)
	ProviderFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "provider_fallback_total", Help: "Real-number requests that fell back to virtual generation."},
	)
	GenerationCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "generation_collisions_total", Help: "Virtual candidates rejected because the value already existed."},
	)

	// Synthesis engine
	SynthMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "synth_messages_total", Help: "Messages manufactured by the synthesis engine."},
		[]string{"family"}, // verification | service | explicit
	)
	SynthCycles = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "synth_cycles_total", Help: "Completed synthesis ticks."},
	)

	// Storage
	StorageWriteErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "storage_write_errors_total", Help: "Failed whole-document writes."},
		[]string{"document"},
	)
)

var registerOnce sync.Once

// MustRegister registers default + our collectors. Safe to call from every
// router constructor; only the first call registers.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
			HTTPRequests, HTTPDuration,
			ProvisionTotal, ProviderFallbackTotal, GenerationCollisions,
			SynthMessages, SynthCycles,
			StorageWriteErrors,
		)
	})
}
