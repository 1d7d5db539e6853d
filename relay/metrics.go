package relay

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	sent     prometheus.Counter
	claimed  prometheus.Counter
	skipped  prometheus.Counter
	failures *prometheus.CounterVec
	chunks   prometheus.Histogram
}

const (
	stageFetch   = "fetch"
	stageDecode  = "decode"
	stageClaim   = "claim"
	stageJournal = "journal"
)

// newMetrics registers the relay metrics on reg, a nil reg keeps them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "payloads_sent",
			Help:      "Payloads handed to the Starknet sender contract",
		}),
		claimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "payloads_claimed",
			Help:      "Payloads claimed on L1",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "payloads_skipped",
			Help:      "Deliveries skipped because the journal already holds a claim",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "failures",
			Help:      "Failed deliveries by stage",
		}, []string{"stage"}),
		chunks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relay",
			Name:      "payload_chunks",
			Help:      "Number of 32-byte chunks per delivered payload",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.sent, m.claimed, m.skipped, m.failures, m.chunks)
	}
	return m
}
