package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "straw"
)

var (
	fetchedBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetched_bytes",
			Help:      "Bytes read from .hic resources. Broken down by source kind.",
		},
		[]string{"kind"},
	)

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Range reads issued against .hic resources. Broken down by source kind.",
		},
		[]string{"kind"},
	)

	blocksDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hic",
			Name:      "blocks_decoded_total",
			Help:      "Contact blocks inflated and decoded.",
		},
	)

	records = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hic",
			Name:      "records_total",
			Help:      "Contact records returned by queries.",
		},
	)

	queryDuration = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hic",
			Name:      "query_duration_seconds",
			Help:      "Total time spent answering queries. Broken down by matrix type.",
		},
		[]string{"matrix"},
	)
)

var register sync.Once

// Registry holds the straw collectors once Register has been called.
var Registry *prometheus.Registry

// Register registers metrics. Only the first call has any effect.
func Register() {
	register.Do(func() {
		Registry = prometheus.NewRegistry()
		Registry.MustRegister(fetchedBytes, fetches, blocksDecoded, records, queryDuration)
	})
}

// WriteTextfile dumps the registry in the text exposition format.
func WriteTextfile(path string) error {
	Register()
	return prometheus.WriteToTextfile(path, Registry)
}

func Fetched(kind string, n int) {
	fetches.WithLabelValues(kind).Inc()
	fetchedBytes.WithLabelValues(kind).Add(float64(n))
}

func BlockDecoded() {
	blocksDecoded.Inc()
}

func Records(n int) {
	records.Add(float64(n))
}

func QueryDuration(matrix string, start time.Time) {
	queryDuration.WithLabelValues(matrix).Add(time.Since(start).Seconds())
}
