package resteg

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the codec.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the operations counter, labeled by op and result.
	Operations prometheus.CounterOpts
	// Options for the processed codewords counter, labeled by op.
	Codewords prometheus.CounterOpts
	// Options for the corrected byte errors counter.
	ErrorsCorrected prometheus.CounterOpts
	// Options for the uncorrectable codewords counter.
	Uncorrectable prometheus.CounterOpts
	// Options for the rejected oversized payloads counter.
	CapacityExceeded prometheus.CounterOpts
	// Options for the operation duration histogram, labeled by op.
	Duration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "resteg"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Operations: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations",
			Help:      "Number of encode and decode operations",
		},
		Codewords: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "codewords",
			Help:      "Number of codewords encoded or decoded",
		},
		ErrorsCorrected: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_corrected",
			Help:      "Number of corrupted bytes corrected while decoding",
		},
		Uncorrectable: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uncorrectable",
			Help:      "Number of codewords that couldn't be corrected",
		},
		CapacityExceeded: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "capacity_exceeded",
			Help:      "Number of payloads rejected for not fitting the carrier",
		},
		Duration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration",
			Help:      "Duration of encode and decode operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		operations:       prometheus.NewCounterVec(c.Operations, []string{"op", "result"}),
		codewords:        prometheus.NewCounterVec(c.Codewords, []string{"op"}),
		errorsCorrected:  prometheus.NewCounter(c.ErrorsCorrected),
		uncorrectable:    prometheus.NewCounter(c.Uncorrectable),
		capacityExceeded: prometheus.NewCounter(c.CapacityExceeded),
		duration:         prometheus.NewHistogramVec(c.Duration, []string{"op"}),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.operations,
			m.codewords,
			m.errorsCorrected,
			m.uncorrectable,
			m.capacityExceeded,
			m.duration,
		)
	}

	return &m
}

type metrics struct {
	operations       *prometheus.CounterVec
	codewords        *prometheus.CounterVec
	errorsCorrected  prometheus.Counter
	uncorrectable    prometheus.Counter
	capacityExceeded prometheus.Counter
	duration         *prometheus.HistogramVec
}

const (
	opEncode = "encode"
	opDecode = "decode"
)

func (m *metrics) observe(op string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}
