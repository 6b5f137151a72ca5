package resteg

import (
	"log/slog"
	"runtime"

	"github.com/teenjuna/resteg/placement"
)

// Config configures a [Codec]. It is modified by [ConfigFunc]s passed to [New].
//
// The zero value is invalid; defaults are applied by [New] before any ConfigFunc.
type Config struct {
	strength   Strength
	placement  placement.Strategy
	workers    int
	logger     *slog.Logger
	prometheus *PrometheusConfig
}

type ConfigFunc = func(c *Config)

// Strength sets the redundancy of the codewords. Default is [Standard].
func (c *Config) Strength(strength Strength) {
	c.strength = strength
}

// Placement sets the strategy deciding which samples receive the bits. Default is
// [placement.Stride].
func (c *Config) Placement(strategy placement.Strategy) {
	if strategy == nil {
		panic("placement can't be nil")
	}
	c.placement = strategy
}

// Workers sets the number of goroutines encoding and decoding codewords. Default is GOMAXPROCS.
func (c *Config) Workers(workers int) {
	if workers < 1 {
		panic("workers can't be < 1")
	}
	c.workers = workers
}

// Logger sets the logger. Default discards everything.
func (c *Config) Logger(logger *slog.Logger) {
	if logger == nil {
		panic("logger can't be nil")
	}
	c.logger = logger
}

// Prometheus sets the metrics configuration. Default is Prometheus(nil): metrics are collected but
// not registered.
func (c *Config) Prometheus(prometheus *PrometheusConfig) {
	if prometheus == nil {
		panic("prometheus can't be nil")
	}
	c.prometheus = prometheus
}

func newConfig(configFuncs ...ConfigFunc) *Config {
	cfg := &Config{}
	cfg.Strength(Standard)
	cfg.Placement(placement.Stride())
	cfg.Workers(runtime.GOMAXPROCS(0))
	cfg.Logger(slog.New(slog.DiscardHandler))
	cfg.Prometheus(Prometheus(nil))
	for _, cf := range configFuncs {
		if cf != nil {
			cf(cfg)
		}
	}
	return cfg
}
