package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"regexp"
)

type Config struct {
	// Textfile is a path the collected metrics are written to once a run completes,
	// for pickup by the node exporter textfile collector
	Textfile string `conf:"default:" yaml:"textfile"`
}

func DefaultConfig() Config {
	return Config{}
}

func init() {
	// Unregister the default GoCollector.
	prometheus.Unregister(collectors.NewGoCollector())

	// Register the default GoCollector with scheduler latencies included.
	prometheus.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/latencies:seconds")},
			),
		),
	)
}

// WriteTextfile writes the metrics gathered by the default registry, if configured.
func WriteTextfile(cfg Config) error {
	if cfg.Textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(cfg.Textfile, prometheus.DefaultGatherer)
}
