package output

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"os"
	"time"
)

var (
	writeResultCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "output",
		Name:      "write_result_count",
		Help:      "Counter tracking manifest writes and their results",
	},
		[]string{"type", "result"},
	)
	bytesWrittenGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphql_persist",
		Subsystem: "output",
		Name:      "manifest_bytes",
		Help:      "size of the last manifest written",
	},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(writeResultCounter, bytesWrittenGauge)
}

var ErrUnknownWriter = errors.New("unknown output writer type")

type Config struct {
	Type     string     `conf:"default:file" yaml:"type"`
	Location string     `conf:"default:./extracted_queries.json" yaml:"location"`
	Format   Format     `conf:"default:persistgraphql" yaml:"format"`
	HTTP     HTTPConfig `yaml:"http"`
}

type HTTPConfig struct {
	Method  string            `conf:"default:PUT" yaml:"method"`
	Timeout time.Duration     `conf:"default:10s" yaml:"timeout"`
	Headers map[string]string `conf:"mask" yaml:"headers"`
}

func DefaultConfig() Config {
	return Config{
		Type:     "file",
		Location: "./extracted_queries.json",
		Format:   PersistGraphQL,
		HTTP: HTTPConfig{
			Method:  "PUT",
			Timeout: 10 * time.Second,
		},
	}
}

type Writer interface {
	Write(ctx context.Context, payload []byte) error
	Type() string
}

func NewWriterFromConfig(cfg Config, log *slog.Logger) (Writer, error) {
	switch cfg.Type {
	case "file":
		return NewFileWriter(cfg.Location, log), nil
	case "stdout":
		return NewStdoutWriter(os.Stdout), nil
	case "gcp":
		return NewGcpWriter(cfg.Location, log)
	case "http":
		return NewHTTPWriter(cfg.Location, cfg.HTTP, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWriter, cfg.Type)
	}
}

// Write writes the payload and records the outcome.
func Write(ctx context.Context, writer Writer, payload []byte) error {
	err := writer.Write(ctx, payload)
	if err != nil {
		writeResultCounter.WithLabelValues(writer.Type(), "failure").Inc()
		return fmt.Errorf("writing manifest with %s writer: %w", writer.Type(), err)
	}
	writeResultCounter.WithLabelValues(writer.Type(), "success").Inc()
	bytesWrittenGauge.WithLabelValues(writer.Type()).Set(float64(len(payload)))
	return nil
}
