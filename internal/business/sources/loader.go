package sources

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
)

var ErrUnknownLoader = errors.New("unknown source loader type")

var (
	sourcesLoadedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphql_persist",
		Subsystem: "sources",
		Name:      "sources_loaded_count",
		Help:      "number of sources loaded by the last load",
	},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(sourcesLoadedGauge)
}

type Loader interface {
	Load(ctx context.Context) ([]Source, error)
	Type() string
}

func NewLoaderFromConfig(cfg Config, log *slog.Logger) (Loader, error) {
	switch cfg.Type {
	case "local":
		return NewLocalLoader(cfg, log), nil
	case "gcp":
		return NewGcpLoader(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLoader, cfg.Type)
	}
}
