package config

import (
	"errors"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/app/http"
	"github.com/ldebruijn/graphql-persist/internal/app/log"
	"github.com/ldebruijn/graphql-persist/internal/app/metrics"
	"github.com/ldebruijn/graphql-persist/internal/app/otel"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/ldebruijn/graphql-persist/internal/business/output"
	"github.com/ldebruijn/graphql-persist/internal/business/registry"
	"github.com/ldebruijn/graphql-persist/internal/business/sources"
	"gopkg.in/yaml.v3"
	"os"
)

type Config struct {
	Log      log.Config      `yaml:"log"`
	Source   sources.Config  `yaml:"source"`
	Extract  extract.Config  `yaml:"extract"`
	Output   output.Config   `yaml:"output"`
	Metrics  metrics.Config  `yaml:"metrics"`
	Tracing  otel.Config     `yaml:"tracing"`
	Web      http.Config     `yaml:"web"`
	Registry registry.Config `yaml:"registry"`
}

func defaults() Config {
	return Config{
		Log:      log.DefaultConfig(),
		Source:   sources.DefaultConfig(),
		Extract:  extract.DefaultConfig(),
		Output:   output.DefaultConfig(),
		Metrics:  metrics.DefaultConfig(),
		Tracing:  otel.DefaultConfig(),
		Web:      http.DefaultConfig(),
		Registry: registry.DefaultConfig(),
	}
}

// NewConfig returns the defaults overlaid with the yaml file at configPath.
// A file that does not exist leaves the defaults in place.
func NewConfig(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath == "" {
		return &cfg, nil
	}

	contents, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file [%s]: %w", configPath, err)
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file [%s]: %w", configPath, err)
	}
	return &cfg, nil
}
