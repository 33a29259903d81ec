package main

import (
	"context"
	"flag"
	"github.com/ardanlabs/conf/v3"
	"github.com/ldebruijn/graphql-persist/internal/app/config"
	"github.com/ldebruijn/graphql-persist/internal/app/log"
	"github.com/prometheus/client_golang/prometheus"
	log2 "log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

var (
	shortHash  = "develop"
	build      = "develop"
	configPath = ""

	appInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphql_persist",
		Subsystem: "app",
		Name:      "info",
		Help:      "Application information",
	},
		[]string{"version", "go_version", "short_hash"},
	)
)

func init() {
	prometheus.MustRegister(appInfo)
}

func main() {
	flag.StringVar(&configPath, "f", "./persist.yml", "Defines the path at which the configuration file can be found")
	flag.Parse()

	// cfg
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		log2.Println("Error loading application configuration", "err", err)
		os.Exit(1)
	}

	logger := log.NewLogger(cfg.Log)

	if cfgAsString, err := conf.String(cfg); err == nil {
		logger.Debug("Configuration loaded", "config", cfgAsString)
	}

	appInfo.With(prometheus.Labels{
		"version":    build,
		"go_version": runtime.Version(),
		"short_hash": shortHash,
	}).Set(1)

	args := flag.Args()
	if len(args) == 0 {
		logger.Error("Subcommand required", "options", "extract, serve, version")
		os.Exit(1)
	}

	switch action := args[0]; action {
	case "extract":
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if err := extractManifest(ctx, logger, cfg, args[1:]); err != nil {
			logger.Error("extract", "msg", err)
			os.Exit(1) // nolint:gocritic
		}
	case "serve":
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

		if err := serveRegistry(logger, cfg, shutdown); err != nil {
			logger.Error("startup", "msg", err)
			os.Exit(1)
		}
	case "version":
		logger.Info("GraphQL Persist", "version", build, "go_version", runtime.Version(), "short_hash", shortHash)
		os.Exit(0)
	default:
		logger.Error("Unknown subcommand", "subcommand", action)
		os.Exit(1)
	}
}
