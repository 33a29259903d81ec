package main

import (
	"context"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/app/config"
	"github.com/ldebruijn/graphql-persist/internal/app/otel"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/ldebruijn/graphql-persist/internal/business/registry"
	"github.com/ldebruijn/graphql-persist/internal/business/sources"
	"github.com/ldebruijn/graphql-persist/internal/http/debug"
	"github.com/ldebruijn/graphql-persist/internal/http/middleware"
	"github.com/ldebruijn/graphql-persist/internal/http/readiness"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"log/slog"
	"net/http"
	"os"
	"runtime"
)

func serveRegistry(log *slog.Logger, cfg *config.Config, shutdown chan os.Signal) error { // nolint:funlen
	log.Info("startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	shutDownTracer, err := otel.SetupOTelSDK(context.Background(), cfg.Tracing, build)
	if err != nil {
		log.Error("Could not setup OTEL Tracing, continuing without tracing")
	}

	loader, err := sources.NewLoaderFromConfig(cfg.Source, log)
	if err != nil {
		log.Error("Error initializing source loader", "err", err)
		return err
	}

	engine, err := extract.NewEngineFromConfig(log, cfg.Extract)
	if err != nil {
		log.Error("Error initializing extraction engine", "err", err)
		return err
	}

	reg, err := registry.NewRegistry(log, cfg.Registry, engine, loader, cfg.Source.Parallelism)
	if err != nil {
		log.Error("Error initializing registry", "err", err)
		return err
	}

	mux := http.NewServeMux()
	reg.Routes(mux, cfg.Web.Path)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /internal/healthz/readiness", readiness.NewReadinessHandler(reg.Ready))
	mux.Handle("GET /internal/debug/operations", debug.NewRegistryDebugger(reg, cfg.Registry.EnableDebugEndpoint))

	api := http.Server{
		Addr:         cfg.Web.Host,
		Handler:      middlewareChain(log)(mux),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("startup", "status", "graphql-persist registry started", "host", api.Addr, "path", cfg.Web.Path)

		serverErrors <- api.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		reg.Shutdown()

		if err := api.Shutdown(ctx); err != nil {
			_ = api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		if shutDownTracer != nil {
			if err := shutDownTracer(ctx); err != nil {
				log.Error("Could not shutdown tracing gracefully", "err", err)
			}
		}
	}

	return nil
}

func middlewareChain(log *slog.Logger) func(next http.Handler) http.Handler {
	rec := middleware.Recover(log)
	httpInstrumentation := middleware.RequestMetricMiddleware()
	otelHandler := otelhttp.NewMiddleware("GraphQL Persist")

	fn := func(next http.Handler) http.Handler {
		return rec(otelHandler(httpInstrumentation(next)))
	}

	return fn
}
