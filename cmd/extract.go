package main

import (
	"context"
	"github.com/ldebruijn/graphql-persist/internal/app/config"
	"github.com/ldebruijn/graphql-persist/internal/app/metrics"
	"github.com/ldebruijn/graphql-persist/internal/app/otel"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/ldebruijn/graphql-persist/internal/business/output"
	"github.com/ldebruijn/graphql-persist/internal/business/sources"
	otelapi "go.opentelemetry.io/otel"
	"io"
	"log/slog"
	"os"
)

var tracer = otelapi.Tracer("github.com/ldebruijn/graphql-persist/cmd")

// extractManifest runs a single extraction. Positional args override the
// source location and the output location, in that order.
func extractManifest(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.Source.Location = args[0]
	}
	if len(args) > 1 {
		cfg.Output.Location = args[1]
	}

	shutdownTracer, err := otel.SetupOTelSDK(ctx, cfg.Tracing, build)
	if err != nil {
		log.Warn("Could not setup OTEL Tracing, continuing without tracing", "err", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Warn("Could not shutdown tracing gracefully", "err", err)
			}
		}()
	}

	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

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

	writer, err := output.NewWriterFromConfig(cfg.Output, log)
	if err != nil {
		log.Error("Error initializing output writer", "err", err)
		return err
	}

	loadCtx, loadSpan := tracer.Start(ctx, "Load Sources")
	srcs, err := loader.Load(loadCtx)
	loadSpan.End()
	if err != nil {
		log.Error("Error loading sources", "err", err)
		return err
	}

	manifest, err := engine.ProcessSources(ctx, srcs, cfg.Source.Parallelism)
	if err != nil {
		log.Error("Error extracting operations", "err", err)
		return err
	}

	payload, err := output.Encode(manifest, cfg.Output.Format)
	if err != nil {
		return err
	}

	writeCtx, writeSpan := tracer.Start(ctx, "Write Output")
	err = output.Write(writeCtx, writer, payload)
	writeSpan.End()
	if err != nil {
		log.Error("Error writing manifest", "err", err)
		return err
	}

	if writer.Type() != "stdout" {
		printSummary(summaryOutput(), manifest)
	}

	if err := metrics.WriteTextfile(cfg.Metrics); err != nil {
		log.Warn("Could not write metrics textfile", "path", cfg.Metrics.Textfile, "err", err)
	}

	return nil
}

var summaryOutput = func() io.Writer {
	return os.Stdout
}
