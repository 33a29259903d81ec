package extract

import (
	"context"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/business/sources"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/ldebruijn/graphql-persist/internal/business/extract")

// ProcessSources parses the sources concurrently and then feeds the documents through
// the engine one at a time, in source order. The returned manifest holds the entries of
// all sources; an operation found in several sources keeps its first position.
func (e *Engine) ProcessSources(ctx context.Context, srcs []sources.Source, parallelism int) (*Manifest, error) {
	ctx, span := tracer.Start(ctx, "Parse Sources", trace.WithAttributes(attribute.Int("sources", len(srcs))))
	docs, err := sources.ParseAll(ctx, srcs, parallelism)
	span.End()
	if err != nil {
		return nil, err
	}

	result := NewManifest()
	for i, doc := range docs {
		_, span := tracer.Start(ctx, "Create Map From Document", trace.WithAttributes(attribute.String("source", srcs[i].Name)))
		manifest, err := e.CreateMapFromDocument(doc)
		span.End()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", srcs[i].Name, err)
		}
		result.Merge(manifest)
	}

	e.log.Info("Extracted operations", "numSources", len(srcs), "numOperations", result.Len())
	return result, nil
}
