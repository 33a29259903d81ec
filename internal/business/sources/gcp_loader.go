package sources

import (
	"cloud.google.com/go/storage"
	"context"
	"errors"
	"fmt"
	"google.golang.org/api/iterator"
	"io"
	"log/slog"
	"strings"
	"time"
)

var _ Loader = &GcpLoader{}

// GcpLoader loads sources from a GCP Storage bucket. The location is either a bucket
// name or `bucket/prefix`, in which case only objects below the prefix are considered.
type GcpLoader struct {
	cfg    Config
	client *storage.Client
	bucket string
	prefix string
	log    *slog.Logger
}

func NewGcpLoader(cfg Config, log *slog.Logger) (*GcpLoader, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}

	bucket, prefix := splitLocation(cfg.Location)

	return &GcpLoader{
		cfg:    cfg,
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}, nil
}

func (g *GcpLoader) Type() string {
	return "gcp"
}

func (g *GcpLoader) Load(ctx context.Context) ([]Source, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{
		Prefix:     g.prefix,
		Versions:   false,
		Projection: storage.ProjectionNoACL,
	})

	var objects []string
	var errs []error
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			// any subsequent call returns the same error
			errs = append(errs, err)
			break
		}
		if Recognized(g.cfg, attrs.Name) {
			objects = append(objects, attrs.Name)
		}
	}

	var result []Source
	for _, name := range objects {
		contents, err := g.read(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		src, ok := NewSource(g.cfg, name, contents)
		if !ok {
			continue
		}
		result = append(result, src)
	}

	g.log.Info("Loaded sources from gcp bucket", "bucket", g.bucket, "prefix", g.prefix, "numFiles", len(objects), "numErrs", len(errs))
	sourcesLoadedGauge.WithLabelValues(g.Type()).Set(float64(len(result)))

	return result, errors.Join(errs...)
}

func (g *GcpLoader) read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	reader, err := g.client.Bucket(g.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Object(%q).NewReader: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}
	return data, nil
}

func splitLocation(location string) (string, string) {
	location = strings.TrimPrefix(location, "gs://")
	bucket, prefix, _ := strings.Cut(location, "/")
	return bucket, prefix
}
