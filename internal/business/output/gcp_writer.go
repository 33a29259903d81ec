package output

import (
	"cloud.google.com/go/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var _ Writer = &GcpWriter{}

var ErrNoObjectName = errors.New("gcp location must be of the form bucket/object")

// GcpWriter uploads the manifest to an object in a GCP Storage bucket.
type GcpWriter struct {
	client *storage.Client
	bucket string
	object string
	log    *slog.Logger
}

func NewGcpWriter(location string, log *slog.Logger) (*GcpWriter, error) {
	bucket, object, err := splitObjectLocation(location)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}

	return &GcpWriter{
		client: client,
		bucket: bucket,
		object: object,
		log:    log,
	}, nil
}

func (g *GcpWriter) Type() string {
	return "gcp"
}

func (g *GcpWriter) Write(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*50)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(g.object).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return fmt.Errorf("Object(%q).Write: %w", g.object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Object(%q).Close: %w", g.object, err)
	}

	g.log.Info("Uploaded manifest to gcp bucket", "bucket", g.bucket, "object", g.object, "bytes", len(payload))
	return nil
}

func splitObjectLocation(location string) (string, string, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
	if !ok || object == "" {
		return "", "", ErrNoObjectName
	}
	return bucket, object, nil
}
