package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptrace"
)

var _ Writer = &HTTPWriter{}

var ErrUnexpectedStatus = errors.New("unexpected status code")

// HTTPWriter sends the manifest to an HTTP endpoint, typically an operation registry.
type HTTPWriter struct {
	url    string
	cfg    HTTPConfig
	client *http.Client
	log    *slog.Logger
}

func NewHTTPWriter(url string, cfg HTTPConfig, log *slog.Logger) *HTTPWriter {
	return &HTTPWriter{
		url: url,
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg),
		},
		log: log,
	}
}

func newTransport(cfg HTTPConfig) http.RoundTripper {
	return otelhttp.NewTransport(
		&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: cfg.Timeout,
			}).DialContext,
		},
		otelhttp.WithSpanNameFormatter(spanNameFormatter),
		otelhttp.WithClientTrace(newClientTrace(cfg)))
}

func spanNameFormatter(_ string, _ *http.Request) string {
	return "Upload Manifest"
}

// newClientTrace keeps the configured headers out of span attributes, they usually carry credentials.
func newClientTrace(cfg HTTPConfig) func(ctx context.Context) *httptrace.ClientTrace {
	redacted := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		redacted = append(redacted, name)
	}
	return func(ctx context.Context) *httptrace.ClientTrace {
		return otelhttptrace.NewClientTrace(ctx, otelhttptrace.WithRedactedHeaders(redacted...))
	}
}

func (h *HTTPWriter) Type() string {
	return "http"
}

func (h *HTTPWriter) Write(ctx context.Context, payload []byte) error {
	method := h.cfg.Method
	if method == "" {
		method = http.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, h.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for name, value := range h.cfg.Headers {
		req.Header.Set(name, value)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}

	h.log.Info("Uploaded manifest", "url", h.url, "status", res.StatusCode, "bytes", len(payload))
	return nil
}
