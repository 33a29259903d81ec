package registry

import (
	"context"
	"errors"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/ldebruijn/graphql-persist/internal/business/identity"
	"github.com/ldebruijn/graphql-persist/internal/business/output"
	"github.com/ldebruijn/graphql-persist/internal/business/sources"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	lookupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "registry",
		Name:      "lookup_count",
		Help:      "The results of operation lookups",
	},
		[]string{"result"},
	)
	loadingResultCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "registry",
		Name:      "load_result_count",
		Help:      "Counter tracking loading behavior and results",
	},
		[]string{"type", "result"},
	)
	operationsInMemGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphql_persist",
		Subsystem: "registry",
		Name:      "operations_in_memory_count",
		Help:      "number of operations served by the registry",
	}, []string{},
	)
)

func init() {
	prometheus.MustRegister(lookupCounter, loadingResultCounter, operationsInMemGauge)
}

var ErrReloadIntervalTooShort = errors.New("reload interval cannot be less than 10 seconds")

type Config struct {
	Format              output.Format `conf:"default:persistgraphql" yaml:"format"`
	EnableDebugEndpoint bool          `conf:"default:false" yaml:"enable_debug_endpoint"`
	// Configuration for periodically re-extracting operations from the source
	Reload struct {
		Enabled  bool          `conf:"default:false" yaml:"enabled"`
		Interval time.Duration `conf:"default:5m" yaml:"interval"`
		Timeout  time.Duration `conf:"default:30s" yaml:"timeout"`
	} `yaml:"reload"`
}

func DefaultConfig() Config {
	cfg := Config{
		Format: output.PersistGraphQL,
	}
	cfg.Reload.Enabled = false
	cfg.Reload.Interval = 5 * time.Minute
	cfg.Reload.Timeout = 30 * time.Second
	return cfg
}

// Registry serves the operations extracted by an engine. Reloads run the engine over the
// source again, so operations keep their id and new ones are appended. Operations that
// disappear from the source stay available.
type Registry struct {
	log         *slog.Logger
	cfg         Config
	engine      *extract.Engine
	loader      sources.Loader
	parallelism int

	lock    sync.RWMutex
	byID    map[int]extract.Entry
	entries []extract.Entry
	encoded []byte
	loaded  bool

	refreshTicker *time.Ticker
	refreshLock   sync.Mutex
	done          chan bool
	shutdownOnce  sync.Once
}

func NewRegistry(log *slog.Logger, cfg Config, engine *extract.Engine, loader sources.Loader, parallelism int) (*Registry, error) {
	if cfg.Reload.Enabled && cfg.Reload.Interval < 10*time.Second {
		return nil, ErrReloadIntervalTooShort
	}

	refreshTicker := func() *time.Ticker {
		if !cfg.Reload.Enabled {
			return nil
		}
		return time.NewTicker(cfg.Reload.Interval)
	}()

	r := &Registry{
		log:           log,
		cfg:           cfg,
		engine:        engine,
		loader:        loader,
		parallelism:   parallelism,
		byID:          map[int]extract.Entry{},
		refreshTicker: refreshTicker,
		// buffered in case we don't have reloading enabled
		done: make(chan bool, 1),
	}

	if err := r.load(context.Background()); err != nil {
		return nil, err
	}

	r.reloadProcessor()

	return r, nil
}

func (r *Registry) load(ctx context.Context) error {
	srcs, err := r.loader.Load(ctx)
	if err != nil {
		loadingResultCounter.WithLabelValues(r.loader.Type(), "failure").Inc()
		return err
	}

	if _, err := r.engine.ProcessSources(ctx, srcs, r.parallelism); err != nil {
		loadingResultCounter.WithLabelValues(r.loader.Type(), "failure").Inc()
		return err
	}

	manifest := r.engine.Manifest()
	encoded, err := output.Encode(manifest, r.cfg.Format)
	if err != nil {
		return err
	}

	byID := make(map[int]extract.Entry, manifest.Len())
	for _, entry := range manifest.Entries() {
		byID[entry.ID] = entry
	}

	r.lock.Lock()
	r.byID = byID
	r.entries = manifest.SortedByID()
	r.encoded = encoded
	r.loaded = true
	r.lock.Unlock()

	r.log.Info(fmt.Sprintf("Total number of persisted operations: %d", len(byID)))
	operationsInMemGauge.WithLabelValues().Set(float64(len(byID)))
	loadingResultCounter.WithLabelValues(r.loader.Type(), "success").Inc()

	return nil
}

func (r *Registry) reloadProcessor() {
	if !r.cfg.Reload.Enabled {
		return
	}

	go func() {
		for {
			select {
			case <-r.done:
				return
			case <-r.refreshTicker.C:
				r.reload()
			}
		}
	}()
}

func (r *Registry) reload() {
	if !r.refreshLock.TryLock() {
		r.log.Warn("Reload still running while next tick")
		return
	}
	defer r.refreshLock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Reload.Timeout)
	defer cancel()

	if err := r.load(ctx); err != nil {
		r.log.Warn("Error reloading operations, keeping previous state", "err", err)
	}
}

// Shutdown stops reloading. Calling it more than once is a no-op.
func (r *Registry) Shutdown() {
	r.shutdownOnce.Do(func() {
		if r.refreshTicker != nil {
			r.refreshTicker.Stop()
		}
		r.done <- true
	})
}

func (r *Registry) Ready() bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.loaded
}

func (r *Registry) Lookup(id int) (extract.Entry, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	entry, ok := r.byID[id]
	return entry, ok
}

// Entries returns the served operations ordered by id.
func (r *Registry) Entries() []extract.Entry {
	r.lock.RLock()
	defer r.lock.RUnlock()
	entries := make([]extract.Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Routes registers the manifest at path and single operations at path/{id}.
// Trailing slashes on path are ignored.
func (r *Registry) Routes(mux *http.ServeMux, path string) {
	base := strings.TrimRight(path, "/")
	if base == "" {
		mux.HandleFunc("GET /{$}", r.handleManifest)
	} else {
		mux.HandleFunc("GET "+base, r.handleManifest)
	}
	mux.HandleFunc("GET "+base+"/{id}", r.handleOperation)
}

func (r *Registry) handleManifest(w http.ResponseWriter, _ *http.Request) {
	r.lock.RLock()
	encoded := r.encoded
	r.lock.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}

func (r *Registry) handleOperation(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(req.PathValue("id"))
	if err != nil || id < 1 {
		lookupCounter.WithLabelValues("invalid").Inc()
		http.Error(w, "invalid operation id", http.StatusBadRequest)
		return
	}

	entry, ok := r.Lookup(id)
	if !ok {
		lookupCounter.WithLabelValues("unknown").Inc()
		http.Error(w, "PersistedOperationNotFound", http.StatusNotFound)
		return
	}

	lookupCounter.WithLabelValues("known").Inc()
	w.Header().Set("Content-Type", "application/graphql")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(identity.Print(entry.TransformedQuery)))
}
