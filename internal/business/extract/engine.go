package extract

import (
	"errors"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/business/fragments"
	"github.com/ldebruijn/graphql-persist/internal/business/identity"
	"github.com/ldebruijn/graphql-persist/internal/business/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vektah/gqlparser/v2/ast"
	"log/slog"
	"sync"
)

var (
	operationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "extract",
		Name:      "operations_count",
		Help:      "Operations seen while extracting, by result",
	},
		[]string{"result"},
	)
	fragmentsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "extract",
		Name:      "fragments_count",
		Help:      "Fragments included in or dropped from minimized documents",
	},
		[]string{"result"},
	)
	uniqueOperationsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "graphql_persist",
		Subsystem: "extract",
		Name:      "unique_operations_count",
		Help:      "number of distinct operations the engine has assigned an id",
	}, []string{},
	)
)

func init() {
	prometheus.MustRegister(operationsCounter, fragmentsCounter, uniqueOperationsGauge)
}

var ErrNoDocument = errors.New("no document supplied")

type Config struct {
	// Key selects how identity keys are derived, either `printed` or `sha256`
	Key string `conf:"default:printed" yaml:"key"`
	// OperationTypes lists the operation types that are extracted
	OperationTypes []string         `conf:"default:query" yaml:"operation_types"`
	Transformers   transform.Config `yaml:"transformers"`
}

func DefaultConfig() Config {
	return Config{
		Key:            identity.PrintedKey,
		OperationTypes: []string{string(ast.Query)},
		Transformers:   transform.DefaultConfig(),
	}
}

type Option func(e *Engine)

func WithTransformers(transformers ...transform.Transformer) Option {
	return func(e *Engine) {
		for _, t := range transformers {
			e.pipeline.Register(t)
		}
	}
}

func WithFragmentTransformers(transformers ...transform.FragmentTransformer) Option {
	return func(e *Engine) {
		for _, t := range transformers {
			e.pipeline.RegisterFragment(t)
		}
	}
}

func WithPipeline(pipeline *transform.Pipeline) Option {
	return func(e *Engine) {
		e.pipeline = pipeline
	}
}

func WithKeyFunc(keyFunc identity.KeyFunc) Option {
	return func(e *Engine) {
		e.keyFunc = keyFunc
	}
}

func WithOperationTypes(operationTypes ...ast.Operation) Option {
	return func(e *Engine) {
		e.operationTypes = map[ast.Operation]bool{}
		for _, t := range operationTypes {
			e.operationTypes[t] = true
		}
	}
}

// Engine extracts operations from documents into a manifest. It remembers every
// identity key it has assigned an id, so repeated operations keep their id across
// calls and new operations continue the sequence. Calls are serialized.
type Engine struct {
	log            *slog.Logger
	pipeline       *transform.Pipeline
	keyFunc        identity.KeyFunc
	operationTypes map[ast.Operation]bool

	lock     sync.Mutex
	ids      map[string]int
	nextID   int
	manifest *Manifest
}

func NewEngine(log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		log:            log,
		pipeline:       transform.NewPipeline(),
		keyFunc:        identity.Key,
		operationTypes: map[ast.Operation]bool{ast.Query: true},
		ids:            map[string]int{},
		nextID:         1,
		manifest:       NewManifest(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewEngineFromConfig(log *slog.Logger, cfg Config) (*Engine, error) {
	keyFunc, err := identity.KeyFuncFor(cfg.Key)
	if err != nil {
		return nil, err
	}

	operationTypes := make([]ast.Operation, 0, len(cfg.OperationTypes))
	for _, t := range cfg.OperationTypes {
		switch op := ast.Operation(t); op {
		case ast.Query, ast.Mutation, ast.Subscription:
			operationTypes = append(operationTypes, op)
		default:
			return nil, fmt.Errorf("unknown operation type %q", t)
		}
	}

	return NewEngine(log,
		WithPipeline(transform.NewPipelineFromConfig(cfg.Transformers)),
		WithKeyFunc(keyFunc),
		WithOperationTypes(operationTypes...),
	), nil
}

// AddTransformer registers a transformer that runs after those already registered.
func (e *Engine) AddTransformer(transformer transform.Transformer) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.pipeline.Register(transformer)
}

// CreateMapFromDocument returns a manifest with an entry for every extracted operation in
// the document. Ids come from the engine and are only committed when the whole document
// was processed without error.
func (e *Engine) CreateMapFromDocument(doc *ast.QueryDocument) (*Manifest, error) { // nolint:funlen
	if doc == nil {
		return nil, ErrNoDocument
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	index := fragments.NewIndex(doc)
	result := NewManifest()

	staged := map[string]int{}
	nextID := e.nextID
	var added, duplicates, skipped, included, dropped, missing int

	for _, operation := range doc.Operations {
		if !e.operationTypes[operation.Operation] {
			skipped++
			continue
		}

		key := e.keyFunc(operation)

		transformed, err := e.pipeline.Apply(operation)
		if err != nil {
			operationsCounter.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("transforming operation %s: %w", operationName(operation), err)
		}

		closure := fragments.Resolve(transformed.SelectionSet, index)
		if len(closure.Missing) > 0 {
			e.log.Warn("Operation spreads unknown fragments", "operation", operationName(operation), "fragments", closure.Missing)
			missing += len(closure.Missing)
		}
		trimmed := fragments.Trim(doc, transformed, closure.Names)
		trimmed.Fragments, err = e.pipeline.ApplyFragments(trimmed.Fragments)
		if err != nil {
			operationsCounter.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("transforming fragments of operation %s: %w", operationName(operation), err)
		}
		included += len(trimmed.Fragments)
		dropped += index.Len() - len(trimmed.Fragments)

		id, ok := e.ids[key]
		if !ok {
			id, ok = staged[key]
		}
		if ok {
			duplicates++
		} else {
			id = nextID
			nextID++
			staged[key] = id
			added++
		}

		result.Set(Entry{
			ID:               id,
			Key:              key,
			Name:             operation.Name,
			Operation:        operation.Operation,
			TransformedQuery: trimmed,
			Fragments:        closure.Names,
		})
	}

	for key, id := range staged {
		e.ids[key] = id
	}
	e.nextID = nextID
	e.manifest.Merge(result)

	operationsCounter.WithLabelValues("new").Add(float64(added))
	operationsCounter.WithLabelValues("duplicate").Add(float64(duplicates))
	operationsCounter.WithLabelValues("skipped").Add(float64(skipped))
	fragmentsCounter.WithLabelValues("included").Add(float64(included))
	fragmentsCounter.WithLabelValues("missing").Add(float64(missing))
	fragmentsCounter.WithLabelValues("dropped").Add(float64(dropped))
	uniqueOperationsGauge.WithLabelValues().Set(float64(len(e.ids)))

	return result, nil
}

// Manifest returns a copy of every entry the engine has produced, keyed by identity.
// A key seen again in a later document holds the latest entry.
func (e *Engine) Manifest() *Manifest {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.manifest.Clone()
}

// ID returns the id assigned to a key, if any.
func (e *Engine) ID(key string) (int, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()

	id, ok := e.ids[key]
	return id, ok
}

func operationName(operation *ast.OperationDefinition) string {
	if operation.Name == "" {
		return "<anonymous " + string(operation.Operation) + ">"
	}
	return operation.Name
}
