package sources

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/sync/errgroup"
	"path/filepath"
	"strings"
)

var (
	parseResultCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "graphql_persist",
		Subsystem: "sources",
		Name:      "parse_result_count",
		Help:      "The results of parsing source documents",
	},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(parseResultCounter)
}

var graphqlExtensions = []string{".graphql", ".gql"}

type Config struct {
	Type     string `conf:"default:local" yaml:"type"`
	Location string `conf:"default:./queries" yaml:"location"`
	// Number of sources parsed concurrently
	Parallelism    int                  `conf:"default:4" yaml:"parallelism"`
	TaggedTemplate TaggedTemplateConfig `yaml:"tagged_template"`
}

// TaggedTemplateConfig controls extraction of GraphQL from tagged template
// literals (gql`...`) in JavaScript and TypeScript files.
type TaggedTemplateConfig struct {
	Enabled    bool     `conf:"default:false" yaml:"enabled"`
	Tag        string   `conf:"default:gql" yaml:"tag"`
	Extensions []string `conf:"default:.js;.ts;.jsx;.tsx" yaml:"extensions"`
}

func DefaultConfig() Config {
	return Config{
		Type:        "local",
		Location:    "./queries",
		Parallelism: 4,
		TaggedTemplate: TaggedTemplateConfig{
			Enabled:    false,
			Tag:        "gql",
			Extensions: []string{".js", ".ts", ".jsx", ".tsx"},
		},
	}
}

// Source is the GraphQL text found in one input file or object.
type Source struct {
	Name string
	Body string
}

// NewSource dispatches on the file extension. Files that are neither GraphQL nor
// enabled tagged template sources yield no source.
func NewSource(cfg Config, name string, contents []byte) (Source, bool) {
	ext := strings.ToLower(filepath.Ext(name))

	if contains(graphqlExtensions, ext) {
		return Source{Name: name, Body: string(contents)}, true
	}

	if cfg.TaggedTemplate.Enabled && contains(cfg.TaggedTemplate.Extensions, ext) {
		literals := ExtractTaggedTemplates(string(contents), cfg.TaggedTemplate.Tag)
		if len(literals) == 0 {
			return Source{}, false
		}
		return Source{Name: name, Body: strings.Join(literals, "\n")}, true
	}

	return Source{}, false
}

// Recognized reports whether a file name would produce a source.
func Recognized(cfg Config, name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if contains(graphqlExtensions, ext) {
		return true
	}
	return cfg.TaggedTemplate.Enabled && contains(cfg.TaggedTemplate.Extensions, ext)
}

func Parse(src Source) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{
		Name:  src.Name,
		Input: src.Body,
	})
	if err != nil {
		parseResultCounter.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("parsing %s: %w", src.Name, err)
	}
	parseResultCounter.WithLabelValues("success").Inc()
	return doc, nil
}

// ParseAll parses sources concurrently. Documents are returned in the order of
// the sources; all parse errors are reported together.
func ParseAll(ctx context.Context, sources []Source, parallelism int) ([]*ast.QueryDocument, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	docs := make([]*ast.QueryDocument, len(sources))
	errs := make([]error, len(sources))

	g := errgroup.Group{}
	g.SetLimit(parallelism)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			docs[i], errs[i] = Parse(src)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return docs, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
