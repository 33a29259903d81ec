package transform

import (
	"errors"
	"fmt"
	"github.com/vektah/gqlparser/v2/ast"
)

var (
	ErrNilOperation     = errors.New("transformer returned no operation")
	ErrTransformerPanic = errors.New("transformer panicked")
)

// Transformer rewrites an operation before it is stored. Implementations must return
// a new operation rather than mutate the one they receive.
type Transformer func(operation *ast.OperationDefinition) (*ast.OperationDefinition, error)

// FragmentTransformer rewrites a fragment definition that ends up in a stored document.
// Like Transformer it must not mutate its input.
type FragmentTransformer func(fragment *ast.FragmentDefinition) (*ast.FragmentDefinition, error)

type Config struct {
	AddTypename bool `conf:"default:false" yaml:"add_typename"`
}

func DefaultConfig() Config {
	return Config{
		AddTypename: false,
	}
}

// Pipeline runs its transformers in registration order, each one receiving
// the result of the previous. Fragment transformers run the same way over every
// fragment definition a stored document keeps.
type Pipeline struct {
	transformers         []Transformer
	fragmentTransformers []FragmentTransformer
}

func NewPipeline(transformers ...Transformer) *Pipeline {
	p := &Pipeline{}
	for _, t := range transformers {
		p.Register(t)
	}
	return p
}

func NewPipelineFromConfig(cfg Config) *Pipeline {
	p := NewPipeline()
	if cfg.AddTypename {
		p.Register(AddTypename)
		p.RegisterFragment(AddTypenameToFragment)
	}
	return p
}

func (p *Pipeline) Register(transformer Transformer) {
	if transformer == nil {
		return
	}
	p.transformers = append(p.transformers, transformer)
}

func (p *Pipeline) RegisterFragment(transformer FragmentTransformer) {
	if transformer == nil {
		return
	}
	p.fragmentTransformers = append(p.fragmentTransformers, transformer)
}

// Len counts operation and fragment transformers.
func (p *Pipeline) Len() int {
	return len(p.transformers) + len(p.fragmentTransformers)
}

// Apply returns the operation unchanged when no transformers are registered.
func (p *Pipeline) Apply(operation *ast.OperationDefinition) (*ast.OperationDefinition, error) {
	current := operation
	for i, transformer := range p.transformers {
		next, err := run(transformer, current)
		if err != nil {
			return nil, fmt.Errorf("transformer %d: %w", i, err)
		}
		if next == nil {
			return nil, fmt.Errorf("transformer %d: %w", i, ErrNilOperation)
		}
		current = next
	}
	return current, nil
}

// ApplyFragments returns a new list holding the transformed fragments. The
// definitions passed in are left untouched.
func (p *Pipeline) ApplyFragments(fragments ast.FragmentDefinitionList) (ast.FragmentDefinitionList, error) {
	if len(p.fragmentTransformers) == 0 || len(fragments) == 0 {
		return fragments, nil
	}

	result := make(ast.FragmentDefinitionList, 0, len(fragments))
	for _, fragment := range fragments {
		current := fragment
		for i, transformer := range p.fragmentTransformers {
			next, err := run(transformer, current)
			if err != nil {
				return nil, fmt.Errorf("fragment transformer %d on %s: %w", i, fragment.Name, err)
			}
			if next == nil {
				return nil, fmt.Errorf("fragment transformer %d on %s: %w", i, fragment.Name, ErrNilOperation)
			}
			current = next
		}
		result = append(result, current)
	}
	return result, nil
}

func run[T any](transformer func(T) (T, error), value T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = fmt.Errorf("%w: %v", ErrTransformerPanic, r)
		}
	}()

	return transformer(value)
}
