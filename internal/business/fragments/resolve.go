package fragments

import "github.com/vektah/gqlparser/v2/ast"

// Closure is the set of fragments a selection set depends on, directly or
// through spreads nested inside other fragments.
type Closure struct {
	// Names holds the resolved fragment names in the order they were first reached
	Names []string
	// Missing holds spreads that reference a fragment the index does not know about
	Missing []string
}

func (c Closure) Contains(name string) bool {
	for _, n := range c.Names {
		if n == name {
			return true
		}
	}
	return false
}

type resolver struct {
	index   Index
	visited map[string]struct{}
	closure Closure
}

// Resolve walks the selection set depth-first, following fragment spreads in the order
// they appear. Every fragment is expanded at most once, which keeps cyclic spreads finite.
// Spreads of unknown fragments are recorded as missing and not expanded.
func Resolve(selectionSet ast.SelectionSet, index Index) Closure {
	r := resolver{
		index:   index,
		visited: map[string]struct{}{},
	}
	r.walk(selectionSet)
	return r.closure
}

func (r *resolver) walk(selectionSet ast.SelectionSet) {
	for _, selection := range selectionSet {
		switch v := selection.(type) {
		case *ast.Field:
			r.walk(v.SelectionSet)
		case *ast.InlineFragment:
			r.walk(v.SelectionSet)
		case *ast.FragmentSpread:
			if _, ok := r.visited[v.Name]; ok {
				continue
			}
			r.visited[v.Name] = struct{}{}

			fragment, ok := r.index.Get(v.Name)
			if !ok {
				r.closure.Missing = append(r.closure.Missing, v.Name)
				continue
			}
			r.closure.Names = append(r.closure.Names, v.Name)
			r.walk(fragment.SelectionSet)
		}
	}
}
