package fragments

import "github.com/vektah/gqlparser/v2/ast"

// Index maps fragment names to their definitions within a single document.
// When a document defines the same fragment name more than once the first
// definition wins.
type Index struct {
	definitions map[string]*ast.FragmentDefinition
	names       []string
}

func NewIndex(doc *ast.QueryDocument) Index {
	index := Index{
		definitions: map[string]*ast.FragmentDefinition{},
	}
	if doc == nil {
		return index
	}

	for _, fragment := range doc.Fragments {
		if _, ok := index.definitions[fragment.Name]; ok {
			continue
		}
		index.definitions[fragment.Name] = fragment
		index.names = append(index.names, fragment.Name)
	}
	return index
}

func (i Index) Get(name string) (*ast.FragmentDefinition, bool) {
	fragment, ok := i.definitions[name]
	return fragment, ok
}

// Names returns the indexed fragment names in source order.
func (i Index) Names() []string {
	names := make([]string, len(i.names))
	copy(names, i.names)
	return names
}

func (i Index) Len() int {
	return len(i.names)
}
