package fragments

import "github.com/vektah/gqlparser/v2/ast"

// Trim builds a document holding only the operation and the named fragments.
// Fragments keep the order in which the source document defines them, regardless
// of the order the names are passed in.
func Trim(doc *ast.QueryDocument, operation *ast.OperationDefinition, names []string) *ast.QueryDocument {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	trimmed := &ast.QueryDocument{
		Operations: ast.OperationList{operation},
	}
	if doc == nil {
		return trimmed
	}

	for _, fragment := range doc.Fragments {
		if _, ok := wanted[fragment.Name]; !ok {
			continue
		}
		// a name is emitted once, duplicates later in the document are ignored
		delete(wanted, fragment.Name)
		trimmed.Fragments = append(trimmed.Fragments, fragment)
	}
	return trimmed
}

// Minimize trims the document down to the operation and the fragments it needs.
func Minimize(doc *ast.QueryDocument, operation *ast.OperationDefinition) *ast.QueryDocument {
	closure := Resolve(operation.SelectionSet, NewIndex(doc))
	return Trim(doc, operation, closure.Names)
}
