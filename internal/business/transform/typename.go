package transform

import "github.com/vektah/gqlparser/v2/ast"

const typenameField = "__typename"

// AddTypename selects __typename in every selection set below the operation's own,
// unless the set already selects it. Inline fragments count as selection sets of their own.
func AddTypename(operation *ast.OperationDefinition) (*ast.OperationDefinition, error) {
	result := *operation
	result.SelectionSet = addTypename(operation.SelectionSet, false)
	return &result, nil
}

// AddTypenameToFragment is AddTypename for fragment definitions, whose top level
// selection set is never a root and does get __typename.
func AddTypenameToFragment(fragment *ast.FragmentDefinition) (*ast.FragmentDefinition, error) {
	result := *fragment
	result.SelectionSet = addTypename(fragment.SelectionSet, true)
	return &result, nil
}

func addTypename(selectionSet ast.SelectionSet, selectTypename bool) ast.SelectionSet {
	if len(selectionSet) == 0 {
		return selectionSet
	}

	result := make(ast.SelectionSet, 0, len(selectionSet)+1)
	hasTypename := false

	for _, selection := range selectionSet {
		switch v := selection.(type) {
		case *ast.Field:
			if v.Name == typenameField && (v.Alias == "" || v.Alias == v.Name) {
				hasTypename = true
			}
			if len(v.SelectionSet) == 0 {
				result = append(result, v)
				continue
			}
			field := *v
			field.SelectionSet = addTypename(v.SelectionSet, true)
			result = append(result, &field)
		case *ast.InlineFragment:
			inline := *v
			inline.SelectionSet = addTypename(v.SelectionSet, true)
			result = append(result, &inline)
		default:
			result = append(result, selection)
		}
	}

	if selectTypename && !hasTypename {
		result = append(result, &ast.Field{
			Alias: typenameField,
			Name:  typenameField,
		})
	}
	return result
}
