package fragments

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"testing"
)

func parse(t *testing.T, query string) *ast.QueryDocument {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Name: t.Name(), Input: query})
	require.NoError(t, err)
	return doc
}

func fragmentNames(doc *ast.QueryDocument) []string {
	var names []string
	for _, f := range doc.Fragments {
		names = append(names, f.Name)
	}
	return names
}

func TestNewIndex(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantNames []string
		want      func(t *testing.T, index Index)
	}{
		{
			name:      "empty document yields an empty index",
			query:     `query { author { firstName } }`,
			wantNames: []string{},
		},
		{
			name: "fragments are indexed in source order",
			query: heredoc.Doc(`
				fragment b on Author { lastName }
				query { author { ...a ...b } }
				fragment a on Author { firstName }
			`),
			wantNames: []string{"b", "a"},
		},
		{
			name: "the first definition of a duplicated name wins",
			query: heredoc.Doc(`
				fragment a on Author { firstName }
				fragment a on Author { lastName }
			`),
			wantNames: []string{"a"},
			want: func(t *testing.T, index Index) {
				fragment, ok := index.Get("a")
				require.True(t, ok)
				assert.Equal(t, "firstName", fragment.SelectionSet[0].(*ast.Field).Name)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := NewIndex(parse(t, tt.query))

			assert.Equal(t, len(tt.wantNames), index.Len())
			assert.ElementsMatch(t, tt.wantNames, index.Names())
			if len(tt.wantNames) > 0 {
				assert.Equal(t, tt.wantNames, index.Names())
			}
			if tt.want != nil {
				tt.want(t, index)
			}
		})
	}
}

func TestNewIndex_NilDocument(t *testing.T) {
	index := NewIndex(nil)

	assert.Equal(t, 0, index.Len())
	_, ok := index.Get("anything")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantNames   []string
		wantMissing []string
	}{
		{
			name:  "no spreads",
			query: `query { author { firstName } } fragment unused on Author { lastName }`,
		},
		{
			name: "direct spread",
			query: heredoc.Doc(`
				query { author { ...authorDetails } }
				fragment authorDetails on Author { firstName lastName }
				fragment unused on Author { id }
			`),
			wantNames: []string{"authorDetails"},
		},
		{
			name: "nested spreads are followed",
			query: heredoc.Doc(`
				query { author { ...authorDetails } }
				fragment authorDetails on Author { firstName ...moreDetails }
				fragment moreDetails on Author { address }
			`),
			wantNames: []string{"authorDetails", "moreDetails"},
		},
		{
			name: "spreads inside inline fragments are followed",
			query: heredoc.Doc(`
				query { node { ... on Author { ...authorDetails } } }
				fragment authorDetails on Author { firstName }
			`),
			wantNames: []string{"authorDetails"},
		},
		{
			name: "a fragment reached twice is listed once",
			query: heredoc.Doc(`
				query { author { ...a ...b } }
				fragment a on Author { ...shared }
				fragment b on Author { ...shared }
				fragment shared on Author { id }
			`),
			wantNames: []string{"a", "shared", "b"},
		},
		{
			name: "cyclic spreads terminate",
			query: heredoc.Doc(`
				query { author { ...a } }
				fragment a on Author { id ...b }
				fragment b on Author { name ...a }
			`),
			wantNames: []string{"a", "b"},
		},
		{
			name: "unknown spreads are reported as missing",
			query: heredoc.Doc(`
				query { author { ...a ...ghost } }
				fragment a on Author { id }
			`),
			wantNames:   []string{"a"},
			wantMissing: []string{"ghost"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.query)

			closure := Resolve(doc.Operations[0].SelectionSet, NewIndex(doc))

			assert.Equal(t, tt.wantNames, closure.Names)
			assert.Equal(t, tt.wantMissing, closure.Missing)
			for _, name := range tt.wantNames {
				assert.True(t, closure.Contains(name))
			}
		})
	}
}

func TestMinimize(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantFragments []string
	}{
		{
			name: "a useless fragment is dropped",
			query: heredoc.Doc(`
				query {
					author {
						firstName
						lastName
					}
				}

				fragment useless on Author {
					id
				}
			`),
		},
		{
			name: "used fragments keep source order",
			query: heredoc.Doc(`
				query { author { ...second ...first } }
				fragment first on Author { firstName }
				fragment unused on Author { id }
				fragment second on Author { lastName }
			`),
			wantFragments: []string{"first", "second"},
		},
		{
			name: "a duplicated fragment name is emitted once",
			query: heredoc.Doc(`
				query { author { ...a } }
				fragment a on Author { firstName }
				fragment a on Author { lastName }
			`),
			wantFragments: []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.query)
			operation := doc.Operations[0]

			minimized := Minimize(doc, operation)

			require.Len(t, minimized.Operations, 1)
			assert.Same(t, operation, minimized.Operations[0])
			assert.Equal(t, tt.wantFragments, fragmentNames(minimized))
		})
	}
}

func TestMinimize_OnlyTheRequestedOperation(t *testing.T) {
	doc := parse(t, heredoc.Doc(`
		query First { author { ...a } }
		query Second { author { ...b } }
		fragment a on Author { firstName }
		fragment b on Author { lastName }
	`))

	first := Minimize(doc, doc.Operations[0])
	second := Minimize(doc, doc.Operations[1])

	assert.Equal(t, "First", first.Operations[0].Name)
	assert.Equal(t, []string{"a"}, fragmentNames(first))
	assert.Equal(t, "Second", second.Operations[0].Name)
	assert.Equal(t, []string{"b"}, fragmentNames(second))
	assert.Len(t, doc.Fragments, 2)
}

func TestTrim_IgnoresUnknownNames(t *testing.T) {
	doc := parse(t, `query { author { id } } fragment a on Author { id }`)

	trimmed := Trim(doc, doc.Operations[0], []string{"ghost", "a"})

	assert.Equal(t, []string{"a"}, fragmentNames(trimmed))
}
