package debug

import (
	"encoding/json"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticEntries []extract.Entry

func (s staticEntries) Entries() []extract.Entry {
	return s
}

func TestNewRegistryDebugger(t *testing.T) {
	entries := staticEntries{
		{ID: 1, Key: "query A {\n\ta\n}\n", Name: "A", Operation: ast.Query, Fragments: []string{"f"}},
		{ID: 2, Key: "query {\n\tb\n}\n", Operation: ast.Query},
	}

	t.Run("disabled", func(t *testing.T) {
		resp := httptest.NewRecorder()
		NewRegistryDebugger(entries, false).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		resp := httptest.NewRecorder()
		NewRegistryDebugger(entries, true).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

		var got []operation
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, []operation{
			{ID: 1, Name: "A", Type: "query", Key: "query A {\n\ta\n}\n", Fragments: []string{"f"}},
			{ID: 2, Type: "query", Key: "query {\n\tb\n}\n", Fragments: []string{}},
		}, got)
	})
}
