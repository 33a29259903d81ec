package debug

import (
	"encoding/json"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"net/http"
)

type operation struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Key       string   `json:"key"`
	Fragments []string `json:"fragments"`
}

type entrySource interface {
	Entries() []extract.Entry
}

// NewRegistryDebugger lists the metadata of every operation the registry serves.
func NewRegistryDebugger(registry entrySource, enableDebugEndpoint bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !enableDebugEndpoint {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		entries := registry.Entries()
		operations := make([]operation, 0, len(entries))
		for _, entry := range entries {
			fragments := entry.Fragments
			if fragments == nil {
				fragments = []string{}
			}
			operations = append(operations, operation{
				ID:        entry.ID,
				Name:      entry.Name,
				Type:      string(entry.Operation),
				Key:       entry.Key,
				Fragments: fragments,
			})
		}

		jsonData, err := json.MarshalIndent(operations, "", "  ")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jsonData)
	}
}
