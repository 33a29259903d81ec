package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"github.com/ldebruijn/graphql-persist/internal/business/identity"
)

type Format string

const (
	// PersistGraphQL maps the identity key to its id
	PersistGraphQL Format = "persistgraphql"
	// Full maps the identity key to its id and the printed minimized document
	Full Format = "full"
	// Apollo is the apollo persisted query manifest format
	Apollo Format = "apollo"
	// Hashes maps the sha256 of each printed document to the document
	Hashes Format = "hashes"
)

var ErrUnknownFormat = errors.New("unknown output format")

type fullEntry struct {
	ID               int    `json:"id"`
	TransformedQuery string `json:"transformedQuery"`
}

type ApolloOperation struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type ApolloManifest struct {
	Format     string            `json:"format"`
	Version    int               `json:"version"`
	Operations []ApolloOperation `json:"operations"`
}

type member struct {
	key   string
	value any
}

// Encode renders the manifest in the requested format. Entries are written in id order.
func Encode(manifest *extract.Manifest, format Format) ([]byte, error) {
	entries := manifest.SortedByID()

	switch format {
	case PersistGraphQL, "":
		members := make([]member, 0, len(entries))
		for _, entry := range entries {
			members = append(members, member{key: entry.Key, value: entry.ID})
		}
		return encodeObject(members)
	case Full:
		members := make([]member, 0, len(entries))
		for _, entry := range entries {
			members = append(members, member{key: entry.Key, value: fullEntry{
				ID:               entry.ID,
				TransformedQuery: identity.Print(entry.TransformedQuery),
			}})
		}
		return encodeObject(members)
	case Hashes:
		members := make([]member, 0, len(entries))
		seen := map[string]bool{}
		for _, entry := range entries {
			body := identity.Print(entry.TransformedQuery)
			hash := identity.Hash(body)
			// distinct operations can share a body once transformed, the first id wins
			if seen[hash] {
				continue
			}
			seen[hash] = true
			members = append(members, member{key: hash, value: body})
		}
		return encodeObject(members)
	case Apollo:
		manifest := ApolloManifest{
			Format:     "apollo-persisted-query-manifest",
			Version:    1,
			Operations: make([]ApolloOperation, 0, len(entries)),
		}
		seen := map[string]bool{}
		for _, entry := range entries {
			body := identity.Print(entry.TransformedQuery)
			hash := identity.Hash(body)
			if seen[hash] {
				continue
			}
			seen[hash] = true
			manifest.Operations = append(manifest.Operations, ApolloOperation{
				ID:   hash,
				Body: body,
				Name: entry.Name,
				Type: string(entry.Operation),
			})
		}
		bts, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(bts, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// encodeObject writes a JSON object whose members keep their order.
func encodeObject(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, m := range members {
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}

		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if len(members) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
