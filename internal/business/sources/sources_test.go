package sources

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func names(srcs []Source) []string {
	var result []string
	for _, src := range srcs {
		result = append(result, filepath.ToSlash(src.Name))
	}
	return result
}

func TestLocalLoader_Load(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(cfg *Config)
		want    []string
		wantErr bool
	}{
		{
			name: "directories are walked recursively",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/queries"
			},
			want: []string{"testdata/queries/authors.graphql", "testdata/queries/nested/books.gql"},
		},
		{
			name: "a single file",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/queries/authors.graphql"
			},
			want: []string{"testdata/queries/authors.graphql"},
		},
		{
			name: "a single file with an unknown extension yields nothing",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/queries/nested/bad.c"
			},
			want: nil,
		},
		{
			name: "javascript is ignored unless tagged templates are enabled",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/app"
			},
			want: nil,
		},
		{
			name: "tagged templates",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/app"
				cfg.TaggedTemplate.Enabled = true
			},
			want: []string{"testdata/app/author.js"},
		},
		{
			name: "missing location",
			cfg: func(cfg *Config) {
				cfg.Location = "testdata/does-not-exist"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)

			loader := NewLocalLoader(cfg, newLogger())
			got, err := loader.Load(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestLocalLoader_TaggedTemplateSourcesParse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Location = "testdata/app/author.js"
	cfg.TaggedTemplate.Enabled = true

	srcs, err := NewLocalLoader(cfg, newLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, srcs, 1)

	doc, err := Parse(srcs[0])
	require.NoError(t, err)
	assert.Len(t, doc.Operations, 1)
	assert.Len(t, doc.Fragments, 1)
}

func TestNewSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TaggedTemplate.Enabled = true

	tests := []struct {
		name     string
		file     string
		contents string
		want     string
		wantOk   bool
	}{
		{
			name:     "graphql",
			file:     "a.graphql",
			contents: "query { a }",
			want:     "query { a }",
			wantOk:   true,
		},
		{
			name:     "extensions are case insensitive",
			file:     "A.GQL",
			contents: "query { a }",
			want:     "query { a }",
			wantOk:   true,
		},
		{
			name:     "tagged templates are joined",
			file:     "a.ts",
			contents: "const a = gql`query A { a }`; const b = gql`query B { b }`",
			want:     "query A { a }\nquery B { b }",
			wantOk:   true,
		},
		{
			name:     "scripts without templates yield nothing",
			file:     "a.ts",
			contents: "const a = 1",
		},
		{
			name:     "unknown extension",
			file:     "a.c",
			contents: "int main() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewSource(cfg, tt.file, []byte(tt.contents))

			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got.Body)
				assert.Equal(t, tt.file, got.Name)
			}
		})
	}
}

func TestExtractTaggedTemplates(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want []string
	}{
		{
			name: "interpolations are removed",
			text: "gql`query { ...a } ${A}`",
			tag:  "gql",
			want: []string{"query { ...a } "},
		},
		{
			name: "whitespace between tag and literal",
			text: "graphql `query { a }`",
			tag:  "graphql",
			want: []string{"query { a }"},
		},
		{
			name: "other tags are ignored",
			text: "css`color: red` sql`select 1` gql`{ a }`",
			tag:  "gql",
			want: []string{"{ a }"},
		},
		{
			name: "identifiers ending in the tag are ignored",
			text: "mygql`{ a }`",
			tag:  "gql",
		},
		{
			name: "blank literals are skipped",
			text: "gql`  ${A}  `",
			tag:  "gql",
		},
		{
			name: "empty tag",
			text: "gql`{ a }`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTaggedTemplates(tt.text, tt.tag))
		})
	}
}

func TestParseAll(t *testing.T) {
	srcs := []Source{
		{Name: "a", Body: "query A { a }"},
		{Name: "b", Body: "query B { b }"},
		{Name: "c", Body: "query C { c }"},
	}

	docs, err := ParseAll(context.Background(), srcs, 2)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name, docs[i].Operations[0].Name)
	}

	_, err = ParseAll(context.Background(), append(srcs, Source{Name: "broken", Body: "query {"}, Source{Name: "worse", Body: "}"}), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing broken")
	assert.Contains(t, err.Error(), "parsing worse")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ParseAll(ctx, srcs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLoaderFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	loader, err := NewLoaderFromConfig(cfg, newLogger())
	require.NoError(t, err)
	assert.Equal(t, "local", loader.Type())

	cfg.Type = "ftp"
	_, err = NewLoaderFromConfig(cfg, newLogger())
	assert.ErrorIs(t, err, ErrUnknownLoader)
}

func TestMemoryLoader(t *testing.T) {
	loader := NewMemoryLoader(Source{Name: "a", Body: "query { a }"})

	got, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(got))
	assert.Equal(t, "memory", loader.Type())
}

func Test_splitLocation(t *testing.T) {
	tests := []struct {
		location   string
		wantBucket string
		wantPrefix string
	}{
		{location: "bucket", wantBucket: "bucket"},
		{location: "gs://bucket", wantBucket: "bucket"},
		{location: "gs://bucket/queries/web", wantBucket: "bucket", wantPrefix: "queries/web"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			bucket, prefix := splitLocation(tt.location)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantPrefix, prefix)
		})
	}
}
