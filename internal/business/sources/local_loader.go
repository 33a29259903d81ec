package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var _ Loader = &LocalLoader{}

// LocalLoader reads sources from a single file or from every file below a directory.
// Directories are walked recursively in lexical order. Files with an unrecognized
// extension are skipped.
type LocalLoader struct {
	cfg Config
	log *slog.Logger
}

func NewLocalLoader(cfg Config, log *slog.Logger) *LocalLoader {
	return &LocalLoader{
		cfg: cfg,
		log: log,
	}
}

func (l *LocalLoader) Type() string {
	return "local"
}

func (l *LocalLoader) Load(ctx context.Context) ([]Source, error) {
	paths, err := l.paths()
	if err != nil {
		return nil, err
	}

	var result []Source
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
			continue
		}

		src, ok := NewSource(l.cfg, path, contents)
		if !ok {
			l.log.Debug("No GraphQL found in file", "path", path)
			continue
		}
		result = append(result, src)
	}

	l.log.Info("Loaded sources from disk", "location", l.cfg.Location, "numFiles", len(paths), "numSources", len(result), "numErrs", len(errs))
	sourcesLoadedGauge.WithLabelValues(l.Type()).Set(float64(len(result)))

	return result, errors.Join(errs...)
}

func (l *LocalLoader) paths() ([]string, error) {
	info, err := os.Stat(l.cfg.Location)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{l.cfg.Location}, nil
	}

	var paths []string
	err = filepath.WalkDir(l.cfg.Location, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if Recognized(l.cfg, path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
