package output

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var _ Writer = &FileWriter{}

// FileWriter writes the manifest to a file, creating missing parent directories.
type FileWriter struct {
	path string
	log  *slog.Logger
}

func NewFileWriter(path string, log *slog.Logger) *FileWriter {
	return &FileWriter{
		path: path,
		log:  log,
	}
}

func (f *FileWriter) Type() string {
	return "file"
}

func (f *FileWriter) Write(_ context.Context, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return err
	}
	if err := os.WriteFile(f.path, payload, 0640); err != nil { // nolint:gosec
		return err
	}
	f.log.Info("Wrote manifest", "path", f.path, "bytes", len(payload))
	return nil
}

var _ Writer = &StdoutWriter{}

type StdoutWriter struct {
	out io.Writer
}

func NewStdoutWriter(out io.Writer) *StdoutWriter {
	return &StdoutWriter{
		out: out,
	}
}

func (s *StdoutWriter) Type() string {
	return "stdout"
}

func (s *StdoutWriter) Write(_ context.Context, payload []byte) error {
	_, err := s.out.Write(payload)
	return err
}
