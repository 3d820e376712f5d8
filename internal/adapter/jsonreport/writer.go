package jsonreport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
)

// Writer stores the report of the latest run as a JSON file. The file is
// replaced on every run.
type Writer struct {
	Path string // e.g., /var/lib/nagios/mikrotik/core1.json
}

func New(path string) *Writer { return &Writer{Path: path} }

func (w *Writer) Publish(_ context.Context, report domain.Report) error {
	if dir := filepath.Dir(w.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return writeJSON(w.Path, struct {
		Version string        `json:"version"`
		Report  domain.Report `json:"report"`
	}{
		Version: "1.0",
		Report:  report,
	})
}

func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
