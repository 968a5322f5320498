// Package testutil provides shared test helpers for setting up store files.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starford/ficor/internal/storage"
)

// TestStore creates an initialized, empty store file in a temporary
// directory and returns its provider.
func TestStore(t *testing.T) *storage.File {
	t.Helper()
	f := storage.NewFile(filepath.Join(t.TempDir(), storage.DefaultPath))
	if err := f.Init(); err != nil {
		t.Fatal(err)
	}
	return f
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
