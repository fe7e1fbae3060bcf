// Package testutil provides shared test helpers for setting up
// collection roots and wired services.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/folio/internal/collection"
	"github.com/starford/folio/internal/hierarchy"
	"github.com/starford/folio/internal/lexindex"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/projectstore"
)

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestService wires a full collection service over a temporary root.
func TestService(t *testing.T) (*collection.Service, string) {
	t.Helper()
	root := t.TempDir()

	guard, err := hierarchy.New(root)
	if err != nil {
		t.Fatal(err)
	}
	store := projectstore.New(Logger())
	idx, err := lexindex.Open(store, lexindex.DefaultTuning(), Logger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	return collection.NewService(guard, store, idx, Logger()), root
}

// SeedRepository creates a repository directory with a marker file.
func SeedRepository(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := marker.Write(dir, marker.Marker{
		Type:      models.NodeRepository,
		CreatedAt: time.Now().UnixMilli(),
		Name:      name,
	}); err != nil {
		t.Fatal(err)
	}
	return dir
}

// SeedProject creates a project directory with marker, draft and history.
func SeedProject(t *testing.T, repoDir, name, draft string) string {
	t.Helper()
	dir := filepath.Join(repoDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := marker.Write(dir, marker.Marker{
		Type:      models.NodeProject,
		CreatedAt: time.Now().UnixMilli(),
		Name:      name,
	}); err != nil {
		t.Fatal(err)
	}
	if err := projectstore.InitProject(dir, time.Now().UnixMilli()); err != nil {
		t.Fatal(err)
	}
	if draft != "" {
		store := projectstore.New(Logger())
		if err := store.SaveContent(dir, draft); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
