package marker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/folio/internal/models"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := Marker{Type: models.NodeRepository, CreatedAt: 1234, Name: "Novel"}
	if err := Write(dir, in); err != nil {
		t.Fatal(err)
	}

	out := Read(dir)
	if out == nil {
		t.Fatal("marker not read back")
	}
	if *out != in {
		t.Errorf("marker = %+v, want %+v", *out, in)
	}
	if TypeOf(dir) != models.NodeRepository {
		t.Error("TypeOf should follow the marker")
	}
}

func TestUnmarkedDirectoryIsRoot(t *testing.T) {
	dir := t.TempDir()
	if Read(dir) != nil {
		t.Error("unmarked directory should have no marker")
	}
	if TypeOf(dir) != models.NodeRoot {
		t.Error("unmarked directory should classify as root")
	}
}

func TestCorruptMarkerIsRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, models.MarkerFile), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if Read(dir) != nil {
		t.Error("corrupt marker should read as absent")
	}
	if TypeOf(dir) != models.NodeRoot {
		t.Error("corrupt marker should classify as root")
	}
}

func TestUnknownTypeIsRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, models.MarkerFile), []byte(`{"type":"banana"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if TypeOf(dir) != models.NodeRoot {
		t.Error("unknown marker type should classify as root")
	}
}
