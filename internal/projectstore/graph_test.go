package projectstore

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/folio/internal/models"
)

func TestLoadGraphMissing(t *testing.T) {
	s := testStore(t)

	g := s.LoadGraph(t.TempDir())
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("missing graph should load empty, got %+v", g)
	}
	if g.Nodes == nil || g.Edges == nil {
		t.Error("empty graph should have non-nil slices")
	}
}

func TestLoadGraphCorrupt(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	if err := os.WriteFile(filepath.Join(repo, models.GraphFile), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := s.LoadGraph(repo)
	if len(g.Nodes) != 0 {
		t.Error("corrupt graph should load empty")
	}
}

func TestSaveGraphRoundTrip(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()

	in := models.ProjectGraph{
		Nodes: []models.GraphNode{{ID: "a", X: 10, Y: 20}, {ID: "b", X: -5, Y: 0}},
		Edges: []models.GraphEdge{{From: "a", To: "b"}},
	}
	if err := s.SaveGraph(repo, in); err != nil {
		t.Fatal(err)
	}

	out := s.LoadGraph(repo)
	if len(out.Nodes) != 2 || len(out.Edges) != 1 {
		t.Fatalf("round trip lost entries: %+v", out)
	}
	if out.Nodes[0] != in.Nodes[0] {
		t.Errorf("node = %+v, want %+v", out.Nodes[0], in.Nodes[0])
	}
}

func TestSaveGraphSanitizes(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()

	in := models.ProjectGraph{
		Nodes: []models.GraphNode{
			{ID: "ok", X: 1, Y: 2},
			{ID: "", X: 1, Y: 2},
			{ID: "nan", X: math.NaN(), Y: 2},
			{ID: "inf", X: 1, Y: math.Inf(1)},
		},
		Edges: []models.GraphEdge{
			{From: "ok", To: "ok"},
			{From: "", To: "ok"},
			{From: "ok", To: ""},
		},
	}
	if err := s.SaveGraph(repo, in); err != nil {
		t.Fatal(err)
	}

	out := s.LoadGraph(repo)
	if len(out.Nodes) != 1 || out.Nodes[0].ID != "ok" {
		t.Errorf("nodes = %+v, want only the finite named one", out.Nodes)
	}
	if len(out.Edges) != 1 {
		t.Errorf("edges = %+v, want only the complete one", out.Edges)
	}
}
