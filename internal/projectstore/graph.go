package projectstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/starford/folio/internal/fsutil"
	"github.com/starford/folio/internal/models"
)

func graphPath(repositoryPath string) string {
	return filepath.Join(repositoryPath, models.GraphFile)
}

// LoadGraph returns the cached visual layout for a repository. Absence and
// corruption both yield an empty graph.
func (s *Store) LoadGraph(repositoryPath string) models.ProjectGraph {
	empty := models.ProjectGraph{Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}

	data, err := os.ReadFile(graphPath(repositoryPath))
	if err != nil {
		return empty
	}
	var g models.ProjectGraph
	if err := json.Unmarshal(data, &g); err != nil {
		s.logger.Warn("projectstore: corrupt project graph, treating as empty",
			slog.String("path", repositoryPath),
			slog.String("error", err.Error()))
		return empty
	}
	if g.Nodes == nil {
		g.Nodes = []models.GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []models.GraphEdge{}
	}
	return g
}

// SaveGraph sanitizes and persists the visual layout: only nodes with a
// non-empty id and finite coordinates, and edges with non-empty endpoints,
// make it to disk.
func (s *Store) SaveGraph(repositoryPath string, g models.ProjectGraph) error {
	clean := models.ProjectGraph{Nodes: []models.GraphNode{}, Edges: []models.GraphEdge{}}
	for _, n := range g.Nodes {
		if n.ID == "" || !isFinite(n.X) || !isFinite(n.Y) {
			continue
		}
		clean.Nodes = append(clean.Nodes, n)
	}
	for _, e := range g.Edges {
		if e.From == "" || e.To == "" {
			continue
		}
		clean.Edges = append(clean.Edges, e)
	}

	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return fmt.Errorf("projectstore: marshal graph: %w", err)
	}
	if err := fsutil.WriteFileAtomic(graphPath(repositoryPath), data); err != nil {
		return fmt.Errorf("projectstore: save graph: %w", err)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
