package hierarchy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/pathguard"
)

// ListRepositories returns every immediate subdirectory of the collection
// root that carries a repository marker, sorted by name.
func (g *Guard) ListRepositories() ([]models.Node, error) {
	entries, err := os.ReadDir(g.root)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: list repositories: %w", err)
	}

	var out []models.Node
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(g.root, e.Name())
		m := marker.Read(dir)
		if m == nil || m.Type != models.NodeRepository {
			continue
		}
		name := m.Name
		if name == "" {
			name = e.Name()
		}
		out = append(out, models.Node{
			Path:      dir,
			Type:      models.NodeRepository,
			Name:      name,
			CreatedAt: m.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RenameRepository moves the repository directory to the new name and
// rewrites the marker's name, preserving its creation time.
func (g *Guard) RenameRepository(path, newName string) (*models.Node, error) {
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	abs, err := pathguard.AssertTyped(path, g.root, IsRepositoryDir)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(filepath.Dir(abs), newName)
	if dest != abs {
		if _, statErr := os.Stat(dest); statErr == nil {
			return nil, fmt.Errorf("hierarchy: rename to %s: %w", newName, apperr.ErrAlreadyExists)
		}
		if err := os.Rename(abs, dest); err != nil {
			return nil, fmt.Errorf("hierarchy: rename repository: %w", err)
		}
	}

	m := marker.Read(dest)
	if m == nil {
		m = &marker.Marker{Type: models.NodeRepository}
	}
	m.Name = newName
	if err := marker.Write(dest, *m); err != nil {
		return nil, err
	}

	return &models.Node{Path: dest, Type: models.NodeRepository, Name: newName, CreatedAt: m.CreatedAt}, nil
}

// DeleteRepository removes the repository directory recursively, including
// every project it contains.
func (g *Guard) DeleteRepository(path string) error {
	abs, err := pathguard.AssertTyped(path, g.root, IsRepositoryDir)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("hierarchy: delete repository: %w", err)
	}
	return nil
}
