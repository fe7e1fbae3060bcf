package projectstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
)

// ScanProjects enumerates the immediate subdirectories of a repository that
// are project folders, skipping hidden entries, and reads each one's draft
// and creation metadata.
func (s *Store) ScanProjects(repositoryPath string) ([]models.ProjectSummary, error) {
	entries, err := os.ReadDir(repositoryPath)
	if err != nil {
		return nil, fmt.Errorf("projectstore: scan %s: %w", repositoryPath, err)
	}

	var out []models.ProjectSummary
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(repositoryPath, e.Name())
		if !IsProjectDir(dir) {
			continue
		}
		sum, err := s.summarize(dir, repositoryPath)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// summarize builds a ProjectSummary for one project directory.
func (s *Store) summarize(dir, repositoryPath string) (*models.ProjectSummary, error) {
	content, err := s.LoadContent(dir)
	if err != nil {
		return nil, err
	}

	meta := readMetadata(dir)
	m := marker.Read(dir)

	name := filepath.Base(dir)
	createdAt := meta.CreatedAt
	if m != nil {
		if m.Name != "" {
			name = m.Name
		}
		if createdAt == 0 {
			createdAt = m.CreatedAt
		}
	}

	// The stable identifier was introduced after the first release; older
	// projects fall back to the folder name.
	id := meta.ID
	if id == "" {
		id = filepath.Base(dir)
	}

	updatedAt := createdAt
	if info, statErr := os.Stat(filepath.Join(dir, models.DraftFile)); statErr == nil {
		updatedAt = info.ModTime().UnixMilli()
	} else if info, statErr := os.Stat(dir); statErr == nil {
		updatedAt = info.ModTime().UnixMilli()
	}

	return &models.ProjectSummary{
		ID:             id,
		Name:           name,
		Content:        content,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		Path:           dir,
		RepositoryPath: repositoryPath,
	}, nil
}

// RenameProject moves the project directory to newName inside its current
// repository and rewrites the marker's name, preserving the creation time
// and stable identifier. Project-ness uses the permissive three-way check.
func (s *Store) RenameProject(projectPath, newName string) (*models.ProjectSummary, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("projectstore: resolve %s: %w", projectPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("projectstore: rename %s: %w", projectPath, apperr.ErrNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("projectstore: rename %s: %w", projectPath, apperr.ErrWrongNodeType)
	}
	if !LooksLikeProject(abs) {
		return nil, fmt.Errorf("projectstore: rename %s: %w", projectPath, apperr.ErrWrongNodeType)
	}

	unlock := s.locks.Lock(abs)
	defer unlock()

	repoPath := filepath.Dir(abs)
	dest := filepath.Join(repoPath, newName)

	// Reject only when a different path already occupies the destination
	// name; a pure case change of the same directory is allowed.
	if !strings.EqualFold(dest, abs) {
		if existsFold(repoPath, newName) {
			return nil, fmt.Errorf("projectstore: rename to %s: %w", newName, apperr.ErrAlreadyExists)
		}
	}

	if dest != abs {
		if err := os.Rename(abs, dest); err != nil {
			return nil, fmt.Errorf("projectstore: rename: %w", err)
		}
	}

	if err := s.rewriteMarkerName(dest, newName); err != nil {
		return nil, err
	}
	return s.summarize(dest, repoPath)
}

// MoveProject relocates a project into another repository. A move within
// the same repository is a no-op that returns the current summary.
func (s *Store) MoveProject(projectPath, targetRepositoryPath string) (*models.ProjectSummary, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("projectstore: resolve %s: %w", projectPath, err)
	}
	if !LooksLikeProject(abs) {
		return nil, fmt.Errorf("projectstore: move %s: %w", projectPath, apperr.ErrWrongNodeType)
	}
	targetRepo, err := filepath.Abs(targetRepositoryPath)
	if err != nil {
		return nil, fmt.Errorf("projectstore: resolve %s: %w", targetRepositoryPath, err)
	}

	name := filepath.Base(abs)
	if filepath.Dir(abs) == targetRepo {
		return s.summarize(abs, targetRepo)
	}

	unlock := s.locks.Lock(abs)
	defer unlock()

	dest := filepath.Join(targetRepo, name)
	if _, statErr := os.Stat(dest); statErr == nil {
		return nil, fmt.Errorf("projectstore: move to %s: %w", targetRepo, apperr.ErrAlreadyExists)
	}
	if err := os.Rename(abs, dest); err != nil {
		return nil, fmt.Errorf("projectstore: move: %w", err)
	}

	if err := s.rewriteMarkerName(dest, name); err != nil {
		return nil, err
	}
	return s.summarize(dest, targetRepo)
}

// DeleteProject removes the project directory recursively.
func (s *Store) DeleteProject(projectPath string) error {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("projectstore: resolve %s: %w", projectPath, err)
	}
	if !LooksLikeProject(abs) {
		return fmt.Errorf("projectstore: delete %s: %w", projectPath, apperr.ErrWrongNodeType)
	}

	unlock := s.locks.Lock(abs)
	defer unlock()

	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("projectstore: delete: %w", err)
	}
	return nil
}

// rewriteMarkerName updates the marker's name field in place, keeping the
// node type and creation time. A missing marker gets recreated as a project
// marker so legacy folders heal on rename.
func (s *Store) rewriteMarkerName(dir, name string) error {
	m := marker.Read(dir)
	if m == nil {
		m = &marker.Marker{Type: models.NodeProject}
	}
	m.Name = name
	return marker.Write(dir, *m)
}

// existsFold reports whether any entry of dir matches name case-insensitively.
func existsFold(dir, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), name) {
			return true
		}
	}
	return false
}
