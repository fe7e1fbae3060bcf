// Package collection coordinates the hierarchy guard, project store, and
// lexical index behind the operation surface the UI talks to. Every
// path-accepting operation re-validates defensively instead of trusting
// the caller's own checks.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/folio/internal/hierarchy"
	"github.com/starford/folio/internal/lexindex"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/pathguard"
	"github.com/starford/folio/internal/projectstore"
)

// Service is the application core handed to the API and MCP layers.
type Service struct {
	guard  *hierarchy.Guard
	store  *projectstore.Store
	index  *lexindex.Service
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(guard *hierarchy.Guard, store *projectstore.Store, index *lexindex.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{guard: guard, store: store, index: index, logger: logger}
}

// Root returns the absolute collection root.
func (s *Service) Root() string { return s.guard.Root() }

func (s *Service) assertProject(path string) (string, error) {
	return pathguard.AssertTyped(path, s.guard.Root(), projectstore.IsProjectDir)
}

func (s *Service) assertRepository(path string) (string, error) {
	return pathguard.AssertTyped(path, s.guard.Root(), hierarchy.IsRepositoryDir)
}

// --- Hierarchy ---

// NodeType classifies a path. Never fails; unmarked directories are root.
func (s *Service) NodeType(_ context.Context, path string) models.NodeType {
	return s.guard.NodeType(path)
}

// ValidateCreate checks a creation request without touching the disk.
func (s *Service) ValidateCreate(_ context.Context, parent, name string, child models.NodeType) error {
	return s.guard.ValidateCreate(parent, name, child)
}

// HierarchyInfo pre-flight-checks a user-chosen path.
func (s *Service) HierarchyInfo(_ context.Context, path string) models.HierarchyInfo {
	return s.guard.HierarchyInfo(path)
}

// CreateNode creates a repository or project. A new repository also gets a
// timestamped default project; if that second step fails the repository is
// removed again rather than left half-made.
func (s *Service) CreateNode(ctx context.Context, parent, name string, nt models.NodeType) (*models.Node, error) {
	node, err := s.guard.CreateNode(parent, name, nt)
	if err != nil {
		return nil, err
	}

	if nt == models.NodeRepository {
		defaultName := "Draft " + time.Now().Format("2006-01-02 15.04.05")
		if _, err := s.guard.CreateNode(node.Path, defaultName, models.NodeProject); err != nil {
			if delErr := s.guard.DeleteRepository(node.Path); delErr != nil {
				s.logger.Warn("collection: rollback of repository failed",
					slog.String("path", node.Path),
					slog.String("error", delErr.Error()))
			}
			return nil, fmt.Errorf("collection: create default project: %w", err)
		}
	}

	return node, nil
}

// --- Repositories ---

// ListRepositories returns every repository directly under the root.
func (s *Service) ListRepositories(_ context.Context) ([]models.Node, error) {
	return s.guard.ListRepositories()
}

// RenameRepository renames a repository and rewrites its marker.
func (s *Service) RenameRepository(_ context.Context, path, newName string) (*models.Node, error) {
	return s.guard.RenameRepository(path, newName)
}

// DeleteRepository removes a repository and everything inside it.
func (s *Service) DeleteRepository(_ context.Context, path string) error {
	return s.guard.DeleteRepository(path)
}

// --- Projects ---

// CreateProject creates a project inside a repository.
func (s *Service) CreateProject(ctx context.Context, repositoryPath, name string) (*models.Node, error) {
	return s.CreateNode(ctx, repositoryPath, name, models.NodeProject)
}

// ScanProjects lists the projects of a repository.
func (s *Service) ScanProjects(_ context.Context, repositoryPath string) ([]models.ProjectSummary, error) {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return nil, err
	}
	return s.store.ScanProjects(abs)
}

// RenameProject validates the new name against the hierarchy naming rules,
// then delegates the move to the store.
func (s *Service) RenameProject(_ context.Context, projectPath, newName string) (*models.ProjectSummary, error) {
	if err := hierarchy.ValidateName(newName); err != nil {
		return nil, err
	}
	abs, err := pathguard.AssertInside(projectPath, s.guard.Root())
	if err != nil {
		return nil, err
	}
	return s.store.RenameProject(abs, newName)
}

// MoveProject relocates a project into another repository.
func (s *Service) MoveProject(_ context.Context, projectPath, targetRepositoryPath string) (*models.ProjectSummary, error) {
	abs, err := pathguard.AssertInside(projectPath, s.guard.Root())
	if err != nil {
		return nil, err
	}
	targetRepo, err := s.assertRepository(targetRepositoryPath)
	if err != nil {
		return nil, err
	}
	return s.store.MoveProject(abs, targetRepo)
}

// DeleteProject removes a project directory.
func (s *Service) DeleteProject(_ context.Context, projectPath string) error {
	abs, err := pathguard.AssertInside(projectPath, s.guard.Root())
	if err != nil {
		return err
	}
	return s.store.DeleteProject(abs)
}

// --- Draft content ---

// LoadContent returns the working draft of a project.
func (s *Service) LoadContent(_ context.Context, projectPath string) (string, error) {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return "", err
	}
	return s.store.LoadContent(abs)
}

// SaveContent overwrites the working draft.
func (s *Service) SaveContent(_ context.Context, projectPath, text string) error {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return err
	}
	return s.store.SaveContent(abs, text)
}

// --- Commits ---

// ListCommits returns the project's commit log, oldest first.
func (s *Service) ListCommits(_ context.Context, projectPath string) ([]models.Commit, error) {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return nil, err
	}
	return s.store.ListCommits(abs), nil
}

// AppendCommit snapshots content as the next commit.
func (s *Service) AppendCommit(_ context.Context, projectPath, content string) (models.Commit, error) {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return models.Commit{}, err
	}
	return s.store.AppendCommit(abs, content)
}

// DeleteCommit removes one commit by id without renumbering the rest.
func (s *Service) DeleteCommit(_ context.Context, projectPath, commitID string) (bool, error) {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return false, err
	}
	return s.store.DeleteCommit(abs, commitID)
}

// ClearCommits truncates the project's history.
func (s *Service) ClearCommits(_ context.Context, projectPath string) error {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return err
	}
	return s.store.ClearCommits(abs)
}

// SaveCommits overwrites the full commit log.
func (s *Service) SaveCommits(_ context.Context, projectPath string, commits []models.Commit) error {
	abs, err := s.assertProject(projectPath)
	if err != nil {
		return err
	}
	return s.store.SaveCommits(abs, commits)
}

// --- Project graph layout ---

// LoadGraph returns the repository's cached visual layout.
func (s *Service) LoadGraph(_ context.Context, repositoryPath string) (models.ProjectGraph, error) {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return models.ProjectGraph{}, err
	}
	return s.store.LoadGraph(abs), nil
}

// SaveGraph sanitizes and persists the visual layout.
func (s *Service) SaveGraph(_ context.Context, repositoryPath string, g models.ProjectGraph) error {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return err
	}
	return s.store.SaveGraph(abs, g)
}

// --- Lexical index ---

// BuildIndex rebuilds the lexical index for a repository.
func (s *Service) BuildIndex(_ context.Context, repositoryPath string) (lexindex.IndexStats, error) {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return lexindex.IndexStats{}, err
	}
	return s.index.Build(abs)
}

// IndexStatus returns the cached stats for a repository.
func (s *Service) IndexStatus(_ context.Context, repositoryPath string) (lexindex.IndexStats, error) {
	return s.index.Status(repositoryPath)
}

// ClearIndex drops the cached index for a repository.
func (s *Service) ClearIndex(_ context.Context, repositoryPath string) (bool, error) {
	return s.index.Clear(repositoryPath)
}

// QueryIndex ranks chunks against a query, building the index on a miss.
func (s *Service) QueryIndex(_ context.Context, repositoryPath, query string, topK int) ([]lexindex.ChunkHit, error) {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return nil, err
	}
	return s.index.Query(abs, query, topK)
}

// FindRedundancy scores all source pairs of a repository.
func (s *Service) FindRedundancy(_ context.Context, repositoryPath string, threshold float64, topK int) (lexindex.RedundancyReport, error) {
	abs, err := s.assertRepository(repositoryPath)
	if err != nil {
		return lexindex.RedundancyReport{}, err
	}
	return s.index.FindRedundancy(abs, threshold, topK)
}
