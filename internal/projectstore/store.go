// Package projectstore manages a project's working draft and linear commit
// log on disk. It operates on paths the caller has already cleared through
// pathguard; mutating operations on one project serialize through a
// per-path lock table.
package projectstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/fsutil"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/pathlock"
)

// Store persists drafts and commit logs for project directories.
type Store struct {
	locks  *pathlock.Table
	logger *slog.Logger
}

// New creates a Store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{locks: pathlock.New(), logger: logger}
}

// IsProjectDir reports whether path is a project folder. A path is a
// project folder iff it contains the commit-log sub-directory.
func IsProjectDir(path string) bool {
	return fsutil.DirExists(filepath.Join(path, models.HistoryDir))
}

// LooksLikeProject is the permissive three-way check used before renames and
// deletes: marker OR commit-log dir OR draft file, any one suffices. This
// tolerates partially-initialized and legacy projects.
func LooksLikeProject(path string) bool {
	if marker.TypeOf(path) == models.NodeProject {
		return true
	}
	if fsutil.DirExists(filepath.Join(path, models.HistoryDir)) {
		return true
	}
	return fsutil.FileExists(filepath.Join(path, models.DraftFile))
}

// InitProject writes a fresh project skeleton into dir: an empty draft, an
// empty commit log, and a metadata record with a new stable identifier.
func InitProject(dir string, createdAt int64) error {
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, models.DraftFile), []byte{}); err != nil {
		return fmt.Errorf("projectstore: init draft: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, models.HistoryDir, models.CommitLogFile), []byte("[]")); err != nil {
		return fmt.Errorf("projectstore: init commit log: %w", err)
	}
	meta := models.ProjectMetadata{CreatedAt: createdAt, ID: uuid.NewString()}
	if err := writeMetadata(dir, meta); err != nil {
		return err
	}
	return nil
}

// LoadContent returns the working draft, or an empty string if no draft
// file exists yet.
func (s *Store) LoadContent(projectPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, models.DraftFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("projectstore: load content: %w", err)
	}
	return string(data), nil
}

// SaveContent overwrites the working draft in full via an atomic write.
func (s *Store) SaveContent(projectPath, text string) error {
	unlock := s.locks.Lock(projectPath)
	defer unlock()

	if err := fsutil.WriteFileAtomic(filepath.Join(projectPath, models.DraftFile), []byte(text)); err != nil {
		return fmt.Errorf("projectstore: save content: %w", err)
	}
	return nil
}

func metadataPath(dir string) string {
	return filepath.Join(dir, models.HistoryDir, models.MetadataFile)
}

// readMetadata returns the project's metadata record. Absence and
// corruption both yield the zero value.
func readMetadata(dir string) models.ProjectMetadata {
	var meta models.ProjectMetadata
	data, err := os.ReadFile(metadataPath(dir))
	if err != nil {
		return meta
	}
	_ = json.Unmarshal(data, &meta)
	return meta
}

func writeMetadata(dir string, meta models.ProjectMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("projectstore: marshal metadata: %w", err)
	}
	if err := fsutil.WriteFileAtomic(metadataPath(dir), data); err != nil {
		return fmt.Errorf("projectstore: write metadata: %w", err)
	}
	return nil
}
