package projectstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/fsutil"
	"github.com/starford/folio/internal/models"
)

func commitLogPath(projectPath string) string {
	return filepath.Join(projectPath, models.HistoryDir, models.CommitLogFile)
}

// readCommits parses the commit log. A missing or unparsable log is treated
// as empty history: logged as a warning, never fatal.
func (s *Store) readCommits(projectPath string) []models.Commit {
	data, err := os.ReadFile(commitLogPath(projectPath))
	if err != nil {
		return nil
	}
	var commits []models.Commit
	if err := json.Unmarshal(data, &commits); err != nil {
		s.logger.Warn("projectstore: corrupt commit log, treating as empty",
			slog.String("path", projectPath),
			slog.String("error", err.Error()))
		return nil
	}
	return commits
}

func (s *Store) writeCommits(projectPath string, commits []models.Commit) error {
	if commits == nil {
		commits = []models.Commit{}
	}
	data, err := json.MarshalIndent(commits, "", "  ")
	if err != nil {
		return fmt.Errorf("projectstore: marshal commits: %w", err)
	}
	if err := fsutil.WriteFileAtomic(commitLogPath(projectPath), data); err != nil {
		return fmt.Errorf("projectstore: write commits: %w", err)
	}
	return nil
}

// ListCommits returns the commit log in order, oldest first.
func (s *Store) ListCommits(projectPath string) []models.Commit {
	commits := s.readCommits(projectPath)
	if commits == nil {
		return []models.Commit{}
	}
	return commits
}

// AppendCommit assigns the next commit number, a fresh id, and the current
// timestamp, then persists the full log. This is the only mutation path for
// history; commits are never edited in place.
func (s *Store) AppendCommit(projectPath, content string) (models.Commit, error) {
	unlock := s.locks.Lock(projectPath)
	defer unlock()

	commits := s.readCommits(projectPath)

	next := 1
	for _, c := range commits {
		if c.CommitNumber >= next {
			next = c.CommitNumber + 1
		}
	}

	commit := models.Commit{
		ID:           uuid.NewString(),
		CommitNumber: next,
		Content:      content,
		Timestamp:    time.Now().UnixMilli(),
	}
	commits = append(commits, commit)

	if err := s.writeCommits(projectPath, commits); err != nil {
		return models.Commit{}, err
	}
	return commit, nil
}

// DeleteCommit removes one entry by id and reports whether it was found.
// Remaining commits keep their original numbers; the sequence is a stable
// historical label, not a dense index.
func (s *Store) DeleteCommit(projectPath, commitID string) (bool, error) {
	unlock := s.locks.Lock(projectPath)
	defer unlock()

	commits := s.readCommits(projectPath)
	kept := commits[:0]
	found := false
	for _, c := range commits {
		if c.ID == commitID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return false, nil
	}
	if err := s.writeCommits(projectPath, kept); err != nil {
		return false, err
	}
	return true, nil
}

// ClearCommits truncates the log to empty.
func (s *Store) ClearCommits(projectPath string) error {
	unlock := s.locks.Lock(projectPath)
	defer unlock()

	return s.writeCommits(projectPath, nil)
}

// SaveCommits overwrites the full commit log with the given sequence.
func (s *Store) SaveCommits(projectPath string, commits []models.Commit) error {
	unlock := s.locks.Lock(projectPath)
	defer unlock()

	return s.writeCommits(projectPath, commits)
}
