// Package lexindex builds a disposable lexical index over all projects of a
// repository for search and near-duplicate detection. The index lives in an
// in-memory SQLite database keyed by repository path; it is a point-in-time
// snapshot, rebuilt only on explicit request or cache miss, and is never
// written to disk.
package lexindex

import (
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/projectstore"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	repo           TEXT NOT NULL,
	source_id      TEXT NOT NULL,
	path           TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	updated_at     INTEGER NOT NULL DEFAULT 0,
	content_hash   TEXT NOT NULL DEFAULT '',
	token_estimate INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (repo, source_id)
);

CREATE TABLE IF NOT EXISTS chunks (
	repo       TEXT NOT NULL,
	chunk_id   TEXT NOT NULL,
	source_id  TEXT NOT NULL,
	text       TEXT NOT NULL,
	position   INTEGER NOT NULL,
	char_start INTEGER NOT NULL,
	char_end   INTEGER NOT NULL,
	PRIMARY KEY (repo, chunk_id)
);

CREATE TABLE IF NOT EXISTS chunk_keywords (
	repo     TEXT NOT NULL,
	chunk_id TEXT NOT NULL,
	keyword  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS source_tokens (
	repo      TEXT NOT NULL,
	source_id TEXT NOT NULL,
	token     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stats (
	repo     TEXT PRIMARY KEY,
	sources  INTEGER NOT NULL,
	chunks   INTEGER NOT NULL,
	built_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunk_keywords ON chunk_keywords(repo, chunk_id, keyword);
CREATE INDEX IF NOT EXISTS idx_source_tokens ON source_tokens(repo, source_id);
`

// IndexStats reports the state of one repository's index.
type IndexStats struct {
	Status  string `json:"status"` // "idle" or "ready"
	Sources int    `json:"sources"`
	Chunks  int    `json:"chunks"`
	BuiltAt int64  `json:"builtAt,omitempty"`
}

// Tuning holds the chunking and keyword limits.
type Tuning struct {
	MaxChunkChars int
	MinChunkChars int
	MaxKeywords   int
}

// DefaultTuning returns the stock limits.
func DefaultTuning() Tuning {
	return Tuning{MaxChunkChars: 1200, MinChunkChars: 200, MaxKeywords: 64}
}

// Service is an explicit index object constructed once and handed to
// callers; tests can instantiate independent instances.
type Service struct {
	db     *sql.DB
	store  *projectstore.Store
	tuning Tuning
	logger *slog.Logger

	// mu serializes build/clear so a rebuild replaces prior rows as one unit.
	mu sync.Mutex
}

// Open creates a Service with a fresh in-memory database.
func Open(store *projectstore.Store, tuning Tuning, logger *slog.Logger) (*Service, error) {
	if tuning.MaxChunkChars <= 0 {
		tuning = DefaultTuning()
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("lexindex: open db: %w", err)
	}
	// A :memory: database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("lexindex: apply schema: %w", err)
	}

	return &Service{db: db, store: store, tuning: tuning, logger: logger}, nil
}

// Close releases the in-memory database.
func (s *Service) Close() error {
	return s.db.Close()
}

// Build scans every project of the repository and replaces any prior index
// for that key: content hash, bounded chunks, per-chunk keyword sets, and
// full token sets per source for redundancy scoring.
func (s *Service) Build(repositoryPath string) (IndexStats, error) {
	repo, err := filepath.Abs(repositoryPath)
	if err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: resolve repo: %w", err)
	}

	summaries, err := s.store.ScanProjects(repo)
	if err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: scan projects: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"sources", "chunks", "chunk_keywords", "source_tokens", "stats"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE repo = ?`, table), repo); err != nil {
			return IndexStats{}, fmt.Errorf("lexindex: clear %s: %w", table, err)
		}
	}

	totalChunks := 0
	for _, sum := range summaries {
		tokens := tokenize(sum.Content)
		hash := checksum.Sum([]byte(sum.Content))

		_, err := tx.Exec(`
			INSERT INTO sources (repo, source_id, path, title, updated_at, content_hash, token_estimate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, repo, sum.ID, sum.Path, sum.Name, sum.UpdatedAt, hash, len(tokens))
		if err != nil {
			return IndexStats{}, fmt.Errorf("lexindex: insert source: %w", err)
		}

		for _, tok := range tokens {
			if _, err := tx.Exec(`INSERT INTO source_tokens (repo, source_id, token) VALUES (?, ?, ?)`,
				repo, sum.ID, tok); err != nil {
				return IndexStats{}, fmt.Errorf("lexindex: insert token: %w", err)
			}
		}

		for _, ch := range chunkText(sum.Content, s.tuning.MaxChunkChars, s.tuning.MinChunkChars) {
			chunkID := fmt.Sprintf("%s:%d", sum.ID, ch.position)
			_, err := tx.Exec(`
				INSERT INTO chunks (repo, chunk_id, source_id, text, position, char_start, char_end)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, repo, chunkID, sum.ID, ch.text, ch.position, ch.start, ch.end)
			if err != nil {
				return IndexStats{}, fmt.Errorf("lexindex: insert chunk: %w", err)
			}

			keywords := tokenize(ch.text)
			if len(keywords) > s.tuning.MaxKeywords {
				keywords = keywords[:s.tuning.MaxKeywords]
			}
			for _, kw := range keywords {
				if _, err := tx.Exec(`INSERT INTO chunk_keywords (repo, chunk_id, keyword) VALUES (?, ?, ?)`,
					repo, chunkID, kw); err != nil {
					return IndexStats{}, fmt.Errorf("lexindex: insert keyword: %w", err)
				}
			}
			totalChunks++
		}
	}

	stats := IndexStats{
		Status:  "ready",
		Sources: len(summaries),
		Chunks:  totalChunks,
		BuiltAt: time.Now().UnixMilli(),
	}
	if _, err := tx.Exec(`INSERT INTO stats (repo, sources, chunks, built_at) VALUES (?, ?, ?, ?)`,
		repo, stats.Sources, stats.Chunks, stats.BuiltAt); err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: insert stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: commit: %w", err)
	}

	s.logger.Debug("lexindex: built",
		slog.String("repo", repo),
		slog.Int("sources", stats.Sources),
		slog.Int("chunks", stats.Chunks))
	return stats, nil
}

// Status returns cached stats, or an idle status with zero counts if the
// repository was never indexed.
func (s *Service) Status(repositoryPath string) (IndexStats, error) {
	repo, err := filepath.Abs(repositoryPath)
	if err != nil {
		return IndexStats{}, fmt.Errorf("lexindex: resolve repo: %w", err)
	}

	var st IndexStats
	row := s.db.QueryRow(`SELECT sources, chunks, built_at FROM stats WHERE repo = ?`, repo)
	if err := row.Scan(&st.Sources, &st.Chunks, &st.BuiltAt); err != nil {
		return IndexStats{Status: "idle"}, nil
	}
	st.Status = "ready"
	return st, nil
}

// Clear drops the cached index for the repository and reports whether one
// existed.
func (s *Service) Clear(repositoryPath string) (bool, error) {
	repo, err := filepath.Abs(repositoryPath)
	if err != nil {
		return false, fmt.Errorf("lexindex: resolve repo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM stats WHERE repo = ?`, repo)
	if err != nil {
		return false, fmt.Errorf("lexindex: clear: %w", err)
	}
	for _, table := range []string{"sources", "chunks", "chunk_keywords", "source_tokens"} {
		if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE repo = ?`, table), repo); err != nil {
			return false, fmt.Errorf("lexindex: clear %s: %w", table, err)
		}
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ensureBuilt builds the index on demand when a query arrives before any
// explicit build.
func (s *Service) ensureBuilt(repositoryPath string) error {
	st, err := s.Status(repositoryPath)
	if err != nil {
		return err
	}
	if st.Status == "ready" {
		return nil
	}
	_, err = s.Build(repositoryPath)
	return err
}
