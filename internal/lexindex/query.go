package lexindex

import (
	"fmt"
	"path/filepath"
	"strings"
)

// substringBonus is added when the raw query appears verbatim in the chunk.
const substringBonus = 5

// ChunkHit is one ranked result of a lexical query.
type ChunkHit struct {
	ChunkID   string `json:"chunkId"`
	SourceID  string `json:"sourceId"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Position  int    `json:"position"`
	CharStart int    `json:"charStart"`
	CharEnd   int    `json:"charEnd"`
	Score     int    `json:"score"`
}

// Query ranks every chunk of the repository against the query: one point
// per query token present in the chunk's keyword set, plus a fixed bonus
// when the raw query occurs as a literal substring of the chunk text. Ties
// go to the more recently updated source. Builds the index on a cache miss.
func (s *Service) Query(repositoryPath, query string, topK int) ([]ChunkHit, error) {
	if topK <= 0 {
		topK = 10
	}
	repo, err := filepath.Abs(repositoryPath)
	if err != nil {
		return nil, fmt.Errorf("lexindex: resolve repo: %w", err)
	}
	if err := s.ensureBuilt(repo); err != nil {
		return nil, err
	}

	tokens := tokenize(query)

	// COUNT over the keyword table scores the token overlap; instr covers
	// the literal-substring bonus.
	var overlapExpr string
	args := make([]any, 0, len(tokens)+4)
	if len(tokens) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tokens)), ",")
		overlapExpr = `(SELECT COUNT(*) FROM chunk_keywords k
			WHERE k.repo = c.repo AND k.chunk_id = c.chunk_id AND k.keyword IN (` + placeholders + `))`
		for _, tok := range tokens {
			args = append(args, tok)
		}
	} else {
		overlapExpr = `0`
	}

	q := `
		SELECT c.chunk_id, c.source_id, s.path, s.title, c.text, c.position, c.char_start, c.char_end,
		       ` + overlapExpr + ` + (CASE WHEN instr(c.text, ?) > 0 THEN ` +
		fmt.Sprintf("%d", substringBonus) + ` ELSE 0 END) AS score
		FROM chunks c
		JOIN sources s ON s.repo = c.repo AND s.source_id = c.source_id
		WHERE c.repo = ?
		ORDER BY score DESC, s.updated_at DESC
		LIMIT ?
	`
	args = append(args, query, repo, topK)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("lexindex: query: %w", err)
	}
	defer rows.Close()

	var out []ChunkHit
	for rows.Next() {
		var h ChunkHit
		if err := rows.Scan(&h.ChunkID, &h.SourceID, &h.Path, &h.Title, &h.Text,
			&h.Position, &h.CharStart, &h.CharEnd, &h.Score); err != nil {
			return nil, err
		}
		if h.Score <= 0 {
			continue
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
