package lexindex

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Overlap tags for redundancy pairs.
const (
	OverlapExact         = "exact"
	OverlapNearDuplicate = "near_duplicate"
)

// RedundancyPair scores two sources against each other. Similarity is 1.0
// when the content hashes match, otherwise the Jaccard index of the two
// token sets; it is symmetric by construction.
type RedundancyPair struct {
	SourceA    string  `json:"sourceA"`
	SourceB    string  `json:"sourceB"`
	PathA      string  `json:"pathA"`
	PathB      string  `json:"pathB"`
	Similarity float64 `json:"similarity"`
	Overlap    string  `json:"overlap"`
}

// RedundancyGroup wraps one retained pair; there is no transitive
// clustering, one group per pair.
type RedundancyGroup struct {
	ID         string   `json:"id"`
	SourceIDs  []string `json:"sourceIds"`
	Similarity float64  `json:"similarity"`
	Overlap    string   `json:"overlap"`
}

// RedundancyReport is the result of a redundancy scan.
type RedundancyReport struct {
	Pairs  []RedundancyPair  `json:"pairs"`
	Groups []RedundancyGroup `json:"groups"`
}

type redundancySource struct {
	id     string
	path   string
	hash   string
	tokens map[string]struct{}
}

// FindRedundancy compares every pair of sources in the repository, keeps
// pairs at or above threshold sorted by descending similarity, and truncates
// to topK. Builds the index on a cache miss.
func (s *Service) FindRedundancy(repositoryPath string, threshold float64, topK int) (RedundancyReport, error) {
	if topK <= 0 {
		topK = 20
	}
	repo, err := filepath.Abs(repositoryPath)
	if err != nil {
		return RedundancyReport{}, fmt.Errorf("lexindex: resolve repo: %w", err)
	}
	if err := s.ensureBuilt(repo); err != nil {
		return RedundancyReport{}, err
	}

	sources, err := s.loadRedundancySources(repo)
	if err != nil {
		return RedundancyReport{}, err
	}

	report := RedundancyReport{Pairs: []RedundancyPair{}, Groups: []RedundancyGroup{}}
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			a, b := sources[i], sources[j]

			var sim float64
			overlap := OverlapNearDuplicate
			if a.hash == b.hash {
				sim = 1.0
				overlap = OverlapExact
			} else {
				sim = jaccard(a.tokens, b.tokens)
			}
			if sim < threshold {
				continue
			}
			report.Pairs = append(report.Pairs, RedundancyPair{
				SourceA:    a.id,
				SourceB:    b.id,
				PathA:      a.path,
				PathB:      b.path,
				Similarity: sim,
				Overlap:    overlap,
			})
		}
	}

	sort.SliceStable(report.Pairs, func(i, j int) bool {
		return report.Pairs[i].Similarity > report.Pairs[j].Similarity
	})
	if len(report.Pairs) > topK {
		report.Pairs = report.Pairs[:topK]
	}

	for _, p := range report.Pairs {
		report.Groups = append(report.Groups, RedundancyGroup{
			ID:         uuid.NewString(),
			SourceIDs:  []string{p.SourceA, p.SourceB},
			Similarity: p.Similarity,
			Overlap:    p.Overlap,
		})
	}
	return report, nil
}

func (s *Service) loadRedundancySources(repo string) ([]redundancySource, error) {
	rows, err := s.db.Query(`SELECT source_id, path, content_hash FROM sources WHERE repo = ? ORDER BY source_id`, repo)
	if err != nil {
		return nil, fmt.Errorf("lexindex: load sources: %w", err)
	}
	defer rows.Close()

	var out []redundancySource
	for rows.Next() {
		var src redundancySource
		if err := rows.Scan(&src.id, &src.path, &src.hash); err != nil {
			return nil, err
		}
		src.tokens = make(map[string]struct{})
		out = append(out, src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]*redundancySource, len(out))
	for i := range out {
		byID[out[i].id] = &out[i]
	}

	tokRows, err := s.db.Query(`SELECT source_id, token FROM source_tokens WHERE repo = ?`, repo)
	if err != nil {
		return nil, fmt.Errorf("lexindex: load tokens: %w", err)
	}
	defer tokRows.Close()
	for tokRows.Next() {
		var id, tok string
		if err := tokRows.Scan(&id, &tok); err != nil {
			return nil, err
		}
		if src, ok := byID[id]; ok {
			src.tokens[tok] = struct{}{}
		}
	}
	return out, tokRows.Err()
}

// jaccard is |A∩B| / |A∪B|; two empty sets score zero.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
