// Package diffmerge turns a word-level comparison of two text snapshots
// into a sequence of independently toggleable segments, and recombines a
// segment sequence back into text. It is pure and stateless: every function
// works only on its inputs and is safe to call concurrently.
package diffmerge

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind labels a segment relative to the source snapshot.
type Kind string

const (
	Added     Kind = "added"
	Removed   Kind = "removed"
	Unchanged Kind = "unchanged"
)

// Segment is one run of text in the comparison result. Segments sharing a
// GroupID form a substitution pair whose inclusion states are kept mutually
// exclusive.
type Segment struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Kind     Kind   `json:"kind"`
	Included bool   `json:"isIncluded"`
	GroupID  string `json:"groupId,omitempty"`
}

// Diff compares source and target at word level and returns the grouped
// segment sequence. Defaults encode "accept the new version": added runs
// are included, removed runs excluded, unchanged runs included.
// Diff(x, x) yields only unchanged segments.
func Diff(source, target string) []Segment {
	tbl := newTokenTable()
	a := tbl.encode(splitRuns(source))
	b := tbl.encode(splitRuns(target))

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(a, b, false)

	segs := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		value := tbl.decode(d.Text)
		if value == "" {
			continue
		}
		seg := Segment{ID: uuid.NewString(), Value: value}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			seg.Kind = Added
			seg.Included = true
		case diffmatchpatch.DiffDelete:
			seg.Kind = Removed
			seg.Included = false
		default:
			seg.Kind = Unchanged
			seg.Included = true
		}
		segs = append(segs, seg)
	}

	groupSubstitutions(segs)
	return segs
}

// groupSubstitutions pairs each removed segment with an immediately
// adjacent added segment (either order) under a shared group id. Pairs are
// consumed two at a time, never three.
func groupSubstitutions(segs []Segment) {
	for i := 0; i+1 < len(segs); i++ {
		a, b := segs[i].Kind, segs[i+1].Kind
		if (a == Removed && b == Added) || (a == Added && b == Removed) {
			gid := uuid.NewString()
			segs[i].GroupID = gid
			segs[i+1].GroupID = gid
			i++
		}
	}
}

// Toggle flips the inclusion of the segment with the given id and returns a
// new sequence. Every other member of the same group is set to the opposite
// of the toggled segment's new state, so exactly one group member stays
// included no matter how many members the group has.
func Toggle(segs []Segment, id string) []Segment {
	out := make([]Segment, len(segs))
	copy(out, segs)

	idx := -1
	for i := range out {
		if out[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out
	}

	out[idx].Included = !out[idx].Included
	if gid := out[idx].GroupID; gid != "" {
		for i := range out {
			if i != idx && out[i].GroupID == gid {
				out[i].Included = !out[idx].Included
			}
		}
	}
	return out
}

// AcceptAll includes every added segment and excludes every removed one,
// yielding the target snapshot on materialize.
func AcceptAll(segs []Segment) []Segment {
	return setAll(segs, true)
}

// RejectAll excludes every added segment and includes every removed one,
// yielding the source snapshot on materialize.
func RejectAll(segs []Segment) []Segment {
	return setAll(segs, false)
}

func setAll(segs []Segment, acceptAdded bool) []Segment {
	out := make([]Segment, len(segs))
	copy(out, segs)
	for i := range out {
		switch out[i].Kind {
		case Added:
			out[i].Included = acceptAdded
		case Removed:
			out[i].Included = !acceptAdded
		}
	}
	return out
}

// Materialize concatenates the values of all included segments in sequence
// order. This is the only way a new working draft is derived from a
// segment set.
func Materialize(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Included {
			b.WriteString(s.Value)
		}
	}
	return b.String()
}

// splitRuns breaks text into alternating runs of whitespace and
// non-whitespace so that materializing a diff loses nothing.
func splitRuns(s string) []string {
	if s == "" {
		return nil
	}
	rs := []rune(s)
	var out []string
	start := 0
	for i := 1; i <= len(rs); i++ {
		if i == len(rs) || unicode.IsSpace(rs[i]) != unicode.IsSpace(rs[start]) {
			out = append(out, string(rs[start:i]))
			start = i
		}
	}
	return out
}

// tokenTable maps word runs to placeholder runes so the character-level
// diff engine effectively runs at word level.
type tokenTable struct {
	ids  map[string]rune
	byID map[rune]string
	next rune
}

func newTokenTable() *tokenTable {
	return &tokenTable{ids: make(map[string]rune), byID: make(map[rune]string), next: 1}
}

func (t *tokenTable) encode(tokens []string) []rune {
	out := make([]rune, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := t.ids[tok]
		if !ok {
			id = t.next
			t.advance()
			t.ids[tok] = id
			t.byID[id] = tok
		}
		out = append(out, id)
	}
	return out
}

// advance moves past rune values that do not survive a string round-trip.
func (t *tokenTable) advance() {
	t.next++
	if t.next >= 0xD800 && t.next <= 0xDFFF {
		t.next = 0xE000
	}
	if t.next == 0xFFFD {
		t.next++
	}
}

func (t *tokenTable) decode(encoded string) string {
	var b strings.Builder
	for _, r := range encoded {
		b.WriteString(t.byID[r])
	}
	return b.String()
}
