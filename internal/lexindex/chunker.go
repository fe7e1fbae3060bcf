package lexindex

import (
	"strings"
	"unicode"
)

// span is one bounded slice of a draft. Offsets are rune positions.
type span struct {
	text     string
	position int
	start    int
	end      int
}

// chunkText splits text into chunks of at most maxChars runes. When a cut
// is needed it prefers the last newline past minChars, so chunks tend to
// end on paragraph boundaries instead of mid-sentence.
func chunkText(text string, maxChars, minChars int) []span {
	rs := []rune(text)
	if len(rs) == 0 {
		return nil
	}

	var out []span
	start := 0
	for start < len(rs) {
		end := start + maxChars
		if end >= len(rs) {
			end = len(rs)
		} else {
			cut := -1
			for i := end - 1; i > start+minChars; i-- {
				if rs[i] == '\n' {
					cut = i + 1
					break
				}
			}
			if cut > 0 {
				end = cut
			}
		}
		out = append(out, span{
			text:     string(rs[start:end]),
			position: len(out),
			start:    start,
			end:      end,
		})
		start = end
	}
	return out
}

// tokenize lowercases text, splits it into alphanumeric runs, drops
// single-character tokens, and deduplicates preserving first-seen order.
func tokenize(text string) []string {
	var out []string
	seen := make(map[string]struct{})

	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len([]rune(tok)) < 2 {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return out
}
