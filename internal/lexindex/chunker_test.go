package lexindex

import (
	"strings"
	"testing"
)

func TestChunkTextEmpty(t *testing.T) {
	if got := chunkText("", 100, 10); got != nil {
		t.Errorf("empty text should yield no chunks, got %d", len(got))
	}
}

func TestChunkTextSingleChunk(t *testing.T) {
	out := chunkText("short text", 100, 10)
	if len(out) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out))
	}
	if out[0].text != "short text" || out[0].start != 0 || out[0].end != 10 {
		t.Errorf("chunk = %+v", out[0])
	}
}

func TestChunkTextPrefersNewlineCut(t *testing.T) {
	// A newline sits past the min but before the max: the cut lands after it.
	text := strings.Repeat("a", 30) + "\n" + strings.Repeat("b", 30)
	out := chunkText(text, 40, 10)
	if len(out) != 2 {
		t.Fatalf("got %d chunks, want 2", len(out))
	}
	if !strings.HasSuffix(out[0].text, "\n") {
		t.Errorf("first chunk should end at the newline, got %q", out[0].text)
	}
	if out[1].start != out[0].end {
		t.Error("chunks should tile the text with no gap")
	}
}

func TestChunkTextHardCutWithoutNewline(t *testing.T) {
	text := strings.Repeat("x", 100)
	out := chunkText(text, 40, 10)
	if len(out) != 3 {
		t.Fatalf("got %d chunks, want 3", len(out))
	}
	for i, ch := range out {
		if ch.position != i {
			t.Errorf("chunk %d has position %d", i, ch.position)
		}
	}
	var rebuilt strings.Builder
	for _, ch := range out {
		rebuilt.WriteString(ch.text)
	}
	if rebuilt.String() != text {
		t.Error("chunks do not reassemble into the original text")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("The quick, THE lazy dog-house. A 42!")
	want := []string{"the", "quick", "lazy", "dog", "house", "42"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeDropsSingleRunes(t *testing.T) {
	got := tokenize("a b cd")
	if len(got) != 1 || got[0] != "cd" {
		t.Errorf("tokens = %v, want [cd]", got)
	}
}
