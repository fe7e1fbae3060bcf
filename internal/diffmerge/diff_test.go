package diffmerge

import (
	"strconv"
	"strings"
	"testing"
)

func TestDiffIdenticalTexts(t *testing.T) {
	segs := Diff("same text here", "same text here")
	for _, s := range segs {
		if s.Kind != Unchanged {
			t.Errorf("segment %q kind = %s, want unchanged", s.Value, s.Kind)
		}
		if !s.Included {
			t.Errorf("segment %q should default to included", s.Value)
		}
	}
	if got := Materialize(segs); got != "same text here" {
		t.Errorf("materialize = %q", got)
	}
}

func TestDiffEmptySource(t *testing.T) {
	segs := Diff("", "brand new text")
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != Added || !segs[0].Included {
		t.Errorf("segment = %+v, want included added", segs[0])
	}
}

func TestDiffEmptyTarget(t *testing.T) {
	segs := Diff("everything goes", "")
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != Removed || segs[0].Included {
		t.Errorf("segment = %+v, want excluded removed", segs[0])
	}
}

func TestDiffBothEmpty(t *testing.T) {
	if segs := Diff("", ""); len(segs) != 0 {
		t.Errorf("got %d segments, want 0", len(segs))
	}
}

func TestDefaultsYieldTarget(t *testing.T) {
	source := "the quick brown fox jumps"
	target := "the slow brown fox sleeps well"

	segs := Diff(source, target)
	if got := Materialize(segs); got != target {
		t.Errorf("default materialize = %q, want target %q", got, target)
	}
}

func TestAcceptAllAndRejectAll(t *testing.T) {
	source := "alpha beta gamma"
	target := "alpha delta gamma epsilon"

	segs := Diff(source, target)

	if got := Materialize(AcceptAll(segs)); got != target {
		t.Errorf("accept-all = %q, want %q", got, target)
	}
	if got := Materialize(RejectAll(segs)); got != source {
		t.Errorf("reject-all = %q, want %q", got, source)
	}
}

func TestWhitespacePreserved(t *testing.T) {
	source := "one\ttwo\n\nthree"
	target := "one\ttwo\n\nthree four"

	segs := Diff(source, target)
	if got := Materialize(AcceptAll(segs)); got != target {
		t.Errorf("accept-all = %q, want %q with whitespace intact", got, target)
	}
	if got := Materialize(RejectAll(segs)); got != source {
		t.Errorf("reject-all = %q, want %q with whitespace intact", got, source)
	}
}

func TestSubstitutionGrouping(t *testing.T) {
	segs := Diff("keep old end", "keep new end")

	var removed, added *Segment
	for i := range segs {
		switch segs[i].Kind {
		case Removed:
			removed = &segs[i]
		case Added:
			added = &segs[i]
		}
	}
	if removed == nil || added == nil {
		t.Fatalf("expected a substitution pair, got %+v", segs)
	}
	if removed.GroupID == "" || removed.GroupID != added.GroupID {
		t.Errorf("pair not grouped: removed=%q added=%q", removed.GroupID, added.GroupID)
	}
}

func TestToggleGroupExclusivity(t *testing.T) {
	segs := Diff("keep old end", "keep new end")

	var removedID string
	for _, s := range segs {
		if s.Kind == Removed {
			removedID = s.ID
		}
	}
	if removedID == "" {
		t.Fatal("no removed segment found")
	}

	// Including the removed side must exclude its added partner.
	out := Toggle(segs, removedID)
	var includedInGroup int
	for _, s := range out {
		if s.GroupID != "" && s.Included {
			includedInGroup++
		}
	}
	if includedInGroup != 1 {
		t.Errorf("group has %d included members, want exactly 1", includedInGroup)
	}
	if got := Materialize(out); got != "keep old end" {
		t.Errorf("materialize after toggle = %q, want the old wording back", got)
	}

	// Toggling again restores the new wording.
	out = Toggle(out, removedID)
	if got := Materialize(out); got != "keep new end" {
		t.Errorf("materialize after double toggle = %q", got)
	}
}

func TestToggleUnknownID(t *testing.T) {
	segs := Diff("a b", "a c")
	out := Toggle(segs, "no-such-id")
	if Materialize(out) != Materialize(segs) {
		t.Error("toggling an unknown id should change nothing")
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	segs := Diff("a b", "a c")
	before := Materialize(segs)
	_ = Toggle(segs, segs[len(segs)-1].ID)
	if Materialize(segs) != before {
		t.Error("Toggle mutated its input")
	}
}

func TestLargeTokenVocabulary(t *testing.T) {
	// Enough distinct words to push token ids past the surrogate range.
	var sb strings.Builder
	for i := 0; i < 60000; i++ {
		sb.WriteString("w")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(" ")
	}
	source := sb.String()
	target := source + "tail"

	segs := Diff(source, target)
	if got := Materialize(AcceptAll(segs)); got != target {
		t.Error("large vocabulary diff lost content")
	}
}
