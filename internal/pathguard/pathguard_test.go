package pathguard

import (
	"errors"
	"testing"

	"github.com/starford/folio/internal/apperr"
)

func TestIsInside(t *testing.T) {
	cases := []struct {
		target string
		root   string
		want   bool
	}{
		{"/root/repo/proj", "/root", true},
		{"/root", "/root", true},
		{"/root/", "/root", true},
		{"/root/../escape", "/root", false},
		{"/rootish", "/root", false},
		{"/other", "/root", false},
		{"/root/repo/../repo2", "/root", true},
	}
	for _, c := range cases {
		if got := IsInside(c.target, c.root); got != c.want {
			t.Errorf("IsInside(%q, %q) = %v, want %v", c.target, c.root, got, c.want)
		}
	}
}

func TestAssertInside(t *testing.T) {
	abs, err := AssertInside("/root/repo/proj", "/root")
	if err != nil {
		t.Fatalf("AssertInside: %v", err)
	}
	if abs != "/root/repo/proj" {
		t.Errorf("abs = %q", abs)
	}

	_, err = AssertInside("/root/../escape", "/root")
	if !errors.Is(err, apperr.ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestAssertTyped(t *testing.T) {
	isRepo := func(p string) bool { return p == "/root/repo" }

	if _, err := AssertTyped("/root/repo", "/root", isRepo); err != nil {
		t.Errorf("AssertTyped on matching path: %v", err)
	}

	_, err := AssertTyped("/root/other", "/root", isRepo)
	if !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("expected ErrWrongNodeType, got %v", err)
	}

	// Containment failure wins over the predicate.
	_, err = AssertTyped("/outside", "/root", isRepo)
	if !errors.Is(err, apperr.ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot, got %v", err)
	}
}
