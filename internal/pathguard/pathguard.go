// Package pathguard provides pure path-containment checks for the managed
// collection root. Comparison is lexical: paths are resolved to absolute,
// cleaned form, but symlinks are not followed.
package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/folio/internal/apperr"
)

// IsInside reports whether target resolves to root itself or a descendant
// of root.
func IsInside(target, root string) bool {
	t, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	r, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	return t == r || strings.HasPrefix(t, r+string(os.PathSeparator))
}

// AssertInside resolves target and returns its absolute form, or
// apperr.ErrOutsideRoot if it escapes root.
func AssertInside(target, root string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("pathguard: resolve %s: %w", target, err)
	}
	if !IsInside(abs, root) {
		return "", fmt.Errorf("pathguard: %s: %w", target, apperr.ErrOutsideRoot)
	}
	return abs, nil
}

// AssertTyped composes containment with a caller-supplied node predicate.
// Predicate failure is reported as apperr.ErrWrongNodeType.
func AssertTyped(target, root string, predicate func(string) bool) (string, error) {
	abs, err := AssertInside(target, root)
	if err != nil {
		return "", err
	}
	if !predicate(abs) {
		return "", fmt.Errorf("pathguard: %s: %w", target, apperr.ErrWrongNodeType)
	}
	return abs, nil
}
