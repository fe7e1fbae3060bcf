package hierarchy

import (
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
)

func TestValidateName_Valid(t *testing.T) {
	valid := []string{
		"My Project 1",
		"notes",
		"Chapter 12 - Revised",
		"draft_final (2)",
		"côte d'azur",
	}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateName_Invalid(t *testing.T) {
	invalid := []struct {
		name   string
		reason string
	}{
		{"", "empty"},
		{"   ", "blank"},
		{".", "dot"},
		{"..", "dot-dot"},
		{".hidden", "leading dot"},
		{"trailing.", "trailing dot"},
		{"trailing ", "trailing space"},
		{"a/b", "path separator"},
		{`a\b`, "backslash"},
		{"a:b", "colon"},
		{"what?", "question mark"},
		{"CON", "reserved device name"},
		{"con.txt", "reserved device name with extension"},
		{"Lpt1", "reserved device name, mixed case"},
		{"tab\there", "control character"},
		{strings.Repeat("x", 256), "too long"},
	}
	for _, tc := range invalid {
		err := ValidateName(tc.name)
		if err == nil {
			t.Errorf("ValidateName(%q) = nil, want error (%s)", tc.name, tc.reason)
			continue
		}
		if !apperr.IsValidation(err) {
			t.Errorf("ValidateName(%q) = %v, want a validation error", tc.name, err)
		}
	}
}

func TestValidateName_MaxLengthBoundary(t *testing.T) {
	if err := ValidateName(strings.Repeat("x", 255)); err != nil {
		t.Errorf("255-rune name should be valid: %v", err)
	}
}
