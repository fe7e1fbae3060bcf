// Package hierarchy validates and creates nodes of the three-level
// collection layout: root contains repositories, repositories contain
// projects, projects contain only their draft and commit log. Node types
// live in side-car marker files; an unmarked directory is root.
package hierarchy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/fsutil"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/pathguard"
	"github.com/starford/folio/internal/projectstore"
)

// allowedChildren encodes the three-level nesting rule.
var allowedChildren = map[models.NodeType]map[models.NodeType]bool{
	models.NodeRoot:       {models.NodeRepository: true},
	models.NodeRepository: {models.NodeProject: true},
	models.NodeProject:    {},
}

// Guard validates and creates hierarchy nodes under one collection root.
type Guard struct {
	root string
}

// New creates a Guard rooted at the given directory, which must exist.
func New(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("hierarchy: root is not a directory: %s", abs)
	}
	return &Guard{root: abs}, nil
}

// Root returns the absolute collection root.
func (g *Guard) Root() string { return g.root }

// NodeType classifies path by its marker file. Never fails: absence,
// unreadability, and corruption all resolve to root.
func (g *Guard) NodeType(path string) models.NodeType {
	abs, err := filepath.Abs(path)
	if err != nil {
		return models.NodeRoot
	}
	return marker.TypeOf(abs)
}

// FindNearestMarkedAncestor walks the parent chain of path, starting at
// path itself, until it finds a directory that both exists and carries a
// marker. Directories below the first existing ancestor need not exist,
// which is what blocks nested creation for paths typed in before any
// intermediate folder is made.
func (g *Guard) FindNearestMarkedAncestor(path string) (models.NodeType, string, bool) {
	cur, err := filepath.Abs(path)
	if err != nil {
		return models.NodeRoot, "", false
	}
	for {
		if fsutil.DirExists(cur) {
			if m := marker.Read(cur); m != nil {
				return m.Type, cur, true
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return models.NodeRoot, "", false
		}
		cur = parent
	}
}

// HierarchyInfo pre-flight-checks a user-chosen path before an expensive
// creation flow, reporting whether it lies inside an existing repository
// or project.
func (g *Guard) HierarchyInfo(path string) models.HierarchyInfo {
	nt, apath, ok := g.FindNearestMarkedAncestor(path)
	if !ok {
		return models.HierarchyInfo{IsInside: false}
	}
	return models.HierarchyInfo{IsInside: true, AncestorType: nt, AncestorPath: apath}
}

// ValidateCreate checks whether a child node of the given type and name may
// be created under parent. A nil return means valid; validation failures
// come back as apperr.ValidationError, containment failures as
// apperr.ErrOutsideRoot.
func (g *Guard) ValidateCreate(parent, name string, child models.NodeType) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if child != models.NodeRepository && child != models.NodeProject {
		return apperr.Invalid(fmt.Sprintf("cannot create a node of type %q", child))
	}

	abs, err := pathguard.AssertInside(parent, g.root)
	if err != nil {
		return err
	}

	parentType := marker.TypeOf(abs)
	if !allowedChildren[parentType][child] {
		return apperr.Invalid(fmt.Sprintf("a %s cannot contain a %s", parentType, child))
	}

	// The table check only sees the parent's own marker. Walk the ancestor
	// chain too, so nesting through not-yet-existing intermediates is
	// rejected as well.
	if at, apath, ok := g.FindNearestMarkedAncestor(abs); ok {
		switch child {
		case models.NodeRepository:
			return apperr.Invalid(fmt.Sprintf("cannot create a repository inside a %s", at))
		case models.NodeProject:
			if at != models.NodeRepository || apath != abs {
				return apperr.Invalid("projects must be created directly inside a repository")
			}
		}
	} else if child == models.NodeProject {
		return apperr.Invalid("projects must be created inside a repository")
	}

	if _, err := os.Stat(filepath.Join(abs, name)); err == nil {
		return apperr.Invalid(fmt.Sprintf("%q already exists under %s", name, abs))
	}

	return nil
}

// CreateNode re-validates, creates the directory, and writes the marker.
// Projects additionally get their draft and commit-log skeleton with a
// fresh stable identifier. If any step after the mkdir fails the created
// directory is removed, so the caller never sees a half-made node.
func (g *Guard) CreateNode(parent, name string, nt models.NodeType) (*models.Node, error) {
	if err := g.ValidateCreate(parent, name, nt); err != nil {
		return nil, err
	}
	abs, err := pathguard.AssertInside(parent, g.root)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(abs, name)
	now := time.Now().UnixMilli()

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("hierarchy: create %s: %w", target, err)
	}

	if err := marker.Write(target, marker.Marker{Type: nt, CreatedAt: now, Name: name}); err != nil {
		_ = os.RemoveAll(target)
		return nil, fmt.Errorf("hierarchy: mark %s: %w", target, err)
	}

	if nt == models.NodeProject {
		if err := projectstore.InitProject(target, now); err != nil {
			_ = os.RemoveAll(target)
			return nil, fmt.Errorf("hierarchy: init project %s: %w", target, err)
		}
	}

	return &models.Node{Path: target, Type: nt, Name: name, CreatedAt: now}, nil
}

// IsRepositoryDir reports whether path carries a repository marker.
func IsRepositoryDir(path string) bool {
	return marker.TypeOf(path) == models.NodeRepository
}
