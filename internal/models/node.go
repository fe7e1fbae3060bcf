// Package models defines the domain types for Folio.
package models

// NodeType classifies a directory inside the managed collection.
type NodeType string

const (
	// NodeRoot is any directory without a hierarchy marker, including the
	// collection root itself.
	NodeRoot NodeType = "root"
	// NodeRepository is a top-level container of projects.
	NodeRepository NodeType = "repository"
	// NodeProject holds a working draft and its commit log.
	NodeProject NodeType = "project"
)

// File and directory names that make up a node on disk.
const (
	// MarkerFile is the side-car metadata file that records a node's type.
	MarkerFile = ".hierarchy-meta.json"
	// DraftFile is the working draft of a project.
	DraftFile = "content.md"
	// HistoryDir is the hidden per-project directory holding the commit log.
	HistoryDir = ".folio"
	// CommitLogFile is the append-only commit log inside HistoryDir.
	CommitLogFile = "commits.json"
	// MetadataFile carries the project's stable identity inside HistoryDir.
	MetadataFile = "metadata.json"
	// GraphFile is the per-repository cached visual layout.
	GraphFile = "project-graph.json"
)

// Node describes a classified directory.
type Node struct {
	Path      string   `json:"path"`
	Type      NodeType `json:"type"`
	Name      string   `json:"name"`
	CreatedAt int64    `json:"createdAt"`
}

// HierarchyInfo is the result of walking a path's ancestor chain looking
// for the nearest marked directory.
type HierarchyInfo struct {
	IsInside     bool     `json:"isInside"`
	AncestorType NodeType `json:"ancestorType,omitempty"`
	AncestorPath string   `json:"ancestorPath,omitempty"`
}

// Commit is one immutable snapshot in a project's linear history.
// CommitNumber is 1-based, strictly increasing, and never reused: deleting
// a commit leaves the remaining numbers untouched.
type Commit struct {
	ID           string `json:"id"`
	CommitNumber int    `json:"commitNumber"`
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"`
}

// ProjectMetadata is the on-disk identity record of a project.
// ID may be absent for projects created before stable identifiers existed;
// consumers fall back to the folder name.
type ProjectMetadata struct {
	CreatedAt int64  `json:"createdAt"`
	ID        string `json:"id,omitempty"`
}

// ProjectSummary is a project as returned by repository scans.
type ProjectSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Content        string `json:"content"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
	Path           string `json:"path"`
	RepositoryPath string `json:"repositoryPath"`
}

// GraphNode is one positioned node in the cached visual layout.
type GraphNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// GraphEdge is one edge in the cached visual layout.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ProjectGraph is the user-arranged layout stored per repository.
type ProjectGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
