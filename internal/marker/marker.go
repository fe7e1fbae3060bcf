// Package marker reads and writes the side-car metadata file that tags a
// directory as a repository or project. A directory without a readable
// marker is classified as root; that fallback is the explicit default,
// never an error.
package marker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/folio/internal/fsutil"
	"github.com/starford/folio/internal/models"
)

// Marker is the persisted node metadata.
type Marker struct {
	Type      models.NodeType `json:"type"`
	CreatedAt int64           `json:"createdAt"`
	Name      string          `json:"name"`
}

// Read returns the marker inside dir, or nil if the file is absent or
// unparsable. Corruption is treated as absence to keep the hierarchy usable.
func Read(dir string) *Marker {
	data, err := os.ReadFile(filepath.Join(dir, models.MarkerFile))
	if err != nil {
		return nil
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	if m.Type != models.NodeRepository && m.Type != models.NodeProject {
		return nil
	}
	return &m
}

// Write persists the marker inside dir atomically.
func Write(dir string, m Marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marker: marshal: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, models.MarkerFile), data); err != nil {
		return fmt.Errorf("marker: write: %w", err)
	}
	return nil
}

// TypeOf classifies dir by its marker. Absence, unreadability, or an
// unknown type all resolve to NodeRoot. Never fails.
func TypeOf(dir string) models.NodeType {
	if m := Read(dir); m != nil {
		return m.Type
	}
	return models.NodeRoot
}
