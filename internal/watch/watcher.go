// Package watch streams file-system changes under the collection root to
// the UI event broker. It only classifies and reports; it never mutates
// the hierarchy and never invalidates the lexical index, which stays a
// point-in-time snapshot by contract.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/models"
)

// ChangeCallback receives a classified change. kind is "draft", "commits",
// or "node"; path is the affected node directory.
type ChangeCallback func(kind, path string)

// Watch starts an fsnotify watcher on the collection root and processes
// change events until ctx is cancelled. New directories created at runtime
// are added to the watch list automatically.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			kind, nodePath := classify(ev.Name)
			if kind == "" {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("kind", kind),
				slog.String("path", nodePath),
				slog.String("op", ev.Op.String()))
			if cb != nil {
				cb(kind, nodePath)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps a changed file path to an event kind and the directory of
// the affected node. Unrelated files (temp files, attachments) map to "".
func classify(path string) (kind, nodePath string) {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	switch base {
	case models.DraftFile:
		return "draft", dir
	case models.CommitLogFile:
		if filepath.Base(dir) == models.HistoryDir {
			return "commits", filepath.Dir(dir)
		}
		return "", ""
	case models.MarkerFile:
		return "node", dir
	}
	return "", ""
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
