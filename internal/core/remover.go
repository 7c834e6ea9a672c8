package core

import (
	"fmt"
	"log/slog"
	"os"
)

// Remover uninstalls extensions from an extensions directory.
type Remover struct {
	dir string
}

// NewRemover creates a Remover for the extensions directory dir.
func NewRemover(dir string) *Remover {
	return &Remover{dir: dir}
}

// RemoveResult represents the result of an extension removal.
type RemoveResult struct {
	Extension string
	Removed   []InstalledExtension // every copy that was deleted
	Indexed   bool                 // whether extensions.json had an entry
}

// Remove deletes every installed copy of extensionID and drops it from the
// editor's extensions.json. A failure to update the index is logged, not
// returned.
func (r *Remover) Remove(extensionID string) (*RemoveResult, error) {
	if _, _, err := ParseExtensionID(extensionID); err != nil {
		return nil, err
	}

	found, err := NewScanner(r.dir).Find(extensionID)
	if err != nil {
		return nil, withContext(err, extensionID, "", "")
	}
	if len(found) == 0 {
		return nil, newError(ErrExtensionNotFound, extensionID, fmt.Errorf("not installed in %s", r.dir))
	}

	result := &RemoveResult{Extension: found[0].ID}
	for _, e := range found {
		if err := os.RemoveAll(e.Path); err != nil {
			return result, withContext(fsError(ErrInstallFailed, fmt.Errorf("removing %s: %w", e.Path, err)), extensionID, e.Version, "")
		}
		result.Removed = append(result.Removed, e)
	}

	indexed, err := NewExtensionsIndex(r.dir).Remove(extensionID)
	if err != nil {
		slog.Warn("could not update extensions index", "dir", r.dir, "extension", extensionID, "error", err)
	}
	result.Indexed = indexed
	return result, nil
}
