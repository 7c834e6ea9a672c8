package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// extensionsIndexFile is the index some editors keep next to installed
// extensions. Editors that keep one skip directories not listed in it.
const extensionsIndexFile = "extensions.json"

type indexEntry struct {
	Identifier struct {
		ID string `json:"id"`
	} `json:"identifier"`
}

type indexLocation struct {
	Mid    int    `json:"$mid"`
	Path   string `json:"path"`
	Scheme string `json:"scheme"`
}

type newIndexEntry struct {
	Identifier struct {
		ID string `json:"id"`
	} `json:"identifier"`
	Version          string        `json:"version"`
	Location         indexLocation `json:"location"`
	RelativeLocation string        `json:"relativeLocation"`
	Metadata         struct {
		InstalledTimestamp int64  `json:"installedTimestamp,omitempty"`
		TargetPlatform     string `json:"targetPlatform,omitempty"`
		Source             string `json:"source"`
	} `json:"metadata"`
}

// ExtensionsIndex edits an editor's extensions.json.
type ExtensionsIndex struct {
	dir string
}

// NewExtensionsIndex returns the index of the extensions directory dir.
func NewExtensionsIndex(dir string) *ExtensionsIndex {
	return &ExtensionsIndex{dir: dir}
}

// Path returns the path of the index file.
func (x *ExtensionsIndex) Path() string {
	return filepath.Join(x.dir, extensionsIndexFile)
}

// Exists reports whether the editor keeps an index in this directory.
func (x *ExtensionsIndex) Exists() bool {
	return fileExists(x.Path())
}

// Upsert records asset as installed at installDir, replacing any previous
// entries for the same extension. The file is parsed leniently; comments and
// trailing commas are tolerated and the result is written as plain JSON.
func (x *ExtensionsIndex) Upsert(asset AssetDescriptor, installDir string, installedAt int64) error {
	root, err := x.load()
	if err != nil {
		return err
	}

	ops := removeOps(root, asset.ExtensionID)
	value, err := json.Marshal(buildIndexEntry(asset, installDir, installedAt))
	if err != nil {
		return fmt.Errorf("encoding %s entry: %w", extensionsIndexFile, err)
	}
	ops = append(ops, fmt.Sprintf(`{"op":"add","path":"/-","value":%s}`, value))

	return x.patch(root, ops)
}

// Remove drops every entry for extensionID. It reports whether anything was
// removed; a missing index is not an error.
func (x *ExtensionsIndex) Remove(extensionID string) (bool, error) {
	if !x.Exists() {
		return false, nil
	}
	root, err := x.load()
	if err != nil {
		return false, err
	}
	ops := removeOps(root, extensionID)
	if len(ops) == 0 {
		return false, nil
	}
	return true, x.patch(root, ops)
}

func (x *ExtensionsIndex) load() (hujson.Value, error) {
	content, err := os.ReadFile(x.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return hujson.Value{}, fmt.Errorf("reading %s: %w", extensionsIndexFile, err)
		}
		content = nil
	}
	if strings.TrimSpace(string(content)) == "" {
		content = []byte("[]")
	}

	root, err := hujson.Parse(content)
	if err != nil {
		return hujson.Value{}, fmt.Errorf("parsing %s: %w", extensionsIndexFile, err)
	}
	if _, ok := root.Value.(*hujson.Array); !ok {
		return hujson.Value{}, fmt.Errorf("parsing %s: top-level value is not an array", extensionsIndexFile)
	}
	return root, nil
}

func (x *ExtensionsIndex) patch(root hujson.Value, ops []string) error {
	if err := root.Patch([]byte("[" + strings.Join(ops, ",") + "]")); err != nil {
		return fmt.Errorf("updating %s: %w", extensionsIndexFile, err)
	}

	removeTrailingCommas(&root)
	root.Standardize()
	root.Format()
	return writeFileAtomic(x.Path(), root.Pack())
}

// removeOps returns JSON patch operations removing the entries for
// extensionID, last first so earlier indices stay valid.
func removeOps(root hujson.Value, extensionID string) []string {
	arr := root.Value.(*hujson.Array)

	var ops []string
	for i := len(arr.Elements) - 1; i >= 0; i-- {
		elem := arr.Elements[i].Clone()
		elem.Standardize()
		var e indexEntry
		if err := json.Unmarshal(elem.Pack(), &e); err != nil {
			continue
		}
		if strings.EqualFold(e.Identifier.ID, extensionID) {
			ops = append(ops, fmt.Sprintf(`{"op":"remove","path":"/%d"}`, i))
		}
	}
	return ops
}

func buildIndexEntry(asset AssetDescriptor, installDir string, installedAt int64) newIndexEntry {
	var e newIndexEntry
	e.Identifier.ID = strings.ToLower(asset.ExtensionID)
	e.Version = asset.Version
	e.RelativeLocation = filepath.Base(installDir)
	e.Location = indexLocation{Mid: 1, Path: fileURIPath(installDir), Scheme: "file"}
	e.Metadata.InstalledTimestamp = installedAt
	e.Metadata.Source = "vsix"
	if asset.Platform.IsSpecific() {
		e.Metadata.TargetPlatform = string(asset.Platform)
	}
	return e
}

// fileURIPath renders p as the path component of a file URI.
func fileURIPath(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
