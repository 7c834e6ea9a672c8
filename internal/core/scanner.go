package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const packageManifestFile = "package.json"

// InstalledExtension is an extension found in an editor's extensions
// directory.
type InstalledExtension struct {
	ID          string   `json:"id" yaml:"id"`
	Version     string   `json:"version" yaml:"version"`
	DisplayName string   `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Platform    Platform `json:"platform,omitempty" yaml:"platform,omitempty"`
	Path        string   `json:"path" yaml:"path"`
}

// packageManifest is the subset of an extension's package.json we read.
type packageManifest struct {
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName"`
}

// Scanner scans an extensions directory for installed extensions.
type Scanner struct {
	dir string
}

// NewScanner creates a Scanner for the extensions directory dir.
func NewScanner(dir string) *Scanner {
	return &Scanner{dir: dir}
}

// Scan lists the installed extensions, sorted by id then version. Entries
// without a readable package.json, and hidden entries such as in-progress
// extractions, are skipped.
func (s *Scanner) Scan() ([]InstalledExtension, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Nothing installed
		}
		return nil, fmt.Errorf("reading extensions directory: %w", err)
	}

	var exts []InstalledExtension
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		m, err := readPackageManifest(filepath.Join(path, packageManifestFile))
		if err != nil || m.Publisher == "" || m.Name == "" {
			continue
		}

		exts = append(exts, InstalledExtension{
			ID:          m.Publisher + "." + m.Name,
			Version:     m.Version,
			DisplayName: m.DisplayName,
			Platform:    platformFromDirName(entry.Name()),
			Path:        path,
		})
	}

	sort.SliceStable(exts, func(i, j int) bool {
		a, b := strings.ToLower(exts[i].ID), strings.ToLower(exts[j].ID)
		if a != b {
			return a < b
		}
		return versionGreater(parseVersion(exts[i].Version), parseVersion(exts[j].Version))
	})
	return exts, nil
}

// Find returns every installed copy of extensionID.
func (s *Scanner) Find(extensionID string) ([]InstalledExtension, error) {
	all, err := s.Scan()
	if err != nil {
		return nil, err
	}
	var found []InstalledExtension
	for _, e := range all {
		if strings.EqualFold(e.ID, extensionID) {
			found = append(found, e)
		}
	}
	return found, nil
}

func readPackageManifest(path string) (*packageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// platformFromDirName recovers the platform suffix of an install directory
// name such as "pub.ext-1.0.0-darwin-arm64".
func platformFromDirName(name string) Platform {
	for p := range knownPlatforms {
		if p.IsSpecific() && strings.HasSuffix(name, "-"+string(p)) {
			return p
		}
	}
	return ""
}
