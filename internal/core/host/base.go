package host

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseHost provides the common host behavior. Individual hosts embed it.
type BaseHost struct {
	name          string
	displayName   string
	cliName       string
	extensionsDir string   // with ~ or $VAR
	detectPaths   []string // files/dirs indicating the editor is installed
}

func (b *BaseHost) Name() string        { return b.name }
func (b *BaseHost) DisplayName() string { return b.displayName }
func (b *BaseHost) CLIName() string     { return b.cliName }

func (b *BaseHost) ExtensionsDir() string { return expandPath(b.extensionsDir) }

func (b *BaseHost) IsInstalled() bool {
	for _, p := range b.detectPaths {
		if dirExists(expandPath(p)) {
			return true
		}
	}
	return false
}

// DetectPaths returns the detection paths (expanded).
func (b *BaseHost) DetectPaths() []string {
	result := make([]string, len(b.detectPaths))
	for i, p := range b.detectPaths {
		result[i] = expandPath(p)
	}
	return result
}

// WithExtensionsDir returns h with its extensions directory replaced by dir.
// An empty dir returns h unchanged.
func WithExtensionsDir(h Host, dir string) Host {
	if dir == "" {
		return h
	}
	return &overridden{Host: h, dir: expandPath(dir)}
}

type overridden struct {
	Host
	dir string
}

func (o *overridden) ExtensionsDir() string { return o.dir }

// --- Helpers ---

func expandPath(p string) string {
	if strings.Contains(p, "$") {
		p = os.ExpandEnv(p)
	}
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[2:])
	} else if p == "~" {
		home, _ := os.UserHomeDir()
		p = home
	}
	return p
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
