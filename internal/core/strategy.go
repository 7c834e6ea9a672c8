package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/barysiuk/vsix/internal/core/host"
)

// InstallationMethod is how a staged package gets into a host. It is a
// closed set: HostCLI or DirectExtraction.
type InstallationMethod interface {
	fmt.Stringer
	installationMethod()
}

// HostCLI installs through the editor's own command-line interface.
type HostCLI struct {
	Path string // absolute path of the CLI executable
}

// DirectExtraction unpacks the package into the editor's extensions directory.
type DirectExtraction struct {
	Dir string // extensions directory
}

func (HostCLI) installationMethod()          {}
func (DirectExtraction) installationMethod() {}

func (m HostCLI) String() string          { return "cli " + m.Path }
func (m DirectExtraction) String() string { return "extraction into " + m.Dir }

// LookPathFunc resolves an executable name on PATH.
type LookPathFunc func(file string) (string, error)

// Selector chooses an InstallationMethod for a host.
type Selector struct {
	LookPath  LookPathFunc // nil = exec.LookPath
	PreferCLI bool
}

// NewSelector creates a Selector that uses the real PATH.
func NewSelector(preferCLI bool) *Selector {
	return &Selector{LookPath: exec.LookPath, PreferCLI: preferCLI}
}

// SelectStrategy searches PATH for the host's CLI on every call, so a CLI
// installed between two calls is picked up. When the CLI is missing, or
// CLIs are disabled, the package is extracted directly.
func (s *Selector) SelectStrategy(target host.Host) (InstallationMethod, error) {
	if s.PreferCLI {
		lookPath := s.LookPath
		if lookPath == nil {
			lookPath = exec.LookPath
		}
		path, err := lookPath(target.CLIName())
		switch {
		case err == nil:
			slog.Debug("install strategy", "target", target.Name(), "method", "cli", "path", path)
			return HostCLI{Path: path}, nil
		case !errors.Is(err, exec.ErrNotFound):
			slog.Debug("cli lookup failed", "target", target.Name(), "cli", target.CLIName(), "error", err)
		}
	}

	dir := target.ExtensionsDir()
	if dir == "" {
		return nil, fmt.Errorf("%s: no extensions directory and %q not on PATH",
			target.DisplayName(), target.CLIName())
	}
	slog.Debug("install strategy", "target", target.Name(), "method", "extraction", "dir", dir)
	return DirectExtraction{Dir: dir}, nil
}
