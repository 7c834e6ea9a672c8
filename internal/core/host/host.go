// Package host defines the editors vsix can install extensions into.
//
// A Host is a VS Code family editor (VS Code, Cursor, VSCodium, etc.). Each
// host knows its CLI executable and its extensions directory. Hosts are
// self-contained Go structs registered from init().
package host

import (
	"fmt"
	"strings"
)

// Host describes an install target.
type Host interface {
	Name() string        // machine name: "vscode", "cursor"
	DisplayName() string // human name: "Visual Studio Code", "Cursor"

	// CLIName is the executable looked up on PATH, e.g. "code".
	CLIName() string

	// ExtensionsDir is the directory the editor loads extensions from.
	ExtensionsDir() string

	// IsInstalled reports whether the editor has left traces in the
	// user's home directory.
	IsInstalled() bool
}

// --- Registry ---

var hosts []Host

// Register adds a host to the global registry.
func Register(h Host) { hosts = append(hosts, h) }

// All returns all registered hosts.
func All() []Host { return hosts }

// ByName returns the host with the given machine name, if registered.
// Names are matched case-insensitively; "code" is accepted for VS Code.
func ByName(name string) (Host, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, h := range hosts {
		if h.Name() == name || h.CLIName() == name {
			return h, true
		}
	}
	return nil, false
}

// MustByName resolves name or returns an error listing the valid names.
func MustByName(name string) (Host, error) {
	h, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q; available: %s",
			name, strings.Join(Names(hosts), ", "))
	}
	return h, nil
}

// Detect returns all hosts that appear to be installed.
func Detect() []Host {
	var detected []Host
	for _, h := range hosts {
		if h.IsInstalled() {
			detected = append(detected, h)
		}
	}
	return detected
}

// Names returns the machine names of the given hosts.
func Names(hosts []Host) []string {
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name()
	}
	return names
}
