// Package core provides the business logic for vsix.
// It has zero UI dependencies and is independently testable.
package core

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the vsix configuration stored at ~/.vsix/config.json.
type Config struct {
	MarketplaceURL string            `json:"marketplaceUrl,omitempty"`
	DefaultTarget  string            `json:"defaultTarget,omitempty"`  // host name, e.g. "vscode"
	PreferCLI      *bool             `json:"preferCli,omitempty"`      // nil means true
	TimeoutSeconds int               `json:"timeoutSeconds,omitempty"` // HTTP timeout; 0 = default
	ExtensionsDirs map[string]string `json:"extensionsDirs,omitempty"` // host name -> extensions dir override
}

// CLIPreferred reports whether host CLIs should be used when available.
func (c *Config) CLIPreferred() bool {
	return c.PreferCLI == nil || *c.PreferCLI
}

// Timeout returns the configured HTTP timeout, or the default.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Extension is a marketplace listing as returned by search.
type Extension struct {
	ID          string    `json:"id" yaml:"id"` // publisher.name
	Name        string    `json:"name" yaml:"name"`
	Publisher   string    `json:"publisher" yaml:"publisher"`
	DisplayName string    `json:"displayName" yaml:"displayName"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string    `json:"version" yaml:"version"`
	Installs    uint64    `json:"installs" yaml:"installs"`
	Rating      float64   `json:"rating,omitempty" yaml:"rating,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// SearchResult is the outcome of a marketplace search.
type SearchResult struct {
	Extensions []Extension `json:"extensions" yaml:"extensions"`
	TotalCount int         `json:"totalCount" yaml:"totalCount"`
}

// AssetDescriptor identifies one downloadable variant of an extension.
type AssetDescriptor struct {
	ExtensionID     string
	Version         string
	Platform        Platform // empty for untagged legacy packages
	DownloadURL     string
	ContentEncoding string // encoding hint advertised by the marketplace, e.g. "gzip"
}

// String renders the asset as "version" or "version@platform".
func (a AssetDescriptor) String() string {
	if a.Platform == "" {
		return a.Version
	}
	return a.Version + "@" + string(a.Platform)
}

// FileName is the VSIX file name used for staged and downloaded packages.
func (a AssetDescriptor) FileName() string {
	name := a.ExtensionID + "-" + a.Version
	if a.Platform.IsSpecific() {
		name += "@" + string(a.Platform)
	}
	return name + ".vsix"
}

// InstallDirName is the directory name an editor uses for this asset inside
// its extensions directory: lowercased id, version, and the platform suffix
// for platform-specific packages.
func (a AssetDescriptor) InstallDirName() string {
	name := strings.ToLower(a.ExtensionID) + "-" + a.Version
	if a.Platform.IsSpecific() {
		name += "-" + string(a.Platform)
	}
	return name
}

// InstallOutcome reports a successful install. Both install methods produce
// the same shape.
type InstallOutcome struct {
	Extension string
	Version   string
	Target    string // host display name
	Method    InstallationMethod
	Location  string // install directory, or the CLI path used
}

// validVersion reports whether v is safe to use in file and directory names.
func validVersion(v string) bool {
	return v != "" && v != "." && !strings.Contains(v, "..") && !strings.ContainsAny(v, "/\\:\x00")
}

// ParseExtensionID splits "publisher.name" into its parts.
func ParseExtensionID(id string) (publisher, name string, err error) {
	publisher, name, ok := strings.Cut(id, ".")
	if !ok || publisher == "" || name == "" || strings.ContainsAny(id, `/\ `) {
		return "", "", newError(ErrInvalidExtensionID, id,
			fmt.Errorf("expected publisher.name, got %q", id))
	}
	return publisher, name, nil
}
