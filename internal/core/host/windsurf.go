package host

// Windsurf implements the Host interface for the Windsurf editor.
type Windsurf struct {
	BaseHost
}

// NewWindsurf creates a configured Windsurf host.
func NewWindsurf() *Windsurf {
	return &Windsurf{BaseHost{
		name:          "windsurf",
		displayName:   "Windsurf",
		cliName:       "windsurf",
		extensionsDir: "~/.windsurf/extensions",
		detectPaths:   []string{"~/.windsurf"},
	}}
}

func init() { Register(NewWindsurf()) }
