package host

// Cursor implements the Host interface for the Cursor editor.
type Cursor struct {
	BaseHost
}

// NewCursor creates a configured Cursor host.
func NewCursor() *Cursor {
	return &Cursor{BaseHost{
		name:          "cursor",
		displayName:   "Cursor",
		cliName:       "cursor",
		extensionsDir: "~/.cursor/extensions",
		detectPaths:   []string{"~/.cursor"},
	}}
}

func init() { Register(NewCursor()) }
