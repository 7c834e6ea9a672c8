package host

// VSCode implements the Host interface for Visual Studio Code.
type VSCode struct {
	BaseHost
}

// NewVSCode creates a configured VS Code host.
func NewVSCode() *VSCode {
	return &VSCode{BaseHost{
		name:          "vscode",
		displayName:   "Visual Studio Code",
		cliName:       "code",
		extensionsDir: "~/.vscode/extensions",
		detectPaths:   []string{"~/.vscode"},
	}}
}

func init() { Register(NewVSCode()) }
