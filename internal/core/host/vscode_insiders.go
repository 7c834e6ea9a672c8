package host

// VSCodeInsiders implements the Host interface for the VS Code Insiders build.
type VSCodeInsiders struct {
	BaseHost
}

// NewVSCodeInsiders creates a configured VS Code Insiders host.
func NewVSCodeInsiders() *VSCodeInsiders {
	return &VSCodeInsiders{BaseHost{
		name:          "vscode-insiders",
		displayName:   "Visual Studio Code - Insiders",
		cliName:       "code-insiders",
		extensionsDir: "~/.vscode-insiders/extensions",
		detectPaths:   []string{"~/.vscode-insiders"},
	}}
}

func init() { Register(NewVSCodeInsiders()) }
