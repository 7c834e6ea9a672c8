package host

// VSCodium implements the Host interface for VSCodium.
type VSCodium struct {
	BaseHost
}

// NewVSCodium creates a configured VSCodium host.
func NewVSCodium() *VSCodium {
	return &VSCodium{BaseHost{
		name:          "vscodium",
		displayName:   "VSCodium",
		cliName:       "codium",
		extensionsDir: "~/.vscode-oss/extensions",
		detectPaths:   []string{"~/.vscode-oss"},
	}}
}

func init() { Register(NewVSCodium()) }
