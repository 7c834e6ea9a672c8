package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/core/host"
)

const defaultTarget = "vscode"

// resolveTarget picks the install target from --cursor, --target, the
// configured default, or VS Code, and applies any extensions directory
// override from config.
func resolveTarget(cmd *cobra.Command, cfg *core.Config) (host.Host, error) {
	name := cfg.DefaultTarget
	if t, _ := cmd.Flags().GetString("target"); t != "" {
		name = t
	}
	if cursor, _ := cmd.Flags().GetBool("cursor"); cursor {
		name = "cursor"
	}
	if name == "" {
		name = defaultTarget
	}

	h, err := host.MustByName(name)
	if err != nil {
		return nil, err
	}
	return host.WithExtensionsDir(h, cfg.ExtensionsDirs[h.Name()]), nil
}

// resolvePlatform parses the --platform flag.
func resolvePlatform(cmd *cobra.Command) (core.Platform, error) {
	p, _ := cmd.Flags().GetString("platform")
	platform, err := core.ParsePlatform(p)
	if err != nil {
		return "", newUsageError(err)
	}
	return platform, nil
}

// addTargetFlags adds --target and its --cursor shorthand to a command.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("target", "t", "", "Editor: vscode, vscode-insiders, cursor, windsurf, vscodium")
	cmd.Flags().Bool("cursor", false, "Use Cursor (same as --target cursor)")
	cmd.MarkFlagsMutuallyExclusive("target", "cursor")
}

// addPlatformFlag adds --platform to a command.
func addPlatformFlag(cmd *cobra.Command) {
	cmd.Flags().String("platform", "", "Target platform (e.g. linux-x64, darwin-arm64); defaults to this machine")
}

// describeMethod renders an installation method for humans.
func describeMethod(m core.InstallationMethod) string {
	switch m := m.(type) {
	case core.HostCLI:
		return "via " + m.Path
	case core.DirectExtraction:
		return "extracted into " + m.Dir
	default:
		return ""
	}
}
