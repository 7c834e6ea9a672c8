package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List extensions installed in an editor",
	Long: `List the extensions found in an editor's extensions directory,
whether they were installed by vsix, the editor itself or its CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "table", "json", "yaml":
		default:
			return newUsageError(fmt.Errorf("unknown output format %q; available: table, json, yaml", output))
		}

		config, err := core.NewConfigManager()
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		target, err := resolveTarget(cmd, cfg)
		if err != nil {
			return newUsageError(err)
		}

		exts, err := core.NewScanner(target.ExtensionsDir()).Scan()
		if err != nil {
			return err
		}
		if exts == nil {
			exts = []core.InstalledExtension{}
		}

		switch output {
		case "json":
			data, err := json.MarshalIndent(exts, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding extensions: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(data))
		case "yaml":
			data, err := yaml.Marshal(exts)
			if err != nil {
				return fmt.Errorf("encoding extensions: %w", err)
			}
			fmt.Fprint(os.Stdout, string(data))
		default:
			fmt.Fprintf(os.Stdout, "%s %s\n", target.DisplayName(), tui.Muted(target.ExtensionsDir()))
			fmt.Fprintln(os.Stdout, tui.RenderInstalledTable(exts))
		}
		return nil
	},
}

func init() {
	addTargetFlags(listCmd)
	listCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
	rootCmd.AddCommand(listCmd)
}
