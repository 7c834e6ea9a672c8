package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/core/host"
	"github.com/barysiuk/vsix/internal/tui"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported editors and how extensions would be installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.NewConfigManager()
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		selector := core.NewSelector(cfg.CLIPreferred())
		for _, h := range host.All() {
			h = host.WithExtensionsDir(h, cfg.ExtensionsDirs[h.Name()])

			status := "not detected"
			if h.IsInstalled() {
				status = "detected"
			}

			how := ""
			if method, err := selector.SelectStrategy(h); err == nil {
				how = describeMethod(method)
			}
			fmt.Fprintf(os.Stdout, "%-16s %-30s %-13s %s\n", h.Name(), h.DisplayName(), status, tui.Muted(how))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
