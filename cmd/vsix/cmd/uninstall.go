package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <publisher.name>...",
	Short: "Remove extension(s) from an editor",
	Long: `Remove one or more extensions from an editor's extensions directory.

Every installed version of the extension is deleted and its entry is dropped
from the editor's extensions.json. Restart the editor afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		remover := core.NewRemover(target.ExtensionsDir())
		var failed []error
		for _, id := range args {
			result, err := remover.Remove(id)
			if err != nil {
				fmt.Fprintln(os.Stderr, tui.Failure(err.Error()))
				failed = append(failed, err)
				continue
			}
			for _, e := range result.Removed {
				fmt.Fprintln(os.Stdout, tui.Success(fmt.Sprintf("Removed %s v%s from %s", e.ID, e.Version, target.DisplayName())))
			}
		}

		switch {
		case len(failed) == 0:
			return nil
		case len(args) == 1:
			return failed[0]
		default:
			return &batchError{verb: "uninstall", failed: len(failed), total: len(args), first: failed[0]}
		}
	},
}

func init() {
	addTargetFlags(uninstallCmd)
	rootCmd.AddCommand(uninstallCmd)
}
