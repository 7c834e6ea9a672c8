package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var installCmd = &cobra.Command{
	Use:   "install <publisher.name>...",
	Short: "Install extension(s) into an editor",
	Long: `Install one or more extensions into an editor.

The package matching this machine is downloaded from the marketplace. If the
editor's CLI is on PATH it installs the package; otherwise the package is
extracted into the editor's extensions directory.

Targets:
  vscode            Visual Studio Code (default)
  vscode-insiders   Visual Studio Code - Insiders
  cursor            Cursor (also --cursor)
  windsurf          Windsurf
  vscodium          VSCodium`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := resolvePlatform(cmd)
		if err != nil {
			return err
		}
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		target, err := resolveTarget(cmd, d.cfg)
		if err != nil {
			return newUsageError(err)
		}

		var failed []error
		for _, id := range args {
			var outcome *core.InstallOutcome
			err := tui.RunTask(os.Stderr, fmt.Sprintf("Installing %s into %s...", id, target.DisplayName()), func() error {
				var installErr error
				outcome, installErr = d.orchestrator.Install(cmd.Context(), id, target, core.InstallOptions{Platform: platform})
				return installErr
			})
			if err != nil {
				if cmd.Context().Err() != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, tui.Failure(err.Error()))
				failed = append(failed, err)
				continue
			}

			fmt.Fprintln(os.Stdout, tui.Success(fmt.Sprintf("Installed %s v%s into %s", outcome.Extension, outcome.Version, outcome.Target)))
			fmt.Fprintf(os.Stdout, "  %s\n", tui.Muted(describeMethod(outcome.Method)))
		}

		switch {
		case len(failed) == 0:
			return nil
		case len(args) == 1:
			return failed[0]
		default:
			return &batchError{verb: "install", failed: len(failed), total: len(args), first: failed[0]}
		}
	},
}

// batchError reports a multi-extension operation with failures. It unwraps
// to the first failure so the exit code reflects it.
type batchError struct {
	verb          string
	failed, total int
	first         error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d extensions failed to %s", e.failed, e.total, e.verb)
}

func (e *batchError) Unwrap() error { return e.first }

func init() {
	addTargetFlags(installCmd)
	addPlatformFlag(installCmd)
	rootCmd.AddCommand(installCmd)
}
