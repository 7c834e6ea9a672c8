package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var infoCmd = &cobra.Command{
	Use:   "info <publisher.name>",
	Short: "Show an extension's details and README",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		var (
			ext    *core.Extension
			readme string
		)
		err = tui.RunTask(os.Stderr, fmt.Sprintf("Fetching %s...", args[0]), func() error {
			var infoErr error
			ext, readme, infoErr = d.orchestrator.Info(cmd.Context(), args[0])
			return infoErr
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, tui.RenderExtensionHeader(*ext))
		if readme == "" {
			return nil
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprintln(os.Stdout, readme)
			return nil
		}
		rendered, err := tui.RenderMarkdown(readme, tui.Width(os.Stdout, 100))
		if err != nil {
			// Fall back to the plain README.
			fmt.Fprintln(os.Stdout, readme)
			return nil
		}
		fmt.Fprint(os.Stdout, rendered)
		return nil
	},
}

func init() {
	infoCmd.Flags().Bool("raw", false, "Print the README without rendering it")
	rootCmd.AddCommand(infoCmd)
}
