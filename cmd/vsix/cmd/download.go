package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var downloadCmd = &cobra.Command{
	Use:   "download <publisher.name>",
	Short: "Download an extension package without installing it",
	Long: `Download the package for an extension and save it as
<publisher.name>-<version>[@<platform>].vsix.

The package is validated before it is written; use --platform to fetch the
package for another machine.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := resolvePlatform(cmd)
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("output")

		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		var res *core.DownloadResult
		err = tui.RunTask(os.Stderr, fmt.Sprintf("Downloading %s...", args[0]), func() error {
			var downloadErr error
			res, downloadErr = d.orchestrator.Download(cmd.Context(), args[0], outDir, core.InstallOptions{Platform: platform})
			return downloadErr
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, tui.Success(fmt.Sprintf("Downloaded %s v%s", res.Asset.ExtensionID, res.Asset.Version)))
		fmt.Fprintf(os.Stdout, "  %s\n", tui.Muted(fmt.Sprintf("%s (%d bytes)", res.Path, res.Size)))
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringP("output", "o", ".", "Directory to save the package in")
	addPlatformFlag(downloadCmd)
	rootCmd.AddCommand(downloadCmd)
}
