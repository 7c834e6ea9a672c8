package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barysiuk/vsix/internal/core"
	"github.com/barysiuk/vsix/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the marketplace",
	Long: `Search the marketplace for extensions matching a query.

Results are sorted by install count unless --sort is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sortFlag, _ := cmd.Flags().GetString("sort")
		field, err := core.ParseSortField(sortFlag)
		if err != nil {
			return newUsageError(err)
		}
		output, _ := cmd.Flags().GetString("output")
		switch output {
		case "table", "json", "yaml":
		default:
			return newUsageError(fmt.Errorf("unknown output format %q; available: table, json, yaml", output))
		}
		reverse, _ := cmd.Flags().GetBool("reverse")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 1 {
			return newUsageError(fmt.Errorf("--limit must be at least 1"))
		}

		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		var result *core.SearchResult
		err = tui.RunTask(os.Stderr, fmt.Sprintf("Searching for %q...", query), func() error {
			var searchErr error
			result, searchErr = d.orchestrator.Search(cmd.Context(), query, core.SearchOptions{
				Sort:    field,
				Reverse: reverse,
				Limit:   limit,
			})
			return searchErr
		})
		if err != nil {
			return err
		}

		switch output {
		case "json":
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding results: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(data))
		case "yaml":
			data, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("encoding results: %w", err)
			}
			fmt.Fprint(os.Stdout, string(data))
		default:
			fmt.Fprintln(os.Stdout, tui.RenderSearchTable(result.Extensions, tui.Width(os.Stdout, 120)))
			if result.TotalCount > len(result.Extensions) {
				fmt.Fprintln(os.Stdout, tui.Muted(fmt.Sprintf("Showing %d of %d results.", len(result.Extensions), result.TotalCount)))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("sort", "downloads", "Sort by: name, downloads, publisher")
	searchCmd.Flags().BoolP("reverse", "r", false, "Reverse the sort order")
	searchCmd.Flags().IntP("limit", "n", core.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
	rootCmd.AddCommand(searchCmd)
}
