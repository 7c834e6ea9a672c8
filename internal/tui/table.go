package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/barysiuk/vsix/internal/core"
)

const (
	minTableWidth   = 60
	maxNameWidth    = 32
	maxIDWidth      = 40
	fixedColsBudget = 36 // version, installs, borders and padding
)

// RenderSearchTable renders search results as a table that fits in width
// cells. Long names and descriptions are truncated.
func RenderSearchTable(exts []core.Extension, width int) string {
	if len(exts) == 0 {
		return Muted("No extensions found.")
	}
	if width < minTableWidth {
		width = minTableWidth
	}

	idW := maxIDWidth
	nameW := maxNameWidth
	descW := width - fixedColsBudget - idW - nameW
	if descW < 10 {
		// Narrow terminal: drop the description column.
		descW = 0
		idW = min(maxIDWidth, (width-fixedColsBudget)*3/5)
		nameW = width - fixedColsBudget - idW
	}

	headers := []string{"EXTENSION", "NAME", "VERSION", "INSTALLS"}
	if descW > 0 {
		headers = append(headers, "DESCRIPTION")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return idStyle
			case col == 4:
				return mutedCellStyle
			default:
				return cellStyle
			}
		})

	for _, e := range exts {
		cells := []string{
			ansi.Truncate(e.ID, idW, "…"),
			ansi.Truncate(e.DisplayName, nameW, "…"),
			e.Version,
			FormatCount(e.Installs),
		}
		if descW > 0 {
			cells = append(cells, ansi.Truncate(oneLine(e.Description), descW, "…"))
		}
		t.Row(cells...)
	}

	return t.Render()
}

// RenderInstalledTable renders the extensions found in an extensions
// directory.
func RenderInstalledTable(exts []core.InstalledExtension) string {
	if len(exts) == 0 {
		return Muted("No extensions installed.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("EXTENSION", "VERSION", "PLATFORM", "NAME").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return idStyle
			case col == 2:
				return mutedCellStyle
			default:
				return cellStyle
			}
		})

	for _, e := range exts {
		platform := string(e.Platform)
		if platform == "" {
			platform = "-"
		}
		t.Row(
			ansi.Truncate(e.ID, maxIDWidth, "…"),
			e.Version,
			platform,
			ansi.Truncate(e.DisplayName, maxNameWidth, "…"),
		)
	}

	return t.Render()
}

// FormatCount renders a count compactly: 950, 12.3K, 4.2M.
func FormatCount(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1e9)) + "B"
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1e6)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1e3)) + "K"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
