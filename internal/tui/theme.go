package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#2563EB") // Blue
	colorSecondary = lipgloss.Color("#60A5FA") // Light blue
	colorSuccess   = lipgloss.Color("#10B981") // Green
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
	colorWarning   = lipgloss.Color("#F59E0B") // Amber
)

// Shared styles.
var (
	// Extension title in info output.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	// Table header row.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Extension id column.
	idStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#F3F4F6")).
			Bold(true)

	// Muted text (descriptions, secondary info).
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	mutedCellStyle = mutedStyle.
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	borderStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)
)

// Success renders a success line: "✓ msg".
func Success(msg string) string { return successStyle.Render("✓ " + msg) }

// Failure renders a failure line: "✗ msg".
func Failure(msg string) string { return errorStyle.Render("✗ " + msg) }

// Warning renders a warning line: "⚠ msg".
func Warning(msg string) string { return warningStyle.Render("⚠ " + msg) }

// Muted renders secondary text.
func Muted(msg string) string { return mutedStyle.Render(msg) }
