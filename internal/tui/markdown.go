package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/barysiuk/vsix/internal/core"
)

// RenderMarkdown renders a README for the terminal, wrapped at width.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// RenderExtensionHeader renders the summary block shown above a README.
func RenderExtensionHeader(e core.Extension) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(e.DisplayName))
	b.WriteString(" " + mutedStyle.Render(e.ID+" v"+e.Version) + "\n")
	if e.Description != "" {
		b.WriteString(e.Description + "\n")
	}

	meta := []string{FormatCount(e.Installs) + " installs"}
	if e.Rating > 0 {
		meta = append(meta, fmt.Sprintf("rated %.1f", e.Rating))
	}
	if !e.UpdatedAt.IsZero() {
		meta = append(meta, "updated "+e.UpdatedAt.Format(time.DateOnly))
	}
	b.WriteString(mutedStyle.Render(strings.Join(meta, " · ")) + "\n")
	return b.String()
}
