package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zippy-table/internal/ui"
)

// HelpEntry is a single key-description pair for the help overlay.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection is a titled group of entries.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// RenderHelp renders a full-screen help overlay. Sections are drawn in the
// order given; empty ones are skipped.
func RenderHelp(styles ui.Styles, title string, sections []HelpSection, width, height int) string {
	t := styles.Theme

	titleStr := lipgloss.NewStyle().
		Foreground(t.Primary).Bold(true).
		Align(lipgloss.Center).
		Width(max(width-4, 0)).
		Render(title)

	var body strings.Builder
	body.WriteString(titleStr + "\n\n")

	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(16).Align(lipgloss.Right)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	for _, section := range sections {
		if len(section.Entries) == 0 {
			continue
		}
		body.WriteString(sectionStyle.Render(section.Title) + "\n")
		for _, e := range section.Entries {
			body.WriteString("  " + keyStyle.Render(e.Key) + "  " + descStyle.Render(e.Desc) + "\n")
		}
		body.WriteString("\n")
	}

	overlay := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(min(70, max(width-4, 20))).
		MaxHeight(max(height-2, 1)).
		Render(body.String())

	return ui.PlaceCentre(width, height, overlay)
}

// RenderShortHelp renders a one-line key hint bar, dropping entries that do
// not fit in width.
func RenderShortHelp(styles ui.Styles, entries []HelpEntry, width int) string {
	var parts []string
	used := 0
	for _, e := range entries {
		part := ui.RenderKeyValue(styles, e.Key, e.Desc)
		w := lipgloss.Width(part) + 2
		if used+w > width-2 {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
