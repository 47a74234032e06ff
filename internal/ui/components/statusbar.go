package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Akashdeep-Patra/zippy-table/internal/ui"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Source   string
	Shown    int
	Total    int
	Selected int
	Sort     string // e.g. "size ↓, name ↑"
	Filter   string
	Message  string // transient info/error message
	IsError  bool
}

// RenderStatusBar renders the bottom status bar with sections separated by
// dim vertical bars.
//
// Wide (>= 60):   1,204 / 10,000 rows │ 3 selected │ ⇅ size ↓ │ ⌕ foo     items.csv
// Narrow (< 60):  1,204 / 10,000 rows │ 3 selected
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Faint(true)
	sep := sepStyle.Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	countStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	var count string
	if data.Shown == data.Total {
		count = fmt.Sprintf("%s rows", humanize.Comma(int64(data.Total)))
	} else {
		count = fmt.Sprintf("%s / %s rows", humanize.Comma(int64(data.Shown)), humanize.Comma(int64(data.Total)))
	}
	left := " " + countStyle.Render(count)

	if data.Selected > 0 {
		left += sep + lipgloss.NewStyle().Foreground(t.Accent).Render(
			fmt.Sprintf("%s selected", humanize.Comma(int64(data.Selected))))
	}
	if width >= 60 && data.Sort != "" {
		left += sep + lipgloss.NewStyle().Foreground(t.Secondary).Render("⇅ "+data.Sort)
	}
	if width >= 60 && data.Filter != "" {
		left += sep + lipgloss.NewStyle().Foreground(t.Warning).Render("⌕ "+data.Filter)
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	if data.Message != "" {
		fg := t.Info
		if data.IsError {
			fg = t.Error
		}
		right = lipgloss.NewStyle().Foreground(fg).Render(data.Message) + " "
	} else if width >= 60 && data.Source != "" {
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(data.Source) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	inner := width - styles.StatusBar.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = max(inner-lipgloss.Width(left), 0)
		right = "" // drop right side if no room
	}

	return styles.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
