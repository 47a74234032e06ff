package common

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zippy-table/internal/source"
	"github.com/Akashdeep-Patra/zippy-table/internal/table"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/components"
)

// ── Custom messages ─────────────────────────────────────────────────────────

// RefreshMsg asks the app to reload its sources.
type RefreshMsg struct{}

// ErrMsg carries an error to be displayed.
type ErrMsg struct{ Err error }

// InfoMsg carries an informational message.
type InfoMsg struct{ Text string }

// ItemsLoadedMsg delivers freshly loaded records.
type ItemsLoadedMsg struct{ Set *source.Set }

// SelectionChangedMsg mirrors the table's selection-changed notification.
type SelectionChangedMsg struct{ Change table.SelectionChange }

// ItemUpdatedMsg mirrors the table's item-updated notification.
type ItemUpdatedMsg struct{ Item table.Item }

// FilterMsg applies a filter query; an empty query clears the filter.
type FilterMsg struct{ Query string }

// CmdRefresh returns a RefreshMsg (use as return from tea.Cmd).
func CmdRefresh() tea.Msg { return RefreshMsg{} }

// CmdErr creates a tea.Cmd that sends an ErrMsg.
func CmdErr(err error) tea.Cmd {
	return func() tea.Msg { return ErrMsg{Err: err} }
}

// CmdInfo creates a tea.Cmd that sends an InfoMsg.
func CmdInfo(text string) tea.Cmd {
	return func() tea.Msg { return InfoMsg{Text: text} }
}

// ── View interface ──────────────────────────────────────────────────────────

// View is the interface the app's main view implements.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []components.HelpEntry
}
