package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/Akashdeep-Patra/zippy-table/internal/common"
	"github.com/Akashdeep-Patra/zippy-table/internal/config"
	"github.com/Akashdeep-Patra/zippy-table/internal/source"
	"github.com/Akashdeep-Patra/zippy-table/internal/table"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/components"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/views"
)

const filterDialog = "filter"

// Loader produces the records to show. It is called on start and on every
// reload.
type Loader func(ctx context.Context) (*source.Set, error)

// Model is the top-level Bubbletea model: the table view, a status bar, a
// key hint bar, and the filter and help overlays.
type Model struct {
	ctx    context.Context
	log    *slog.Logger
	load   Loader
	styles ui.Styles
	keys   KeyMap
	view   *views.TableView

	width     int
	height    int
	showHelp  bool
	statusMsg string
	statusErr bool
	statusExp time.Time
	dialog    *components.Dialog

	source  string
	loaded  bool
	columns []source.Column
}

// New creates a new application model.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, load Loader) *Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	opts := append(cfg.TableOptions(), table.WithLogger(log))
	m := &Model{
		ctx:    ctx,
		log:    log,
		load:   load,
		styles: styles,
		keys:   NewKeyMap(cfg.Keys),
		view:   views.NewTableView(styles, views.NewTableKeyMap(cfg.Keys), log, opts...),
	}
	for _, c := range cfg.Columns {
		m.columns = append(m.columns, source.Column{
			Header:   cmp.Or(c.Header, source.Header(c.Prop)),
			Prop:     c.Prop,
			Renderer: cmp.Or(c.Renderer, table.DefaultKind),
		})
	}
	return m
}

// TableView returns the hosted table view.
func (m *Model) TableView() *views.TableView { return m.view }

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.view.Init())
}

func (m *Model) reload() tea.Cmd {
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		set, err := load(ctx)
		if err != nil {
			return common.ErrMsg{Err: err}
		}
		return common.ItemsLoadedMsg{Set: set}
	}
}

// Update processes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Dialog has exclusive input when visible.
	if m.dialog != nil && m.dialog.Visible() {
		switch msg.(type) {
		case tea.KeyMsg:
			d, cmd := m.dialog.Update(msg)
			m.dialog = &d
			return m, cmd
		case tea.MouseMsg:
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetSize(m.width, m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Back):
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
			if m.view.Query() != "" {
				return m, m.applyFilter("")
			}
			return m, nil
		case m.showHelp:
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			d := components.NewInputDialog(m.styles, "Filter rows", "text or prop:text", m.view.Query(), filterDialog)
			d.Hint = "enter to apply · esc to cancel · empty clears"
			m.dialog = &d
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			return m, common.CmdRefresh
		}

	case components.DialogResult:
		m.dialog = nil
		if msg.Tag == filterDialog && msg.Confirmed {
			return m, func() tea.Msg { return common.FilterMsg{Query: msg.Value} }
		}
		return m, nil

	case common.FilterMsg:
		return m, m.applyFilter(msg.Query)

	case common.RefreshMsg:
		return m, m.reload()

	case common.ItemsLoadedMsg:
		return m, m.setItems(msg.Set)

	case common.SelectionChangedMsg:
		m.log.Debug("selection changed", "selected", len(msg.Change.Items))
		if c := msg.Change.Cell; c != nil {
			m.setStatus(fmt.Sprintf("%s: %s", c.Prop, cast.ToString(c.Value)), false, 3*time.Second)
		}
		return m, nil

	case common.ItemUpdatedMsg:
		m.log.Debug("item updated")
		m.setStatus("Row updated", false, 3*time.Second)
		return m, nil

	case common.ErrMsg:
		m.log.Error("error", "err", msg.Err)
		m.setStatus(msg.Err.Error(), true, 5*time.Second)
		return m, nil

	case common.InfoMsg:
		m.setStatus(msg.Text, false, 3*time.Second)
		return m, nil
	}

	if m.showHelp {
		return m, nil
	}
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.TableView)
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool, ttl time.Duration) {
	m.statusMsg = text
	m.statusErr = isErr
	m.statusExp = time.Now().Add(ttl)
}

func (m *Model) applyFilter(q string) tea.Cmd {
	cmd := m.view.SetQuery(q)
	t := m.view.Table()
	m.log.Debug("filter applied", "query", m.view.Query(), "shown", t.DisplayLen())
	return cmd
}

// setItems installs the first load's columns, then only swaps items so
// widths, sort and filter survive reloads.
func (m *Model) setItems(set *source.Set) tea.Cmd {
	m.source = set.Name
	if m.loaded {
		m.log.Info("reloaded", "source", set.Name, "rows", set.Len())
		return m.view.Reload(set.Items())
	}

	cols := m.columns
	if len(cols) == 0 {
		cols = source.Columns(set)
	}
	cmd, err := m.view.SetData(cols, set.Items())
	if err != nil {
		return common.CmdErr(err)
	}
	m.loaded = true
	m.log.Info("loaded", "source", set.Name, "rows", set.Len(), "columns", len(cols))
	m.setStatus(fmt.Sprintf("Loaded %s rows", humanize.Comma(int64(set.Len()))), false, 3*time.Second)
	return cmd
}

// View renders the entire UI. It does no I/O.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showHelp {
		sections := append([]components.HelpSection{m.keys.section()}, m.view.Sections()...)
		return components.RenderHelp(m.styles, "Keyboard Shortcuts", sections, m.width, m.height)
	}

	content := lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).Render(m.view.View())

	t := m.view.Table()
	bar := components.StatusBarData{
		Source:   m.source,
		Shown:    t.DisplayLen(),
		Total:    t.Len(),
		Selected: len(t.SelectedItems()),
		Sort:     m.view.SortSummary(),
		Filter:   m.view.Query(),
	}
	if m.statusMsg != "" && time.Now().Before(m.statusExp) {
		bar.Message = m.statusMsg
		bar.IsError = m.statusErr
	}
	statusBar := components.RenderStatusBar(m.styles, bar, m.width)

	hints := append(m.view.ShortHelp(), views.HelpEntry(m.keys.Filter), views.HelpEntry(m.keys.Help), views.HelpEntry(m.keys.Quit))
	helpBar := components.RenderShortHelp(m.styles, hints, m.width)

	screen := lipgloss.JoinVertical(lipgloss.Left, content, statusBar, helpBar)

	if m.dialog != nil && m.dialog.Visible() {
		screen = ui.PlaceCentre(m.width, m.height, m.dialog.View())
	}
	return screen
}

// contentHeight leaves room for the status and key hint bars.
func (m *Model) contentHeight() int {
	return max(m.height-2, 1)
}
