package views

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zippy-table/internal/common"
	"github.com/Akashdeep-Patra/zippy-table/internal/source"
	"github.com/Akashdeep-Patra/zippy-table/internal/table"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/components"
)

const (
	wheelRows       = 3
	frameInterval   = time.Second / 60
	preloadInterval = 20 * time.Millisecond
	resizeStep      = 2
)

type frameMsg struct{}

type preloadMsg struct{ gen uint64 }

type headerDrag struct {
	col   int
	x     int
	width int
	moved bool
}

// TableView hosts a table.Table in the terminal. It is the table's scroll
// surface: the body area below the header, minus one column for the
// scrollbar.
//
//	 Name            │ Size   │ Done │ Updated
//	▌item-00001      │ 2.0 kB │ [x]  │ 3 hours ago   █
//	 item-00002      │  14 kB │ [ ]  │ 2 days ago    ░
type TableView struct {
	styles ui.Styles
	keys   TableKeyMap
	log    *slog.Logger
	tbl    *table.Table

	width  int
	height int

	scroll        int
	contentHeight int

	// Wheel travel not yet applied to scroll, and the part of it the
	// pending frame already recycled for.
	wheel    int
	signaled int

	cursor int
	col    int
	query  string
	drag   *headerDrag

	// First item of data set before the view had a width; probed on the
	// first sized SetSize.
	sizer table.Item

	pending []tea.Msg
}

// NewTableView creates the view and the table it hosts.
func NewTableView(styles ui.Styles, keys TableKeyMap, log *slog.Logger, opts ...table.Option) *TableView {
	v := &TableView{styles: styles, keys: keys, log: log}
	opts = append(opts,
		table.WithOnSelectionChanged(func(c table.SelectionChange) {
			v.pending = append(v.pending, common.SelectionChangedMsg{Change: c})
		}),
		table.WithOnItemUpdated(func(it table.Item) {
			v.pending = append(v.pending, common.ItemUpdatedMsg{Item: it})
		}),
	)
	v.tbl = table.New(v, opts...)
	return v
}

// ── table.Surface ───────────────────────────────────────────────────────────

// Size is the body area the rows are drawn in.
func (v *TableView) Size() (int, int) {
	return max(v.width-1, 0), v.bodyHeight()
}

func (v *TableView) ScrollOffset() int { return v.scroll }

func (v *TableView) SetScrollOffset(s int) { v.scroll = s }

func (v *TableView) SetContentHeight(h int) { v.contentHeight = h }

// Table is the hosted table.
func (v *TableView) Table() *table.Table { return v.tbl }

// Cursor is the keyboard cursor's display index.
func (v *TableView) Cursor() int { return v.cursor }

// Query is the active filter query.
func (v *TableView) Query() string { return v.query }

// Sections lists the view's bindings for the help overlay.
func (v *TableView) Sections() []components.HelpSection { return v.keys.Sections() }

func (v *TableView) headerRows() int {
	if v.tbl.HideHeader() {
		return 0
	}
	return 1
}

func (v *TableView) bodyHeight() int {
	return max(v.height-v.headerRows(), 0)
}

// ── data ────────────────────────────────────────────────────────────────────

// SetData replaces columns and items. The first item sizes the columns.
func (v *TableView) SetData(cols []source.Column, items []table.Item) (tea.Cmd, error) {
	headers := make([]string, len(cols))
	props := make([]string, len(cols))
	kinds := make([]string, len(cols))
	for i, c := range cols {
		headers[i], props[i], kinds[i] = c.Header, c.Prop, c.Renderer
	}
	if err := v.tbl.SetColumns(headers, props, kinds); err != nil {
		return nil, err
	}
	if v.query != "" {
		v.tbl.SetFilter(ParseFilter(v.query, props))
	}
	v.tbl.SetItems(items)
	v.sizer = nil
	if len(items) > 0 {
		if v.width > 0 {
			v.tbl.Probe(items[0])
		} else {
			v.sizer = items[0]
		}
	}
	v.cursor, v.col = 0, 0
	v.wheel, v.signaled = 0, 0
	return v.schedulePreload(), nil
}

// Reload swaps in new items keeping columns, widths, sort and filter.
func (v *TableView) Reload(items []table.Item) tea.Cmd {
	v.tbl.SetItems(items)
	v.clampCursor()
	return v.schedulePreload()
}

// SetQuery filters rows with ParseFilter.
func (v *TableView) SetQuery(q string) tea.Cmd {
	v.query = strings.TrimSpace(q)
	v.tbl.SetFilter(ParseFilter(v.query, v.tbl.Props()))
	v.clampCursor()
	return v.ensureVisible()
}

// SortSummary describes the active sort rules, e.g. "Size ↓, Name ↑".
func (v *TableView) SortSummary() string {
	rules := v.tbl.SortRules()
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, v.headerFor(r.Prop)+" "+arrow(r.Dir))
	}
	return strings.Join(parts, ", ")
}

func (v *TableView) headerFor(prop string) string {
	for i, p := range v.tbl.Props() {
		if p == prop {
			return v.tbl.Headers()[i]
		}
	}
	return prop
}

func arrow(d table.Direction) string {
	if d == table.Descending {
		return "↓"
	}
	return "↑"
}

// ── common.View ─────────────────────────────────────────────────────────────

func (v *TableView) Init() tea.Cmd { return v.schedulePreload() }

func (v *TableView) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.tbl.Resize()
	if v.sizer != nil && w > 0 {
		v.tbl.Probe(v.sizer)
		v.sizer = nil
	}
}

func (v *TableView) ShortHelp() []components.HelpEntry {
	return entries(v.keys.Down, v.keys.Select, v.keys.Toggle, v.keys.Sort, v.keys.Activate)
}

func (v *TableView) Update(msg tea.Msg) (common.View, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case frameMsg:
		cmd = v.frame()
	case preloadMsg:
		cmd = v.preload(msg.gen)
	case tea.MouseMsg:
		cmd = v.handleMouse(msg)
	case tea.KeyMsg:
		cmd = v.handleKey(msg)
	}
	return v, tea.Batch(cmd, v.flush())
}

// flush turns the table's callbacks into messages for the app.
func (v *TableView) flush() tea.Cmd {
	if len(v.pending) == 0 {
		return nil
	}
	msgs := v.pending
	v.pending = nil
	cmds := make([]tea.Cmd, len(msgs))
	for i, m := range msgs {
		cmds[i] = func() tea.Msg { return m }
	}
	return tea.Sequence(cmds...)
}

// ── scrolling ───────────────────────────────────────────────────────────────

func (v *TableView) signal(delta int) tea.Cmd {
	if !v.tbl.Scroll(delta) {
		return nil
	}
	v.signaled = delta
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// frame applies pending wheel travel and runs the table's recycling pass.
// With compensation the pass runs first, ahead of the travel it predicted.
func (v *TableView) frame() tea.Cmd {
	if !v.tbl.ScrollCompensation() {
		v.applyWheel()
		v.tbl.Frame()
		return nil
	}
	v.tbl.Frame()
	extra := v.wheel - v.signaled
	v.applyWheel()
	if extra != 0 {
		return v.signal(0)
	}
	return nil
}

func (v *TableView) applyWheel() {
	v.scroll = v.clamp(v.scroll + v.wheel)
	v.wheel, v.signaled = 0, 0
}

func (v *TableView) clamp(s int) int {
	return min(max(s, 0), max(v.contentHeight-v.bodyHeight(), 0))
}

func (v *TableView) wheelBy(rows int) tea.Cmd {
	delta := rows * v.tbl.RowHeight()
	v.wheel += delta
	return v.signal(delta)
}

// scrollTo moves the surface directly, as a scrollbar drag would.
func (v *TableView) scrollTo(s int) tea.Cmd {
	s = v.clamp(s)
	if s == v.scroll {
		return nil
	}
	v.scroll = s
	return v.signal(0)
}

func (v *TableView) ensureVisible() tea.Cmd {
	rh := v.tbl.RowHeight()
	top := v.cursor * rh
	s := v.scroll
	if top < s {
		s = top
	}
	if bottom := top + rh; bottom > s+v.bodyHeight() {
		s = bottom - v.bodyHeight()
	}
	return v.scrollTo(s)
}

func (v *TableView) clampCursor() {
	v.cursor = min(max(v.cursor, 0), max(v.tbl.DisplayLen()-1, 0))
	if n := len(v.tbl.Props()); v.col >= n {
		v.col = max(n-1, 0)
	}
}

func (v *TableView) moveCursor(delta int) tea.Cmd {
	if v.tbl.DisplayLen() == 0 {
		return nil
	}
	v.cursor += delta
	v.clampCursor()
	return v.ensureVisible()
}

// ── preload ─────────────────────────────────────────────────────────────────

func (v *TableView) schedulePreload() tea.Cmd {
	if v.tbl.Preload() == nil {
		return nil
	}
	gen := v.tbl.Generation()
	return tea.Tick(preloadInterval, func(time.Time) tea.Msg { return preloadMsg{gen: gen} })
}

func (v *TableView) preload(gen uint64) tea.Cmd {
	task := v.tbl.Preload()
	if task == nil || gen != v.tbl.Generation() || task.Stale() {
		return nil
	}
	if task.Step(v.tbl.PreloadBudget()) {
		return v.schedulePreload()
	}
	v.log.Debug("preload finished", "built", task.Built(), "items", v.tbl.Len())
	return nil
}

// ── input ───────────────────────────────────────────────────────────────────

func (v *TableView) prop() string {
	props := v.tbl.Props()
	if v.col < 0 || v.col >= len(props) {
		return ""
	}
	return props[v.col]
}

func (v *TableView) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := v.keys
	page := max(v.bodyHeight()/v.tbl.RowHeight(), 1)

	switch {
	case key.Matches(msg, k.Up):
		return v.moveCursor(-1)
	case key.Matches(msg, k.Down):
		return v.moveCursor(1)
	case key.Matches(msg, k.PageUp):
		return v.moveCursor(-page)
	case key.Matches(msg, k.PageDown):
		return v.moveCursor(page)
	case key.Matches(msg, k.Top):
		return v.moveCursor(-v.cursor)
	case key.Matches(msg, k.Bottom):
		return v.moveCursor(v.tbl.DisplayLen())

	case key.Matches(msg, k.Left):
		v.col = max(v.col-1, 0)
	case key.Matches(msg, k.Right):
		v.col = min(v.col+1, max(len(v.tbl.Props())-1, 0))

	case key.Matches(msg, k.Select):
		v.tbl.Click(v.cursor, v.prop(), table.Modifiers{})
	case key.Matches(msg, k.Toggle):
		v.tbl.Click(v.cursor, v.prop(), table.Modifiers{Toggle: true})
	case key.Matches(msg, k.Extend):
		v.tbl.Click(v.cursor, v.prop(), table.Modifiers{Range: true})
	case key.Matches(msg, k.ClearSelection):
		v.tbl.ClearSelection()
	case key.Matches(msg, k.Activate):
		if !v.tbl.Activate(v.cursor, v.prop()) {
			return common.CmdInfo("Column is not interactive")
		}

	case key.Matches(msg, k.Sort):
		return v.sort(v.prop())
	case key.Matches(msg, k.ResetSort):
		v.tbl.ResetSort()
		return v.followSelection()

	case key.Matches(msg, k.Narrow):
		v.resizeBy(-resizeStep)
	case key.Matches(msg, k.Widen):
		v.resizeBy(resizeStep)
	case key.Matches(msg, k.ResetWidths):
		v.tbl.ResetColumnSizes()
	}
	return nil
}

func (v *TableView) sort(prop string) tea.Cmd {
	if prop == "" {
		return nil
	}
	v.tbl.ToggleSort(prop)
	return v.followSelection()
}

// followSelection keeps the primary selected item in view after the order
// changed, falling back to keeping the cursor in range.
func (v *TableView) followSelection() tea.Cmd {
	if it := v.tbl.SelectedItem(); it != nil {
		if err := v.tbl.ScrollTo(it); err == nil {
			v.cursor = v.scroll / v.tbl.RowHeight()
			for v.cursor < v.tbl.DisplayLen()-1 && !v.tbl.IsSelected(v.cursor) {
				v.cursor++
			}
			return nil
		}
	}
	v.clampCursor()
	return v.ensureVisible()
}

func (v *TableView) resizeBy(delta int) {
	cells := v.tbl.ColumnCells()
	if v.col >= len(cells) {
		return
	}
	v.tbl.SetColumnSize(v.tbl.Headers()[v.col], float64(cells[v.col]+delta))
}

// columnAt maps a screen x to a column; x left of the first column maps
// to it and x right of the last to the last.
func (v *TableView) columnAt(x int) int {
	cells := v.tbl.ColumnCells()
	if len(cells) == 0 {
		return -1
	}
	pos := v.tbl.Padding() / 2
	for i, w := range cells {
		pos += w + v.tbl.ColumnSeparator()
		if x < pos {
			return i
		}
	}
	return len(cells) - 1
}

func (v *TableView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return v.wheelBy(-wheelRows)
	case tea.MouseButtonWheelDown:
		return v.wheelBy(wheelRows)
	}

	if msg.Action == tea.MouseActionRelease {
		d := v.drag
		v.drag = nil
		if d != nil && !d.moved {
			return v.sort(v.tbl.Props()[d.col])
		}
		return nil
	}

	if msg.Action == tea.MouseActionMotion {
		if v.drag != nil && msg.X != v.drag.x {
			v.drag.moved = true
			v.tbl.SetColumnSize(v.tbl.Headers()[v.drag.col], float64(v.drag.width+msg.X-v.drag.x))
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
		return nil
	}
	if msg.X >= v.width-1 {
		return v.scrollbarClick(msg.Y - v.headerRows())
	}
	col := v.columnAt(msg.X)
	if col < 0 {
		return nil
	}

	if msg.Y < v.headerRows() {
		if msg.Button == tea.MouseButtonLeft {
			v.drag = &headerDrag{col: col, x: msg.X, width: v.tbl.ColumnCells()[col]}
		}
		return nil
	}

	i := (v.scroll + msg.Y - v.headerRows()) / v.tbl.RowHeight()
	if i >= v.tbl.DisplayLen() {
		return nil
	}
	v.cursor, v.col = i, col
	v.tbl.Click(i, v.prop(), table.Modifiers{Toggle: msg.Ctrl || msg.Alt, Range: msg.Shift})
	return nil
}

// scrollbarClick jumps so the clicked track position becomes the thumb's.
func (v *TableView) scrollbarClick(y int) tea.Cmd {
	body := v.bodyHeight()
	if y < 0 || body <= 1 || v.contentHeight <= body {
		return nil
	}
	return v.scrollTo(y * (v.contentHeight - body) / (body - 1))
}

// ── rendering ───────────────────────────────────────────────────────────────

func (v *TableView) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	if len(v.tbl.Headers()) == 0 || v.tbl.Len() == 0 {
		return ui.PlaceCentre(v.width, v.height, v.styles.Empty.Render("No rows"))
	}

	var b strings.Builder
	if v.headerRows() > 0 {
		b.WriteString(v.renderHeader())
		b.WriteByte('\n')
	}
	body := v.bodyHeight()
	if v.tbl.DisplayLen() == 0 {
		b.WriteString(ui.PlaceCentre(v.width, body, v.styles.Empty.Render(fmt.Sprintf("No rows match %q", v.query))))
		return b.String()
	}

	bar := strings.Split(components.RenderScrollbar(v.styles, body, v.contentHeight, body, v.scroll), "\n")
	cells := v.tbl.ColumnCells()
	for line := range body {
		if line > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(v.renderLine(v.scroll+line, cells))
		if line < len(bar) && bar[line] != "" {
			b.WriteString(bar[line])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func (v *TableView) separator(style lipgloss.Style) string {
	n := v.tbl.ColumnSeparator()
	if n <= 0 {
		return ""
	}
	return v.styles.Separator.Inherit(style).Render("│") + style.Render(strings.Repeat(" ", n-1))
}

func (v *TableView) pads() (left, right int) {
	p := v.tbl.Padding()
	return p / 2, p - p/2
}

func (v *TableView) renderHeader() string {
	rules := v.tbl.SortRules()
	cells := v.tbl.ColumnCells()
	left, right := v.pads()
	w := v.width - 1

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", left))
	for i, h := range v.tbl.Headers() {
		if i > 0 {
			b.WriteString(v.separator(v.styles.Header))
		}
		style := v.styles.Header
		label := h
		if state := v.tbl.SortState(v.tbl.Props()[i]); state != table.Unsorted {
			style = v.styles.HeaderSorted
			dir := table.Ascending
			if state == table.SortedDescending {
				dir = table.Descending
			}
			label += " " + arrow(dir)
			if len(rules) > 1 {
				label += fmt.Sprint(rank(rules, v.tbl.Props()[i]))
			}
		}
		if i == v.col {
			style = v.styles.HeaderFocus.Inherit(style)
		}
		b.WriteString(style.Render(ui.Fit(label, cells[i], lipgloss.Left)))
	}
	b.WriteString(strings.Repeat(" ", right))
	return clip(b.String(), w) + " "
}

// clip pads or cuts a styled line to exactly w cells.
func clip(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}

func rank(rules []table.SortRule, prop string) int {
	for i, r := range rules {
		if r.Prop == prop {
			return i + 1
		}
	}
	return 0
}

// slotFor finds the slot showing display index i. Slot k only ever shows
// indices congruent to k, so this is a single lookup.
func (v *TableView) slotFor(i int) *table.Slot {
	slots := v.tbl.Slots()
	if len(slots) == 0 || i < 0 {
		return nil
	}
	s := slots[i%len(slots)]
	if s.Index != i || s.Hidden || len(s.Cells) == 0 {
		return nil
	}
	return s
}

func (v *TableView) renderLine(contentLine int, cells []int) string {
	rh := v.tbl.RowHeight()
	i := contentLine / rh
	w := v.width - 1
	s := v.slotFor(i)

	style := v.styles.Row
	if i%2 == 1 {
		style = v.styles.RowAlt
	}
	if s == nil {
		return style.Render(strings.Repeat(" ", w))
	}
	if s.Highlighted {
		style = v.styles.RowSelected
	}
	if contentLine%rh != 0 {
		return style.Render(strings.Repeat(" ", w))
	}

	left, right := v.pads()
	var b strings.Builder
	if left > 0 && i == v.cursor {
		b.WriteString(v.styles.Cursor.Inherit(style).Render("▌"))
		b.WriteString(style.Render(strings.Repeat(" ", left-1)))
	} else {
		b.WriteString(style.Render(strings.Repeat(" ", left)))
	}
	for c, width := range cells {
		if c > 0 {
			b.WriteString(v.separator(style))
		}
		if c >= len(s.Cells) || s.Cells[c] == nil {
			b.WriteString(style.Render(strings.Repeat(" ", width)))
			continue
		}
		cell := s.Cells[c]
		if cell.Paint != nil {
			b.WriteString(ui.Fit(cell.Paint(width), width, lipgloss.Left))
			continue
		}
		cs := cell.Style.Inherit(style)
		if i == v.cursor && c == v.col {
			cs = cs.Underline(true)
		}
		b.WriteString(cs.Render(ui.Fit(cell.Text, width, cell.Align)))
	}
	b.WriteString(style.Render(strings.Repeat(" ", right)))
	return clip(b.String(), w)
}
