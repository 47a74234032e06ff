package views

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zippy-table/internal/common"
	"github.com/Akashdeep-Patra/zippy-table/internal/config"
	"github.com/Akashdeep-Patra/zippy-table/internal/source"
	"github.com/Akashdeep-Patra/zippy-table/internal/table"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui"
)

var testColumns = []source.Column{
	{Header: "Name", Prop: "name", Renderer: "text"},
	{Header: "Size", Prop: "size", Renderer: "number"},
	{Header: "Done", Prop: "done", Renderer: "bool"},
}

func testRecords(n int) []table.Item {
	items := make([]table.Item, n)
	for i := range n {
		items[i] = table.Record{
			"name": fmt.Sprintf("item-%05d", i),
			"size": i * 10,
			"done": i%2 == 0,
		}
	}
	return items
}

func newTestView(t *testing.T, n int, opts ...table.Option) (*TableView, []table.Item) {
	t.Helper()
	opts = append([]table.Option{
		table.WithRowHeight(1),
		table.WithPadding(2),
		table.WithMinColumnSize(4),
		table.WithColumnSeparator(1),
		table.WithPreload(false),
		table.WithSelectionMode(table.SelectionMultiRow),
	}, opts...)
	v := NewTableView(ui.DefaultStyles(), NewTableKeyMap(config.DefaultKeyBindings()), slog.New(slog.DiscardHandler), opts...)
	v.SetSize(80, 11)
	items := testRecords(n)
	_, err := v.SetData(testColumns, items)
	require.NoError(t, err)
	return v, items
}

func press(x, y int, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: b, Action: tea.MouseActionPress}
}

func TestTableViewRendersHeaderAndRows(t *testing.T) {
	v, _ := newTestView(t, 100)

	out := v.View()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Size")
	assert.Contains(t, lines[1], "item-00000")
	assert.Contains(t, lines[10], "item-00009")
	assert.NotContains(t, out, "item-00010")
}

func TestTableViewSurfaceExcludesHeaderAndScrollbar(t *testing.T) {
	v, _ := newTestView(t, 100)

	w, h := v.Size()
	assert.Equal(t, 79, w)
	assert.Equal(t, 10, h)
	assert.Equal(t, 100, v.contentHeight)
}

func TestTableViewSizesColumnsWhenDataArrivesFirst(t *testing.T) {
	sized, _ := newTestView(t, 100)

	v := NewTableView(ui.DefaultStyles(), NewTableKeyMap(config.DefaultKeyBindings()), slog.New(slog.DiscardHandler),
		table.WithRowHeight(1),
		table.WithPadding(2),
		table.WithMinColumnSize(4),
		table.WithColumnSeparator(1),
		table.WithPreload(false),
		table.WithSelectionMode(table.SelectionMultiRow),
	)
	_, err := v.SetData(testColumns, testRecords(100))
	require.NoError(t, err)
	v.SetSize(80, 11)

	cells := v.Table().ColumnCells()
	assert.Equal(t, sized.Table().ColumnCells(), cells)
	assert.Greater(t, cells[0], cells[1])
	assert.Contains(t, v.View(), "item-00000")
}

func TestTableViewCursorScrollsOnFrame(t *testing.T) {
	v, _ := newTestView(t, 100)

	for range 15 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 15, v.Cursor())
	assert.Equal(t, 6, v.scroll)

	v.Update(frameMsg{})
	require.NotNil(t, v.slotFor(15))
	assert.Contains(t, v.View(), "item-00015")
	assert.NotContains(t, v.View(), "item-00005")
}

func TestTableViewWheelAppliesOnFrame(t *testing.T) {
	v, _ := newTestView(t, 100, table.WithDisableScrollCompensation(true))

	_, cmd := v.Update(press(5, 3, tea.MouseButtonWheelDown))
	require.NotNil(t, cmd)
	// Events before the frame are coalesced into it.
	v.Update(press(5, 3, tea.MouseButtonWheelDown))
	assert.Equal(t, 0, v.scroll)

	v.Update(frameMsg{})
	assert.Equal(t, 6, v.scroll)
	assert.Contains(t, v.View(), "item-00015")
}

func TestTableViewWheelWithCompensation(t *testing.T) {
	v, _ := newTestView(t, 100, table.WithDisableScrollCompensation(false))

	v.Update(press(5, 3, tea.MouseButtonWheelDown))
	v.Update(press(5, 3, tea.MouseButtonWheelDown))
	_, cmd := v.Update(frameMsg{})
	assert.Equal(t, 6, v.scroll)
	require.NotNil(t, cmd, "travel beyond the first signal needs another frame")

	v.Update(frameMsg{})
	for i := 6; i < 16; i++ {
		assert.NotNil(t, v.slotFor(i), "row %d", i)
	}
}

func TestTableViewClickSelects(t *testing.T) {
	v, items := newTestView(t, 100)

	_, cmd := v.Update(press(5, 3, tea.MouseButtonLeft))
	assert.NotNil(t, cmd)
	assert.Empty(t, v.pending)
	assert.Equal(t, 2, v.Cursor())
	assert.Equal(t, items[2], v.Table().SelectedItem())

	v.Update(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, Shift: true})
	assert.Len(t, v.Table().SelectedItems(), 3)

	v.Update(tea.MouseMsg{X: 5, Y: 8, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, Ctrl: true})
	assert.Len(t, v.Table().SelectedItems(), 4)
	assert.True(t, v.Table().IsSelected(7))
}

func TestTableViewRowModeIgnoresModifiers(t *testing.T) {
	v, _ := newTestView(t, 100, table.WithSelectionMode(table.SelectionRow))

	v.Update(press(5, 3, tea.MouseButtonLeft))
	v.Update(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonRight, Action: tea.MouseActionPress, Shift: true})
	require.Len(t, v.Table().SelectedItems(), 1)
	assert.Equal(t, "item-00004", v.Table().SelectedItem().Value("name"))
}

func TestTableViewKeySelection(t *testing.T) {
	v, _ := newTestView(t, 100)

	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'V'}})
	assert.Len(t, v.Table().SelectedItems(), 3)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Empty(t, v.Table().SelectedItems())
}

func TestTableViewHeaderClickSorts(t *testing.T) {
	v, _ := newTestView(t, 100)

	v.Update(press(3, 0, tea.MouseButtonLeft))
	v.Update(tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionRelease})
	assert.Equal(t, table.SortedAscending, v.Table().SortState("name"))

	v.Update(press(3, 0, tea.MouseButtonLeft))
	v.Update(tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionRelease})
	assert.Equal(t, table.SortedDescending, v.Table().SortState("name"))
	assert.Contains(t, strings.Split(v.View(), "\n")[1], "item-00099")
	assert.Equal(t, "Name ↓", v.SortSummary())
}

func TestTableViewHeaderDragResizes(t *testing.T) {
	v, _ := newTestView(t, 100)
	before := v.Table().ColumnCells()[0]

	v.Update(press(3, 0, tea.MouseButtonLeft))
	v.Update(tea.MouseMsg{X: 8, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	v.Update(tea.MouseMsg{X: 8, Y: 0, Action: tea.MouseActionRelease})

	size := v.Table().ColumnSizes()["Name"]
	assert.Equal(t, table.SizeExplicit, size.Kind)
	assert.InDelta(t, float64(before+5), size.Size, 0.001)
	assert.Equal(t, table.Unsorted, v.Table().SortState("name"))
}

func TestTableViewActivateToggles(t *testing.T) {
	v, items := newTestView(t, 10)

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, false, items[0].Value("done"))

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, common.InfoMsg{}, cmd())
}

func TestTableViewQuery(t *testing.T) {
	v, _ := newTestView(t, 100)

	v.SetQuery("name:item-0000")
	assert.Equal(t, 10, v.Table().DisplayLen())
	assert.Equal(t, "name:item-0000", v.Query())

	v.SetQuery("zzz")
	assert.Equal(t, 0, v.Table().DisplayLen())
	assert.Contains(t, v.View(), `No rows match "zzz"`)

	v.SetQuery("")
	assert.Equal(t, 100, v.Table().DisplayLen())
}

func TestTableViewReloadKeepsSortAndFilter(t *testing.T) {
	v, _ := newTestView(t, 100)
	v.Table().ToggleSort("size")
	v.Table().ToggleSort("size")
	v.SetQuery("item-0000")

	v.Reload(testRecords(50))
	assert.Equal(t, 50, v.Table().Len())
	assert.Equal(t, 10, v.Table().DisplayLen())
	assert.Equal(t, "item-00009", v.Table().DisplayItem(0).Value("name"))
}

func TestTableViewScrollbarClick(t *testing.T) {
	v, _ := newTestView(t, 100)

	v.Update(press(79, 10, tea.MouseButtonLeft))
	assert.Equal(t, 90, v.scroll)
	v.Update(frameMsg{})
	assert.Contains(t, v.View(), "item-00099")
}

func TestTableViewPreload(t *testing.T) {
	v := NewTableView(ui.DefaultStyles(), NewTableKeyMap(config.DefaultKeyBindings()), slog.New(slog.DiscardHandler),
		table.WithRowHeight(1), table.WithPreload(true))
	v.SetSize(80, 11)

	cmd, err := v.SetData(testColumns, testRecords(200))
	require.NoError(t, err)
	require.NotNil(t, cmd)

	gen := v.Table().Generation()
	for range 1000 {
		if v.preload(gen) == nil {
			break
		}
	}
	assert.Equal(t, 200-v.Table().Preload().Built(), len(v.Table().Slots()))

	// Stale ticks from an earlier generation do nothing.
	v.Reload(testRecords(10))
	assert.Nil(t, v.preload(gen))
}

func TestTableViewEmpty(t *testing.T) {
	v := NewTableView(ui.DefaultStyles(), NewTableKeyMap(config.DefaultKeyBindings()), slog.New(slog.DiscardHandler))
	v.SetSize(40, 5)
	assert.Contains(t, v.View(), "No rows")
}
