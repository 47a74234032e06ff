package table

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, kind string, v any) *Cell {
	t.Helper()
	f, ok := DefaultRegistry().Lookup(kind)
	require.True(t, ok, kind)
	r := f.New(Record{"v": v}, "v", func(bool) {})
	c := r.Create()
	r.Render(c)
	return c
}

func TestBuiltinRenderers(t *testing.T) {
	tests := []struct {
		kind  string
		value any
		want  string
	}{
		{"text", "hello", "hello"},
		{"text", 12, "12"},
		{"text", nil, ""},
		{"number", 1234567, "1,234,567"},
		{"number", 1234.5, "1,234.5"},
		{"number", "n/a", "n/a"},
		{"bytes", 2048, "2.0 kB"},
		{"bool", true, "[x]"},
		{"bool", "false", "[ ]"},
		{"time", time.Now().Add(-3 * time.Hour), "3 hours ago"},
		{"progress", 0.5, " 50%"},
		{"progress", 75, " 75%"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.kind, tt.value).Text)
		})
	}
}

func TestNumberRendererAlignsRight(t *testing.T) {
	assert.Equal(t, lipgloss.Right, render(t, "number", 1).Align)
	assert.Equal(t, lipgloss.Center, render(t, "bool", true).Align)
}

func TestProgressRendererPaintsAndRecycles(t *testing.T) {
	f, _ := DefaultRegistry().Lookup("progress")
	r := f.New(Record{"v": 0.25}, "v", func(bool) {})
	c := r.Create()
	r.Render(c)
	require.NotNil(t, c.Paint)
	assert.Equal(t, 20, lipgloss.Width(c.Paint(20)))
	assert.Equal(t, progressMinWidth, c.Width())

	r.(Recycler).Recycle(c)
	assert.Nil(t, c.Paint)
	assert.Empty(t, c.Text)
}

func TestBoolRendererActivate(t *testing.T) {
	var refreshed []bool
	item := Record{"done": false}
	f, _ := DefaultRegistry().Lookup("bool")
	r := f.New(item, "done", func(refresh bool) { refreshed = append(refreshed, refresh) })
	c := r.Create()
	r.Render(c)

	r.(Activator).Activate(c)
	assert.Equal(t, true, item["done"])
	assert.Equal(t, "[x]", c.Text)
	assert.Equal(t, []bool{true}, refreshed)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"text"}, r.Names())
	assert.Equal(t, []string{"bool", "bytes", "number", "progress", "text", "time"}, DefaultRegistry().Names())

	assert.Panics(t, func() { r.Register("broken", Factory{}) })

	r.Register("upper", Factory{New: newTextRenderer, FixedSize: true})
	f, ok := r.Lookup("upper")
	require.True(t, ok)
	assert.True(t, f.FixedSize)
}

type countingRenderer struct {
	created, rendered, recycled *int
}

func (r countingRenderer) Create() *Cell { *r.created++; return &Cell{} }
func (r countingRenderer) Render(*Cell)  { *r.rendered++ }
func (r countingRenderer) Recycle(*Cell) { *r.recycled++ }

func TestRendererLifecycle(t *testing.T) {
	var created, rendered, recycled, built int
	reg := NewRegistry()
	reg.Register("count", Factory{New: func(Item, string, UpdateFunc) Renderer {
		built++
		return countingRenderer{&created, &rendered, &recycled}
	}})

	surface := &fakeSurface{width: 100, height: 64}
	tbl := New(surface, WithRowHeight(32), WithRegistry(reg), WithPreload(false))
	require.NoError(t, tbl.SetColumns([]string{"A"}, []string{"a"}, []string{"count"}))
	tbl.SetItems(records(100))

	// 64/32 + 1 buffer, rounded to even.
	require.Len(t, tbl.Slots(), 4)
	assert.Equal(t, 4, built)
	assert.Equal(t, 4, created, "one primitive per slot")
	assert.Equal(t, 4, rendered)
	assert.Zero(t, recycled)

	surface.scroll = 32 * 50
	tbl.Scroll(0)
	tbl.Frame()
	assert.Equal(t, 4, created, "recycled slots reuse their primitive")
	assert.Equal(t, 4, recycled)
	assert.Equal(t, 8, built)
	assert.Equal(t, 8, rendered)

	surface.scroll = 0
	tbl.Scroll(0)
	tbl.Frame()
	assert.Equal(t, 8, built, "renderers are cached per item")
}
