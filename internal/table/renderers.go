package table

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// field is embedded by every built-in renderer.
type field struct {
	item   Item
	prop   string
	update UpdateFunc
}

func (f field) value() any { return f.item.Value(f.prop) }

// ── text ────────────────────────────────────────────────────────────────────

type textRenderer struct{ field }

func newTextRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &textRenderer{field{item, prop, update}}
}

func (r *textRenderer) Create() *Cell { return &Cell{} }

func (r *textRenderer) Render(c *Cell) {
	c.Text = cast.ToString(r.value())
}

// ── number ──────────────────────────────────────────────────────────────────

type numberRenderer struct{ field }

func newNumberRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &numberRenderer{field{item, prop, update}}
}

func (r *numberRenderer) Create() *Cell { return &Cell{Align: lipgloss.Right} }

func (r *numberRenderer) Render(c *Cell) {
	v := r.value()
	switch {
	case v == nil:
		c.Text = ""
	case isInteger(v):
		c.Text = humanize.Comma(cast.ToInt64(v))
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			c.Text = cast.ToString(v)
			return
		}
		c.Text = humanize.Commaf(f)
	}
}

// ── bytes ───────────────────────────────────────────────────────────────────

type bytesRenderer struct{ field }

func newBytesRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &bytesRenderer{field{item, prop, update}}
}

func (r *bytesRenderer) Create() *Cell { return &Cell{Align: lipgloss.Right} }

func (r *bytesRenderer) Render(c *Cell) {
	n, err := cast.ToUint64E(r.value())
	if err != nil {
		c.Text = cast.ToString(r.value())
		return
	}
	c.Text = humanize.Bytes(n)
}

// ── time ────────────────────────────────────────────────────────────────────

type timeRenderer struct{ field }

func newTimeRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &timeRenderer{field{item, prop, update}}
}

func (r *timeRenderer) Create() *Cell { return &Cell{} }

func (r *timeRenderer) Render(c *Cell) {
	v := r.value()
	if v == nil {
		c.Text = ""
		return
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		c.Text = cast.ToString(v)
		return
	}
	c.Text = humanize.Time(t)
}

// ── bool ────────────────────────────────────────────────────────────────────

type boolRenderer struct{ field }

func newBoolRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &boolRenderer{field{item, prop, update}}
}

func (r *boolRenderer) Create() *Cell { return &Cell{Align: lipgloss.Center} }

func (r *boolRenderer) Render(c *Cell) {
	if cast.ToBool(r.value()) {
		c.Text = "[x]"
	} else {
		c.Text = "[ ]"
	}
}

// Activate flips the field when the item can be written to.
func (r *boolRenderer) Activate(c *Cell) {
	s, ok := r.item.(Setter)
	if !ok {
		return
	}
	s.SetValue(r.prop, !cast.ToBool(r.value()))
	r.Render(c)
	r.update(true)
}

// ── progress ────────────────────────────────────────────────────────────────

const progressMinWidth = 10

type progressRenderer struct {
	field
	bar progress.Model
}

func newProgressRenderer(item Item, prop string, update UpdateFunc) Renderer {
	return &progressRenderer{
		field: field{item, prop, update},
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (r *progressRenderer) Create() *Cell { return &Cell{MinWidth: progressMinWidth} }

func (r *progressRenderer) Render(c *Cell) {
	pct := cast.ToFloat64(r.value())
	if pct > 1 {
		pct /= 100
	}
	pct = min(max(pct, 0), 1)
	bar := r.bar
	c.Text = fmt.Sprintf("%3.0f%%", pct*100)
	c.Paint = func(width int) string {
		bar.Width = width
		return bar.ViewAs(pct)
	}
}

// Recycle drops the painter so a rebound slot never shows a stale bar.
func (r *progressRenderer) Recycle(c *Cell) {
	c.Paint = nil
	c.Text = ""
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v any) bool {
	if v == nil {
		return false
	}
	if isInteger(v) {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
