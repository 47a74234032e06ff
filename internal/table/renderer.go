package table

import "github.com/charmbracelet/lipgloss"

// Cell is the visual primitive a renderer creates once per slot and column
// and then rewrites every time the slot's bound item changes.
type Cell struct {
	Text  string
	Style lipgloss.Style
	Align lipgloss.Position

	// Paint, when set, draws the cell at an exact width instead of Text.
	Paint func(width int) string

	// MinWidth is the measured width used for painted cells.
	MinWidth int
}

// Width is the cell's measured content width in terminal cells.
func (c *Cell) Width() int {
	return max(lipgloss.Width(c.Text), c.MinWidth)
}

// Renderer converts one item field into a Cell.
type Renderer interface {
	// Create returns a fresh primitive for a slot that has never shown
	// this column.
	Create() *Cell
	// Render writes the current item data into c.
	Render(c *Cell)
}

// Recycler is an optional Renderer capability, invoked before a slot is
// rebound away from the renderer's item.
type Recycler interface {
	Recycle(c *Cell)
}

// Activator is an optional Renderer capability for interactive cells
// (enter / double-click on the selected cell).
type Activator interface {
	Activate(c *Cell)
}

// UpdateFunc is handed to every renderer. Calling it reports that the
// renderer changed its item; refresh re-runs the display pipeline.
type UpdateFunc func(refresh bool)

// Factory builds renderers of one kind.
type Factory struct {
	New func(item Item, prop string, update UpdateFunc) Renderer

	// FixedSize forces explicit column sizing regardless of content.
	FixedSize bool
}
