// Package table is a virtualized, sortable, filterable, selectable table
// engine. It keeps a fixed pool of row slots and recycles them as the
// viewport moves, so the cost of drawing is independent of the number of
// items. The engine is host-agnostic: a Surface supplies the viewport and
// scroll offset, and the host draws Slots however it likes.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cast"
)

var (
	// ErrInvalidScrollTarget is returned by ScrollTo for anything that is
	// neither a raw index in range nor an Item.
	ErrInvalidScrollTarget = errors.New("invalid scroll target")
	// ErrItemNotFound is returned by ScrollTo for an item not in the list.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotDisplayed is returned by ScrollTo for an item the filter hides.
	ErrNotDisplayed = errors.New("item is not in the display order")
	// ErrColumnMismatch is returned when column lists differ in length.
	ErrColumnMismatch = errors.New("column headers, props and renderers differ in length")
)

// Surface is the host the table is displayed on.
type Surface interface {
	// Size is the body area available for rows.
	Size() (width, height int)
	ScrollOffset() int
	SetScrollOffset(offset int)
	SetContentHeight(height int)
}

// Table wires the display pipeline, selection store, row pool, viewport
// controller and renderer cache together.
type Table struct {
	surface Surface
	opts    options
	log     *slog.Logger

	headers []string
	props   []string
	kinds   []string
	sizes   map[string]ColumnSize
	widths  []Width

	items      []Item
	metas      metaArena
	generation uint64

	cache     *RendererCache
	pipeline  *Pipeline
	selection *Selection
	pool      *Pool
	viewport  Viewport
	preload   *PreloadTask
}

// New returns an empty table drawn on surface.
func New(surface Surface, opts ...Option) *Table {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	t := &Table{
		surface:   surface,
		opts:      o,
		log:       o.logger,
		sizes:     make(map[string]ColumnSize),
		pipeline:  NewPipeline(),
		selection: NewSelection(),
		pool:      NewPool(o.rowHeight),
	}
	t.cache = &RendererCache{registry: o.registry, onUpdate: t.onItemUpdate}
	return t
}

// ── configuration ───────────────────────────────────────────────────────────

// SetColumns replaces the column definition. kinds may be nil, in which
// case every column uses the text renderer; unknown kinds fall back to it.
func (t *Table) SetColumns(headers, props, kinds []string) error {
	if kinds == nil {
		kinds = make([]string, len(headers))
		for i := range kinds {
			kinds[i] = DefaultKind
		}
	}
	if len(headers) != len(props) || len(headers) != len(kinds) {
		return fmt.Errorf("%w: %d headers, %d props, %d renderers",
			ErrColumnMismatch, len(headers), len(props), len(kinds))
	}

	t.releaseAll()
	t.headers = slices.Clone(headers)
	t.props = slices.Clone(props)
	t.kinds = t.opts.registry.resolve(kinds, t.log)
	t.cache.configure(t.props, t.kinds)
	t.metas.dropRenderers()
	t.pool.resetCells(t)

	t.layoutColumns()
	t.reflow(true)
	return nil
}

// SetItems replaces the raw items wholesale. All item metadata is
// re-issued and the selection is cleared.
func (t *Table) SetItems(items []Item) {
	t.releaseAll()
	t.clearSelection()

	t.items = slices.Clone(items)
	t.metas.reset(len(t.items))
	t.generation++
	t.pipeline.Reset(t.items)
	t.derive()
	t.reflow(true)

	t.preload = nil
	if t.opts.preload && t.pool.Len() > 0 && t.pool.Len() < len(t.items) {
		t.preload = &PreloadTask{t: t, gen: t.generation, next: t.pool.Len()}
	}
	t.log.Debug("items assigned",
		"count", len(t.items),
		"generation", t.generation,
		"slots", t.pool.Len(),
	)
}

// Refresh re-derives the display order from the raw items and repopulates
// every slot. Call it after mutating items in place.
func (t *Table) Refresh() {
	t.releaseAll()
	t.metas.ensure(len(t.items))
	t.derive()
	t.reflow(false)
}

// ── display pipeline ────────────────────────────────────────────────────────

// SetFilter replaces the filter; nil shows every item. Selected items the
// new filter hides are deselected.
func (t *Table) SetFilter(f Filter) {
	t.pipeline.SetFilter(f)
	t.Refresh()
}

// ToggleSort cycles prop through unset → ascending → descending → unset.
func (t *Table) ToggleSort(prop string) SortState {
	state := t.pipeline.ToggleSort(prop)
	t.Refresh()
	return state
}

// SetSortRules replaces every sort rule.
func (t *Table) SetSortRules(rules []SortRule) {
	t.pipeline.SetRules(rules)
	t.Refresh()
}

// ResetSort removes every sort rule.
func (t *Table) ResetSort() {
	t.pipeline.ResetSort()
	t.Refresh()
}

// SortRules returns the active sort rules.
func (t *Table) SortRules() []SortRule { return t.pipeline.Rules() }

// SortState returns prop's sort state.
func (t *Table) SortState(prop string) SortState { return t.pipeline.State(prop) }

func (t *Table) derive() {
	t.pipeline.Derive()
	for _, h := range t.selection.Retain(t.pipeline.Members()) {
		m := t.metas.get(h)
		m.selected = false
		m.selectedProp = ""
	}
}

// ── viewport ────────────────────────────────────────────────────────────────

// Scroll records a scroll (wheelDelta == 0) or wheel signal. It returns
// true when the host must call Frame on its next display frame.
func (t *Table) Scroll(wheelDelta int) bool {
	return t.viewport.Signal(wheelDelta)
}

// Frame runs the pending recycling pass, if any.
func (t *Table) Frame() bool {
	if !t.viewport.Pending() {
		return false
	}
	up, delta := t.viewport.take(t.surface.ScrollOffset(), !t.opts.disableScrollCompensation)
	t.recycleTowards(up, delta)
	return true
}

// Resize recomputes column widths and pool size after the surface changed
// size, and re-packs the slots into canonical order.
func (t *Table) Resize() {
	t.layoutColumns()
	t.reflow(true)
}

// ScrollTo scrolls so the target is the first visible row. target is a raw
// item index of any integer type, or an Item.
func (t *Table) ScrollTo(target any) error {
	var h int
	switch v := target.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToIntE(v)
		if err != nil || i < 0 || i >= len(t.items) {
			return fmt.Errorf("%w: index %v not in [0,%d)", ErrInvalidScrollTarget, v, len(t.items))
		}
		h = i
	case Item:
		h = t.handleOf(v)
		if h < 0 {
			return ErrItemNotFound
		}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidScrollTarget, target)
	}
	i := t.pipeline.IndexOf(h)
	if i < 0 {
		return ErrNotDisplayed
	}

	prev := t.surface.ScrollOffset()
	t.surface.SetScrollOffset(i * t.opts.rowHeight)
	t.clampScroll()
	now := t.surface.ScrollOffset()
	t.viewport.reset(now)
	t.recycleTowards(now < prev, 0)
	return nil
}

// recycleTowards runs one recycling pass. delta anticipates scrolling the
// surface has not reported yet.
func (t *Table) recycleTowards(up bool, delta int) {
	_, height := t.surface.Size()
	scroll := t.surface.ScrollOffset() + delta
	if limit := t.contentHeight() - height; scroll > limit {
		scroll = limit
	}
	if scroll < 0 {
		scroll = 0
	}
	t.pool.recycle(up, scroll, height, t)
}

// reflow brings the pool in line with the current display order.
func (t *Table) reflow(repack bool) {
	t.surface.SetContentHeight(t.contentHeight())
	t.clampScroll()
	grew := t.pool.grow(t.poolSize(), t)
	if repack || grew {
		t.pool.repack(t)
	}
	t.viewport.reset(t.surface.ScrollOffset())
	t.recycleTowards(true, 0)
	t.recycleTowards(false, 0)
	t.pool.populateUnbound(t)
}

func (t *Table) clampScroll() {
	_, height := t.surface.Size()
	limit := max(t.contentHeight()-height, 0)
	s := t.surface.ScrollOffset()
	if c := min(max(s, 0), limit); c != s {
		t.surface.SetScrollOffset(c)
	}
}

func (t *Table) poolSize() int {
	_, height := t.surface.Size()
	return PoolSize(height, t.opts.rowHeight, t.opts.bufferRows)
}

func (t *Table) contentHeight() int { return t.pipeline.Len() * t.opts.rowHeight }

// ── binder ──────────────────────────────────────────────────────────────────

func (t *Table) displayLen() int  { return t.pipeline.Len() }
func (t *Table) columnCount() int { return len(t.headers) }

// populate binds s to the item at its index, or hides it when the index is
// out of range. Hiding is the normal outcome while the display order is
// shorter than the pool.
func (t *Table) populate(s *Slot) {
	if s.Index < 0 || s.Index >= t.pipeline.Len() {
		s.Hidden = true
		s.Highlighted = false
		s.handle = -1
		return
	}
	h := t.pipeline.At(s.Index)
	m := t.metas.get(h)
	s.Hidden = false
	s.handle = h
	s.Highlighted = m.selected
	t.cache.build(h, t.items[h], m)
	t.cache.paint(m, s.Cells)
}

// release yields s's item back to its renderers before s is rebound.
func (t *Table) release(s *Slot) {
	if s.handle < 0 {
		return
	}
	if s.handle < len(t.metas.metas) {
		t.cache.recycle(t.metas.get(s.handle), s.Cells)
	}
	s.handle = -1
}

func (t *Table) releaseAll() {
	for _, s := range t.pool.slots {
		t.release(s)
	}
}

// ── selection ───────────────────────────────────────────────────────────────

// Click applies a click on display index i over the column prop. It
// returns false when i is not in the display order.
func (t *Table) Click(i int, prop string, mods Modifiers) bool {
	if i < 0 || i >= t.pipeline.Len() {
		return false
	}
	switch {
	case t.opts.selectionMode != SelectionMultiRow:
		t.clearSelection()
		t.setSelected(i, true, prop)
	case mods.Range:
		t.selectRange(i, prop)
	case mods.Toggle:
		on := !t.metas.get(t.pipeline.At(i)).selected
		t.setSelected(i, on, prop)
	default:
		t.clearSelection()
		t.setSelected(i, true, prop)
	}
	t.emitSelection()
	return true
}

// SelectIndex replaces the selection with display index i.
func (t *Table) SelectIndex(i int, prop string) bool {
	return t.Click(i, prop, Modifiers{})
}

// ClearSelection deselects every item, including off-screen ones.
func (t *Table) ClearSelection() {
	t.clearSelection()
	t.emitSelection()
}

// selectRange walks from the anchor to target. When target is already
// selected the walk deselects, but never target itself.
func (t *Table) selectRange(target int, prop string) {
	anchor := 0
	if h, ok := t.selection.First(); ok {
		if a := t.pipeline.IndexOf(h); a >= 0 {
			anchor = a
		}
	}
	deselect := t.metas.get(t.pipeline.At(target)).selected
	step := 1
	if target < anchor {
		step = -1
	}
	for i := anchor; ; i += step {
		if deselect && i != target {
			t.setSelected(i, false, "")
		} else {
			t.setSelected(i, true, prop)
		}
		if i == target {
			break
		}
	}
}

// setSelected updates the store, the meta and the visible slot together.
func (t *Table) setSelected(i int, on bool, prop string) {
	h := t.pipeline.At(i)
	m := t.metas.get(h)
	if on {
		m.selected = true
		m.selectedProp = prop
		t.selection.Add(h)
	} else {
		m.selected = false
		m.selectedProp = ""
		t.selection.Remove(h)
	}
	if s := t.pool.slotAt(i); s != nil {
		s.Highlighted = on
	}
}

func (t *Table) clearSelection() {
	for _, s := range t.pool.slots {
		s.Highlighted = false
	}
	for _, h := range t.selection.Clear() {
		m := t.metas.get(h)
		m.selected = false
		m.selectedProp = ""
	}
}

func (t *Table) emitSelection() {
	if t.opts.onSelectionChanged == nil {
		return
	}
	t.opts.onSelectionChanged(SelectionChange{
		Items: t.SelectedItems(),
		Item:  t.SelectedItem(),
		Cell:  t.SelectedCell(),
	})
}

// SelectedItems returns the selected items in selection order.
func (t *Table) SelectedItems() []Item {
	hs := t.selection.Handles()
	out := make([]Item, len(hs))
	for i, h := range hs {
		out[i] = t.items[h]
	}
	return out
}

// SelectedItem is the most recently selected item, or nil.
func (t *Table) SelectedItem() Item {
	h, ok := t.selection.Last()
	if !ok {
		return nil
	}
	return t.items[h]
}

// SelectedCell is the value and prop recorded for the primary selected
// item, or nil when no cell was under the pointer.
func (t *Table) SelectedCell() *CellRef {
	h, ok := t.selection.Last()
	if !ok {
		return nil
	}
	m := t.metas.get(h)
	if m.selectedProp == "" {
		return nil
	}
	return &CellRef{Value: t.items[h].Value(m.selectedProp), Prop: m.selectedProp}
}

// IsSelected reports whether display index i is selected.
func (t *Table) IsSelected(i int) bool {
	if i < 0 || i >= t.pipeline.Len() {
		return false
	}
	return t.selection.Has(t.pipeline.At(i))
}

// ── columns ─────────────────────────────────────────────────────────────────

// SetColumnSize fixes header's width. Columns to its left without a record
// keep their current width as a preferred size.
func (t *Table) SetColumnSize(header string, size float64) bool {
	if !slices.Contains(t.headers, header) {
		return false
	}
	size = max(size, float64(t.opts.minColumnSize))
	for i, h := range t.headers {
		rec, ok := t.sizes[h]
		if !ok {
			w := 0.0
			if i < len(t.widths) {
				w = t.widths[i].Px
			}
			rec = ColumnSize{Size: w, DefaultSize: w, Kind: SizePreferred}
		}
		if h == header {
			if !ok {
				rec.DefaultSize = size
			}
			rec.Kind = SizeExplicit
			rec.Size = size
			t.sizes[h] = rec
			break
		}
		t.sizes[h] = rec
	}
	t.layoutColumns()
	return true
}

// ResetColumnSizes drops every size record.
func (t *Table) ResetColumnSizes() {
	t.sizes = make(map[string]ColumnSize)
	t.layoutColumns()
}

// ColumnSizes returns a copy of the size records.
func (t *Table) ColumnSizes() map[string]ColumnSize {
	out := make(map[string]ColumnSize, len(t.sizes))
	for k, v := range t.sizes {
		out[k] = v
	}
	return out
}

// Probe measures one off-screen row built from sizer and seeds the column
// size records from it. Fixed-size renderer kinds become explicit.
func (t *Table) Probe(sizer Item) {
	n := len(t.headers)
	if n == 0 || sizer == nil {
		return
	}
	rs := t.cache.construct(-1, sizer)
	measured := make([]float64, n)
	total := 0.0
	for i, r := range rs {
		c := r.Create()
		r.Render(c)
		m := float64(c.Width())
		if i < n-1 {
			m += float64(t.opts.padding)
		}
		measured[i] = m
		total += m
	}

	content := float64(t.contentWidth())
	floor := float64(t.opts.minColumnSize)
	for i, h := range t.headers {
		fixed := t.cache.fixedSize(i)
		size := measured[i]
		if !fixed && total > 0 {
			size = measured[i] / total * content
		}
		size = max(size, floor)
		kind := SizePreferred
		if fixed {
			kind = SizeExplicit
		}
		t.sizes[h] = ColumnSize{Size: size, DefaultSize: size, Kind: kind}
	}
	t.layoutColumns()
}

func (t *Table) layoutColumns() {
	w, _ := t.surface.Size()
	t.widths = Allocate(t.headers, t.sizes, float64(w), float64(t.fixedPadding()), float64(t.opts.minColumnSize))
}

func (t *Table) fixedPadding() int {
	return t.opts.padding + t.opts.columnSeparator*max(len(t.headers)-1, 0)
}

func (t *Table) contentWidth() int {
	w, _ := t.surface.Size()
	return max(w-t.fixedPadding(), 0)
}

// ColumnWidths returns the allocated widths.
func (t *Table) ColumnWidths() []Width { return slices.Clone(t.widths) }

// ColumnCells returns the allocated widths in whole cells.
func (t *Table) ColumnCells() []int { return Cells(t.widths, t.contentWidth()) }

// ── renderers ───────────────────────────────────────────────────────────────

// Activate triggers the interactive renderer of column prop for display
// index i. It reports whether that renderer is interactive.
func (t *Table) Activate(i int, prop string) bool {
	col := slices.Index(t.props, prop)
	if i < 0 || i >= t.pipeline.Len() || col < 0 {
		return false
	}
	h := t.pipeline.At(i)
	m := t.metas.get(h)
	t.cache.build(h, t.items[h], m)
	act, ok := m.renderers[col].(Activator)
	if !ok {
		return false
	}
	var c *Cell
	if s := t.pool.slotAt(i); s != nil && s.handle == h {
		c = s.Cells[col]
	}
	if c == nil {
		c = m.renderers[col].Create()
	}
	act.Activate(c)
	return true
}

func (t *Table) onItemUpdate(h int, refresh bool) {
	if h < 0 || h >= len(t.items) {
		return
	}
	item := t.items[h]
	if refresh {
		t.Refresh()
	}
	if t.opts.onItemUpdated != nil {
		t.opts.onItemUpdated(item)
	}
}

// Preload returns the idle-time renderer task for the current items, or
// nil when preloading is off or has nothing to do.
func (t *Table) Preload() *PreloadTask { return t.preload }

// PreloadBudget is the configured time budget per preload slice.
func (t *Table) PreloadBudget() time.Duration { return t.opts.preloadBudget }

// ── accessors ───────────────────────────────────────────────────────────────

// Slots returns the pooled rows for drawing.
func (t *Table) Slots() []*Slot { return t.pool.Slots() }

// Headers returns the column headers.
func (t *Table) Headers() []string { return t.headers }

// Props returns the column props.
func (t *Table) Props() []string { return t.props }

// Kinds returns the resolved renderer kinds.
func (t *Table) Kinds() []string { return t.kinds }

// Items returns the raw items.
func (t *Table) Items() []Item { return t.items }

// Len is the number of raw items.
func (t *Table) Len() int { return len(t.items) }

// DisplayLen is the length of the display order.
func (t *Table) DisplayLen() int { return t.pipeline.Len() }

// DisplayItem returns the item at display index i.
func (t *Table) DisplayItem(i int) Item { return t.items[t.pipeline.At(i)] }

// RowHeight is the configured row height.
func (t *Table) RowHeight() int { return t.opts.rowHeight }

// HideHeader reports whether the header row is hidden.
func (t *Table) HideHeader() bool { return t.opts.hideHeader }

// ColumnSeparator is the configured separator width.
func (t *Table) ColumnSeparator() int { return t.opts.columnSeparator }

// Padding is the configured horizontal padding.
func (t *Table) Padding() int { return t.opts.padding }

// ScrollCompensation reports whether frames recycle ahead of pending wheel
// scrolling.
func (t *Table) ScrollCompensation() bool { return !t.opts.disableScrollCompensation }

// SelectionMode is the configured selection mode.
func (t *Table) SelectionMode() SelectionMode { return t.opts.selectionMode }

// Generation changes every time items are reassigned.
func (t *Table) Generation() uint64 { return t.generation }

func (t *Table) handleOf(item Item) int {
	for h, it := range t.items {
		if sameItem(it, item) {
			return h
		}
	}
	return -1
}
