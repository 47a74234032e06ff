package table

import (
	"log/slog"
	"time"
)

// Defaults carried over from the browser widget. They are configuration,
// not invariants.
const (
	DefaultRowHeight     = 32
	DefaultMinColumnSize = 45
	DefaultBufferRows    = 1
	DefaultPadding       = 10
	DefaultPreloadBudget = 10 * time.Millisecond
)

type options struct {
	rowHeight                 int
	selectionMode             SelectionMode
	preload                   bool
	preloadBudget             time.Duration
	columnSeparator           int
	disableScrollCompensation bool
	hideHeader                bool
	minColumnSize             int
	padding                   int
	bufferRows                int
	registry                  *Registry
	logger                    *slog.Logger
	onSelectionChanged        func(SelectionChange)
	onItemUpdated             func(Item)
	now                       func() time.Time
}

func defaultOptions() options {
	return options{
		rowHeight:     DefaultRowHeight,
		selectionMode: SelectionRow,
		preload:       true,
		preloadBudget: DefaultPreloadBudget,
		minColumnSize: DefaultMinColumnSize,
		padding:       DefaultPadding,
		bufferRows:    DefaultBufferRows,
		now:           time.Now,
	}
}

// Option configures a Table.
type Option func(*options)

// WithRowHeight sets the height of every row.
func WithRowHeight(h int) Option {
	return func(o *options) { o.rowHeight = max(h, 1) }
}

// WithSelectionMode sets row or multi-row selection.
func WithSelectionMode(m SelectionMode) Option {
	return func(o *options) { o.selectionMode = m }
}

// WithPreload enables idle-time renderer construction.
func WithPreload(on bool) Option {
	return func(o *options) { o.preload = on }
}

// WithPreloadBudget bounds each preload slice.
func WithPreloadBudget(d time.Duration) Option {
	return func(o *options) { o.preloadBudget = d }
}

// WithColumnSeparator sets the width drawn between columns.
func WithColumnSeparator(w int) Option {
	return func(o *options) { o.columnSeparator = max(w, 0) }
}

// WithDisableScrollCompensation ignores wheel deltas as a scroll hint, for
// surfaces that apply scrolling before the frame runs.
func WithDisableScrollCompensation(on bool) Option {
	return func(o *options) { o.disableScrollCompensation = on }
}

// WithHideHeader hides the header row.
func WithHideHeader(on bool) Option {
	return func(o *options) { o.hideHeader = on }
}

// WithMinColumnSize sets the column width floor.
func WithMinColumnSize(n int) Option {
	return func(o *options) { o.minColumnSize = max(n, 1) }
}

// WithPadding sets the fixed horizontal padding subtracted from the width.
func WithPadding(n int) Option {
	return func(o *options) { o.padding = max(n, 0) }
}

// WithBufferRows sets the extra rows kept beyond the viewport.
func WithBufferRows(n int) Option {
	return func(o *options) { o.bufferRows = max(n, 0) }
}

// WithRegistry sets the renderer registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnSelectionChanged registers the selection-changed observer.
func WithOnSelectionChanged(fn func(SelectionChange)) Option {
	return func(o *options) { o.onSelectionChanged = fn }
}

// WithOnItemUpdated registers the item-updated observer.
func WithOnItemUpdated(fn func(Item)) Option {
	return func(o *options) { o.onItemUpdated = fn }
}

// WithClock replaces time.Now for preload slicing.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
