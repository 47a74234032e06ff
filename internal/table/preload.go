package table

import "time"

// preloadMargin is kept free at the end of every slice.
const preloadMargin = 2 * time.Millisecond

// PreloadTask builds renderers for off-screen items in idle slices. It is
// tied to the items generation it was started for and stops as soon as the
// table's items are replaced.
type PreloadTask struct {
	t     *Table
	gen   uint64
	next  int
	built int
}

// Step builds renderers until budget is spent and reports whether work
// remains. At least one item is built per step so a tiny budget still
// makes progress.
func (p *PreloadTask) Step(budget time.Duration) bool {
	if p.Stale() {
		return false
	}
	deadline := p.t.opts.now().Add(budget - preloadMargin)
	for p.next < len(p.t.items) {
		if m := p.t.metas.get(p.next); m.renderers == nil {
			p.t.cache.build(p.next, p.t.items[p.next], m)
			p.built++
		}
		p.next++
		if !p.t.opts.now().Before(deadline) {
			break
		}
	}
	return p.next < len(p.t.items)
}

// Stale reports whether the items changed since the task started.
func (p *PreloadTask) Stale() bool { return p.gen != p.t.generation }

// Built is the number of renderer sets this task created.
func (p *PreloadTask) Built() int { return p.built }
