package table

// Slot is one pooled, reusable visual row.
type Slot struct {
	Offset      int // distance from the top of the content
	Index       int // display index; may be out of range, then Hidden
	Cells       []*Cell
	Hidden      bool
	Highlighted bool

	handle int // bound item handle, -1 when unbound
}

// Bound reports whether the slot currently shows an item.
func (s *Slot) Bound() bool { return s.handle >= 0 }

// binder is the part of the table the pool calls back into.
type binder interface {
	displayLen() int
	populate(s *Slot)
	release(s *Slot)
	columnCount() int
}

// Pool is the fixed set of slots. Slot i is always bound to an index
// congruent to i modulo the pool size, so slots can be recycled with index
// arithmetic instead of rebuilding the visible window.
type Pool struct {
	slots     []*Slot
	rowHeight int
}

// NewPool returns an empty pool for rows of rowHeight.
func NewPool(rowHeight int) *Pool {
	return &Pool{rowHeight: max(rowHeight, 1)}
}

// PoolSize is ceil(viewportHeight/rowHeight) + bufferRows, rounded up to
// even so recycled slots keep their zebra parity.
func PoolSize(viewportHeight, rowHeight, bufferRows int) int {
	rowHeight = max(rowHeight, 1)
	n := (max(viewportHeight, 0)+rowHeight-1)/rowHeight + bufferRows
	if n%2 != 0 {
		n++
	}
	return n
}

// Len is the number of slots.
func (p *Pool) Len() int { return len(p.slots) }

// Slots exposes the slots for drawing.
func (p *Pool) Slots() []*Slot { return p.slots }

// grow appends slots at the next free indices until there are n. The pool
// never shrinks; surplus slots are hidden instead. It reports whether any
// slot was added.
func (p *Pool) grow(n int, b binder) bool {
	if len(p.slots) >= n {
		return false
	}
	next := 0
	for _, s := range p.slots {
		next = max(next, s.Index+1)
	}
	for len(p.slots) < n {
		s := &Slot{
			Index:  next,
			Offset: next * p.rowHeight,
			Cells:  make([]*Cell, b.columnCount()),
			handle: -1,
		}
		p.slots = append(p.slots, s)
		b.populate(s)
		next++
	}
	return true
}

// repack releases every slot and rebinds slot i to display index i.
func (p *Pool) repack(b binder) {
	for i, s := range p.slots {
		b.release(s)
		s.Index = i
		s.Offset = i * p.rowHeight
	}
}

// resetCells forgets every created cell, for when the columns change.
func (p *Pool) resetCells(b binder) {
	for _, s := range p.slots {
		b.release(s)
		s.Cells = make([]*Cell, b.columnCount())
	}
}

// recycle moves slots that scrolled past the trailing edge to the leading
// edge, one pool-width at a time, for a viewport of height at scroll.
func (p *Pool) recycle(up bool, scroll, height int, b binder) {
	n := len(p.slots)
	span := n * p.rowHeight
	length := b.displayLen()
	for _, s := range p.slots {
		moved := false
		if !up {
			for s.Offset+p.rowHeight < scroll && s.Index+n < length {
				b.release(s)
				s.Offset += span
				s.Index += n
				moved = true
			}
		} else {
			for s.Offset > scroll+height && s.Index-n >= 0 {
				b.release(s)
				s.Offset -= span
				s.Index -= n
				moved = true
			}
		}
		if moved {
			b.populate(s)
		}
	}
}

// slotAt returns the slot bound to display index i, or nil.
func (p *Pool) slotAt(i int) *Slot {
	for _, s := range p.slots {
		if s.Index == i && !s.Hidden {
			return s
		}
	}
	return nil
}

// populateUnbound fills every slot that lost its item.
func (p *Pool) populateUnbound(b binder) {
	for _, s := range p.slots {
		if !s.Bound() {
			b.populate(s)
		}
	}
}
