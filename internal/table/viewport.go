package table

// Viewport coalesces scroll and wheel signals into at most one recycling
// pass per frame.
type Viewport struct {
	pending    bool
	wheelDelta int
	lastScroll int
}

// Signal records a scroll or wheel event. It returns true when the caller
// must schedule a frame; signals that arrive while a frame is pending are
// dropped.
func (v *Viewport) Signal(wheelDelta int) bool {
	if v.pending {
		return false
	}
	v.pending = true
	v.wheelDelta = wheelDelta
	return true
}

// Pending reports whether a frame has been requested and not yet run.
func (v *Viewport) Pending() bool { return v.pending }

// take consumes the pending signal against the current scroll offset and
// returns the direction of travel and the scroll compensation hint. The
// wheel delta's sign wins over the scroll difference.
func (v *Viewport) take(scroll int, compensate bool) (up bool, delta int) {
	v.pending = false
	if v.wheelDelta != 0 {
		up = v.wheelDelta < 0
		if compensate {
			delta = v.wheelDelta
		}
	} else {
		up = scroll-v.lastScroll < 0
	}
	v.wheelDelta = 0
	v.lastScroll = scroll + delta
	return up, delta
}

// reset forgets the last scroll position, after a jump or a resize.
func (v *Viewport) reset(scroll int) {
	v.lastScroll = scroll
}
