package table

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spf13/cast"
)

// Direction is a sort rule's direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortRule orders items by one prop.
type SortRule struct {
	Prop string
	Dir  Direction
}

// SortState is where a column sits in the unset → asc → desc cycle.
type SortState int

const (
	Unsorted SortState = iota
	SortedAscending
	SortedDescending
)

// Filter keeps the items it returns true for.
type Filter func(Item) bool

// Pipeline derives the display order from the raw items.
//
// With no sort rules and no filter the display order is the raw order and
// nothing is materialised. Otherwise order holds handles (raw indices) and
// members holds the same handles as a bitmap.
type Pipeline struct {
	items  []Item
	rules  []SortRule
	filter Filter

	order   []int
	pos     []int // handle → display index, -1 when filtered out
	members *roaring.Bitmap
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{members: roaring.New()}
}

// Reset points the pipeline at a new raw items list.
func (p *Pipeline) Reset(items []Item) {
	p.items = items
}

// Active reports whether sorting or filtering is in effect.
func (p *Pipeline) Active() bool {
	return len(p.rules) > 0 || p.filter != nil
}

// Derive rebuilds the display order from the raw items: sort, then filter.
func (p *Pipeline) Derive() {
	p.members.Clear()
	if !p.Active() {
		p.order = nil
		p.pos = nil
		p.members.AddRange(0, uint64(len(p.items)))
		return
	}

	order := make([]int, len(p.items))
	for i := range order {
		order[i] = i
	}
	if len(p.rules) > 0 {
		slices.SortStableFunc(order, p.compare)
	}
	if p.filter != nil {
		kept := order[:0]
		for _, h := range order {
			if p.filter(p.items[h]) {
				kept = append(kept, h)
			}
		}
		order = kept
	}

	p.order = order
	p.pos = make([]int, len(p.items))
	for i := range p.pos {
		p.pos[i] = -1
	}
	for i, h := range order {
		p.pos[h] = i
		p.members.Add(uint32(h))
	}
}

// Len is the display order length.
func (p *Pipeline) Len() int {
	if !p.Active() {
		return len(p.items)
	}
	return len(p.order)
}

// At returns the handle at display index i.
func (p *Pipeline) At(i int) int {
	if !p.Active() {
		return i
	}
	return p.order[i]
}

// IndexOf returns the display index of handle h, or -1.
func (p *Pipeline) IndexOf(h int) int {
	if h < 0 || h >= len(p.items) {
		return -1
	}
	if !p.Active() {
		return h
	}
	if p.pos == nil {
		return -1
	}
	return p.pos[h]
}

// Members returns the handles currently in the display order.
func (p *Pipeline) Members() *roaring.Bitmap { return p.members }

// Rules returns a copy of the sort rules.
func (p *Pipeline) Rules() []SortRule { return slices.Clone(p.rules) }

// State returns prop's position in the sort cycle.
func (p *Pipeline) State(prop string) SortState {
	for _, r := range p.rules {
		if r.Prop == prop {
			if r.Dir == Descending {
				return SortedDescending
			}
			return SortedAscending
		}
	}
	return Unsorted
}

// ToggleSort advances prop through unset → ascending → descending → unset.
// New rules are appended and so break ties of the existing ones.
func (p *Pipeline) ToggleSort(prop string) SortState {
	for i, r := range p.rules {
		if r.Prop != prop {
			continue
		}
		if r.Dir == Ascending {
			p.rules[i].Dir = Descending
			return SortedDescending
		}
		p.rules = slices.Delete(p.rules, i, i+1)
		return Unsorted
	}
	p.rules = append(p.rules, SortRule{Prop: prop, Dir: Ascending})
	return SortedAscending
}

// SetRules replaces all sort rules.
func (p *Pipeline) SetRules(rules []SortRule) {
	p.rules = slices.Clone(rules)
}

// ResetSort removes every sort rule.
func (p *Pipeline) ResetSort() { p.rules = nil }

// SetFilter replaces the filter; nil removes it.
func (p *Pipeline) SetFilter(f Filter) { p.filter = f }

// Filter returns the current filter.
func (p *Pipeline) Filter() Filter { return p.filter }

func (p *Pipeline) compare(a, b int) int {
	ia, ib := p.items[a], p.items[b]
	for _, r := range p.rules {
		c := compareValues(ia.Value(r.Prop), ib.Value(r.Prop))
		if c == 0 {
			continue
		}
		if r.Dir == Descending {
			return -c
		}
		return c
	}
	return 0
}

// compareValues is a three-way comparison: numbers numerically, times
// chronologically, everything else as strings. nil sorts first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if isInteger(a) && isInteger(b) {
		return compareIntegers(reflect.ValueOf(a), reflect.ValueOf(b))
	}
	if isNumber(a) && isNumber(b) {
		return cmp.Compare(cast.ToFloat64(a), cast.ToFloat64(b))
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}

// compareIntegers compares any two integer kinds exactly. Floats lose
// precision above 2^53.
func compareIntegers(a, b reflect.Value) int {
	aNeg := a.CanInt() && a.Int() < 0
	bNeg := b.CanInt() && b.Int() < 0
	switch {
	case aNeg && bNeg:
		return cmp.Compare(a.Int(), b.Int())
	case aNeg:
		return -1
	case bNeg:
		return 1
	}
	return cmp.Compare(magnitude(a), magnitude(b))
}

func magnitude(v reflect.Value) uint64 {
	if v.CanInt() {
		return uint64(v.Int())
	}
	return v.Uint()
}
