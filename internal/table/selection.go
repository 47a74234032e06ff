package table

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// SelectionMode decides how clicks change the selection.
type SelectionMode string

const (
	SelectionRow      SelectionMode = "row"
	SelectionMultiRow SelectionMode = "multi-row"
)

// ParseSelectionMode accepts "row" (or "") and "multi-row".
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(s) {
	case "", SelectionRow:
		return SelectionRow, nil
	case SelectionMultiRow:
		return SelectionMultiRow, nil
	}
	return SelectionRow, fmt.Errorf("unknown selection mode %q", s)
}

// Modifiers are the keyboard modifiers held during a click.
type Modifiers struct {
	Toggle bool // ctrl/cmd
	Range  bool // shift
}

// CellRef identifies the selected cell of the primary selected item.
type CellRef struct {
	Value any
	Prop  string
}

// SelectionChange is emitted after every click.
type SelectionChange struct {
	Items []Item
	Item  Item
	Cell  *CellRef
}

// Selection is an insertion-ordered set of item handles. Insertion order
// drives range anchoring and the primary item.
type Selection struct {
	order   []int
	members *roaring.Bitmap
}

// NewSelection returns an empty store.
func NewSelection() *Selection {
	return &Selection{members: roaring.New()}
}

// Add appends h; it reports false if h was already selected.
func (s *Selection) Add(h int) bool {
	if !s.members.CheckedAdd(uint32(h)) {
		return false
	}
	s.order = append(s.order, h)
	return true
}

// Remove drops h; it reports false if h was not selected.
func (s *Selection) Remove(h int) bool {
	if !s.members.CheckedRemove(uint32(h)) {
		return false
	}
	if i := slices.Index(s.order, h); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// Has reports membership.
func (s *Selection) Has(h int) bool { return s.members.Contains(uint32(h)) }

// Len is the number of selected handles.
func (s *Selection) Len() int { return len(s.order) }

// Handles returns the selected handles in selection order.
func (s *Selection) Handles() []int { return slices.Clone(s.order) }

// First is the earliest-selected handle.
func (s *Selection) First() (int, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[0], true
}

// Last is the most recently selected handle.
func (s *Selection) Last() (int, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[len(s.order)-1], true
}

// Clear empties the store and returns what was selected.
func (s *Selection) Clear() []int {
	was := s.order
	s.order = nil
	s.members.Clear()
	return was
}

// Retain removes every handle not in keep and returns the removed ones in
// selection order.
func (s *Selection) Retain(keep *roaring.Bitmap) []int {
	gone := roaring.AndNot(s.members, keep)
	if gone.IsEmpty() {
		return nil
	}
	var removed []int
	kept := s.order[:0]
	for _, h := range s.order {
		if gone.Contains(uint32(h)) {
			removed = append(removed, h)
			continue
		}
		kept = append(kept, h)
	}
	s.order = kept
	s.members.AndNot(gone)
	return removed
}
