package table

import "fmt"

// ItemMeta is the per-item side table entry. It is never stored on the item
// itself; the arena index doubles as the item's handle.
type ItemMeta struct {
	renderers    []Renderer // nil until first built
	selected     bool
	selectedProp string
}

// metaArena owns one ItemMeta per raw item. It is re-issued wholesale
// whenever items are reassigned.
type metaArena struct {
	metas []ItemMeta
}

// reset discards every entry and allocates n fresh ones.
func (a *metaArena) reset(n int) {
	a.metas = make([]ItemMeta, n)
}

// ensure grows the arena to n entries, keeping existing ones.
func (a *metaArena) ensure(n int) {
	for len(a.metas) < n {
		a.metas = append(a.metas, ItemMeta{})
	}
}

// get returns the meta for handle h. Asking for an unregistered handle is a
// programming error.
func (a *metaArena) get(h int) *ItemMeta {
	if h < 0 || h >= len(a.metas) {
		panic(fmt.Sprintf("table: metadata requested for unregistered item handle %d (have %d)", h, len(a.metas)))
	}
	return &a.metas[h]
}

// dropRenderers forgets every cached renderer set.
func (a *metaArena) dropRenderers() {
	for i := range a.metas {
		a.metas[i].renderers = nil
	}
}
