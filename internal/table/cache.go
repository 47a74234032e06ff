package table

// RendererCache lazily builds one renderer per column for each item and
// drives the create/render/recycle cycle against a slot's cells.
type RendererCache struct {
	registry *Registry
	props    []string
	kinds    []string

	// onUpdate is called when a renderer reports a change to its item.
	onUpdate func(h int, refresh bool)
}

// configure sets the columns renderers are built for. kinds must already
// be resolved against the registry.
func (rc *RendererCache) configure(props, kinds []string) {
	if len(props) != len(kinds) {
		panic("table: column props and renderer kinds differ in length")
	}
	rc.props = props
	rc.kinds = kinds
}

// build creates m's renderers if they are missing.
func (rc *RendererCache) build(h int, item Item, m *ItemMeta) {
	if m.renderers != nil {
		return
	}
	m.renderers = rc.construct(h, item)
}

// construct returns a new renderer set without touching any meta.
func (rc *RendererCache) construct(h int, item Item) []Renderer {
	rs := make([]Renderer, len(rc.kinds))
	for i, kind := range rc.kinds {
		f, ok := rc.registry.Lookup(kind)
		if !ok {
			f, _ = rc.registry.Lookup(DefaultKind)
		}
		rs[i] = f.New(item, rc.props[i], func(refresh bool) {
			if rc.onUpdate != nil {
				rc.onUpdate(h, refresh)
			}
		})
	}
	return rs
}

// fixedSize reports whether column i uses a fixed-size renderer kind.
func (rc *RendererCache) fixedSize(i int) bool {
	f, ok := rc.registry.Lookup(rc.kinds[i])
	return ok && f.FixedSize
}

// paint creates any missing cells and renders every column into cells.
func (rc *RendererCache) paint(m *ItemMeta, cells []*Cell) {
	for i, r := range m.renderers {
		if i >= len(cells) {
			break
		}
		if cells[i] == nil {
			cells[i] = r.Create()
		}
		r.Render(cells[i])
	}
}

// recycle hands cells back to m's renderers before the slot is rebound.
// Cells that were never created are skipped.
func (rc *RendererCache) recycle(m *ItemMeta, cells []*Cell) {
	for i, r := range m.renderers {
		if i >= len(cells) || cells[i] == nil {
			continue
		}
		if rec, ok := r.(Recycler); ok {
			rec.Recycle(cells[i])
		}
	}
}
