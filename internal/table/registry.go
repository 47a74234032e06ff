package table

import (
	"log/slog"
	"sort"
)

// DefaultKind is the renderer kind unknown kinds fall back to.
const DefaultKind = "text"

// Registry maps renderer kind names to factories. Each table owns one.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding only the text kind.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(DefaultKind, Factory{New: newTextRenderer})
	return r
}

// DefaultRegistry returns a fresh registry with every built-in kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("number", Factory{New: newNumberRenderer})
	r.Register("bytes", Factory{New: newBytesRenderer})
	r.Register("time", Factory{New: newTimeRenderer})
	r.Register("bool", Factory{New: newBoolRenderer, FixedSize: true})
	r.Register("progress", Factory{New: newProgressRenderer, FixedSize: true})
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	if f.New == nil {
		panic("table: renderer factory " + name + " has no constructor")
	}
	r.factories[name] = f
}

// Lookup returns the factory for name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered kinds in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// resolve validates kinds, substituting DefaultKind for unknown names.
// It never fails; each substitution is logged.
func (r *Registry) resolve(kinds []string, log *slog.Logger) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		if _, ok := r.factories[k]; ok {
			out[i] = k
			continue
		}
		log.Warn("invalid renderer assigned to column, using text renderer instead",
			"column", i,
			"renderer", k,
		)
		out[i] = DefaultKind
	}
	return out
}
