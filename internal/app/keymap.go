package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Akashdeep-Patra/zippy-table/internal/config"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/components"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/views"
)

// KeyMap defines the global keybindings. Everything else belongs to the
// table view.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Filter key.Binding
	Reload key.Binding
	Back   key.Binding
}

// NewKeyMap builds the global bindings from configuration.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		Quit:   views.Binding(kb.Quit, "quit"),
		Help:   views.Binding(kb.Help, "help"),
		Filter: views.Binding(kb.Filter, "filter"),
		Reload: views.Binding(kb.Reload, "reload"),
		Back:   views.Binding(kb.Back, "close / clear filter"),
	}
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.DefaultKeyBindings())
}

func (k KeyMap) section() components.HelpSection {
	var entries []components.HelpEntry
	for _, b := range []key.Binding{k.Filter, k.Reload, k.Back, k.Help, k.Quit} {
		if b.Enabled() {
			entries = append(entries, views.HelpEntry(b))
		}
	}
	return components.HelpSection{Title: "General", Entries: entries}
}
