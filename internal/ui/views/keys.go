package views

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Akashdeep-Patra/zippy-table/internal/config"
	"github.com/Akashdeep-Patra/zippy-table/internal/ui/components"
)

// TableKeyMap holds the bindings the table view handles itself.
type TableKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Left           key.Binding
	Right          key.Binding
	Select         key.Binding
	Toggle         key.Binding
	Extend         key.Binding
	ClearSelection key.Binding
	Activate       key.Binding
	Sort           key.Binding
	ResetSort      key.Binding
	Narrow         key.Binding
	Widen          key.Binding
	ResetWidths    key.Binding
}

// NewTableKeyMap builds the view's bindings from configuration.
func NewTableKeyMap(kb config.KeyBindings) TableKeyMap {
	return TableKeyMap{
		Up:             Binding(kb.Up, "up"),
		Down:           Binding(kb.Down, "down"),
		PageUp:         Binding(kb.PageUp, "page up"),
		PageDown:       Binding(kb.PageDown, "page down"),
		Top:            Binding(kb.Top, "top"),
		Bottom:         Binding(kb.Bottom, "bottom"),
		Left:           Binding(kb.Left, "column left"),
		Right:          Binding(kb.Right, "column right"),
		Select:         Binding(kb.Select, "select row"),
		Toggle:         Binding(kb.Toggle, "toggle row"),
		Extend:         Binding(kb.Extend, "select range"),
		ClearSelection: Binding(kb.ClearSelection, "clear selection"),
		Activate:       Binding(kb.Activate, "activate cell"),
		Sort:           Binding(kb.Sort, "sort column"),
		ResetSort:      Binding(kb.ResetSort, "reset sort"),
		Narrow:         Binding(kb.Narrow, "narrow column"),
		Widen:          Binding(kb.Widen, "widen column"),
		ResetWidths:    Binding(kb.ResetWidths, "reset widths"),
	}
}

// Binding makes a key.Binding whose help shows the first key.
func Binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(KeyLabel(keys[0]), desc))
}

// KeyLabel is how a key is shown in help.
func KeyLabel(k string) string {
	switch k {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	}
	return k
}

// HelpEntry converts a binding into a help entry.
func HelpEntry(b key.Binding) components.HelpEntry {
	h := b.Help()
	return components.HelpEntry{Key: h.Key, Desc: h.Desc}
}

// Sections groups the bindings for the help overlay.
func (k TableKeyMap) Sections() []components.HelpSection {
	return []components.HelpSection{
		{Title: "Navigation", Entries: entries(k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Left, k.Right)},
		{Title: "Selection", Entries: append(entries(k.Select, k.Toggle, k.Extend, k.ClearSelection, k.Activate),
			components.HelpEntry{Key: "click", Desc: "select row"},
			components.HelpEntry{Key: "ctrl/alt+click", Desc: "toggle row"},
			components.HelpEntry{Key: "shift+click", Desc: "select range"},
		)},
		{Title: "Columns", Entries: append(entries(k.Sort, k.ResetSort, k.Narrow, k.Widen, k.ResetWidths),
			components.HelpEntry{Key: "click header", Desc: "sort column"},
			components.HelpEntry{Key: "drag header", Desc: "resize column"},
		)},
	}
}

func entries(bs ...key.Binding) []components.HelpEntry {
	out := make([]components.HelpEntry, 0, len(bs))
	for _, b := range bs {
		if b.Enabled() {
			out = append(out, HelpEntry(b))
		}
	}
	return out
}
