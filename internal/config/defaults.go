package config

// KeyBindings maps table actions to keys. Each action may have several
// keys; the first one is shown in help.
type KeyBindings struct {
	Quit           []string `mapstructure:"quit"`
	Help           []string `mapstructure:"help"`
	Up             []string `mapstructure:"up"`
	Down           []string `mapstructure:"down"`
	PageUp         []string `mapstructure:"page_up"`
	PageDown       []string `mapstructure:"page_down"`
	Top            []string `mapstructure:"top"`
	Bottom         []string `mapstructure:"bottom"`
	Left           []string `mapstructure:"left"`
	Right          []string `mapstructure:"right"`
	Select         []string `mapstructure:"select"`
	Toggle         []string `mapstructure:"toggle"`
	Extend         []string `mapstructure:"extend"`
	ClearSelection []string `mapstructure:"clear_selection"`
	Activate       []string `mapstructure:"activate"`
	Sort           []string `mapstructure:"sort"`
	ResetSort      []string `mapstructure:"reset_sort"`
	Narrow         []string `mapstructure:"narrow"`
	Widen          []string `mapstructure:"widen"`
	ResetWidths    []string `mapstructure:"reset_widths"`
	Filter         []string `mapstructure:"filter"`
	Reload         []string `mapstructure:"reload"`
	Back           []string `mapstructure:"back"`
}

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Quit:           []string{"q", "ctrl+c"},
		Help:           []string{"?"},
		Up:             []string{"k", "up"},
		Down:           []string{"j", "down"},
		PageUp:         []string{"pgup", "ctrl+u"},
		PageDown:       []string{"pgdown", "ctrl+d"},
		Top:            []string{"g", "home"},
		Bottom:         []string{"G", "end"},
		Left:           []string{"h", "left"},
		Right:          []string{"l", "right"},
		Select:         []string{" "},
		Toggle:         []string{"v"},
		Extend:         []string{"V"},
		ClearSelection: []string{"c"},
		Activate:       []string{"enter"},
		Sort:           []string{"s"},
		ResetSort:      []string{"S"},
		Narrow:         []string{"<"},
		Widen:          []string{">"},
		ResetWidths:    []string{"0"},
		Filter:         []string{"/"},
		Reload:         []string{"r", "ctrl+r"},
		Back:           []string{"esc"},
	}
}

// entries lists the bindings by config key.
func (k KeyBindings) entries() map[string][]string {
	return map[string][]string{
		"quit":            k.Quit,
		"help":            k.Help,
		"up":              k.Up,
		"down":            k.Down,
		"page_up":         k.PageUp,
		"page_down":       k.PageDown,
		"top":             k.Top,
		"bottom":          k.Bottom,
		"left":            k.Left,
		"right":           k.Right,
		"select":          k.Select,
		"toggle":          k.Toggle,
		"extend":          k.Extend,
		"clear_selection": k.ClearSelection,
		"activate":        k.Activate,
		"sort":            k.Sort,
		"reset_sort":      k.ResetSort,
		"narrow":          k.Narrow,
		"widen":           k.Widen,
		"reset_widths":    k.ResetWidths,
		"filter":          k.Filter,
		"reload":          k.Reload,
		"back":            k.Back,
	}
}
