package keys

// Default returns a registry holding the global and palette bindings.
// Calculator bindings are registered by the keypad table.
func Default() *Registry {
	r := NewRegistry()

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(ScopeGlobal, ActionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(ScopeGlobal, ActionPalette, []string{"ctrl+k"}, "commands")
	reg(ScopeGlobal, ActionToggleTape, []string{"t"}, "tape")
	reg(ScopeGlobal, ActionToggleClock, []string{"ctrl+t"}, "clock")

	reg(ScopePalette, ActionNavigate, []string{"up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(ScopePalette, ActionSelect, []string{"enter"}, "run")
	reg(ScopePalette, ActionClose, []string{"esc"}, "close")

	return r
}
