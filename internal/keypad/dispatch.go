package keypad

import (
	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/keys"
)

// Applier receives calculator actions. *calc.Evaluator satisfies it.
type Applier interface {
	Apply(calc.Action)
}

// Dispatcher translates raw input into calculator actions. It never touches
// evaluator state other than through Apply.
type Dispatcher struct {
	keys   *keys.Registry
	target Applier
}

func NewDispatcher(reg *keys.Registry, target Applier) *Dispatcher {
	return &Dispatcher{keys: reg, target: target}
}

// Press applies the action of button id. It reports whether id was known.
func (d *Dispatcher) Press(id string) bool {
	action, ok := ActionFor(id)
	if !ok {
		return false
	}
	d.target.Apply(action)
	return true
}

// ButtonForKey resolves a key name to a calculator button id.
func (d *Dispatcher) ButtonForKey(keyName string) (string, bool) {
	if d.keys == nil {
		return "", false
	}
	b := d.keys.Lookup(keyName, keys.ScopeCalculator)
	if b == nil || len(b.Scopes) == 0 || b.Scopes[0] != keys.ScopeCalculator {
		return "", false
	}
	if _, ok := Lookup(string(b.Action)); !ok {
		return "", false
	}
	return string(b.Action), true
}

// HandleKey applies the action bound to keyName in the calculator scope.
func (d *Dispatcher) HandleKey(keyName string) bool {
	id, ok := d.ButtonForKey(keyName)
	if !ok {
		return false
	}
	return d.Press(id)
}
