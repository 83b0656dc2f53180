// Package keypad declares the calculator buttons as a static table and
// routes button presses and key names into the evaluator.
package keypad

import (
	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/keys"
)

// Class groups buttons for styling.
type Class string

const (
	ClassDigit    Class = "digit"
	ClassOperator Class = "operator"
	ClassFunction Class = "function"
	ClassEquals   Class = "equals"
)

// Button is one keypad entry. Span is the number of grid columns it covers.
type Button struct {
	ID       string
	Label    string
	Class    Class
	Keys     []string
	Help     string
	Span     int
	Operator calc.Operator
	Action   func() calc.Action
}

const Columns = 4

func digit(d byte) Button {
	return Button{
		ID:     "digit_" + string(rune(d)),
		Label:  string(rune(d)),
		Class:  ClassDigit,
		Keys:   []string{string(rune(d))},
		Span:   1,
		Action: func() calc.Action { return calc.Digit(d) },
	}
}

func operator(id string, op calc.Operator, help string, extra ...string) Button {
	return Button{
		ID:       id,
		Label:    op.Symbol(),
		Class:    ClassOperator,
		Keys:     append([]string{op.String()}, extra...),
		Help:     help,
		Span:     1,
		Operator: op,
		Action:   func() calc.Action { return calc.Op(op) },
	}
}

var layout = [][]Button{
	{
		{ID: "clear", Label: "C", Class: ClassFunction, Keys: []string{"c", "C", "esc", "delete"}, Help: "clear", Span: 1, Action: calc.Clear},
		{ID: "toggle_sign", Label: "±", Class: ClassFunction, Keys: []string{"n", "_"}, Help: "sign", Span: 1, Action: calc.ToggleSign},
		{ID: "percent", Label: "%", Class: ClassFunction, Keys: []string{"%"}, Help: "percent", Span: 1, Action: calc.Percent},
		operator("divide", calc.OpDivide, "divide"),
	},
	{digit('7'), digit('8'), digit('9'), operator("multiply", calc.OpMultiply, "multiply", "x")},
	{digit('4'), digit('5'), digit('6'), operator("subtract", calc.OpSubtract, "subtract")},
	{digit('1'), digit('2'), digit('3'), operator("add", calc.OpAdd, "add")},
	{
		withSpan(digit('0'), 2),
		{ID: "decimal", Label: ".", Class: ClassDigit, Keys: []string{".", ","}, Span: 1, Action: calc.Decimal},
		{ID: "equals", Label: "=", Class: ClassEquals, Keys: []string{"=", "enter"}, Help: "equals", Span: 1, Action: calc.Equals},
	},
}

var byID = indexLayout()

func withSpan(b Button, span int) Button {
	b.Span = span
	return b
}

func indexLayout() map[string]Button {
	out := make(map[string]Button)
	for _, row := range layout {
		for _, b := range row {
			out[b.ID] = b
		}
	}
	return out
}

// Layout returns the button rows top to bottom.
func Layout() [][]Button {
	out := make([][]Button, len(layout))
	for i, row := range layout {
		out[i] = append([]Button(nil), row...)
	}
	return out
}

func Lookup(id string) (Button, bool) {
	b, ok := byID[id]
	return b, ok
}

// ActionFor builds the action for button id.
func ActionFor(id string) (calc.Action, bool) {
	b, ok := byID[id]
	if !ok || b.Action == nil {
		return calc.Action{}, false
	}
	return b.Action(), true
}

// ButtonForOperator returns the operator button for op.
func ButtonForOperator(op calc.Operator) (Button, bool) {
	for _, row := range layout {
		for _, b := range row {
			if b.Class == ClassOperator && b.Operator == op {
				return b, true
			}
		}
	}
	return Button{}, false
}

// RegisterBindings adds one calculator-scope binding per button, using the
// button id as the binding action.
func RegisterBindings(r *keys.Registry) {
	for _, row := range layout {
		for _, b := range row {
			r.Register(keys.Binding{
				Action: keys.Action(b.ID),
				Keys:   b.Keys,
				Help:   b.Help,
				Scopes: []string{keys.ScopeCalculator},
			})
		}
	}
}
