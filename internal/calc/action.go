package calc

// Operator is a staged binary operation.
type Operator byte

const (
	OpNone     Operator = 0
	OpAdd      Operator = '+'
	OpSubtract Operator = '-'
	OpMultiply Operator = '*'
	OpDivide   Operator = '/'
)

// Valid reports whether op is one of the four arithmetic operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

func (op Operator) String() string {
	if !op.Valid() {
		return ""
	}
	return string(rune(op))
}

// Symbol is the glyph shown on the keypad and tape.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	}
	return ""
}

// ActionKind identifies what an Action does.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionDigit
	ActionDecimal
	ActionOperator
	ActionEquals
	ActionClear
	ActionToggleSign
	ActionPercent
)

var actionKindNames = map[ActionKind]string{
	ActionUnknown:    "unknown",
	ActionDigit:      "digit",
	ActionDecimal:    "decimal",
	ActionOperator:   "operator",
	ActionEquals:     "equals",
	ActionClear:      "clear",
	ActionToggleSign: "toggle_sign",
	ActionPercent:    "percent",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Action is one discrete user input.
type Action struct {
	Kind  ActionKind
	Digit byte
	Op    Operator
}

func Digit(d byte) Action   { return Action{Kind: ActionDigit, Digit: d} }
func Decimal() Action       { return Action{Kind: ActionDecimal} }
func Op(op Operator) Action { return Action{Kind: ActionOperator, Op: op} }
func Equals() Action        { return Action{Kind: ActionEquals} }
func Clear() Action         { return Action{Kind: ActionClear} }
func ToggleSign() Action    { return Action{Kind: ActionToggleSign} }
func Percent() Action       { return Action{Kind: ActionPercent} }

func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return "digit(" + string(rune(a.Digit)) + ")"
	case ActionOperator:
		return "operator(" + a.Op.String() + ")"
	}
	return a.Kind.String()
}

func (a Action) valid() bool {
	switch a.Kind {
	case ActionDigit:
		return a.Digit >= '0' && a.Digit <= '9'
	case ActionOperator:
		return a.Op.Valid()
	case ActionDecimal, ActionEquals, ActionClear, ActionToggleSign, ActionPercent:
		return true
	}
	return false
}
