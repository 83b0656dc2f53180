package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	initialDisplay = "0"
	errorDisplay   = "Error"
)

// ErrDivisionByZero is the only evaluation failure. Apply converts it into
// the error latch; it is never returned to callers of Apply.
var ErrDivisionByZero = errors.New("calc: division by zero")

// State is a read-only snapshot of the evaluator.
type State struct {
	Display         string
	Accumulator     *float64 // nil when no left-hand operand is carried
	PendingOperator Operator
	AwaitingOperand bool
	HasError        bool
}

// Evaluation records a binary evaluation performed during one Apply call.
type Evaluation struct {
	Left   float64
	Right  float64
	Op     Operator
	Result float64
	Err    error
}

// Transition is delivered to the listener once per Apply call.
type Transition struct {
	Action    Action
	Before    State
	After     State
	Evaluated *Evaluation
}

// Changed reports whether the action altered any state.
func (t Transition) Changed() bool {
	return !t.Before.equal(t.After)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithListener registers fn to be called after every Apply.
func WithListener(fn func(Transition)) Option {
	return func(e *Evaluator) {
		if fn != nil {
			e.listeners = append(e.listeners, fn)
		}
	}
}

// Evaluator is the calculator state machine. It is not safe for concurrent
// use; the hosting presentation layer owns it exclusively.
type Evaluator struct {
	display         string
	accumulator     float64
	hasAccumulator  bool
	pendingOperator Operator
	awaitingOperand bool
	hasError        bool

	listeners []func(Transition)
	evaluated *Evaluation
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	e.Reset()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Display returns the text to render.
func (e *Evaluator) Display() string { return e.display }

func (e *Evaluator) State() State {
	s := State{
		Display:         e.display,
		PendingOperator: e.pendingOperator,
		AwaitingOperand: e.awaitingOperand,
		HasError:        e.hasError,
	}
	if e.hasAccumulator {
		acc := e.accumulator
		s.Accumulator = &acc
	}
	return s
}

// Reset restores the initial state without notifying listeners.
func (e *Evaluator) Reset() {
	e.display = initialDisplay
	e.accumulator = 0
	e.hasAccumulator = false
	e.pendingOperator = OpNone
	e.awaitingOperand = false
	e.hasError = false
}

// Apply routes a to its handler. Unrecognized actions are no-ops. Listeners
// are notified exactly once per call.
func (e *Evaluator) Apply(a Action) {
	before := e.State()
	e.evaluated = nil

	if a.valid() {
		switch a.Kind {
		case ActionDigit:
			e.inputDigit(a.Digit)
		case ActionDecimal:
			e.inputDecimal()
		case ActionOperator:
			e.performOperator(a.Op)
		case ActionEquals:
			e.finalize()
		case ActionClear:
			e.Reset()
		case ActionToggleSign:
			e.toggleSign()
		case ActionPercent:
			e.percent()
		}
	}

	if len(e.listeners) == 0 {
		e.evaluated = nil
		return
	}
	t := Transition{Action: a, Before: before, After: e.State(), Evaluated: e.evaluated}
	e.evaluated = nil
	for _, fn := range e.listeners {
		fn(t)
	}
}

func (e *Evaluator) inputDigit(d byte) {
	if e.hasError {
		e.Reset()
	}
	next := string(rune(d))
	if !e.awaitingOperand && e.display != initialDisplay {
		next = e.display + next
	}
	// Digits that would push the operand past float64 range are dropped.
	if math.IsInf(ParseDisplay(next), 0) {
		return
	}
	e.display = next
	e.awaitingOperand = false
}

func (e *Evaluator) inputDecimal() {
	if e.hasError {
		e.Reset()
	}
	if e.awaitingOperand {
		e.display = "0."
		e.awaitingOperand = false
		return
	}
	if !strings.Contains(e.display, ".") {
		e.display += "."
	}
}

func (e *Evaluator) performOperator(op Operator) {
	if e.hasError {
		return
	}
	input := ParseDisplay(e.display)

	switch {
	case e.pendingOperator != OpNone && e.awaitingOperand:
		// Two operators in a row: substitute, do not evaluate.
		e.pendingOperator = op
		return
	case !e.hasAccumulator:
		e.setAccumulator(input)
	case e.pendingOperator != OpNone:
		result, ok := e.evaluate(e.accumulator, input, e.pendingOperator)
		if !ok {
			return
		}
		e.setAccumulator(result)
		e.display = Format(result)
	default:
		e.setAccumulator(input)
	}

	e.pendingOperator = op
	e.awaitingOperand = true
}

func (e *Evaluator) finalize() {
	if e.hasError || e.pendingOperator == OpNone || e.awaitingOperand {
		return
	}
	input := ParseDisplay(e.display)
	result, ok := e.evaluate(e.accumulator, input, e.pendingOperator)
	if !ok {
		return
	}
	e.display = Format(result)
	e.accumulator = 0
	e.hasAccumulator = false
	e.pendingOperator = OpNone
	e.awaitingOperand = false
}

func (e *Evaluator) toggleSign() {
	if e.hasError || e.display == initialDisplay {
		return
	}
	e.display = Format(ParseDisplay(e.display) * -1)
}

func (e *Evaluator) percent() {
	if e.hasError {
		return
	}
	value := ParseDisplay(e.display) / 100
	e.display = Format(value)
	if e.pendingOperator == OpNone {
		// Percent of a bare number becomes the new base operand. With an
		// operator staged only the displayed operand is rescaled.
		e.setAccumulator(ParseDisplay(e.display))
	}
}

// evaluate runs the operation and latches the error state on failure.
func (e *Evaluator) evaluate(a, b float64, op Operator) (float64, bool) {
	result, err := Evaluate(a, b, op)
	e.evaluated = &Evaluation{Left: a, Right: b, Op: op, Result: result, Err: err}
	if err != nil {
		e.latchError()
		return 0, false
	}
	return result, true
}

func (e *Evaluator) latchError() {
	e.display = errorDisplay
	e.accumulator = 0
	e.hasAccumulator = false
	e.pendingOperator = OpNone
	e.awaitingOperand = false
	e.hasError = true
}

func (e *Evaluator) setAccumulator(v float64) {
	e.accumulator = v
	e.hasAccumulator = true
}

// Evaluate applies op to a and b.
func Evaluate(a, b float64, op Operator) (float64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}
	return 0, errors.New("calc: unknown operator")
}

// ParseDisplay converts display text to a number. Out of range text keeps
// the rounded value (±Inf or a denormal). The error text and any other
// unparseable input read as zero.
func ParseDisplay(display string) float64 {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}

func (s State) equal(o State) bool {
	if s.Display != o.Display || s.PendingOperator != o.PendingOperator ||
		s.AwaitingOperand != o.AwaitingOperand || s.HasError != o.HasError {
		return false
	}
	if (s.Accumulator == nil) != (o.Accumulator == nil) {
		return false
	}
	return s.Accumulator == nil || *s.Accumulator == *o.Accumulator
}
