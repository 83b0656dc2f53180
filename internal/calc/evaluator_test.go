package calc

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func applyAll(e *Evaluator, actions ...Action) {
	for _, a := range actions {
		e.Apply(a)
	}
}

func digits(s string) []Action {
	out := make([]Action, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, Decimal())
			continue
		}
		out = append(out, Digit(s[i]))
	}
	return out
}

func TestNewStartsAtZero(t *testing.T) {
	e := New()
	s := e.State()
	if s.Display != "0" {
		t.Fatalf("display = %q, want %q", s.Display, "0")
	}
	if s.Accumulator != nil || s.PendingOperator != OpNone || s.AwaitingOperand || s.HasError {
		t.Fatalf("unexpected initial state %+v", s)
	}
}

func TestDigitEntrySuppressesLeadingZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0"},
		{in: "000", want: "0"},
		{in: "007", want: "7"},
		{in: "120", want: "120"},
		{in: "9876543210", want: "9876543210"},
	}
	for _, tc := range tests {
		e := New()
		applyAll(e, digits(tc.in)...)
		if got := e.Display(); got != tc.want {
			t.Fatalf("digits %q display = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecimalIsIdempotent(t *testing.T) {
	e := New()
	applyAll(e, Digit('3'), Decimal())
	if got := e.Display(); got != "3." {
		t.Fatalf("display = %q, want %q", got, "3.")
	}
	e.Apply(Decimal())
	if got := e.Display(); got != "3." {
		t.Fatalf("second decimal display = %q, want %q", got, "3.")
	}
	applyAll(e, Digit('1'), Decimal(), Digit('4'))
	if got := e.Display(); got != "3.14" {
		t.Fatalf("display = %q, want %q", got, "3.14")
	}
}

func TestDecimalStartsFreshOperandAfterOperator(t *testing.T) {
	e := New()
	applyAll(e, Digit('7'), Op(OpAdd), Decimal())
	if got := e.Display(); got != "0." {
		t.Fatalf("display = %q, want %q", got, "0.")
	}
	if e.State().AwaitingOperand {
		t.Fatal("expected awaiting flag to clear after decimal")
	}
}

func TestAddThenEquals(t *testing.T) {
	e := New()
	applyAll(e, Digit('5'), Op(OpAdd), Digit('3'), Equals())
	s := e.State()
	if s.Display != "8" {
		t.Fatalf("display = %q, want %q", s.Display, "8")
	}
	if s.Accumulator != nil || s.PendingOperator != OpNone || s.AwaitingOperand {
		t.Fatalf("chain not resolved: %+v", s)
	}
}

func TestChainedOperatorsEvaluateLeftToRight(t *testing.T) {
	e := New()
	applyAll(e, Digit('2'), Op(OpAdd), Digit('3'), Op(OpMultiply))
	if got := e.Display(); got != "5" {
		t.Fatalf("intermediate display = %q, want %q", got, "5")
	}
	applyAll(e, Digit('4'), Equals())
	if got := e.Display(); got != "20" {
		t.Fatalf("display = %q, want %q", got, "20")
	}
}

func TestOperatorSubstitution(t *testing.T) {
	e := New()
	applyAll(e, Digit('9'), Op(OpAdd))
	before := e.State()
	e.Apply(Op(OpMultiply))
	after := e.State()
	if after.PendingOperator != OpMultiply {
		t.Fatalf("pending = %q, want %q", after.PendingOperator, OpMultiply)
	}
	if before.Accumulator == nil || after.Accumulator == nil || *after.Accumulator != *before.Accumulator {
		t.Fatalf("accumulator changed: before=%v after=%v", before.Accumulator, after.Accumulator)
	}
	if after.Display != "9" {
		t.Fatalf("display = %q, want %q", after.Display, "9")
	}
	applyAll(e, Digit('2'), Equals())
	if got := e.Display(); got != "18" {
		t.Fatalf("display = %q, want %q", got, "18")
	}
}

func TestEqualsNoOps(t *testing.T) {
	e := New()
	applyAll(e, Digit('4'), Equals())
	if got := e.Display(); got != "4" {
		t.Fatalf("equals without operator display = %q, want %q", got, "4")
	}

	applyAll(e, Op(OpSubtract), Equals())
	s := e.State()
	if s.Display != "4" || s.PendingOperator != OpSubtract || !s.AwaitingOperand {
		t.Fatalf("equals while awaiting operand changed state: %+v", s)
	}
}

func TestDigitAfterEqualsAppendsToResult(t *testing.T) {
	e := New()
	applyAll(e, Digit('5'), Op(OpAdd), Digit('3'), Equals(), Digit('2'))
	if got := e.Display(); got != "82" {
		t.Fatalf("display = %q, want %q", got, "82")
	}
}

func TestOperatorAfterEqualsStartsNewChain(t *testing.T) {
	e := New()
	applyAll(e, Digit('6'), Op(OpMultiply), Digit('7'), Equals(), Op(OpSubtract), Digit('2'), Equals())
	if got := e.Display(); got != "40" {
		t.Fatalf("display = %q, want %q", got, "40")
	}
}

func TestDivisionByZeroLatchesError(t *testing.T) {
	e := New()
	applyAll(e, Digit('6'), Op(OpDivide), Digit('0'), Equals())
	s := e.State()
	if s.Display != "Error" || !s.HasError {
		t.Fatalf("state = %+v, want latched error", s)
	}
	if s.Accumulator != nil || s.PendingOperator != OpNone || s.AwaitingOperand {
		t.Fatalf("error latch left operands behind: %+v", s)
	}
}

func TestDivisionByZeroDuringChaining(t *testing.T) {
	e := New()
	applyAll(e, Digit('6'), Op(OpDivide), Digit('0'), Op(OpAdd))
	s := e.State()
	if s.Display != "Error" || !s.HasError || s.PendingOperator != OpNone {
		t.Fatalf("state = %+v, want latched error without new operator", s)
	}
}

func TestErrorLatchIgnoresNonEntryActions(t *testing.T) {
	e := New()
	applyAll(e, Digit('1'), Op(OpDivide), Digit('0'), Equals())
	latched := e.State()
	for _, a := range []Action{Op(OpAdd), Equals(), ToggleSign(), Percent()} {
		e.Apply(a)
		if s := e.State(); !s.equal(latched) {
			t.Fatalf("%s changed latched state to %+v", a, s)
		}
	}
}

func TestErrorClearedByDigitDecimalOrClear(t *testing.T) {
	latch := func() *Evaluator {
		e := New()
		applyAll(e, Digit('1'), Op(OpDivide), Digit('0'), Equals())
		return e
	}

	e := latch()
	e.Apply(Digit('7'))
	if s := e.State(); s.Display != "7" || s.HasError {
		t.Fatalf("digit recovery state = %+v", s)
	}

	e = latch()
	e.Apply(Decimal())
	if s := e.State(); s.Display != "0." || s.HasError {
		t.Fatalf("decimal recovery state = %+v", s)
	}

	e = latch()
	e.Apply(Clear())
	if s := e.State(); s.Display != "0" || s.HasError {
		t.Fatalf("clear recovery state = %+v", s)
	}
}

func TestToggleSign(t *testing.T) {
	e := New()
	e.Apply(ToggleSign())
	if got := e.Display(); got != "0" {
		t.Fatalf("toggle at zero display = %q, want %q", got, "0")
	}

	applyAll(e, Digit('1'), Digit('2'), ToggleSign())
	if got := e.Display(); got != "-12" {
		t.Fatalf("display = %q, want %q", got, "-12")
	}
	e.Apply(ToggleSign())
	if got := e.Display(); got != "12" {
		t.Fatalf("display = %q, want %q", got, "12")
	}
}

func TestToggleSignLeavesOperandsAlone(t *testing.T) {
	e := New()
	applyAll(e, Digit('8'), Op(OpSubtract), Digit('3'), ToggleSign())
	s := e.State()
	if s.Display != "-3" || s.PendingOperator != OpSubtract || s.Accumulator == nil || *s.Accumulator != 8 {
		t.Fatalf("state = %+v", s)
	}
	e.Apply(Equals())
	if got := e.Display(); got != "11" {
		t.Fatalf("display = %q, want %q", got, "11")
	}
}

func TestPercentWithoutPendingOperator(t *testing.T) {
	e := New()
	applyAll(e, Digit('5'), Digit('0'), Percent())
	s := e.State()
	if s.Display != "0.5" {
		t.Fatalf("display = %q, want %q", s.Display, "0.5")
	}
	if s.Accumulator == nil || *s.Accumulator != 0.5 {
		t.Fatalf("accumulator = %v, want 0.5", s.Accumulator)
	}
}

func TestPercentWithPendingOperatorRescalesOperandOnly(t *testing.T) {
	e := New()
	applyAll(e, Digit('2'), Digit('0'), Digit('0'), Op(OpAdd), Digit('1'), Digit('0'), Percent())
	s := e.State()
	if s.Display != "0.1" {
		t.Fatalf("display = %q, want %q", s.Display, "0.1")
	}
	if s.Accumulator == nil || *s.Accumulator != 200 {
		t.Fatalf("accumulator = %v, want 200", s.Accumulator)
	}
	e.Apply(Equals())
	if got := e.Display(); got != "200.1" {
		t.Fatalf("display = %q, want %q", got, "200.1")
	}
}

func TestOperatorAfterPercentUsesDisplayedValue(t *testing.T) {
	e := New()
	applyAll(e, Digit('5'), Digit('0'), Percent(), Op(OpMultiply), Digit('4'), Equals())
	if got := e.Display(); got != "2" {
		t.Fatalf("display = %q, want %q", got, "2")
	}
}

func TestFloatNoiseIsTrimmed(t *testing.T) {
	e := New()
	applyAll(e, digits(".1")...)
	e.Apply(Op(OpAdd))
	applyAll(e, digits(".2")...)
	e.Apply(Equals())
	if got := e.Display(); got != "0.3" {
		t.Fatalf("display = %q, want %q", got, "0.3")
	}
}

func TestLongOperandStaysInRange(t *testing.T) {
	e := New()
	for i := 0; i < 400; i++ {
		e.Apply(Digit('9'))
	}
	got := e.Display()
	if len(got) != 308 || strings.Trim(got, "9") != "" {
		t.Fatalf("display has %d chars, want 308 nines", len(got))
	}
	if v := ParseDisplay(got); math.IsInf(v, 0) || v < 9.9e307 {
		t.Fatalf("ParseDisplay(display) = %v, want about 1e308", v)
	}

	applyAll(e, Op(OpAdd), Digit('1'), Equals())
	if got := ParseDisplay(e.Display()); got != 1e308 {
		t.Fatalf("result = %v, want 1e308", got)
	}
	if e.State().HasError {
		t.Fatal("long operand should not latch an error")
	}
}

func TestParseDisplayKeepsOutOfRangeValues(t *testing.T) {
	if got := ParseDisplay("4e-320"); got <= 0 {
		t.Fatalf("ParseDisplay(4e-320) = %v, want a denormal", got)
	}
	if got := ParseDisplay("1" + strings.Repeat("0", 400)); !math.IsInf(got, 1) {
		t.Fatalf("ParseDisplay(1e400) = %v, want +Inf", got)
	}
	if got := ParseDisplay("Error"); got != 0 {
		t.Fatalf("ParseDisplay(Error) = %v, want 0", got)
	}
}

func TestUnknownActionsAreNoOps(t *testing.T) {
	e := New()
	applyAll(e, Digit('4'), Op(OpAdd))
	before := e.State()
	for _, a := range []Action{{}, Digit('x'), Op(Operator('^')), {Kind: ActionKind(99)}} {
		e.Apply(a)
	}
	if after := e.State(); !after.equal(before) {
		t.Fatalf("state changed from %+v to %+v", before, after)
	}
}

func TestListenerNotifiedOncePerApply(t *testing.T) {
	var got []Transition
	e := New(WithListener(func(tr Transition) { got = append(got, tr) }))

	applyAll(e, Digit('6'), Op(OpDivide), Digit('3'), Equals(), ToggleSign(), Op(OpAdd), Op(OpDivide))
	if len(got) != 7 {
		t.Fatalf("transitions = %d, want 7", len(got))
	}

	eq := got[3]
	if eq.Evaluated == nil {
		t.Fatal("expected evaluation on equals")
	}
	if eq.Evaluated.Left != 6 || eq.Evaluated.Right != 3 || eq.Evaluated.Op != OpDivide || eq.Evaluated.Result != 2 {
		t.Fatalf("evaluation = %+v", *eq.Evaluated)
	}
	if eq.Before.Display != "3" || eq.After.Display != "2" {
		t.Fatalf("before/after display = %q/%q", eq.Before.Display, eq.After.Display)
	}
	if got[0].Evaluated != nil {
		t.Fatal("digit entry should not report an evaluation")
	}
	if !got[6].Changed() {
		t.Fatal("operator substitution should report a change")
	}
}

func TestListenerSeesDivisionByZero(t *testing.T) {
	var last Transition
	e := New(WithListener(func(tr Transition) { last = tr }))
	applyAll(e, Digit('6'), Op(OpDivide), Digit('0'), Equals())
	if last.Evaluated == nil || !errors.Is(last.Evaluated.Err, ErrDivisionByZero) {
		t.Fatalf("evaluation = %+v, want division by zero", last.Evaluated)
	}
	if !last.After.HasError {
		t.Fatal("expected after state to be latched")
	}

	e.Apply(Percent())
	if last.Changed() {
		t.Fatal("percent while latched should not change state")
	}
	if last.Evaluated != nil {
		t.Fatal("no evaluation expected for ignored action")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		a, b float64
		op   Operator
		want float64
	}{
		{a: 2, b: 3, op: OpAdd, want: 5},
		{a: 2, b: 3, op: OpSubtract, want: -1},
		{a: 2, b: 3, op: OpMultiply, want: 6},
		{a: 3, b: 2, op: OpDivide, want: 1.5},
	}
	for _, tc := range tests {
		got, err := Evaluate(tc.a, tc.b, tc.op)
		if err != nil {
			t.Fatalf("Evaluate(%v, %v, %q): %v", tc.a, tc.b, tc.op, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%v, %v, %q) = %v, want %v", tc.a, tc.b, tc.op, got, tc.want)
		}
	}
	if _, err := Evaluate(1, 0, OpDivide); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("err = %v, want ErrDivisionByZero", err)
	}
}
