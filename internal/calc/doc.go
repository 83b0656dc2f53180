// Package calc contains the calculator evaluation state machine.
//
// Allowed here:
// - operand entry, operator staging/chaining, equals, unary transforms
// - result formatting and the division-by-zero error latch
//
// Not allowed here:
// - rendering, key handling, logging or storage; observers attach through
//   WithListener and receive one Transition per Apply call
package calc
