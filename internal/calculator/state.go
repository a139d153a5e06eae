// Package calculator implements the input reducer of a sequential
// two-operand calculator: a State value and the Actions that move it.
package calculator

import "strings"

// Operation is a pending binary operator. The zero value means none.
type Operation string

const (
	OpNone      Operation = ""
	OpAdd       Operation = "+"
	OpSubtract  Operation = "-"
	OpMultiply  Operation = "*"
	OpDivide    Operation = "/"
	OpRemainder Operation = "%"
)

// ParseOperation accepts the ASCII operator symbols and the glyphs shown on
// the keypad.
func ParseOperation(s string) (Operation, bool) {
	switch strings.TrimSpace(s) {
	case "+":
		return OpAdd, true
	case "-", "−":
		return OpSubtract, true
	case "*", "×", "x", "X":
		return OpMultiply, true
	case "/", "÷":
		return OpDivide, true
	case "%":
		return OpRemainder, true
	}
	return OpNone, false
}

// Valid reports whether o is one of the five supported operators.
func (o Operation) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpRemainder:
		return true
	}
	return false
}

// State is the calculator's input record. It is a plain value: every
// transition returns a new State and never mutates its argument.
type State struct {
	CurrentOperand  string    `json:"current_operand"`
	PreviousOperand string    `json:"previous_operand"`
	Operation       Operation `json:"operation"`
	// Overwrite is set right after an evaluation; the next digit starts a
	// fresh operand instead of appending to the result.
	Overwrite bool `json:"overwrite"`
}

// Pending reports whether s holds a complete binary operation that
// Compute can evaluate.
func (s State) Pending() bool {
	return s.Operation != OpNone && s.CurrentOperand != "" && s.PreviousOperand != ""
}

// Equation renders the pending operation as "prev op cur".
func (s State) Equation() string {
	return s.PreviousOperand + " " + string(s.Operation) + " " + s.CurrentOperand
}
