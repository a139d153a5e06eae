package calculator

import (
	"errors"
	"math"
	"strconv"
)

// Compute evaluates previousOperand <operation> currentOperand and returns
// the result as a decimal string. It returns "" when either operand does not
// parse or no operation is set; callers treat "" as "no result".
//
// Division and remainder by zero are not errors: the IEEE 754 result is
// formatted as-is ("+Inf", "-Inf", "NaN").
func Compute(s State) string {
	prev, ok := parseOperand(s.PreviousOperand)
	if !ok {
		return ""
	}
	cur, ok := parseOperand(s.CurrentOperand)
	if !ok {
		return ""
	}

	var result float64
	switch s.Operation {
	case OpAdd:
		result = prev + cur
	case OpSubtract:
		result = prev - cur
	case OpMultiply:
		result = prev * cur
	case OpDivide:
		result = prev / cur
	case OpRemainder:
		result = math.Mod(prev, cur)
	default:
		return ""
	}

	return FormatResult(result)
}

// FormatResult formats v with the fewest digits that round-trip, never in
// exponent form. Negative zero is written as "0".
func FormatResult(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseOperand(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	// Overlong operands saturate to ±Inf rather than failing.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
