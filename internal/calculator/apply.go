package calculator

import "strings"

// Apply returns the state that results from a on s. It is total: actions
// that cannot apply leave the state unchanged.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case AddDigit:
		return addDigit(s, a.Digit)
	case ChooseOperation:
		return chooseOperation(s, a.Op)
	case Clear:
		return State{}
	case Delete:
		return deleteLast(s)
	case Evaluate:
		return evaluate(s)
	}
	return s
}

func isDigit(d byte) bool {
	return d == '.' || (d >= '0' && d <= '9')
}

func addDigit(s State, d byte) State {
	if !isDigit(d) {
		return s
	}
	if s.Overwrite {
		s.CurrentOperand = string(d)
		s.Overwrite = false
		return s
	}
	if d == '0' && s.CurrentOperand == "0" {
		return s
	}
	if d == '.' && strings.Contains(s.CurrentOperand, ".") {
		return s
	}
	s.CurrentOperand += string(d)
	return s
}

func chooseOperation(s State, op Operation) State {
	if !op.Valid() {
		return s
	}

	switch {
	case s.CurrentOperand == "":
		// Nothing typed yet: the operator is held (or replaced) until an
		// operand exists.
		s.Operation = op
	case s.PreviousOperand == "":
		s.PreviousOperand = s.CurrentOperand
		s.Operation = op
		s.CurrentOperand = ""
	default:
		result := Compute(s)
		if result == "" {
			return s
		}
		s.PreviousOperand = result
		s.Operation = op
		s.CurrentOperand = ""
	}
	return s
}

func deleteLast(s State) State {
	if s.Overwrite {
		s.Overwrite = false
		s.CurrentOperand = ""
		return s
	}
	if s.CurrentOperand == "" {
		return s
	}
	s.CurrentOperand = s.CurrentOperand[:len(s.CurrentOperand)-1]
	return s
}

func evaluate(s State) State {
	if !s.Pending() {
		return s
	}
	result := Compute(s)
	if result == "" {
		return s
	}
	return State{
		CurrentOperand: result,
		Overwrite:      true,
	}
}
