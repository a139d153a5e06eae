package calculator

// Action is one input event. The set of variants is closed: AddDigit,
// ChooseOperation, Clear, Delete and Evaluate.
type Action interface {
	action()
}

// AddDigit appends a digit ('0'-'9') or the decimal point to the current
// operand.
type AddDigit struct {
	Digit byte
}

// ChooseOperation selects the pending operator, evaluating first when both
// operands are present.
type ChooseOperation struct {
	Op Operation
}

// Clear resets to the zero State.
type Clear struct{}

// Delete drops the last character of the current operand.
type Delete struct{}

// Evaluate computes the pending operation.
type Evaluate struct{}

func (AddDigit) action()        {}
func (ChooseOperation) action() {}
func (Clear) action()           {}
func (Delete) action()          {}
func (Evaluate) action()        {}

// Name is a stable label for logs and metrics.
func Name(a Action) string {
	switch a.(type) {
	case AddDigit:
		return "add_digit"
	case ChooseOperation:
		return "choose_operation"
	case Clear:
		return "clear"
	case Delete:
		return "delete"
	case Evaluate:
		return "evaluate"
	}
	return "unknown"
}
