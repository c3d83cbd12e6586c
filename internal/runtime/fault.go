package runtime

import "fmt"

type FaultKind string

const (
	FaultOverflow        FaultKind = "IntegerOverflow"
	FaultDivisionByZero  FaultKind = "DivisionByZero"
	FaultZeroStep        FaultKind = "ZeroStep"
	FaultIndexOutOfRange FaultKind = "IndexOutOfRange"
	FaultBadOperand      FaultKind = "BadOperand"
	FaultUnknownOp       FaultKind = "UnknownOperation"
	FaultStackOverflow   FaultKind = "StackOverflow"
)

// Fault aborts the current run.
type Fault struct {
	Kind FaultKind
	Msg  string
}

func (f *Fault) Error() string {
	return f.Msg
}

func (f *Fault) Name() string { return "RangeError" }

// Is matches faults by kind so callers can test with errors.Is.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	return ok && t.Kind == f.Kind
}

var (
	ErrOverflow        = &Fault{Kind: FaultOverflow, Msg: "integer overflow"}
	ErrDivisionByZero  = &Fault{Kind: FaultDivisionByZero, Msg: "division by zero"}
	ErrZeroStep        = &Fault{Kind: FaultZeroStep, Msg: "step: 0"}
	ErrIndexOutOfRange = &Fault{Kind: FaultIndexOutOfRange, Msg: "array index out of range"}
	ErrStackOverflow   = &Fault{Kind: FaultStackOverflow, Msg: "maximum call stack size exceeded"}
)

func indexFault(index int32) *Fault {
	return &Fault{Kind: FaultIndexOutOfRange, Msg: fmt.Sprintf("array index out of range: %d", index)}
}

func operandFault(op string, v Value) *Fault {
	return &Fault{Kind: FaultBadOperand, Msg: fmt.Sprintf("%s: bad operand %s", op, v)}
}
