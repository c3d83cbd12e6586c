package convert

import (
	"fmt"

	"intro/internal/ast"
)

// Kind names one conversion rule violation.
type Kind string

const (
	FunctionNameConflict  Kind = "FUNCTION_NAME_CONFLICT"
	FunctionParamConflict Kind = "FUNCTION_PARAM_CONFLICT"
	FunctionReturnMissing Kind = "FUNCTION_RETURN_NOT_FOUND"

	VariableNameConflict Kind = "VARIABLE_NAME_CONFLICT"
	VariableInitVoid     Kind = "VARIABLE_INIT_VOID"

	IfTestBadType    Kind = "IF_TEST_BAD_TYPE"
	WhileTestBadType Kind = "WHILE_TEST_BAD_TYPE"

	ForFirstVoid    Kind = "FOR_FIRST_VOID"
	ForLastBadType  Kind = "FOR_LAST_BAD_TYPE"
	ForStepBadType  Kind = "FOR_STEP_BAD_TYPE"
	ForLastFound    Kind = "FOR_LAST_FOUND"
	ForLastNotFound Kind = "FOR_LAST_NOT_FOUND"
	ForStepFound    Kind = "FOR_STEP_FOUND"

	BreakNotInLoop    Kind = "BREAK_NOT_IN_LOOP"
	ContinueNotInLoop Kind = "CONTINUE_NOT_IN_LOOP"

	ReturnArgumentNotFound      Kind = "RETURN_ARGUMENT_NOT_FOUND"
	ReturnArgumentDifferentType Kind = "RETURN_ARGUMENT_DIFFERENT_TYPE"
	ReturnArgumentFound         Kind = "RETURN_ARGUMENT_FOUND"

	ConditionalTestBadType            Kind = "CONDITIONAL_TEST_BAD_TYPE"
	ConditionalConsequentVoid         Kind = "CONDITIONAL_CONSEQUENT_VOID"
	ConditionalAlternateDifferentType Kind = "CONDITIONAL_ALTERNATE_DIFFERENT_TYPE"

	LogicalLeftBadType        Kind = "LOGICAL_LEFT_BAD_TYPE"
	LogicalRightDifferentType Kind = "LOGICAL_RIGHT_DIFFERENT_TYPE"

	BinaryLeftBadType        Kind = "BINARY_LEFT_BAD_TYPE"
	BinaryRightDifferentType Kind = "BINARY_RIGHT_DIFFERENT_TYPE"

	UnaryArgumentBadType  Kind = "UNARY_ARGUMENT_BAD_TYPE"
	UnaryArgumentNotArray Kind = "UNARY_ARGUMENT_NOT_ARRAY"

	CallNameNotFound            Kind = "CALL_NAME_NOT_FOUND"
	CallArgumentsDifferentCount Kind = "CALL_ARGUMENTS_DIFFERENT_COUNT"
	CallArgumentDifferentType   Kind = "CALL_ARGUMENT_DIFFERENT_TYPE"

	IndexedMemberObjectNotArray Kind = "INDEXED_MEMBER_OBJECT_NOT_ARRAY"
	IndexedMemberIndexBadType   Kind = "INDEXED_MEMBER_INDEX_BAD_TYPE"

	LiteralOverflow    Kind = "LITERAL_OVERFLOW"
	IdentifierNotFound Kind = "IDENTIFIER_NOT_FOUND"
	NewIndexBadType    Kind = "NEW_INDEX_BAD_TYPE"

	OperatorUnknown    Kind = "OPERATOR_UNKNOWN"
	NodeNotConvertible Kind = "NODE_NOT_CONVERTIBLE"

	ArrayElementVoid          Kind = "ARRAY_ELEMENT_VOID"
	ArrayElementDifferentType Kind = "ARRAY_ELEMENT_DIFFERENT_TYPE"

	AssignmentLeftNotVariable           Kind = "ASSIGNMENT_LEFT_NOT_VARIABLE"
	AssignmentRightBadType              Kind = "ASSIGNMENT_RIGHT_BAD_TYPE"
	IndexedAssignmentRightBadType       Kind = "INDEXED_ASSIGNMENT_RIGHT_BAD_TYPE"
	IndexedAssignmentIndexBadType       Kind = "INDEXED_ASSIGNMENT_INDEX_BAD_TYPE"
	IndexedAssignmentLeftNotArray       Kind = "INDEXED_ASSIGNMENT_LEFT_NOT_ARRAY"
	IndexedAssignmentRightDifferentType Kind = "INDEXED_ASSIGNMENT_RIGHT_DIFFERENT_TYPE"
)

// Error is a conversion failure located in the source.
type Error struct {
	Kind Kind
	Span ast.Span
}

func (e *Error) Error() string {
	if e.Span.Known() {
		return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Col, e.Kind)
	}
	return string(e.Kind)
}

// Location implements the located-error contract used by diagnostics.
func (e *Error) Location() ast.Span { return e.Span }

func (e *Error) Message() string { return string(e.Kind) }

// Name is the diagnostic class shown to users.
func (e *Error) Name() string { return "ConvertError" }

func newError(kind Kind, span ast.Span) *Error {
	return &Error{Kind: kind, Span: span}
}
