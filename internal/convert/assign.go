package convert

import (
	"intro/internal/ast"
	"intro/internal/types"
)

// convertAssign handles `x = v`, `x op= v` and their indexed forms. A
// compound operator on a variable becomes `x = op(x, v)`; an indexed
// assignment becomes a single setAt or <op>At call on the innermost array.
func (c *Converter) convertAssign(e *ast.AssignExpr) (ast.Expr, error) {
	opName, compound := ast.CompoundOpName(e.Op)
	if !compound && e.Op != "=" {
		return nil, newError(OperatorUnknown, e.Span)
	}

	left, err := c.convertExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.convertExpr(e.Right)
	if err != nil {
		return nil, err
	}

	if len(e.Indices) == 0 {
		return c.assignVariable(e, left, right, opName, compound)
	}

	callName := "setAt"
	if compound {
		if !right.DataType().IsInt() {
			return nil, newError(IndexedAssignmentRightBadType, right.GetSpan())
		}
		callName = opName + "At"
	}

	var index ast.Expr
	for i, raw := range e.Indices {
		if index, err = c.convertExpr(raw); err != nil {
			return nil, err
		}
		if !index.DataType().IsInt() {
			return nil, newError(IndexedAssignmentIndexBadType, index.GetSpan())
		}
		if !left.DataType().IsArray() {
			return nil, newError(IndexedAssignmentLeftNotArray, left.GetSpan())
		}
		if i == len(e.Indices)-1 {
			break
		}
		left = &ast.RuntimeCall{
			Name: "getAt",
			Args: []ast.Expr{left, index},
			Type: left.DataType().ElemType(),
			Span: left.GetSpan().To(index.GetSpan()),
		}
	}
	if !right.DataType().Equals(left.DataType().ElemType()) {
		return nil, newError(IndexedAssignmentRightDifferentType, right.GetSpan())
	}
	return &ast.RuntimeCall{Name: callName, Args: []ast.Expr{left, index, right}, Span: e.Span}, nil
}

func (c *Converter) assignVariable(e *ast.AssignExpr, left, right ast.Expr, opName string, compound bool) (ast.Expr, error) {
	target, ok := left.(*ast.Ident)
	if !ok {
		return nil, newError(AssignmentLeftNotVariable, left.GetSpan())
	}
	if !right.DataType().Equals(target.Type) {
		return nil, newError(AssignmentRightBadType, right.GetSpan())
	}
	if compound {
		if !target.Type.IsInt() {
			return nil, newError(AssignmentRightBadType, right.GetSpan())
		}
		right = &ast.RuntimeCall{Name: opName, Args: []ast.Expr{target, right}, Type: types.Int(), Span: e.Span}
	}
	return &ast.AssignExpr{Op: "=", Left: target, Right: right, Span: e.Span}, nil
}
