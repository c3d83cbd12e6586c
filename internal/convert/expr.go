package convert

import (
	"fmt"

	"intro/internal/ast"
	"intro/internal/runtime"
	"intro/internal/types"
)

func (c *Converter) convertExpr(expr ast.Expr) (ast.Expr, error) {
	switch e := expr.(type) {
	case *ast.ConditionalExpr:
		return c.convertConditional(e)
	case *ast.LogicalExpr:
		return c.convertLogical(e)
	case *ast.BinaryExpr:
		return c.convertBinary(e)
	case *ast.UnaryExpr:
		return c.convertUnary(e)
	case *ast.CallExpr:
		return c.convertCall(e)
	case *ast.IndexExpr:
		return c.convertIndex(e)
	case *ast.IntLit:
		return convertLiteral(e)
	case *ast.Ident:
		return c.convertIdent(e)
	case *ast.NewExpr:
		return c.convertNew(e)
	case *ast.ArrayLit:
		return c.convertArrayLit(e)
	case *ast.TraceExpr:
		return c.convertTrace(e)
	case *ast.AssignExpr:
		return c.convertAssign(e)
	case *ast.RuntimeCall, *ast.TextLit:
		return nil, newError(NodeNotConvertible, expr.GetSpan())
	default:
		panic(fmt.Sprintf("convert: unexpected expression %T", expr))
	}
}

func (c *Converter) convertConditional(e *ast.ConditionalExpr) (ast.Expr, error) {
	test, err := c.convertExpr(e.Test)
	if err != nil {
		return nil, err
	}
	if !test.DataType().IsInt() {
		return nil, newError(ConditionalTestBadType, test.GetSpan())
	}
	then, err := c.convertExpr(e.Then)
	if err != nil {
		return nil, err
	}
	if then.DataType() == nil {
		return nil, newError(ConditionalConsequentVoid, then.GetSpan())
	}
	els, err := c.convertExpr(e.Else)
	if err != nil {
		return nil, err
	}
	if !els.DataType().Equals(then.DataType()) {
		return nil, newError(ConditionalAlternateDifferentType, els.GetSpan())
	}
	return &ast.ConditionalExpr{Test: test, Then: then, Else: els, Type: then.DataType(), Span: e.Span}, nil
}

func (c *Converter) convertLogical(e *ast.LogicalExpr) (ast.Expr, error) {
	if e.Op != "&&" && e.Op != "||" {
		return nil, newError(OperatorUnknown, e.Span)
	}
	left, err := c.convertExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if !left.DataType().IsInt() {
		return nil, newError(LogicalLeftBadType, left.GetSpan())
	}
	right, err := c.convertExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if !right.DataType().Equals(left.DataType()) {
		return nil, newError(LogicalRightDifferentType, right.GetSpan())
	}
	return &ast.LogicalExpr{Op: e.Op, Left: left, Right: right, Type: left.DataType(), Span: e.Span}, nil
}

func (c *Converter) convertBinary(e *ast.BinaryExpr) (ast.Expr, error) {
	name, ok := ast.BinaryOps[e.Op]
	if !ok {
		return nil, newError(OperatorUnknown, e.Span)
	}
	left, err := c.convertExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if !left.DataType().IsInt() {
		return nil, newError(BinaryLeftBadType, left.GetSpan())
	}
	right, err := c.convertExpr(e.Right)
	if err != nil {
		return nil, err
	}
	if !right.DataType().Equals(left.DataType()) {
		return nil, newError(BinaryRightDifferentType, right.GetSpan())
	}
	return &ast.RuntimeCall{Name: name, Args: []ast.Expr{left, right}, Type: types.Int(), Span: e.Span}, nil
}

func (c *Converter) convertUnary(e *ast.UnaryExpr) (ast.Expr, error) {
	name, ok := ast.UnaryOps[e.Op]
	if !ok {
		return nil, newError(OperatorUnknown, e.Span)
	}
	arg, err := c.convertExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	if e.Op == "$" {
		if !arg.DataType().IsArray() {
			return nil, newError(UnaryArgumentNotArray, arg.GetSpan())
		}
	} else if !arg.DataType().IsInt() {
		return nil, newError(UnaryArgumentBadType, arg.GetSpan())
	}
	return &ast.RuntimeCall{Name: name, Args: []ast.Expr{arg}, Type: types.Int(), Span: e.Span}, nil
}

// convertCall checks a call against its signature. Builtin calls become
// runtime calls; user calls keep their shape.
func (c *Converter) convertCall(e *ast.CallExpr) (ast.Expr, error) {
	sym, err := c.scope.Lookup(e.Callee)
	if err != nil || sym.Kind != types.SymFunc {
		return nil, newError(CallNameNotFound, e.CalleeSpan)
	}
	if len(e.Args) != len(sym.Params) {
		return nil, newError(CallArgumentsDifferentCount, e.CalleeSpan)
	}
	args := make([]ast.Expr, len(e.Args))
	for i, a := range e.Args {
		arg, err := c.convertExpr(a)
		if err != nil {
			return nil, err
		}
		if !arg.DataType().Equals(sym.Params[i]) {
			return nil, newError(CallArgumentDifferentType, arg.GetSpan())
		}
		args[i] = arg
	}
	if sym.Builtin {
		return &ast.RuntimeCall{Name: e.Callee, Args: args, Type: sym.Ret, Span: e.Span}, nil
	}
	return &ast.CallExpr{Callee: e.Callee, CalleeSpan: e.CalleeSpan, Args: args, Type: sym.Ret, Span: e.Span}, nil
}

func (c *Converter) convertIndex(e *ast.IndexExpr) (ast.Expr, error) {
	obj, err := c.convertExpr(e.Object)
	if err != nil {
		return nil, err
	}
	if !obj.DataType().IsArray() {
		return nil, newError(IndexedMemberObjectNotArray, obj.GetSpan())
	}
	index, err := c.convertExpr(e.Index)
	if err != nil {
		return nil, err
	}
	if !index.DataType().IsInt() {
		return nil, newError(IndexedMemberIndexBadType, index.GetSpan())
	}
	return &ast.RuntimeCall{Name: "getAt", Args: []ast.Expr{obj, index}, Type: obj.DataType().ElemType(), Span: e.Span}, nil
}

func convertLiteral(e *ast.IntLit) (ast.Expr, error) {
	v := runtime.ParseInt(e.Raw)
	if !runtime.InRange(v) {
		return nil, newError(LiteralOverflow, e.Span)
	}
	return &ast.IntLit{Raw: e.Raw, Value: int32(v), Type: types.Int(), Span: e.Span}, nil
}

func (c *Converter) convertIdent(e *ast.Ident) (ast.Expr, error) {
	sym, err := c.scope.Lookup(e.Name)
	if err != nil || sym.Kind != types.SymVar {
		return nil, newError(IdentifierNotFound, e.Span)
	}
	return &ast.Ident{Name: e.Name, Type: sym.Type, Span: e.Span}, nil
}

// convertNew lowers `new Int[a][b]` to zeros(a, b).
func (c *Converter) convertNew(e *ast.NewExpr) (ast.Expr, error) {
	if len(e.Sizes) == 0 {
		return nil, newError(NewIndexBadType, e.Span)
	}
	elem := e.Elem
	if elem == nil {
		elem = types.Int()
	}
	args := make([]ast.Expr, len(e.Sizes))
	for i, s := range e.Sizes {
		arg, err := c.convertExpr(s)
		if err != nil {
			return nil, err
		}
		if !arg.DataType().IsInt() {
			return nil, newError(NewIndexBadType, arg.GetSpan())
		}
		args[i] = arg
	}
	return &ast.RuntimeCall{Name: "zeros", Args: args, Type: types.NewNested(elem, len(args)), Span: e.Span}, nil
}

func (c *Converter) convertArrayLit(e *ast.ArrayLit) (ast.Expr, error) {
	if len(e.Elems) == 0 {
		return &ast.ArrayLit{Elems: []ast.Expr{}, Type: types.IntArray(), Span: e.Span}, nil
	}
	elems := make([]ast.Expr, len(e.Elems))
	var elemType *types.Type
	for i, el := range e.Elems {
		conv, err := c.convertExpr(el)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			if conv.DataType() == nil {
				return nil, newError(ArrayElementVoid, conv.GetSpan())
			}
			elemType = conv.DataType()
		} else if !conv.DataType().Equals(elemType) {
			return nil, newError(ArrayElementDifferentType, conv.GetSpan())
		}
		elems[i] = conv
	}
	return &ast.ArrayLit{Elems: elems, Type: types.NewArray(elemType), Span: e.Span}, nil
}

// convertTrace lowers a debug trace to trace(line, text, exprs...).
func (c *Converter) convertTrace(e *ast.TraceExpr) (ast.Expr, error) {
	args := []ast.Expr{
		intLit(int32(e.Span.Start.Line)),
		&ast.TextLit{Value: e.Text, Span: e.Span},
	}
	for _, sub := range e.Exprs {
		conv, err := c.convertExpr(sub)
		if err != nil {
			return nil, err
		}
		args = append(args, conv)
	}
	return &ast.RuntimeCall{Name: "trace", Args: args, Span: e.Span}, nil
}
