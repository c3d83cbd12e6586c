package interp

import (
	"errors"
	"fmt"

	"intro/internal/ast"
	"intro/internal/runtime"
)

func (in *Interpreter) eval(expr ast.Expr, e *env) (runtime.Value, error) {
	switch x := expr.(type) {
	case *ast.IntLit:
		return runtime.IntValue(x.Value), nil
	case *ast.Ident:
		v, ok := e.lookup(x.Name)
		if !ok {
			return runtime.Void, &RuntimeError{Err: fmt.Errorf("undefined variable %s", x.Name), Span: x.Span}
		}
		return v, nil
	case *ast.ConditionalExpr:
		test, err := in.eval(x.Test, e)
		if err != nil {
			return runtime.Void, err
		}
		if test.Truthy() {
			return in.eval(x.Then, e)
		}
		return in.eval(x.Else, e)
	case *ast.LogicalExpr:
		// The deciding operand is the result, not a normalized 0 or 1.
		left, err := in.eval(x.Left, e)
		if err != nil {
			return runtime.Void, err
		}
		if (x.Op == "&&") != left.Truthy() {
			return left, nil
		}
		return in.eval(x.Right, e)
	case *ast.ArrayLit:
		elems, err := in.evalArgs(x.Elems, e)
		if err != nil {
			return runtime.Void, err
		}
		return runtime.ArrayValue(runtime.NewArray(elems)), nil
	case *ast.AssignExpr:
		target, ok := x.Left.(*ast.Ident)
		if !ok || x.Op != "=" || len(x.Indices) != 0 {
			return runtime.Void, &RuntimeError{Err: fmt.Errorf("%w: assignment", ErrNotCanonical), Span: x.Span}
		}
		v, err := in.eval(x.Right, e)
		if err != nil {
			return runtime.Void, err
		}
		if !e.assign(target.Name, v) {
			return runtime.Void, &RuntimeError{Err: fmt.Errorf("undefined variable %s", target.Name), Span: target.Span}
		}
		return runtime.Void, nil
	case *ast.CallExpr:
		fn, ok := in.funcs[x.Callee]
		if !ok {
			return runtime.Void, &RuntimeError{Err: fmt.Errorf("undefined function %s", x.Callee), Span: x.CalleeSpan}
		}
		args, err := in.evalArgs(x.Args, e)
		if err != nil {
			return runtime.Void, err
		}
		return in.call(fn, args, x.Span)
	case *ast.RuntimeCall:
		return in.evalRuntimeCall(x, e)
	default:
		return runtime.Void, &RuntimeError{Err: fmt.Errorf("%w: %T", ErrNotCanonical, expr), Span: expr.GetSpan()}
	}
}

func (in *Interpreter) evalArgs(exprs []ast.Expr, e *env) ([]runtime.Value, error) {
	vals := make([]runtime.Value, len(exprs))
	for i, arg := range exprs {
		v, err := in.eval(arg, e)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (in *Interpreter) evalRuntimeCall(x *ast.RuntimeCall, e *env) (runtime.Value, error) {
	if x.Name == "trace" {
		return runtime.Void, in.evalTrace(x, e)
	}
	args, err := in.evalArgs(x.Args, e)
	if err != nil {
		return runtime.Void, err
	}
	v, err := in.ctx.Call(x.Name, args)
	if err != nil {
		return runtime.Void, locate(err, x.Span)
	}
	return v, nil
}

// evalTrace evaluates trace(line, text, exprs...); the first two arguments
// are literals and are passed through unevaluated.
func (in *Interpreter) evalTrace(x *ast.RuntimeCall, e *env) error {
	if len(x.Args) < 2 {
		return &RuntimeError{Err: fmt.Errorf("%w: trace arguments", ErrNotCanonical), Span: x.Span}
	}
	line, ok := x.Args[0].(*ast.IntLit)
	text, ok2 := x.Args[1].(*ast.TextLit)
	if !ok || !ok2 {
		return &RuntimeError{Err: fmt.Errorf("%w: trace arguments", ErrNotCanonical), Span: x.Span}
	}
	vals, err := in.evalArgs(x.Args[2:], e)
	if err != nil {
		return err
	}
	if err := in.ctx.Trace(line.Value, text.Value, vals...); err != nil {
		return locate(err, x.Span)
	}
	return nil
}

// locate attaches span to err unless a deeper node already did.
func locate(err error, span ast.Span) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	return &RuntimeError{Err: err, Span: span}
}
