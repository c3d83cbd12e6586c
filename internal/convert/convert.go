package convert

import (
	"fmt"

	"intro/internal/ast"
	"intro/internal/types"
)

// Converter type-checks an input program and lowers it to canonical form.
// A Converter is single use; conversion stops at the first error.
type Converter struct {
	scope     *types.Scope
	ret       *types.Type
	loopDepth int
}

func NewConverter() *Converter {
	return &Converter{scope: types.NewScope()}
}

// Convert checks prog and returns a new, independent canonical program.
func Convert(prog *ast.Program) (*ast.Program, error) {
	return NewConverter().Convert(prog)
}

func (c *Converter) Convert(prog *ast.Program) (*ast.Program, error) {
	// Every function is visible from every body, so signatures are
	// collected before any body is converted.
	c.scope.Push(types.Builtins())
	for _, decl := range prog.Funcs {
		params := make([]*types.Type, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = p.Type
		}
		if err := c.scope.Declare(types.NewFunc(decl.Name, params, decl.Ret)); err != nil {
			return nil, newError(FunctionNameConflict, decl.NameSpan)
		}
	}

	out := &ast.Program{Span: prog.Span}
	for _, decl := range prog.Funcs {
		fn, err := c.convertFunc(decl)
		if err != nil {
			return nil, err
		}
		out.Funcs = append(out.Funcs, fn)
	}
	return out, nil
}

func (c *Converter) convertFunc(decl *ast.FuncDecl) (*ast.FuncDecl, error) {
	c.ret = decl.Ret
	c.loopDepth = 0

	c.scope.Push(nil)
	defer c.scope.Pop()
	for _, p := range decl.Params {
		if err := c.scope.DeclareParam(types.NewVar(p.Name, p.Type)); err != nil {
			return nil, newError(FunctionParamConflict, p.Span)
		}
	}
	body, err := c.convertBody(decl.Body)
	if err != nil {
		return nil, err
	}
	if decl.Ret != nil {
		n := len(body.Stmts)
		if n == 0 {
			return nil, newError(FunctionReturnMissing, body.Span)
		}
		if _, ok := body.Stmts[n-1].(*ast.ReturnStmt); !ok {
			return nil, newError(FunctionReturnMissing, body.Span)
		}
	}

	params := make([]ast.Param, len(decl.Params))
	copy(params, decl.Params)
	return &ast.FuncDecl{
		Name:     decl.Name,
		NameSpan: decl.NameSpan,
		Params:   params,
		Ret:      decl.Ret,
		Body:     body,
		Span:     decl.Span,
	}, nil
}

// convertBlock converts a block in a fresh frame.
func (c *Converter) convertBlock(block *ast.BlockStmt) (*ast.BlockStmt, error) {
	c.scope.Push(nil)
	defer c.scope.Pop()
	return c.convertBody(block)
}

// convertBody converts a block in the current innermost frame.
func (c *Converter) convertBody(block *ast.BlockStmt) (*ast.BlockStmt, error) {
	out := &ast.BlockStmt{Span: block.Span, Stmts: make([]ast.Stmt, 0, len(block.Stmts))}
	for _, stmt := range block.Stmts {
		s, err := c.convertStmt(stmt)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, s)
	}
	return out, nil
}

func (c *Converter) convertStmt(stmt ast.Stmt) (ast.Stmt, error) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return c.convertBlock(s)
	case *ast.VarDecl:
		return c.convertVarDecl(s)
	case *ast.ExprStmt:
		e, err := c.convertExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: e, Span: s.Span}, nil
	case *ast.IfStmt:
		return c.convertIf(s)
	case *ast.LabeledStmt:
		body, err := c.convertStmt(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStmt{Label: s.Label, Body: body, Span: s.Span}, nil
	case *ast.ForInStmt:
		return c.convertForIn(s)
	case *ast.WhileStmt:
		return c.convertWhile(s)
	case *ast.BreakStmt:
		if c.loopDepth <= 0 {
			return nil, newError(BreakNotInLoop, s.Span)
		}
		return &ast.BreakStmt{Label: s.Label, Span: s.Span}, nil
	case *ast.ContinueStmt:
		if c.loopDepth <= 0 {
			return nil, newError(ContinueNotInLoop, s.Span)
		}
		return &ast.ContinueStmt{Label: s.Label, Span: s.Span}, nil
	case *ast.ReturnStmt:
		return c.convertReturn(s)
	case *ast.ForStmt:
		return nil, newError(NodeNotConvertible, s.Span)
	default:
		panic(fmt.Sprintf("convert: unexpected statement %T", stmt))
	}
}

func (c *Converter) convertVarDecl(s *ast.VarDecl) (ast.Stmt, error) {
	if c.scope.Visible(s.Name) {
		return nil, newError(VariableNameConflict, s.NameSpan)
	}
	init, err := c.convertExpr(s.Init)
	if err != nil {
		return nil, err
	}
	if init.DataType() == nil {
		return nil, newError(VariableInitVoid, init.GetSpan())
	}
	if err := c.scope.Declare(types.NewVar(s.Name, init.DataType())); err != nil {
		return nil, newError(VariableNameConflict, s.NameSpan)
	}
	return &ast.VarDecl{Name: s.Name, NameSpan: s.NameSpan, Init: init, Span: s.Span}, nil
}

func (c *Converter) convertIf(s *ast.IfStmt) (ast.Stmt, error) {
	test, err := c.convertExpr(s.Test)
	if err != nil {
		return nil, err
	}
	if !test.DataType().IsInt() {
		return nil, newError(IfTestBadType, test.GetSpan())
	}
	then, err := c.convertBlock(s.Then)
	if err != nil {
		return nil, err
	}
	out := &ast.IfStmt{Test: test, Then: then, Span: s.Span}
	if s.Else != nil {
		if out.Else, err = c.convertBlock(s.Else); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Converter) convertWhile(s *ast.WhileStmt) (ast.Stmt, error) {
	test, err := c.convertExpr(s.Test)
	if err != nil {
		return nil, err
	}
	if !test.DataType().IsInt() {
		return nil, newError(WhileTestBadType, test.GetSpan())
	}
	c.loopDepth++
	body, err := c.convertBlock(s.Body)
	c.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Test: test, Body: body, Span: s.Span}, nil
}

// convertForIn lowers `for v in ...` to a ForStmt driven by a range or
// array iterator.
func (c *Converter) convertForIn(s *ast.ForInStmt) (ast.Stmt, error) {
	first, err := c.convertExpr(s.First)
	if err != nil {
		return nil, err
	}

	var source *ast.RuntimeCall
	var counterType *types.Type
	switch t := first.DataType(); {
	case t.IsInt():
		source, err = c.rangeSource(s, first)
		if err != nil {
			return nil, err
		}
		counterType = types.Int()
	case t.IsArray():
		if s.Last != nil {
			return nil, newError(ForLastFound, s.Last.GetSpan())
		}
		if s.Step != nil {
			return nil, newError(ForStepFound, s.Step.GetSpan())
		}
		source = &ast.RuntimeCall{Name: "iter", Args: []ast.Expr{first}, Span: first.GetSpan()}
		counterType = t.ElemType()
	default:
		return nil, newError(ForFirstVoid, first.GetSpan())
	}

	c.loopDepth++
	// The counter gets a frame of its own, so it may shadow outer names.
	c.scope.Push(nil)
	body, err := c.convertForBody(s, counterType)
	c.scope.Pop()
	c.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{
		Counter: &ast.Ident{Name: s.Var, Type: counterType, Span: s.VarSpan},
		Source:  source,
		Body:    body,
		Span:    s.Span,
	}, nil
}

func (c *Converter) convertForBody(s *ast.ForInStmt, counterType *types.Type) (*ast.BlockStmt, error) {
	if err := c.scope.Declare(types.NewVar(s.Var, counterType)); err != nil {
		return nil, newError(VariableNameConflict, s.VarSpan)
	}
	return c.convertBody(s.Body)
}

func (c *Converter) rangeSource(s *ast.ForInStmt, first ast.Expr) (*ast.RuntimeCall, error) {
	var last, step ast.Expr
	var err error
	if s.Last != nil {
		if s.Op == ast.ForPlain {
			return nil, newError(ForLastFound, s.Last.GetSpan())
		}
		if last, err = c.convertExpr(s.Last); err != nil {
			return nil, err
		}
		if !last.DataType().IsInt() {
			return nil, newError(ForLastBadType, last.GetSpan())
		}
	} else if s.Op != ast.ForPlain {
		return nil, newError(ForLastNotFound, s.Span)
	}
	if s.Step != nil {
		if step, err = c.convertExpr(s.Step); err != nil {
			return nil, err
		}
		if !step.DataType().IsInt() {
			return nil, newError(ForStepBadType, step.GetSpan())
		}
	}

	var args []ast.Expr
	switch s.Op {
	case ast.ForUpThrough:
		args = []ast.Expr{first, last, orInt(step, 1), intLit(1)}
	case ast.ForUpTo:
		args = []ast.Expr{first, last, orInt(step, 1), intLit(0)}
	case ast.ForDownThrough:
		args = []ast.Expr{first, last, orInt(step, -1), intLit(1)}
	case ast.ForDownTo:
		args = []ast.Expr{first, last, orInt(step, -1), intLit(0)}
	default:
		args = []ast.Expr{intLit(0), first, orInt(step, 1), intLit(0)}
	}
	span := first.GetSpan()
	if s.Body.Span.Known() {
		span.End = s.Body.Span.Start
	}
	return &ast.RuntimeCall{Name: "range", Args: args, Span: span}, nil
}

func (c *Converter) convertReturn(s *ast.ReturnStmt) (ast.Stmt, error) {
	var arg ast.Expr
	if s.Value != nil {
		var err error
		if arg, err = c.convertExpr(s.Value); err != nil {
			return nil, err
		}
	}
	if c.ret != nil {
		if arg == nil {
			return nil, newError(ReturnArgumentNotFound, s.Span)
		}
		if !arg.DataType().Equals(c.ret) {
			return nil, newError(ReturnArgumentDifferentType, arg.GetSpan())
		}
	} else if arg != nil {
		return nil, newError(ReturnArgumentFound, arg.GetSpan())
	}
	return &ast.ReturnStmt{Value: arg, Span: s.Span}, nil
}

func intLit(v int32) *ast.IntLit {
	return &ast.IntLit{Raw: fmt.Sprint(v), Value: v, Type: types.Int()}
}

func orInt(e ast.Expr, v int32) ast.Expr {
	if e != nil {
		return e
	}
	return intLit(v)
}
