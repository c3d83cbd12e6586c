// Package interp executes canonical programs against a runtime context.
package interp

import (
	"errors"
	"fmt"

	"intro/internal/ast"
	"intro/internal/runtime"
)

// EntryPoint is the function a run starts from.
const EntryPoint = "main"

// MaxCallDepth bounds user function recursion within one run.
const MaxCallDepth = 10000

var (
	ErrMainNotFound = errors.New("MAIN_NOT_FOUND")
	ErrNotCanonical = errors.New("tree is not in canonical form")
)

// RuntimeError ties a failure raised during a run to the node that raised it.
type RuntimeError struct {
	Err  error
	Span ast.Span
}

func (e *RuntimeError) Error() string {
	if e.Span.Known() {
		return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Col, e.Err)
	}
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func (e *RuntimeError) Location() ast.Span { return e.Span }

func (e *RuntimeError) Message() string { return e.Err.Error() }

// Name reports the class of the underlying failure.
func (e *RuntimeError) Name() string {
	var named interface{ Name() string }
	if errors.As(e.Err, &named) {
		return named.Name()
	}
	if errors.Is(e.Err, ErrMainNotFound) {
		return "LaunchError"
	}
	return "RuntimeError"
}

// Interpreter runs one canonical program. Each Run call needs its own
// runtime context.
type Interpreter struct {
	funcs map[string]*ast.FuncDecl
	ctx   *runtime.Context
	depth int
}

func New(prog *ast.Program, ctx *runtime.Context) *Interpreter {
	funcs := make(map[string]*ast.FuncDecl, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		funcs[fn.Name] = fn
	}
	return &Interpreter{funcs: funcs, ctx: ctx}
}

// Run executes prog's main function against ctx.
func Run(prog *ast.Program, ctx *runtime.Context) error {
	return New(prog, ctx).Run()
}

func (in *Interpreter) Run() error {
	main, ok := in.funcs[EntryPoint]
	if !ok || len(main.Params) != 0 {
		return &RuntimeError{Err: ErrMainNotFound}
	}
	_, err := in.call(main, nil, main.Span)
	return err
}

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// ctrl is the completion of a statement.
type ctrl struct {
	kind  ctrlKind
	label string
	value runtime.Value
}

var normal = ctrl{}

// env is one lexical frame of variable values.
type env struct {
	vars   map[string]runtime.Value
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: map[string]runtime.Value{}, parent: parent}
}

func (e *env) lookup(name string) (runtime.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return runtime.Void, false
}

func (e *env) assign(name string, v runtime.Value) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return true
		}
	}
	return false
}

func (in *Interpreter) call(fn *ast.FuncDecl, args []runtime.Value, span ast.Span) (runtime.Value, error) {
	if in.depth >= MaxCallDepth {
		return runtime.Void, &RuntimeError{Err: runtime.ErrStackOverflow, Span: span}
	}
	in.depth++
	defer func() { in.depth-- }()

	frame := newEnv(nil)
	for i, p := range fn.Params {
		frame.vars[p.Name] = args[i]
	}
	res, err := in.execBody(fn.Body, frame)
	if err != nil {
		return runtime.Void, err
	}
	if res.kind == ctrlReturn {
		return res.value, nil
	}
	return runtime.Void, nil
}

func (in *Interpreter) execBlock(block *ast.BlockStmt, parent *env) (ctrl, error) {
	return in.execBody(block, newEnv(parent))
}

func (in *Interpreter) execBody(block *ast.BlockStmt, e *env) (ctrl, error) {
	for _, stmt := range block.Stmts {
		res, err := in.exec(stmt, e)
		if err != nil || res.kind != ctrlNone {
			return res, err
		}
	}
	return normal, nil
}

func (in *Interpreter) exec(stmt ast.Stmt, e *env) (ctrl, error) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return in.execBlock(s, e)
	case *ast.VarDecl:
		v, err := in.eval(s.Init, e)
		if err != nil {
			return normal, err
		}
		e.vars[s.Name] = v
		return normal, nil
	case *ast.ExprStmt:
		_, err := in.eval(s.Expr, e)
		return normal, err
	case *ast.IfStmt:
		test, err := in.eval(s.Test, e)
		if err != nil {
			return normal, err
		}
		if test.Truthy() {
			return in.execBlock(s.Then, e)
		}
		if s.Else != nil {
			return in.execBlock(s.Else, e)
		}
		return normal, nil
	case *ast.LabeledStmt:
		return in.execLabeled(s, e)
	case *ast.WhileStmt:
		return in.execWhile(s, "", e)
	case *ast.ForStmt:
		return in.execFor(s, "", e)
	case *ast.BreakStmt:
		return ctrl{kind: ctrlBreak, label: s.Label}, nil
	case *ast.ContinueStmt:
		return ctrl{kind: ctrlContinue, label: s.Label}, nil
	case *ast.ReturnStmt:
		if s.Value == nil {
			return ctrl{kind: ctrlReturn}, nil
		}
		v, err := in.eval(s.Value, e)
		if err != nil {
			return normal, err
		}
		return ctrl{kind: ctrlReturn, value: v}, nil
	default:
		return normal, &RuntimeError{Err: fmt.Errorf("%w: %T", ErrNotCanonical, stmt), Span: stmt.GetSpan()}
	}
}

func (in *Interpreter) execLabeled(s *ast.LabeledStmt, e *env) (ctrl, error) {
	switch body := s.Body.(type) {
	case *ast.WhileStmt:
		return in.execWhile(body, s.Label, e)
	case *ast.ForStmt:
		return in.execFor(body, s.Label, e)
	}
	res, err := in.exec(s.Body, e)
	if err != nil {
		return res, err
	}
	if res.kind == ctrlBreak && res.label == s.Label {
		return normal, nil
	}
	return res, nil
}

// loopStep decides what a loop does with its body's completion: stop the
// loop, keep iterating, or hand the completion to the enclosing statement.
func loopStep(res ctrl, label string) (stop bool, out ctrl) {
	switch res.kind {
	case ctrlBreak:
		if res.label == "" || res.label == label {
			return true, normal
		}
		return true, res
	case ctrlContinue:
		if res.label == "" || res.label == label {
			return false, normal
		}
		return true, res
	case ctrlReturn:
		return true, res
	}
	return false, normal
}

func (in *Interpreter) execWhile(s *ast.WhileStmt, label string, e *env) (ctrl, error) {
	for {
		test, err := in.eval(s.Test, e)
		if err != nil {
			return normal, err
		}
		if !test.Truthy() {
			return normal, nil
		}
		res, err := in.execBlock(s.Body, e)
		if err != nil {
			return normal, err
		}
		if stop, out := loopStep(res, label); stop {
			return out, nil
		}
	}
}

func (in *Interpreter) execFor(s *ast.ForStmt, label string, e *env) (ctrl, error) {
	args, err := in.evalArgs(s.Source.Args, e)
	if err != nil {
		return normal, err
	}
	it, err := in.ctx.OpenIterator(s.Source.Name, args)
	if err != nil {
		return normal, &RuntimeError{Err: err, Span: s.Source.Span}
	}
	for {
		v, ok := it.Next()
		if !ok {
			return normal, nil
		}
		frame := newEnv(e)
		frame.vars[s.Counter.Name] = v
		res, err := in.execBody(s.Body, frame)
		if err != nil {
			return normal, err
		}
		if stop, out := loopStep(res, label); stop {
			return out, nil
		}
	}
}
