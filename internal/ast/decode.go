package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"intro/internal/types"
)

// DecodeError reports a malformed input tree.
type DecodeError struct {
	Msg  string
	Span Span
}

func (e *DecodeError) Error() string {
	if e.Span.Known() {
		return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Col, e.Msg)
	}
	return e.Msg
}

func (e *DecodeError) Location() Span { return e.Span }

func (e *DecodeError) Message() string { return e.Msg }

func (e *DecodeError) Name() string { return "DecodeError" }

// DecodeProgram reads a Program from the JSON tree produced by the parser.
func DecodeProgram(r io.Reader) (*Program, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return decodeProgram(raw)
}

func DecodeProgramBytes(data []byte) (*Program, error) {
	return DecodeProgram(bytes.NewReader(data))
}

func decodeProgram(node map[string]any) (*Program, error) {
	if typ := nodeType(node); typ != "Program" {
		return nil, &DecodeError{Msg: fmt.Sprintf("expected Program, got %q", typ), Span: decodeSpan(node)}
	}
	prog := &Program{Span: decodeSpan(node)}
	for _, raw := range list(node, "body") {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("invalid declaration entry %T", raw), Span: prog.Span}
		}
		fn, err := decodeFuncDecl(child)
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, fn)
	}
	return prog, nil
}

func decodeFuncDecl(node map[string]any) (*FuncDecl, error) {
	span := decodeSpan(node)
	if typ := nodeType(node); typ != "FunctionDeclaration" {
		return nil, &DecodeError{Msg: fmt.Sprintf("expected FunctionDeclaration, got %q", typ), Span: span}
	}
	id := object(node, "id")
	if id == nil {
		return nil, &DecodeError{Msg: "function declaration missing id", Span: span}
	}
	fn := &FuncDecl{Name: str(id, "name"), NameSpan: decodeSpan(id), Span: span}
	for _, raw := range list(node, "params") {
		p, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("invalid parameter entry %T", raw), Span: span}
		}
		pspan := decodeSpan(p)
		t, err := types.Parse(str(p, "dataType"))
		if err != nil {
			return nil, &DecodeError{Msg: err.Error(), Span: pspan}
		}
		fn.Params = append(fn.Params, Param{Name: str(p, "name"), Type: t, Span: pspan})
	}
	if rt := str(node, "resultType"); rt != "" {
		t, err := types.Parse(rt)
		if err != nil {
			return nil, &DecodeError{Msg: err.Error(), Span: span}
		}
		fn.Ret = t
	}
	body, err := decodeBlock(object(node, "body"))
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func decodeBlock(node map[string]any) (*BlockStmt, error) {
	if node == nil {
		return nil, &DecodeError{Msg: "missing block"}
	}
	span := decodeSpan(node)
	if typ := nodeType(node); typ != "BlockStatement" {
		return nil, &DecodeError{Msg: fmt.Sprintf("expected BlockStatement, got %q", typ), Span: span}
	}
	block := &BlockStmt{Span: span}
	for _, raw := range list(node, "body") {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("invalid statement entry %T", raw), Span: span}
		}
		stmt, err := decodeStmt(child)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

func decodeStmt(node map[string]any) (Stmt, error) {
	span := decodeSpan(node)
	switch typ := nodeType(node); typ {
	case "BlockStatement":
		return decodeBlock(node)
	case "VariableDeclaration":
		decls := list(node, "declarations")
		if len(decls) != 1 {
			return nil, &DecodeError{Msg: "variable declaration must declare exactly one name", Span: span}
		}
		d, _ := decls[0].(map[string]any)
		id := object(d, "id")
		if id == nil {
			return nil, &DecodeError{Msg: "variable declaration missing id", Span: span}
		}
		init, err := decodeExpr(object(d, "init"))
		if err != nil {
			return nil, err
		}
		return &VarDecl{Name: str(id, "name"), NameSpan: decodeSpan(id), Init: init, Span: span}, nil
	case "ExpressionStatement":
		expr, err := decodeExpr(object(node, "expression"))
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Span: span}, nil
	case "IfStatement":
		test, err := decodeExpr(object(node, "test"))
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(object(node, "consequent"))
		if err != nil {
			return nil, err
		}
		stmt := &IfStmt{Test: test, Then: then, Span: span}
		if alt := object(node, "alternate"); alt != nil {
			if stmt.Else, err = decodeBlock(alt); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case "LabeledStatement":
		body := object(node, "body")
		if body == nil {
			return nil, &DecodeError{Msg: "labeled statement missing body", Span: span}
		}
		inner, err := decodeStmt(body)
		if err != nil {
			return nil, err
		}
		return &LabeledStmt{Label: label(node), Body: inner, Span: span}, nil
	case "ForInStatement":
		left := object(node, "left")
		if left == nil {
			return nil, &DecodeError{Msg: "for-in missing loop variable", Span: span}
		}
		first, err := decodeExpr(object(node, "right"))
		if err != nil {
			return nil, err
		}
		stmt := &ForInStmt{
			Var:     str(left, "name"),
			VarSpan: decodeSpan(left),
			First:   first,
			Op:      ForOp(str(node, "operator")),
			Span:    span,
		}
		switch stmt.Op {
		case ForPlain, ForUpTo, ForUpThrough, ForDownTo, ForDownThrough:
		default:
			return nil, &DecodeError{Msg: fmt.Sprintf("unknown for-in operator %q", stmt.Op), Span: span}
		}
		if last := object(node, "last"); last != nil {
			if stmt.Last, err = decodeExpr(last); err != nil {
				return nil, err
			}
		}
		if step := object(node, "step"); step != nil {
			if stmt.Step, err = decodeExpr(step); err != nil {
				return nil, err
			}
		}
		if stmt.Body, err = decodeBlock(object(node, "body")); err != nil {
			return nil, err
		}
		return stmt, nil
	case "WhileStatement":
		test, err := decodeExpr(object(node, "test"))
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(object(node, "body"))
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Test: test, Body: body, Span: span}, nil
	case "BreakStatement":
		return &BreakStmt{Label: label(node), Span: span}, nil
	case "ContinueStatement":
		return &ContinueStmt{Label: label(node), Span: span}, nil
	case "ReturnStatement":
		stmt := &ReturnStmt{Span: span}
		if arg := object(node, "argument"); arg != nil {
			value, err := decodeExpr(arg)
			if err != nil {
				return nil, err
			}
			stmt.Value = value
		}
		return stmt, nil
	default:
		return nil, &DecodeError{Msg: fmt.Sprintf("unknown statement type %q", typ), Span: span}
	}
}

func decodeExpr(node map[string]any) (Expr, error) {
	if node == nil {
		return nil, &DecodeError{Msg: "missing expression"}
	}
	span := decodeSpan(node)
	switch typ := nodeType(node); typ {
	case "ConditionalExpression":
		test, err := decodeExpr(object(node, "test"))
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(object(node, "consequent"))
		if err != nil {
			return nil, err
		}
		alt, err := decodeExpr(object(node, "alternate"))
		if err != nil {
			return nil, err
		}
		return &ConditionalExpr{Test: test, Then: then, Else: alt, Span: span}, nil
	case "LogicalExpression", "BinaryExpression":
		left, err := decodeExpr(object(node, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(object(node, "right"))
		if err != nil {
			return nil, err
		}
		op := str(node, "operator")
		if typ == "LogicalExpression" {
			if op != "&&" && op != "||" {
				return nil, &DecodeError{Msg: fmt.Sprintf("unknown logical operator %q", op), Span: span}
			}
			return &LogicalExpr{Op: op, Left: left, Right: right, Span: span}, nil
		}
		if _, ok := BinaryOps[op]; !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("unknown binary operator %q", op), Span: span}
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, Span: span}, nil
	case "UnaryExpression":
		operand, err := decodeExpr(object(node, "argument"))
		if err != nil {
			return nil, err
		}
		op := str(node, "operator")
		if _, ok := UnaryOps[op]; !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("unknown unary operator %q", op), Span: span}
		}
		return &UnaryExpr{Op: op, Operand: operand, Span: span}, nil
	case "CallExpression":
		callee := object(node, "callee")
		if callee == nil {
			return nil, &DecodeError{Msg: "call missing callee", Span: span}
		}
		args, err := decodeExprs(list(node, "arguments"), span)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Callee: str(callee, "name"), CalleeSpan: decodeSpan(callee), Args: args, Span: span}, nil
	case "MemberExpression":
		obj, err := decodeExpr(object(node, "object"))
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(object(node, "property"))
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Object: obj, Index: index, Span: span}, nil
	case "Literal":
		return &IntLit{Raw: str(node, "value"), Span: span}, nil
	case "Identifier":
		return &Ident{Name: str(node, "name"), Span: span}, nil
	case "NewExpression":
		elem := types.Int()
		if name := str(node, "callee"); name != "" {
			t, err := types.Parse(name)
			if err != nil {
				return nil, &DecodeError{Msg: err.Error(), Span: span}
			}
			elem = t
		}
		sizes, err := decodeExprs(list(node, "arguments"), span)
		if err != nil {
			return nil, err
		}
		return &NewExpr{Elem: elem, Sizes: sizes, Span: span}, nil
	case "ArrayExpression":
		elems, err := decodeExprs(list(node, "elements"), span)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems, Span: span}, nil
	case "SequenceExpression":
		exprs, err := decodeExprs(list(node, "expressions"), span)
		if err != nil {
			return nil, err
		}
		return &TraceExpr{Text: str(node, "text"), Exprs: exprs, Span: span}, nil
	case "AssignmentExpression":
		left, err := decodeExpr(object(node, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(object(node, "right"))
		if err != nil {
			return nil, err
		}
		indices, err := decodeExprs(list(node, "indices"), span)
		if err != nil {
			return nil, err
		}
		op := str(node, "operator")
		if !IsAssignOp(op) {
			return nil, &DecodeError{Msg: fmt.Sprintf("unknown assignment operator %q", op), Span: span}
		}
		return &AssignExpr{Op: op, Left: left, Indices: indices, Right: right, Span: span}, nil
	default:
		return nil, &DecodeError{Msg: fmt.Sprintf("unknown expression type %q", typ), Span: span}
	}
}

func decodeExprs(raws []any, span Span) ([]Expr, error) {
	exprs := make([]Expr, 0, len(raws))
	for _, raw := range raws {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Msg: fmt.Sprintf("invalid expression entry %T", raw), Span: span}
		}
		expr, err := decodeExpr(child)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeSpan(node map[string]any) Span {
	loc := object(node, "loc")
	if loc == nil {
		return Span{}
	}
	return Span{Start: decodePos(object(loc, "start")), End: decodePos(object(loc, "end"))}
}

func decodePos(node map[string]any) Position {
	if node == nil {
		return Position{}
	}
	return Position{Line: num(node, "line"), Col: num(node, "column")}
}

func nodeType(node map[string]any) string {
	return str(node, "type")
}

func label(node map[string]any) string {
	switch v := node["label"].(type) {
	case string:
		return v
	case map[string]any:
		return str(v, "name")
	default:
		return ""
	}
}

func object(node map[string]any, key string) map[string]any {
	if node == nil {
		return nil
	}
	v, _ := node[key].(map[string]any)
	return v
}

func list(node map[string]any, key string) []any {
	if node == nil {
		return nil
	}
	v, _ := node[key].([]any)
	return v
}

func str(node map[string]any, key string) string {
	if node == nil {
		return ""
	}
	switch v := node[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func num(node map[string]any, key string) int {
	switch v := node[key].(type) {
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case float64:
		return int(v)
	default:
		return 0
	}
}
