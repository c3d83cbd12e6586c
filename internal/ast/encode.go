package ast

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON writes a (converted) program as an indented JSON tree. Runtime
// calls appear as calls on the context handle, e.g. `$.add(a, b)`.
func EncodeJSON(w io.Writer, prog *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(encodeProgram(prog))
}

func encodeProgram(p *Program) map[string]any {
	body := make([]any, 0, len(p.Funcs))
	for _, fn := range p.Funcs {
		body = append(body, encodeFunc(fn))
	}
	return node("Program", p.Span, map[string]any{"body": body})
}

func encodeFunc(fn *FuncDecl) map[string]any {
	params := make([]any, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, map[string]any{
			"name":     p.Name,
			"dataType": p.Type.String(),
			"loc":      encodeSpan(p.Span),
		})
	}
	fields := map[string]any{
		"id":     identNode(fn.Name, fn.NameSpan),
		"params": params,
		"body":   encodeStmt(fn.Body),
	}
	if fn.Ret != nil {
		fields["resultType"] = fn.Ret.String()
	}
	return node("FunctionDeclaration", fn.Span, fields)
}

func encodeStmt(stmt Stmt) map[string]any {
	switch s := stmt.(type) {
	case *BlockStmt:
		body := make([]any, 0, len(s.Stmts))
		for _, inner := range s.Stmts {
			body = append(body, encodeStmt(inner))
		}
		return node("BlockStatement", s.Span, map[string]any{"body": body})
	case *VarDecl:
		return node("VariableDeclaration", s.Span, map[string]any{
			"declarations": []any{map[string]any{
				"type": "VariableDeclarator",
				"id":   identNode(s.Name, s.NameSpan),
				"init": encodeExpr(s.Init),
			}},
		})
	case *ExprStmt:
		return node("ExpressionStatement", s.Span, map[string]any{"expression": encodeExpr(s.Expr)})
	case *IfStmt:
		fields := map[string]any{"test": encodeExpr(s.Test), "consequent": encodeStmt(s.Then)}
		if s.Else != nil {
			fields["alternate"] = encodeStmt(s.Else)
		}
		return node("IfStatement", s.Span, fields)
	case *LabeledStmt:
		return node("LabeledStatement", s.Span, map[string]any{
			"label": identNode(s.Label, Span{}),
			"body":  encodeStmt(s.Body),
		})
	case *ForInStmt:
		fields := map[string]any{
			"left":  identNode(s.Var, s.VarSpan),
			"right": encodeExpr(s.First),
			"body":  encodeStmt(s.Body),
		}
		if s.Op != ForPlain {
			fields["operator"] = string(s.Op)
		}
		if s.Last != nil {
			fields["last"] = encodeExpr(s.Last)
		}
		if s.Step != nil {
			fields["step"] = encodeExpr(s.Step)
		}
		return node("ForInStatement", s.Span, fields)
	case *ForStmt:
		return node("ForStatement", s.Span, map[string]any{
			"counter": encodeExpr(s.Counter),
			"source":  encodeExpr(s.Source),
			"body":    encodeStmt(s.Body),
		})
	case *WhileStmt:
		return node("WhileStatement", s.Span, map[string]any{"test": encodeExpr(s.Test), "body": encodeStmt(s.Body)})
	case *BreakStmt:
		return node("BreakStatement", s.Span, labelField(s.Label))
	case *ContinueStmt:
		return node("ContinueStatement", s.Span, labelField(s.Label))
	case *ReturnStmt:
		fields := map[string]any{}
		if s.Value != nil {
			fields["argument"] = encodeExpr(s.Value)
		}
		return node("ReturnStatement", s.Span, fields)
	default:
		panic(fmt.Sprintf("encode: unexpected statement %T", stmt))
	}
}

func encodeExpr(expr Expr) map[string]any {
	var out map[string]any
	switch e := expr.(type) {
	case *ConditionalExpr:
		out = node("ConditionalExpression", e.Span, map[string]any{
			"test":       encodeExpr(e.Test),
			"consequent": encodeExpr(e.Then),
			"alternate":  encodeExpr(e.Else),
		})
	case *LogicalExpr:
		out = node("LogicalExpression", e.Span, map[string]any{
			"operator": e.Op,
			"left":     encodeExpr(e.Left),
			"right":    encodeExpr(e.Right),
		})
	case *BinaryExpr:
		out = node("BinaryExpression", e.Span, map[string]any{
			"operator": e.Op,
			"left":     encodeExpr(e.Left),
			"right":    encodeExpr(e.Right),
		})
	case *UnaryExpr:
		out = node("UnaryExpression", e.Span, map[string]any{
			"operator": e.Op,
			"argument": encodeExpr(e.Operand),
		})
	case *CallExpr:
		out = node("CallExpression", e.Span, map[string]any{
			"callee":    identNode(e.Callee, e.CalleeSpan),
			"arguments": encodeExprs(e.Args),
		})
	case *IndexExpr:
		out = node("MemberExpression", e.Span, map[string]any{
			"object":   encodeExpr(e.Object),
			"property": encodeExpr(e.Index),
		})
	case *IntLit:
		out = node("Literal", e.Span, map[string]any{"value": e.Value, "raw": e.Raw})
	case *TextLit:
		out = node("Literal", e.Span, map[string]any{"value": e.Value})
	case *Ident:
		out = identNode(e.Name, e.Span)
	case *NewExpr:
		out = node("NewExpression", e.Span, map[string]any{
			"callee":    e.Elem.String(),
			"arguments": encodeExprs(e.Sizes),
		})
	case *ArrayLit:
		out = node("ArrayExpression", e.Span, map[string]any{"elements": encodeExprs(e.Elems)})
	case *TraceExpr:
		out = node("SequenceExpression", e.Span, map[string]any{
			"text":        e.Text,
			"expressions": encodeExprs(e.Exprs),
		})
	case *AssignExpr:
		fields := map[string]any{
			"operator": e.Op,
			"left":     encodeExpr(e.Left),
			"right":    encodeExpr(e.Right),
		}
		if len(e.Indices) > 0 {
			fields["indices"] = encodeExprs(e.Indices)
		}
		out = node("AssignmentExpression", e.Span, fields)
	case *RuntimeCall:
		out = node("CallExpression", e.Span, map[string]any{
			"callee": map[string]any{
				"type":     "MemberExpression",
				"object":   identNode(ContextHandle, Span{}),
				"property": identNode(e.Name, Span{}),
			},
			"arguments": encodeExprs(e.Args),
		})
	default:
		panic(fmt.Sprintf("encode: unexpected expression %T", expr))
	}
	if t := expr.DataType(); t != nil {
		out["dataType"] = t.String()
	}
	return out
}

func encodeExprs(exprs []Expr) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, encodeExpr(e))
	}
	return out
}

func node(typ string, span Span, fields map[string]any) map[string]any {
	fields["type"] = typ
	if span.Known() {
		fields["loc"] = encodeSpan(span)
	}
	return fields
}

func identNode(name string, span Span) map[string]any {
	return node("Identifier", span, map[string]any{"name": name})
}

func labelField(label string) map[string]any {
	if label == "" {
		return map[string]any{}
	}
	return map[string]any{"label": identNode(label, Span{})}
}

func encodeSpan(span Span) map[string]any {
	return map[string]any{
		"start": map[string]any{"line": span.Start.Line, "column": span.Start.Col},
		"end":   map[string]any{"line": span.End.Line, "column": span.End.Col},
	}
}
