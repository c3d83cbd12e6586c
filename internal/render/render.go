// Package render serializes canonical programs to target text.
package render

import (
	"fmt"
	"strings"

	"intro/internal/ast"
)

// Renderer renders canonical Intro programs as script text in which every
// runtime operation is reached through the context handle.
type Renderer struct {
	indent int
	buf    strings.Builder
}

// New creates a new Renderer
func New() *Renderer {
	return &Renderer{}
}

// Render is a convenience wrapper around New().RenderProgram.
func Render(prog *ast.Program) string {
	return New().RenderProgram(prog)
}

// RenderProgram wraps the functions in a factory taking the context handle;
// calling the factory's result with a context runs main.
func (r *Renderer) RenderProgram(prog *ast.Program) string {
	r.buf.Reset()
	r.indent = 0

	r.buf.WriteString("(function(){return function(" + ast.ContextHandle + "){\n")
	for i, fn := range prog.Funcs {
		r.renderFunc(fn)
		if i < len(prog.Funcs)-1 {
			r.buf.WriteString("\n")
		}
	}
	r.buf.WriteString("main();};}());\n")
	return r.buf.String()
}

func (r *Renderer) writeIndent() {
	for i := 0; i < r.indent; i++ {
		r.buf.WriteString("  ")
	}
}

func (r *Renderer) renderFunc(fn *ast.FuncDecl) {
	r.writeIndent()
	r.buf.WriteString("function ")
	r.buf.WriteString(fn.Name)
	r.buf.WriteString("(")
	for i, p := range fn.Params {
		if i > 0 {
			r.buf.WriteString(", ")
		}
		r.buf.WriteString(p.Name)
	}
	r.buf.WriteString(") ")
	r.renderBlock(fn.Body)
	r.buf.WriteString("\n")
}

func (r *Renderer) renderBlock(block *ast.BlockStmt) {
	r.buf.WriteString("{\n")
	r.indent++
	for _, stmt := range block.Stmts {
		r.renderStmt(stmt)
	}
	r.indent--
	r.writeIndent()
	r.buf.WriteString("}")
}

func (r *Renderer) renderStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.writeIndent()
		r.renderBlock(s)
		r.buf.WriteString("\n")
	case *ast.VarDecl:
		r.writeIndent()
		r.buf.WriteString("var ")
		r.buf.WriteString(s.Name)
		r.buf.WriteString(" = ")
		r.renderExpr(s.Init)
		r.buf.WriteString(";\n")
	case *ast.ExprStmt:
		r.writeIndent()
		r.renderExpr(s.Expr)
		r.buf.WriteString(";\n")
	case *ast.IfStmt:
		r.writeIndent()
		r.buf.WriteString("if (")
		r.renderExpr(s.Test)
		r.buf.WriteString(") ")
		r.renderBlock(s.Then)
		if s.Else != nil {
			r.buf.WriteString(" else ")
			r.renderBlock(s.Else)
		}
		r.buf.WriteString("\n")
	case *ast.LabeledStmt:
		r.writeIndent()
		r.buf.WriteString(s.Label)
		r.buf.WriteString(":\n")
		r.renderStmt(s.Body)
	case *ast.ForStmt:
		r.renderFor(s)
	case *ast.WhileStmt:
		r.writeIndent()
		r.buf.WriteString("while (")
		r.renderExpr(s.Test)
		r.buf.WriteString(") ")
		r.renderBlock(s.Body)
		r.buf.WriteString("\n")
	case *ast.BreakStmt:
		r.renderJump("break", s.Label)
	case *ast.ContinueStmt:
		r.renderJump("continue", s.Label)
	case *ast.ReturnStmt:
		r.writeIndent()
		r.buf.WriteString("return")
		if s.Value != nil {
			r.buf.WriteString(" ")
			r.renderExpr(s.Value)
		}
		r.buf.WriteString(";\n")
	default:
		panic(fmt.Sprintf("render: non-canonical statement %T", stmt))
	}
}

// renderFor emits the iterator protocol: the source returns a function that
// yields each value and then null.
func (r *Renderer) renderFor(s *ast.ForStmt) {
	name := s.Counter.Name
	r.writeIndent()
	r.buf.WriteString("for (var ")
	r.buf.WriteString(name)
	r.buf.WriteString(", ")
	r.buf.WriteString(name + "$ = ")
	r.renderExpr(s.Source)
	r.buf.WriteString("; (")
	r.buf.WriteString(name + " = " + name + "$()) !== null;) ")
	r.renderBlock(s.Body)
	r.buf.WriteString("\n")
}

func (r *Renderer) renderJump(keyword, label string) {
	r.writeIndent()
	r.buf.WriteString(keyword)
	if label != "" {
		r.buf.WriteString(" ")
		r.buf.WriteString(label)
	}
	r.buf.WriteString(";\n")
}

func (r *Renderer) renderExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		r.buf.WriteString(e.Name)
	case *ast.IntLit:
		if e.Value < 0 {
			fmt.Fprintf(&r.buf, "(%d)", e.Value)
		} else {
			fmt.Fprintf(&r.buf, "%d", e.Value)
		}
	case *ast.TextLit:
		r.buf.WriteString(quoteText(e.Value))
	case *ast.ConditionalExpr:
		r.buf.WriteString("(")
		r.renderExpr(e.Test)
		r.buf.WriteString(" ? ")
		r.renderExpr(e.Then)
		r.buf.WriteString(" : ")
		r.renderExpr(e.Else)
		r.buf.WriteString(")")
	case *ast.LogicalExpr:
		r.buf.WriteString("(")
		r.renderExpr(e.Left)
		r.buf.WriteString(" " + e.Op + " ")
		r.renderExpr(e.Right)
		r.buf.WriteString(")")
	case *ast.ArrayLit:
		r.buf.WriteString("[")
		r.renderArgs(e.Elems)
		r.buf.WriteString("]")
	case *ast.AssignExpr:
		r.renderExpr(e.Left)
		r.buf.WriteString(" " + e.Op + " ")
		r.renderExpr(e.Right)
	case *ast.CallExpr:
		r.buf.WriteString(e.Callee)
		r.buf.WriteString("(")
		r.renderArgs(e.Args)
		r.buf.WriteString(")")
	case *ast.RuntimeCall:
		r.buf.WriteString(ast.ContextHandle + ".")
		r.buf.WriteString(e.Name)
		r.buf.WriteString("(")
		r.renderArgs(e.Args)
		r.buf.WriteString(")")
	default:
		panic(fmt.Sprintf("render: non-canonical expression %T", expr))
	}
}

func (r *Renderer) renderArgs(args []ast.Expr) {
	for i, arg := range args {
		if i > 0 {
			r.buf.WriteString(", ")
		}
		r.renderExpr(arg)
	}
}

// textEscaper escapes what would end or break a string literal.
var textEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\t", `\t`, "\r", `\r`, "\n", `\n`)

// quoteText renders source text as a double-quoted string literal.
func quoteText(s string) string {
	return `"` + textEscaper.Replace(s) + `"`
}
