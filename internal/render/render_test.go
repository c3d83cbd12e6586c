package render

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"intro/internal/ast"
	"intro/internal/convert"
	"intro/internal/types"
)

func lit(raw string) *ast.IntLit { return &ast.IntLit{Raw: raw} }

func ref(name string) *ast.Ident { return &ast.Ident{Name: name} }

func call(callee string, args ...ast.Expr) ast.Stmt {
	return &ast.ExprStmt{Expr: &ast.CallExpr{Callee: callee, Args: args}}
}

func mustConvert(t *testing.T, prog *ast.Program) *ast.Program {
	t.Helper()
	out, err := convert.Convert(prog)
	be.Err(t, err, nil)
	return out
}

func TestRenderProgram(t *testing.T) {
	prog := mustConvert(t, &ast.Program{Funcs: []*ast.FuncDecl{{
		Name: "main",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.VarDecl{Name: "x", Init: lit("1")},
			&ast.ForInStmt{Var: "i", First: lit("0"), Op: ast.ForUpTo, Last: lit("3"), Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Op: "+=", Left: ref("x"), Right: ref("i")}},
			}}},
			call("write_int", ref("x")),
		}},
	}}})

	want := strings.Join([]string{
		"(function(){return function($){",
		"function main() {",
		"  var x = 1;",
		"  for (var i, i$ = $.range(0, 3, 1, 0); (i = i$()) !== null;) {",
		"    x = $.add(x, i);",
		"  }",
		"  $.write_int(x);",
		"}",
		"main();};}());",
		"",
	}, "\n")
	be.Equal(t, Render(prog), want)
}

func TestRenderStatements(t *testing.T) {
	double := &ast.FuncDecl{
		Name:   "double",
		Params: []ast.Param{{Name: "n", Type: types.Int()}, {Name: "a", Type: types.IntArray()}},
		Ret:    types.Int(),
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{
				Test: &ast.LogicalExpr{Op: "&&", Left: ref("n"), Right: &ast.UnaryExpr{Op: "$", Operand: ref("a")}},
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.UnaryExpr{Op: "-", Operand: ref("n")}}}},
				Else: &ast.BlockStmt{},
			},
			&ast.ReturnStmt{Value: &ast.ConditionalExpr{Test: ref("n"), Then: lit("2"), Else: lit("3")}},
		}},
	}
	main := &ast.FuncDecl{
		Name: "main",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LabeledStmt{Label: "outer", Body: &ast.WhileStmt{Test: lit("1"), Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ForInStmt{Var: "j", First: lit("5"), Op: ast.ForDownTo, Last: lit("0"), Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ContinueStmt{Label: "outer"},
				}}},
				&ast.BreakStmt{},
			}}}},
			&ast.ExprStmt{Expr: &ast.TraceExpr{Text: `say "hi"`, Exprs: []ast.Expr{&ast.ArrayLit{Elems: []ast.Expr{lit("1")}}}, Span: ast.Span{Start: ast.Position{Line: 9, Col: 3}}}},
		}},
	}
	out := Render(mustConvert(t, &ast.Program{Funcs: []*ast.FuncDecl{double, main}}))

	for _, fragment := range []string{
		"function double(n, a) {\n",
		"  if ((n && $.len(a))) {\n    return $.neg(n);\n  } else {\n  }\n",
		"  return (n ? 2 : 3);\n",
		"}\n\nfunction main() {\n",
		"  outer:\n  while (1) {\n",
		"$.range(5, 0, (-1), 0)",
		"      continue outer;\n",
		"    break;\n",
		`  $.trace(9, "say \"hi\"", [1]);` + "\n",
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("rendered text is missing %q:\n%s", fragment, out)
		}
	}
}

func TestRenderRejectsInputNodes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("rendering an unconverted tree should panic")
		}
	}()
	Render(&ast.Program{Funcs: []*ast.FuncDecl{{
		Name: "main",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ExprStmt{Expr: &ast.BinaryExpr{Op: "+", Left: lit("1"), Right: lit("2")}},
		}},
	}}})
}

func TestQuoteText(t *testing.T) {
	be.Equal(t, quoteText(`a[i] + "b"`), `"a[i] + \"b\""`)
	be.Equal(t, quoteText("x\ty\\z\r\n"), `"x\ty\\z\r\n"`)
	be.Equal(t, quoteText(""), `""`)
}
