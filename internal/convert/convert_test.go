package convert

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"intro/internal/ast"
	"intro/internal/types"
)

func at(line, col int) ast.Span {
	return ast.Span{Start: ast.Position{Line: line, Col: col}, End: ast.Position{Line: line, Col: col + 1}}
}

func num(raw string) *ast.IntLit { return &ast.IntLit{Raw: raw} }

func ref(name string) *ast.Ident { return &ast.Ident{Name: name} }

func arr(elems ...ast.Expr) *ast.ArrayLit { return &ast.ArrayLit{Elems: elems} }

func call(callee string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: callee, Args: args}
}

func bin(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func assign(op string, left ast.Expr, right ast.Expr, indices ...ast.Expr) *ast.AssignExpr {
	return &ast.AssignExpr{Op: op, Left: left, Indices: indices, Right: right}
}

func block(stmts ...ast.Stmt) *ast.BlockStmt { return &ast.BlockStmt{Stmts: stmts} }

func do(e ast.Expr) ast.Stmt { return &ast.ExprStmt{Expr: e} }

func let(name string, init ast.Expr) ast.Stmt { return &ast.VarDecl{Name: name, Init: init} }

func ret(e ast.Expr) ast.Stmt { return &ast.ReturnStmt{Value: e} }

func forIn(v string, first ast.Expr, op ast.ForOp, last, step ast.Expr, body ...ast.Stmt) ast.Stmt {
	return &ast.ForInStmt{Var: v, First: first, Op: op, Last: last, Step: step, Body: block(body...)}
}

func fn(name string, result *types.Type, params []ast.Param, body ...ast.Stmt) *ast.FuncDecl {
	return &ast.FuncDecl{Name: name, Params: params, Ret: result, Body: block(body...)}
}

func program(funcs ...*ast.FuncDecl) *ast.Program { return &ast.Program{Funcs: funcs} }

func mainOf(body ...ast.Stmt) *ast.Program { return program(fn("main", nil, nil, body...)) }

func convertErr(t *testing.T, prog *ast.Program) *Error {
	t.Helper()
	_, err := Convert(prog)
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a conversion error, got %v", err)
	}
	return cerr
}

// lastExpr converts prog and returns the expression of main's last statement.
func lastExpr(t *testing.T, prog *ast.Program) ast.Expr {
	t.Helper()
	out, err := Convert(prog)
	be.Err(t, err, nil)
	stmts := out.Funcs[len(out.Funcs)-1].Body.Stmts
	s, ok := stmts[len(stmts)-1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("last statement is %T, not an expression", stmts[len(stmts)-1])
	}
	return s.Expr
}

func TestRejections(t *testing.T) {
	intParam := func(name string) ast.Param { return ast.Param{Name: name, Type: types.Int()} }
	voidCall := call("write_int", num("1"))

	tests := []struct {
		name string
		prog *ast.Program
		want Kind
	}{
		{"duplicate function", program(fn("f", nil, nil), fn("f", nil, nil)), FunctionNameConflict},
		{"function named like a builtin", program(fn("read_int", nil, nil)), FunctionNameConflict},
		{"duplicate parameter", program(fn("f", nil, []ast.Param{intParam("a"), intParam("a")})), FunctionParamConflict},
		{"parameter named like a function", program(fn("f", nil, []ast.Param{intParam("f")})), FunctionParamConflict},
		{"empty non-void body", program(fn("f", types.Int(), nil)), FunctionReturnMissing},
		{"return only inside a branch", program(fn("f", types.Int(), nil,
			&ast.IfStmt{Test: num("1"), Then: block(ret(num("1")))})), FunctionReturnMissing},

		{"variable redeclared", mainOf(let("x", num("1")), let("x", num("2"))), VariableNameConflict},
		{"variable shadows outer variable", mainOf(let("x", num("1")), block(let("x", num("2")))), VariableNameConflict},
		{"variable named like a function", mainOf(let("main", num("1"))), VariableNameConflict},
		{"void initializer", mainOf(let("x", voidCall)), VariableInitVoid},

		{"array if test", mainOf(&ast.IfStmt{Test: arr(num("1")), Then: block()}), IfTestBadType},
		{"void while test", mainOf(&ast.WhileStmt{Test: voidCall, Body: block()}), WhileTestBadType},

		{"void for source", mainOf(forIn("i", voidCall, ast.ForPlain, nil, nil)), ForFirstVoid},
		{"array for bound", mainOf(forIn("i", num("0"), ast.ForUpTo, arr(num("1")), nil)), ForLastBadType},
		{"array for step", mainOf(forIn("i", num("0"), ast.ForUpTo, num("3"), arr(num("1")))), ForStepBadType},
		{"step without bound", mainOf(forIn("i", num("3"), ast.ForPlain, nil, arr(num("1")))), ForStepBadType},
		{"plain for with bound", mainOf(forIn("i", num("3"), ast.ForPlain, num("4"), nil)), ForLastFound},
		{"array for with bound", mainOf(forIn("i", arr(num("1")), ast.ForUpTo, num("4"), nil)), ForLastFound},
		{"directional for without bound", mainOf(forIn("i", num("0"), ast.ForDownTo, nil, nil)), ForLastNotFound},
		{"array for with step", mainOf(forIn("i", arr(num("1")), ast.ForPlain, nil, num("1"))), ForStepFound},

		{"break outside loop", mainOf(&ast.BreakStmt{}), BreakNotInLoop},
		{"continue in function called from loop", program(fn("main", nil, nil), fn("f", nil, nil, &ast.ContinueStmt{})), ContinueNotInLoop},

		{"bare return in non-void", program(fn("f", types.Int(), nil, &ast.ReturnStmt{})), ReturnArgumentNotFound},
		{"wrong return type", program(fn("f", types.Int(), nil, ret(arr(num("1"))))), ReturnArgumentDifferentType},
		{"value return in void", mainOf(ret(num("1"))), ReturnArgumentFound},

		{"array conditional test", mainOf(do(&ast.ConditionalExpr{Test: arr(), Then: num("1"), Else: num("2")})), ConditionalTestBadType},
		{"void consequent", mainOf(do(&ast.ConditionalExpr{Test: num("1"), Then: voidCall, Else: num("2")})), ConditionalConsequentVoid},
		{"mismatched alternate", mainOf(do(&ast.ConditionalExpr{Test: num("1"), Then: num("1"), Else: arr()})), ConditionalAlternateDifferentType},

		{"array logical left", mainOf(do(&ast.LogicalExpr{Op: "&&", Left: arr(), Right: num("1")})), LogicalLeftBadType},
		{"array logical right", mainOf(do(&ast.LogicalExpr{Op: "||", Left: num("1"), Right: arr()})), LogicalRightDifferentType},
		{"unknown logical operator", mainOf(do(&ast.LogicalExpr{Op: "??", Left: num("1"), Right: num("1")})), OperatorUnknown},

		{"array binary left", mainOf(do(bin("+", arr(), num("1")))), BinaryLeftBadType},
		{"array binary right", mainOf(do(bin("<", num("1"), arr()))), BinaryRightDifferentType},
		{"unknown binary operator", mainOf(do(bin("**", num("1"), num("1")))), OperatorUnknown},

		{"negated array", mainOf(do(&ast.UnaryExpr{Op: "-", Operand: arr()})), UnaryArgumentBadType},
		{"length of integer", mainOf(do(&ast.UnaryExpr{Op: "$", Operand: num("1")})), UnaryArgumentNotArray},
		{"unknown unary operator", mainOf(do(&ast.UnaryExpr{Op: "?", Operand: num("1")})), OperatorUnknown},

		{"unknown callee", mainOf(do(call("nope"))), CallNameNotFound},
		{"variable called", mainOf(let("x", num("1")), do(call("x"))), CallNameNotFound},
		{"missing argument", mainOf(do(call("write_int"))), CallArgumentsDifferentCount},
		{"array argument", mainOf(do(call("write_int", arr()))), CallArgumentDifferentType},

		{"index into integer", mainOf(do(&ast.IndexExpr{Object: num("1"), Index: num("0")})), IndexedMemberObjectNotArray},
		{"array index", mainOf(do(&ast.IndexExpr{Object: arr(num("1")), Index: arr()})), IndexedMemberIndexBadType},

		{"literal overflow", mainOf(do(num("2147483648"))), LiteralOverflow},
		{"hex literal overflow", mainOf(do(num("0x1_0000_0000"))), LiteralOverflow},
		{"unknown identifier", mainOf(do(ref("y"))), IdentifierNotFound},
		{"function used as value", mainOf(do(ref("main"))), IdentifierNotFound},
		{"new without sizes", mainOf(do(&ast.NewExpr{Elem: types.Int()})), NewIndexBadType},
		{"new with array size", mainOf(do(&ast.NewExpr{Elem: types.Int(), Sizes: []ast.Expr{arr()}})), NewIndexBadType},

		{"canonical call in input", mainOf(do(&ast.RuntimeCall{Name: "add"})), NodeNotConvertible},
		{"canonical loop in input", mainOf(&ast.ForStmt{}), NodeNotConvertible},

		{"void array element", mainOf(do(arr(voidCall))), ArrayElementVoid},
		{"mixed array elements", mainOf(do(arr(num("1"), arr()))), ArrayElementDifferentType},

		{"unknown assignment operator", mainOf(let("x", num("1")), do(assign("**=", ref("x"), num("1")))), OperatorUnknown},
		{"assign to literal", mainOf(do(assign("=", num("1"), num("2")))), AssignmentLeftNotVariable},
		{"assign array to integer", mainOf(let("x", num("1")), do(assign("=", ref("x"), arr()))), AssignmentRightBadType},
		{"compound assign on array", mainOf(let("a", arr()), do(assign("+=", ref("a"), arr()))), AssignmentRightBadType},
		{"compound indexed assign of array", mainOf(let("a", arr(num("1"))), do(assign("+=", ref("a"), arr(), num("0")))), IndexedAssignmentRightBadType},
		{"array index in assignment", mainOf(let("a", arr(num("1"))), do(assign("=", ref("a"), num("1"), arr()))), IndexedAssignmentIndexBadType},
		{"indexed assign to integer", mainOf(let("x", num("1")), do(assign("=", ref("x"), num("1"), num("0")))), IndexedAssignmentLeftNotArray},
		{"too many indices", mainOf(let("a", arr(num("1"))), do(assign("=", ref("a"), num("1"), num("0"), num("0")))), IndexedAssignmentLeftNotArray},
		{"indexed assign of wrong type", mainOf(let("a", arr(num("1"))), do(assign("=", ref("a"), arr(), num("0")))), IndexedAssignmentRightDifferentType},

		{"block variable out of scope", mainOf(block(let("x", num("1"))), do(ref("x"))), IdentifierNotFound},
		{"loop counter out of scope", mainOf(forIn("i", num("3"), ast.ForPlain, nil, nil), do(ref("i"))), IdentifierNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, convertErr(t, tt.prog).Kind, tt.want)
		})
	}
}

func TestErrorLocations(t *testing.T) {
	lit := &ast.IntLit{Raw: "99999999999", Span: at(3, 9)}
	err := convertErr(t, mainOf(do(lit)))
	be.Equal(t, err.Span, at(3, 9))
	be.Equal(t, err.Error(), "3:9: LITERAL_OVERFLOW")

	c := &ast.CallExpr{Callee: "nope", CalleeSpan: at(2, 5), Span: ast.Span{Start: at(2, 5).Start, End: ast.Position{Line: 2, Col: 11}}}
	err = convertErr(t, mainOf(do(c)))
	be.Equal(t, err.Span, at(2, 5))

	f := fn("f", types.Int(), nil)
	f.Body.Span = at(7, 14)
	err = convertErr(t, program(f))
	be.Equal(t, err.Span, at(7, 14))

	dup := fn("main", nil, nil)
	dup.NameSpan = at(9, 10)
	err = convertErr(t, program(fn("main", nil, nil), dup))
	be.Equal(t, err.Span, at(9, 10))

	be.Equal(t, err.Name(), "ConvertError")
	be.Equal(t, err.Message(), "FUNCTION_NAME_CONFLICT")
}

func TestVariableConflictIsCheckedBeforeInitializer(t *testing.T) {
	prog := mainOf(let("x", num("1")), let("x", ref("missing")))
	be.Equal(t, convertErr(t, prog).Kind, VariableNameConflict)
}

func TestCompoundAssignmentLowering(t *testing.T) {
	e := lastExpr(t, mainOf(let("x", num("1")), do(assign("+=", ref("x"), num("2")))))
	a, ok := e.(*ast.AssignExpr)
	be.True(t, ok)
	be.Equal(t, a.Op, "=")
	be.Equal(t, a.Left.(*ast.Ident).Name, "x")
	rc, ok := a.Right.(*ast.RuntimeCall)
	be.True(t, ok)
	be.Equal(t, rc.Name, "add")
	be.Equal(t, rc.Args[0].(*ast.Ident).Name, "x")
	be.Equal(t, rc.Args[1].(*ast.IntLit).Value, int32(2))
	be.True(t, a.DataType() == nil)
}

func TestIndexedAssignmentLowering(t *testing.T) {
	grid := &ast.NewExpr{Elem: types.Int(), Sizes: []ast.Expr{num("2"), num("3")}}
	e := lastExpr(t, mainOf(let("g", grid), do(assign("-=", ref("g"), num("1"), num("1"), num("2")))))
	rc, ok := e.(*ast.RuntimeCall)
	be.True(t, ok)
	be.Equal(t, rc.Name, "subAt")
	be.Equal(t, len(rc.Args), 3)

	inner, ok := rc.Args[0].(*ast.RuntimeCall)
	be.True(t, ok)
	be.Equal(t, inner.Name, "getAt")
	be.True(t, inner.Type.Equals(types.IntArray()))
	be.Equal(t, inner.Args[0].(*ast.Ident).Name, "g")
	be.Equal(t, rc.Args[1].(*ast.IntLit).Value, int32(2))
	be.True(t, rc.DataType() == nil)

	e = lastExpr(t, mainOf(let("a", arr(num("1"))), do(assign("=", ref("a"), num("5"), num("0")))))
	be.Equal(t, e.(*ast.RuntimeCall).Name, "setAt")
}

func rangeArgs(t *testing.T, s ast.Stmt) []int32 {
	t.Helper()
	loop, ok := s.(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected a ForStmt, got %T", s)
	}
	be.Equal(t, loop.Source.Name, "range")
	var out []int32
	for _, a := range loop.Source.Args {
		out = append(out, a.(*ast.IntLit).Value)
	}
	return out
}

func TestForInLowering(t *testing.T) {
	tests := []struct {
		name string
		loop ast.Stmt
		want []int32
	}{
		{"plain", forIn("i", num("5"), ast.ForPlain, nil, nil), []int32{0, 5, 1, 0}},
		{"plain with step", forIn("i", num("5"), ast.ForPlain, nil, num("2")), []int32{0, 5, 2, 0}},
		{"up to", forIn("i", num("1"), ast.ForUpTo, num("4"), nil), []int32{1, 4, 1, 0}},
		{"up through with step", forIn("i", num("0"), ast.ForUpThrough, num("10"), num("2")), []int32{0, 10, 2, 1}},
		{"down to", forIn("i", num("10"), ast.ForDownTo, num("0"), nil), []int32{10, 0, -1, 0}},
		{"down through", forIn("i", num("3"), ast.ForDownThrough, num("1"), nil), []int32{3, 1, -1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert(mainOf(tt.loop))
			be.Err(t, err, nil)
			be.Equal(t, rangeArgs(t, out.Funcs[0].Body.Stmts[0]), tt.want)
		})
	}
}

func TestForInOverArray(t *testing.T) {
	rows := arr(arr(num("1")), arr(num("2")))
	body := do(call("write_ints", ref("row")))
	out, err := Convert(mainOf(forIn("row", rows, ast.ForPlain, nil, nil, body)))
	be.Err(t, err, nil)
	loop := out.Funcs[0].Body.Stmts[0].(*ast.ForStmt)
	be.Equal(t, loop.Source.Name, "iter")
	be.Equal(t, loop.Counter.Name, "row")
	be.True(t, loop.Counter.Type.Equals(types.IntArray()))
}

func TestForInCounterScope(t *testing.T) {
	shadowing := mainOf(let("i", num("9")), forIn("i", num("3"), ast.ForPlain, nil, nil, do(call("write_int", ref("i")))))
	_, err := Convert(shadowing)
	be.Err(t, err, nil)

	redeclared := mainOf(forIn("i", num("3"), ast.ForPlain, nil, nil, let("i", num("1"))))
	be.Equal(t, convertErr(t, redeclared).Kind, VariableNameConflict)
}

func TestBreakInsideLoopIsAccepted(t *testing.T) {
	loop := &ast.WhileStmt{Test: num("1"), Body: block(&ast.LabeledStmt{Label: "x", Body: block(&ast.BreakStmt{Label: "x"})}, &ast.BreakStmt{})}
	_, err := Convert(mainOf(loop, forIn("i", num("3"), ast.ForPlain, nil, nil, &ast.ContinueStmt{})))
	be.Err(t, err, nil)
}

func TestCallLowering(t *testing.T) {
	double := fn("double", types.Int(), []ast.Param{{Name: "n", Type: types.Int()}}, ret(bin("*", ref("n"), num("2"))))
	prog := program(double, fn("main", nil, nil, do(call("write_int", call("double", num("4"))))))
	e := lastExpr(t, prog)

	builtin, ok := e.(*ast.RuntimeCall)
	be.True(t, ok)
	be.Equal(t, builtin.Name, "write_int")
	user, ok := builtin.Args[0].(*ast.CallExpr)
	be.True(t, ok)
	be.Equal(t, user.Callee, "double")
	be.True(t, user.Type.IsInt())
}

func TestExpressionLowering(t *testing.T) {
	e := lastExpr(t, mainOf(let("a", arr(num("1"))), do(&ast.UnaryExpr{Op: "$", Operand: ref("a")})))
	be.Equal(t, e.(*ast.RuntimeCall).Name, "len")

	e = lastExpr(t, mainOf(do(bin("//", num("0x10"), num("0b11")))))
	rc := e.(*ast.RuntimeCall)
	be.Equal(t, rc.Name, "fdiv")
	be.Equal(t, rc.Args[0].(*ast.IntLit).Value, int32(16))
	be.Equal(t, rc.Args[1].(*ast.IntLit).Value, int32(3))

	e = lastExpr(t, mainOf(do(&ast.NewExpr{Elem: types.Int(), Sizes: []ast.Expr{num("2"), num("2")}})))
	be.Equal(t, e.(*ast.RuntimeCall).Name, "zeros")
	be.Equal(t, e.DataType().String(), "Int[][]")

	e = lastExpr(t, mainOf(do(arr())))
	be.Equal(t, e.DataType().String(), "Int[]")

	e = lastExpr(t, mainOf(do(&ast.ConditionalExpr{Test: num("1"), Then: arr(), Else: arr(num("2"))})))
	be.Equal(t, e.DataType().String(), "Int[]")
}

func TestTraceLowering(t *testing.T) {
	tr := &ast.TraceExpr{Text: "x, x + 1", Exprs: []ast.Expr{num("1"), bin("+", num("1"), num("1"))}, Span: at(4, 3)}
	rc := lastExpr(t, mainOf(do(tr))).(*ast.RuntimeCall)
	be.Equal(t, rc.Name, "trace")
	be.Equal(t, len(rc.Args), 4)
	be.Equal(t, rc.Args[0].(*ast.IntLit).Value, int32(4))
	be.Equal(t, rc.Args[1].(*ast.TextLit).Value, "x, x + 1")
	be.True(t, rc.DataType() == nil)
}

func TestInputIsNotModified(t *testing.T) {
	lit := num("7")
	prog := mainOf(let("x", lit))
	_, err := Convert(prog)
	be.Err(t, err, nil)
	be.True(t, lit.Type == nil)
	be.Equal(t, lit.Value, int32(0))

	_, err = Convert(prog)
	be.Err(t, err, nil)
}
