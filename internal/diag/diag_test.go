package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nalgeon/be"

	"intro/internal/ast"
	"intro/internal/convert"
	"intro/internal/interp"
	"intro/internal/runtime"
)

func span(line, col int) ast.Span {
	return ast.Span{Start: ast.Position{Line: line, Col: col}, End: ast.Position{Line: line, Col: col + 1}}
}

func TestRenderWithSource(t *testing.T) {
	src := "main() {\n  var x = 1\n  x = y\n}\n"
	err := &convert.Error{Kind: convert.IdentifierNotFound, Span: span(3, 7)}
	want := "ConvertError: IDENTIFIER_NOT_FOUND\n" +
		"prog.intro:3:7\n" +
		"  x = y\n" +
		"      ^"
	be.Equal(t, Render(err, "prog.intro", src), want)
}

func TestRenderWithoutSource(t *testing.T) {
	err := &interp.RuntimeError{Err: runtime.ErrOverflow, Span: span(5, 2)}
	be.Equal(t, Render(err, "", ""), "RangeError: integer overflow\n5:2")
	be.Equal(t, Render(err, "tree.json", ""), "RangeError: integer overflow\ntree.json:5:2")
}

func TestRenderUnlocated(t *testing.T) {
	be.Equal(t, Render(&interp.RuntimeError{Err: interp.ErrMainNotFound}, "a.intro", "x"), "LaunchError: MAIN_NOT_FOUND")
	be.Equal(t, Render(errors.New("boom"), "a.intro", "x"), "Error: boom")
}

func TestRenderSeesThroughWrapping(t *testing.T) {
	inner := &convert.Error{Kind: convert.LiteralOverflow, Span: span(1, 1)}
	err := fmt.Errorf("compile: %w", inner)
	be.Equal(t, Render(err, "", "99999999999\n"), "ConvertError: LITERAL_OVERFLOW\n1:1\n99999999999\n^")
}

func TestRenderLineOutOfRange(t *testing.T) {
	err := &convert.Error{Kind: convert.BreakNotInLoop, Span: span(10, 3)}
	be.Equal(t, Render(err, "p", "one line"), "ConvertError: BREAK_NOT_IN_LOOP\np:10:3")
}
