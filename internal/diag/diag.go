// Package diag renders located errors against their source text.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"intro/internal/ast"
)

// Located is implemented by errors that know where in the source they arose.
type Located interface {
	error
	Location() ast.Span
}

// Render formats err the way the CLI reports failures:
//
//	ConvertError: IDENTIFIER_NOT_FOUND
//	prog.intro:3:5
//	    x = y;
//	    ^
//
// file and src may be empty; the location and snippet lines are dropped when
// they cannot be shown.
func Render(err error, file, src string) string {
	var b strings.Builder
	b.WriteString(name(err))
	b.WriteString(": ")
	b.WriteString(message(err))

	var loc Located
	if !errors.As(err, &loc) || !loc.Location().Known() {
		return b.String()
	}
	pos := loc.Location().Start
	if file != "" {
		fmt.Fprintf(&b, "\n%s:%d:%d", file, pos.Line, pos.Col)
	} else {
		fmt.Fprintf(&b, "\n%d:%d", pos.Line, pos.Col)
	}
	if text, ok := sourceLine(src, pos.Line); ok {
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", max(pos.Col-1, 0)))
		b.WriteString("^")
	}
	return b.String()
}

func name(err error) string {
	var named interface{ Name() string }
	if errors.As(err, &named) {
		return named.Name()
	}
	return "Error"
}

func message(err error) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return err.Error()
}

func sourceLine(src string, line int) (string, bool) {
	if src == "" || line < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}
