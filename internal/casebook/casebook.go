// Package casebook extracts test cases written as Markdown documents.
//
// A case starts at a heading "Test: <name>" and is made of fenced code
// blocks: exactly one intro-tree fence holding the JSON input tree, an
// optional input fence holding stdin lines, and one or more assertion
// fences (output, trace, convert-error, fault).
package casebook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const TreeFence = "intro-tree"

// InputFence holds the lines served to the program's input source.
const InputFence = "input"

type AssertionType string

const (
	// AssertOutput expects the exact output lines.
	AssertOutput AssertionType = "output"
	// AssertTrace expects the exact diagnostic lines.
	AssertTrace AssertionType = "trace"
	// AssertConvertError expects conversion to fail with the given kind.
	AssertConvertError AssertionType = "convert-error"
	// AssertFault expects the run to abort with the given fault kind.
	AssertFault AssertionType = "fault"
)

type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

type TestCase struct {
	Name       string
	Tree       string
	Input      string
	HasInput   bool
	Assertions []Assertion
}

// Lines splits fence content into lines; empty content has no lines.
func Lines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// ExtractTestCases parses a Markdown document and extracts every case.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := textOf(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			content := blockContent(n, source)
			line := lineOf(n, source)

			if current == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, lang)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case lang == TreeFence:
				if current.Tree != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple %s fences in test '%s'", line, TreeFence, current.Name)
				}
				current.Tree = content
			case lang == InputFence:
				if current.HasInput {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test '%s'", line, current.Name)
				}
				current.Input = content
				current.HasInput = true
			case isAssertion(lang):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			case lang != "":
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown: %w", err)
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

func isAssertion(lang string) bool {
	switch AssertionType(lang) {
	case AssertOutput, AssertTrace, AssertConvertError, AssertFault:
		return true
	}
	return false
}

func validate(tc *TestCase) error {
	if strings.TrimSpace(tc.Tree) == "" {
		return fmt.Errorf("test '%s' has no %s fence", tc.Name, TreeFence)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

func textOf(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
