// Package harness runs a program against fixture case directories and
// checks its output line by line.
package harness

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"intro/internal/ast"
	"intro/internal/config"
	"intro/internal/interp"
	"intro/internal/runtime"
)

var (
	ErrInputNotFound  = errors.New("INPUT_NOT_FOUND")
	ErrOutputNotFound = errors.New("OUTPUT_NOT_FOUND")
)

// TestFailure reports the first output line that differs from the fixture.
// A nil Expected or Actual means that side had already ended.
type TestFailure struct {
	Case     string
	File     string
	Line     int
	Expected []int64
	Actual   []int64
}

func (f *TestFailure) Error() string {
	return fmt.Sprintf("%s\n%s:%d\nexpected: %s\nactual  : %s\n",
		f.Case, f.File, f.Line, formatInts(f.Expected), formatInts(f.Actual))
}

func (f *TestFailure) Name() string { return "TestFailure" }

func formatInts(v []int64) string {
	if v == nil {
		return "null"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// AssertWriter is an output sink that compares every written line, as a
// list of integers, with the next line of an expected-output source.
type AssertWriter struct {
	caseName string
	file     string
	expected runtime.LineReader
	line     int
}

func NewAssertWriter(caseName, file string, expected runtime.LineReader) *AssertWriter {
	return &AssertWriter{caseName: caseName, file: file, expected: expected}
}

func (w *AssertWriter) WriteLine(line string) error {
	return w.compare(runtime.ParseInts(line))
}

// Close checks that the expected output has no lines left.
func (w *AssertWriter) Close() error {
	return w.compare(nil)
}

func (w *AssertWriter) compare(actual []int64) error {
	w.line++
	var expected []int64
	text, err := w.expected.ReadLine()
	switch {
	case err == io.EOF:
	case err != nil:
		return errors.Wrapf(err, "read %s", w.file)
	default:
		expected = runtime.ParseInts(text)
	}
	if !sameInts(expected, actual) {
		return &TestFailure{Case: w.caseName, File: w.file, Line: w.line, Expected: expected, Actual: actual}
	}
	return nil
}

func sameInts(a, b []int64) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Case is one fixture directory.
type Case struct {
	Name   string
	Dir    string
	Input  string
	Output string
}

// FindCases lists the case directories under dir in name order. Every case
// needs an input file and an output file.
func FindCases(dir string, layout config.Cases) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read case directory")
	}
	var cases []Case
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), layout.Prefix) {
			continue
		}
		caseDir := filepath.Join(dir, entry.Name())
		input, err := findFile(caseDir, layout.Input)
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, errors.Wrap(ErrInputNotFound, entry.Name())
		}
		output, err := findFile(caseDir, layout.Output)
		if err != nil {
			return nil, err
		}
		if output == "" {
			return nil, errors.Wrap(ErrOutputNotFound, entry.Name())
		}
		cases = append(cases, Case{Name: entry.Name(), Dir: caseDir, Input: input, Output: output})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

func findFile(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", dir)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}

// Runner executes one program against fixture cases.
type Runner struct {
	Program *ast.Program
	// Diag receives trace lines; nil discards them.
	Diag runtime.LineWriter
	// Report receives one "TestSuccess: <case>" line per passing case.
	Report io.Writer
}

// RunCase runs the program once with a fresh context bound to the case files.
func (r *Runner) RunCase(c Case) error {
	in, err := os.Open(c.Input)
	if err != nil {
		return errors.Wrapf(err, "open input of %s", c.Name)
	}
	defer in.Close()
	want, err := os.Open(c.Output)
	if err != nil {
		return errors.Wrapf(err, "open output of %s", c.Name)
	}
	defer want.Close()

	out := NewAssertWriter(c.Name, c.Output, runtime.NewLineReader(want))
	ctx := runtime.New(runtime.NewLineReader(in), out, r.Diag)
	if err := interp.Run(r.Program, ctx); err != nil {
		return err
	}
	return out.Close()
}

// RunAll stops at the first failing case.
func (r *Runner) RunAll(cases []Case) error {
	for _, c := range cases {
		if err := r.RunCase(c); err != nil {
			return err
		}
		if r.Report != nil {
			fmt.Fprintf(r.Report, "TestSuccess: %s\n", c.Name)
		}
	}
	return nil
}
