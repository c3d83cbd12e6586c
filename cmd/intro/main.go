package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"intro/internal/ast"
	"intro/internal/compiler"
	"intro/internal/config"
	"intro/internal/diag"
	"intro/internal/harness"
	"intro/internal/interp"
	"intro/internal/runtime"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "convert":
		convertCmd(os.Args[2:])
	case "generate":
		generateCmd(os.Args[2:])
	case "run":
		runCmd(os.Args[2:])
	case "test":
		testCmd(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  intro convert  [-config <intro.yaml>] <tree.json>")
	fmt.Fprintln(os.Stderr, "  intro generate [-config <intro.yaml>] <tree.json>")
	fmt.Fprintln(os.Stderr, "  intro run      [-config <intro.yaml>] [-source <file>] <tree.json>")
	fmt.Fprintln(os.Stderr, "  intro test     [-config <intro.yaml>] [-source <file>] <tree.json>")
	fmt.Fprintln(os.Stderr, "  intro version")
}

// session is what every subcommand needs after flag parsing.
type session struct {
	tree   string
	cfg    *config.Config
	source string
	text   string
}

func parseArgs(name string, args []string) *session {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to intro.yaml")
	source := fs.String("source", "", "Intro source file, for diagnostics")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "a tree file is required")
		os.Exit(1)
	}
	s := &session{tree: fs.Arg(0)}
	cfg, err := config.Find(*cfgPath, s.tree)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	s.cfg = cfg
	s.source = *source
	if s.source == "" {
		s.source = cfg.Resolve(cfg.Source)
	}
	if s.source != "" {
		if data, err := os.ReadFile(s.source); err == nil {
			s.text = string(data)
		}
	}
	return s
}

// fail prints err with a caret into the source when one is known.
func (s *session) fail(err error) {
	file := s.source
	if file == "" {
		file = s.tree
	}
	fmt.Fprintln(os.Stderr, diag.Render(err, file, s.text))
	os.Exit(1)
}

func (s *session) compile() *compiler.Result {
	res, err := compiler.New().Compile(s.tree)
	if err != nil {
		s.fail(err)
	}
	return res
}

func (s *session) traceWriter() runtime.LineWriter {
	name := s.source
	if name == "" {
		name = s.tree
	}
	return runtime.NewLineWriter(os.Stderr, s.cfg.Prefix(name))
}

func convertCmd(args []string) {
	s := parseArgs("convert", args)
	res := s.compile()
	if err := ast.EncodeJSON(os.Stdout, res.Tree); err != nil {
		s.fail(err)
	}
}

func generateCmd(args []string) {
	s := parseArgs("generate", args)
	res := s.compile()
	fmt.Print(res.Text)
}

func runCmd(args []string) {
	s := parseArgs("run", args)
	res := s.compile()
	ctx := runtime.New(
		runtime.NewLineReader(os.Stdin),
		runtime.NewLineWriter(os.Stdout, ""),
		s.traceWriter(),
	)
	if err := interp.Run(res.Tree, ctx); err != nil {
		s.fail(err)
	}
}

func testCmd(args []string) {
	s := parseArgs("test", args)
	res := s.compile()
	dir := s.cfg.Cases.Dir
	if s.cfg.Path != "" {
		dir = s.cfg.Resolve(dir)
	} else {
		dir = filepath.Join(filepath.Dir(s.tree), dir)
	}
	cases, err := harness.FindCases(dir, s.cfg.Cases)
	if err != nil {
		s.fail(errors.Wrap(err, "test"))
	}
	runner := &harness.Runner{Program: res.Tree, Diag: s.traceWriter(), Report: os.Stdout}
	if err := runner.RunAll(cases); err != nil {
		s.fail(err)
	}
}
