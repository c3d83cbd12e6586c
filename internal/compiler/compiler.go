// Package compiler sequences tree loading, conversion and rendering.
package compiler

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"intro/internal/ast"
	"intro/internal/convert"
	"intro/internal/render"
)

type Result struct {
	// Tree is the converted program.
	Tree *ast.Program
	// Text is the rendered target text.
	Text string
}

type Compiler struct {
	// Programs caches decoded trees by absolute path.
	Programs map[string]*ast.Program
}

func New() *Compiler {
	return &Compiler{Programs: map[string]*ast.Program{}}
}

// Compile loads the tree file at entry, converts it and renders it.
func (c *Compiler) Compile(entry string) (*Result, error) {
	prog, err := c.Load(entry)
	if err != nil {
		return nil, err
	}
	return CompileProgram(prog)
}

// CompileProgram converts and renders an already decoded tree.
func CompileProgram(prog *ast.Program) (*Result, error) {
	tree, err := convert.Convert(prog)
	if err != nil {
		return nil, err
	}
	return &Result{Tree: tree, Text: render.Render(tree)}, nil
}

// Load decodes the tree file at path.
func (c *Compiler) Load(path string) (*ast.Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	if prog, ok := c.Programs[abs]; ok {
		return prog, nil
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, errors.Wrap(err, "open tree")
	}
	defer f.Close()
	prog, err := ast.DecodeProgram(f)
	if err != nil {
		return nil, err
	}
	c.Programs[abs] = prog
	return prog, nil
}
