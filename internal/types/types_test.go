package types

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func TestTypeEqualityIsStructural(t *testing.T) {
	a := NewNested(Int(), 2)
	b := NewArray(NewArray(&Type{Kind: KindInt}))
	be.True(t, a.Equals(b))
	be.True(t, !a.Equals(IntArray()))
	be.True(t, !Int().Equals(nil))
	be.True(t, (*Type)(nil).Equals(nil))
	be.Equal(t, a.String(), "Int[][]")
	be.Equal(t, a.Depth(), 2)
	be.True(t, a.ElemType().Equals(IntArray()))
	be.True(t, Int().ElemType() == nil)
}

func TestParseDataType(t *testing.T) {
	cases := map[string]int{
		"Int":       0,
		"Int[]":     1,
		"Int[][][]": 3,
	}
	for text, depth := range cases {
		typ, err := Parse(text)
		be.Err(t, err, nil)
		be.Equal(t, typ.Depth(), depth)
		be.Equal(t, typ.String(), text)
	}

	for _, bad := range []string{"", "Str", "Int[", "Int]["} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestScopeShadowingAndConflicts(t *testing.T) {
	s := NewScope()
	s.Push(Builtins())
	be.Err(t, s.Declare(NewFunc("main", nil, nil)), nil)
	if err := s.Declare(NewFunc("write_int", nil, nil)); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("redeclaring a builtin should conflict, got %v", err)
	}

	s.Push(nil)
	be.Err(t, s.Declare(NewVar("x", Int())), nil)
	if err := s.Declare(NewVar("x", IntArray())); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("same-frame redeclaration should conflict, got %v", err)
	}

	s.Push(nil)
	be.Err(t, s.Declare(NewVar("x", IntArray())), nil)
	sym, err := s.Lookup("x")
	be.Err(t, err, nil)
	be.True(t, sym.Type.IsArray())

	s.Pop()
	sym, err = s.Lookup("x")
	be.Err(t, err, nil)
	be.True(t, sym.Type.IsInt())

	if _, err := s.Lookup("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup of unknown name should fail, got %v", err)
	}
	be.Equal(t, s.Depth(), 2)
}

func TestDeclareParamRejectsVisibleNames(t *testing.T) {
	s := NewScope()
	s.Push(Builtins())
	s.Push(nil)
	if err := s.DeclareParam(NewVar("read_int", Int())); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("parameter shadowing a function should conflict, got %v", err)
	}
	be.Err(t, s.DeclareParam(NewVar("n", Int())), nil)
	if err := s.DeclareParam(NewVar("n", Int())); !errors.Is(err, ErrNameConflict) {
		t.Fatalf("duplicate parameter should conflict, got %v", err)
	}
}

func TestBuiltinsAreFreshMaps(t *testing.T) {
	a := Builtins()
	delete(a, BuiltinRead)
	b := Builtins()
	_, ok := b[BuiltinRead]
	be.True(t, ok)
	be.True(t, IsBuiltin(BuiltinGetDate))
	be.True(t, !IsBuiltin("main"))

	sym := b[BuiltinRead]
	be.True(t, sym.Builtin)
	be.Equal(t, sym.Kind, SymFunc)
	be.Equal(t, len(sym.Params), 3)
	be.True(t, sym.Ret.IsInt())
	be.True(t, b[BuiltinWriteInt].Ret == nil)
}
