package types

import "errors"

type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymFunc
)

// Symbol is either a typed variable or a function signature.
// Symbols are never mutated after declaration.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    *Type   // variable type
	Params  []*Type // function parameter types
	Ret     *Type   // function result type, nil for void
	Builtin bool
}

func NewVar(name string, t *Type) *Symbol {
	return &Symbol{Name: name, Kind: SymVar, Type: t}
}

func NewFunc(name string, params []*Type, ret *Type) *Symbol {
	return &Symbol{Name: name, Kind: SymFunc, Params: params, Ret: ret}
}

var (
	ErrNameConflict = errors.New("name conflict")
	ErrNotFound     = errors.New("name not found")
)

// Scope is a stack of frames, innermost last.
type Scope struct {
	frames []map[string]*Symbol
}

func NewScope() *Scope {
	return &Scope{}
}

// Push opens a new innermost frame, seeded with initial (may be nil).
func (s *Scope) Push(initial map[string]*Symbol) {
	frame := make(map[string]*Symbol, len(initial))
	for name, sym := range initial {
		frame[name] = sym
	}
	s.frames = append(s.frames, frame)
}

func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) Depth() int {
	return len(s.frames)
}

// Declare binds name in the innermost frame.
func (s *Scope) Declare(sym *Symbol) error {
	if len(s.frames) == 0 {
		s.Push(nil)
	}
	top := s.frames[len(s.frames)-1]
	if _, ok := top[sym.Name]; ok {
		return ErrNameConflict
	}
	top[sym.Name] = sym
	return nil
}

// DeclareParam binds a function parameter. Parameters may not shadow
// anything visible from an enclosing frame.
func (s *Scope) DeclareParam(sym *Symbol) error {
	if _, err := s.Lookup(sym.Name); err == nil {
		return ErrNameConflict
	}
	return s.Declare(sym)
}

func (s *Scope) Lookup(name string) (*Symbol, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i][name]; ok {
			return sym, nil
		}
	}
	return nil, ErrNotFound
}

// Visible reports whether name resolves in any frame.
func (s *Scope) Visible(name string) bool {
	_, err := s.Lookup(name)
	return err == nil
}
