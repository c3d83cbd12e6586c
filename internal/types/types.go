package types

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindArray
)

// Type is a DataType: Int, or an array of another DataType.
// A nil *Type stands for void (no value).
type Type struct {
	Kind Kind
	Elem *Type
}

func (t *Type) Equals(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.Equals(o.Elem)
	default:
		return true
	}
}

func (t *Type) IsInt() bool {
	return t != nil && t.Kind == KindInt
}

func (t *Type) IsArray() bool {
	return t != nil && t.Kind == KindArray
}

// ElemType returns the element type of an array type, or nil.
func (t *Type) ElemType() *Type {
	if !t.IsArray() {
		return nil
	}
	return t.Elem
}

// Depth reports how many array levels wrap the innermost Int.
func (t *Type) Depth() int {
	n := 0
	for cur := t; cur.IsArray(); cur = cur.Elem {
		n++
	}
	return n
}

func (t *Type) String() string {
	if t == nil {
		return "Void"
	}
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindArray:
		return t.Elem.String() + "[]"
	default:
		return "Invalid"
	}
}

func NewArray(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// NewNested wraps elem in depth array levels.
func NewNested(elem *Type, depth int) *Type {
	t := elem
	for i := 0; i < depth; i++ {
		t = NewArray(t)
	}
	return t
}

// Parse reads the textual form used by the input tree ("Int", "Int[]", ...).
func Parse(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	base := strings.TrimRight(s, "[]")
	suffix := s[len(base):]
	if base != "Int" {
		return nil, fmt.Errorf("unknown data type %q", s)
	}
	if len(suffix)%2 != 0 || strings.Count(suffix, "[]") != len(suffix)/2 {
		return nil, fmt.Errorf("malformed data type %q", s)
	}
	return NewNested(Int(), len(suffix)/2), nil
}

var intType = &Type{Kind: KindInt}

func Int() *Type { return intType }

func IntArray() *Type { return NewArray(intType) }
