package runtime

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindVoid Kind = iota
	KindInt
	KindArray
)

// Value is a runtime value: a 32-bit integer or an array reference.
// The zero Value is void.
type Value struct {
	Kind Kind
	I32  int32
	Arr  *Array
}

// Array is a fixed-length, mutable, 0-indexed sequence.
type Array struct {
	Elems []Value
}

func IntValue(v int32) Value {
	return Value{Kind: KindInt, I32: v}
}

func ArrayValue(a *Array) Value {
	return Value{Kind: KindArray, Arr: a}
}

var Void = Value{}

func NewArray(elems []Value) *Array {
	return &Array{Elems: elems}
}

// NewIntArray builds an array of integers.
func NewIntArray(ints ...int32) *Array {
	elems := make([]Value, len(ints))
	for i, v := range ints {
		elems[i] = IntValue(v)
	}
	return &Array{Elems: elems}
}

func (a *Array) Len() int {
	return len(a.Elems)
}

// Ints returns the integer elements; nested arrays read as 0.
func (a *Array) Ints() []int32 {
	out := make([]int32, len(a.Elems))
	for i, v := range a.Elems {
		out[i] = v.I32
	}
	return out
}

// String serializes like a JSON value: 3, [1,2], [[0],[0]]. Void is empty.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindInt:
		b.WriteString(strconv.FormatInt(int64(v.I32), 10))
	case KindArray:
		b.WriteByte('[')
		for i, elem := range v.Arr.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			elem.write(b)
		}
		b.WriteByte(']')
	}
}

// Truthy reports whether an integer value is non-zero.
func (v Value) Truthy() bool {
	return v.Kind == KindInt && v.I32 != 0
}
