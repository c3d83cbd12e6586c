package runtime

import "fmt"

func checkIndex(index int32, length int) error {
	if index < 0 || int(index) >= length {
		return indexFault(index)
	}
	return nil
}

func (c *Context) Len(a *Array) int32 {
	return int32(a.Len())
}

func (c *Context) GetAt(a *Array, index int32) (Value, error) {
	if err := checkIndex(index, a.Len()); err != nil {
		return Void, err
	}
	return a.Elems[index], nil
}

func (c *Context) SetAt(a *Array, index int32, v Value) error {
	if err := checkIndex(index, a.Len()); err != nil {
		return err
	}
	a.Elems[index] = v
	return nil
}

// UpdateAt replaces a[index] with op(a[index], v) in one step: the index is
// checked once, and nothing is written when op faults.
func (c *Context) UpdateAt(op BinaryOp, a *Array, index int32, v int32) error {
	if err := checkIndex(index, a.Len()); err != nil {
		return err
	}
	cur := a.Elems[index]
	if cur.Kind != KindInt {
		return operandFault("update", cur)
	}
	next, err := op(c, cur.I32, v)
	if err != nil {
		return err
	}
	a.Elems[index] = IntValue(next)
	return nil
}

// Zeros builds len(sizes) levels of nested arrays; the innermost level is
// filled with 0.
func (c *Context) Zeros(sizes ...int32) (*Array, error) {
	if len(sizes) == 0 {
		return nil, &Fault{Kind: FaultIndexOutOfRange, Msg: "zeros: no dimensions"}
	}
	n := sizes[0]
	if n < 0 {
		return nil, &Fault{Kind: FaultIndexOutOfRange, Msg: fmt.Sprintf("invalid array length: %d", n)}
	}
	elems := make([]Value, n)
	if len(sizes) == 1 {
		for i := range elems {
			elems[i] = IntValue(0)
		}
		return NewArray(elems), nil
	}
	for i := range elems {
		inner, err := c.Zeros(sizes[1:]...)
		if err != nil {
			return nil, err
		}
		elems[i] = ArrayValue(inner)
	}
	return NewArray(elems), nil
}
