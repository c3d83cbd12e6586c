package runtime

// Iterator produces values one at a time. Next reports false once the
// sequence is exhausted, and keeps reporting false afterwards.
type Iterator interface {
	Next() (Value, bool)
}

// RangeIter counts from a first value toward a bound by a fixed step.
type RangeIter struct {
	cur       int64
	last      int64
	step      int64
	inclusive bool
}

func (it *RangeIter) Next() (Value, bool) {
	var ok bool
	switch {
	case it.step > 0 && it.inclusive:
		ok = it.cur <= it.last
	case it.step > 0:
		ok = it.cur < it.last
	case it.inclusive:
		ok = it.cur >= it.last
	default:
		ok = it.cur > it.last
	}
	if !ok {
		return Void, false
	}
	v := it.cur
	it.cur += it.step
	return IntValue(int32(v)), true
}

// ArrayIter yields each element of an array once, in index order.
type ArrayIter struct {
	arr *Array
	pos int
}

func (it *ArrayIter) Next() (Value, bool) {
	if it.pos >= it.arr.Len() {
		return Void, false
	}
	v := it.arr.Elems[it.pos]
	it.pos++
	return v, true
}

// Range returns an iterator over first, first+step, ... stopping before
// last (or at last when inclusive). A zero step faults immediately.
func (c *Context) Range(first, last, step int32, inclusive bool) (*RangeIter, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}
	return &RangeIter{cur: int64(first), last: int64(last), step: int64(step), inclusive: inclusive}, nil
}

func (c *Context) Iter(a *Array) *ArrayIter {
	return &ArrayIter{arr: a}
}
