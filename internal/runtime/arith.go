package runtime

// Comparison results are 1 (true) or 0 (false).

func (c *Context) Eq(a, b int32) int32 { return boolInt(a == b) }
func (c *Context) Ne(a, b int32) int32 { return boolInt(a != b) }
func (c *Context) Le(a, b int32) int32 { return boolInt(a <= b) }
func (c *Context) Ge(a, b int32) int32 { return boolInt(a >= b) }
func (c *Context) Lt(a, b int32) int32 { return boolInt(a < b) }
func (c *Context) Gt(a, b int32) int32 { return boolInt(a > b) }

// Shifts and bitwise operators work on the 32-bit representation and never
// overflow. Shift counts use their low five bits.

func (c *Context) Lsh(a, b int32) int32 { return int32(uint32(a) << (uint32(b) & 31)) }
func (c *Context) Rsh(a, b int32) int32 { return a >> (uint32(b) & 31) }
func (c *Context) Zrsh(a, b int32) int32 {
	return int32(uint32(a) >> (uint32(b) & 31))
}

func (c *Context) Band(a, b int32) int32 { return a & b }
func (c *Context) Bor(a, b int32) int32  { return a | b }
func (c *Context) Bxor(a, b int32) int32 { return a ^ b }
func (c *Context) Bnot(a int32) int32    { return ^a }

func (c *Context) Add(a, b int32) (int32, error) {
	return checkOverflow(int64(a) + int64(b))
}

func (c *Context) Sub(a, b int32) (int32, error) {
	return checkOverflow(int64(a) - int64(b))
}

func (c *Context) Mul(a, b int32) (int32, error) {
	return checkOverflow(int64(a) * int64(b))
}

func (c *Context) Neg(a int32) (int32, error) {
	return checkOverflow(-int64(a))
}

func (c *Context) Pos(a int32) int32 { return a }

func (c *Context) Not(a int32) int32 { return boolInt(a == 0) }

// Fdiv is floor division: the quotient is rounded toward negative infinity.
func (c *Context) Fdiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return checkOverflow(floorDiv(int64(a), int64(b)))
}

// Mod pairs with Fdiv: the result carries the divisor's sign and
// a == Fdiv(a, b)*b + Mod(a, b).
func (c *Context) Mod(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	x, y := int64(a), int64(b)
	return int32(x - floorDiv(x, y)*y), nil
}

// Zdiv truncates toward zero.
func (c *Context) Zdiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return checkOverflow(int64(a) / int64(b))
}

// Rem pairs with Zdiv: the result carries the dividend's sign.
func (c *Context) Rem(a, b int32) (int32, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return int32(int64(a) % int64(b)), nil
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func checkOverflow(v int64) (int32, error) {
	if !InRange(v) {
		return 0, ErrOverflow
	}
	return int32(v), nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
