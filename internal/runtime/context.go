package runtime

import (
	"fmt"
	"time"
)

// Context is the runtime support library for one program run. It owns the
// injected streams and every array the run creates; it must not be shared
// between runs.
type Context struct {
	in    LineReader
	out   LineWriter
	diag  LineWriter
	now   func() time.Time
	start time.Time
	ops   map[string]Op
}

// Op is a runtime operation invoked by name from converted code.
type Op func(args []Value) (Value, error)

// BinaryOp is an integer operation with an optional fault.
type BinaryOp func(c *Context, a, b int32) (int32, error)

type Option func(*Context)

// WithClock replaces the wall clock used by the date/time builtins.
func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

// New builds a context bound to an input line source, an output line sink
// and a diagnostic line sink. Nil endpoints behave like Discard.
func New(in LineReader, out, diag LineWriter, opts ...Option) *Context {
	c := &Context{in: in, out: out, diag: diag, now: time.Now}
	if c.in == nil {
		c.in = Discard
	}
	if c.out == nil {
		c.out = Discard
	}
	if c.diag == nil {
		c.diag = Discard
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	c.define()
	return c
}

func safe(f func(c *Context, a, b int32) int32) BinaryOp {
	return func(c *Context, a, b int32) (int32, error) { return f(c, a, b), nil }
}

var binaryOps = map[string]BinaryOp{
	"eq":   safe((*Context).Eq),
	"ne":   safe((*Context).Ne),
	"le":   safe((*Context).Le),
	"ge":   safe((*Context).Ge),
	"lt":   safe((*Context).Lt),
	"gt":   safe((*Context).Gt),
	"lsh":  safe((*Context).Lsh),
	"rsh":  safe((*Context).Rsh),
	"zrsh": safe((*Context).Zrsh),
	"add":  (*Context).Add,
	"sub":  (*Context).Sub,
	"mul":  (*Context).Mul,
	"fdiv": (*Context).Fdiv,
	"zdiv": (*Context).Zdiv,
	"mod":  (*Context).Mod,
	"rem":  (*Context).Rem,
	"band": safe((*Context).Band),
	"bor":  safe((*Context).Bor),
	"bxor": safe((*Context).Bxor),
}

// LookupBinary returns the integer operation registered under name.
func LookupBinary(name string) (BinaryOp, bool) {
	op, ok := binaryOps[name]
	return op, ok
}

// Call invokes the operation registered under name.
func (c *Context) Call(name string, args []Value) (Value, error) {
	op, ok := c.ops[name]
	if !ok {
		return Void, &Fault{Kind: FaultUnknownOp, Msg: fmt.Sprintf("unknown runtime operation: %s", name)}
	}
	return op(args)
}

// Has reports whether name is a runtime operation.
func (c *Context) Has(name string) bool {
	_, ok := c.ops[name]
	return ok
}

// OpenIterator evaluates an iterator factory ("range" or "iter").
func (c *Context) OpenIterator(name string, args []Value) (Iterator, error) {
	switch name {
	case "range":
		if err := arity(name, args, 4); err != nil {
			return nil, err
		}
		first, last, step, incl := args[0], args[1], args[2], args[3]
		for _, v := range args {
			if v.Kind != KindInt {
				return nil, operandFault(name, v)
			}
		}
		return c.Range(first.I32, last.I32, step.I32, incl.I32 != 0)
	case "iter":
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		a, err := arrayArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return c.Iter(a), nil
	default:
		return nil, &Fault{Kind: FaultUnknownOp, Msg: fmt.Sprintf("unknown iterator factory: %s", name)}
	}
}

func (c *Context) define() {
	c.ops = map[string]Op{}
	define := func(name string, fn Op) {
		c.ops[name] = fn
	}

	for name, op := range binaryOps {
		define(name, func(args []Value) (Value, error) {
			if err := arity(name, args, 2); err != nil {
				return Void, err
			}
			a, b, err := intArgs2(name, args[0], args[1])
			if err != nil {
				return Void, err
			}
			v, err := op(c, a, b)
			if err != nil {
				return Void, err
			}
			return IntValue(v), nil
		})
		define(name+"At", func(args []Value) (Value, error) {
			if err := arity(name+"At", args, 3); err != nil {
				return Void, err
			}
			arr, err := arrayArg(name+"At", args[0])
			if err != nil {
				return Void, err
			}
			index, v, err := intArgs2(name+"At", args[1], args[2])
			if err != nil {
				return Void, err
			}
			return Void, c.UpdateAt(op, arr, index, v)
		})
	}

	unary := map[string]func(int32) (int32, error){
		"neg":  c.Neg,
		"pos":  func(a int32) (int32, error) { return c.Pos(a), nil },
		"bnot": func(a int32) (int32, error) { return c.Bnot(a), nil },
		"not":  func(a int32) (int32, error) { return c.Not(a), nil },
	}
	for name, fn := range unary {
		define(name, func(args []Value) (Value, error) {
			if err := arity(name, args, 1); err != nil {
				return Void, err
			}
			if args[0].Kind != KindInt {
				return Void, operandFault(name, args[0])
			}
			v, err := fn(args[0].I32)
			if err != nil {
				return Void, err
			}
			return IntValue(v), nil
		})
	}

	define("len", func(args []Value) (Value, error) {
		if err := arity("len", args, 1); err != nil {
			return Void, err
		}
		a, err := arrayArg("len", args[0])
		if err != nil {
			return Void, err
		}
		return IntValue(c.Len(a)), nil
	})
	define("getAt", func(args []Value) (Value, error) {
		if err := arity("getAt", args, 2); err != nil {
			return Void, err
		}
		a, err := arrayArg("getAt", args[0])
		if err != nil {
			return Void, err
		}
		if args[1].Kind != KindInt {
			return Void, operandFault("getAt", args[1])
		}
		return c.GetAt(a, args[1].I32)
	})
	define("setAt", func(args []Value) (Value, error) {
		if err := arity("setAt", args, 3); err != nil {
			return Void, err
		}
		a, err := arrayArg("setAt", args[0])
		if err != nil {
			return Void, err
		}
		if args[1].Kind != KindInt {
			return Void, operandFault("setAt", args[1])
		}
		return Void, c.SetAt(a, args[1].I32, args[2])
	})
	define("zeros", func(args []Value) (Value, error) {
		sizes := make([]int32, len(args))
		for i, v := range args {
			if v.Kind != KindInt {
				return Void, operandFault("zeros", v)
			}
			sizes[i] = v.I32
		}
		a, err := c.Zeros(sizes...)
		if err != nil {
			return Void, err
		}
		return ArrayValue(a), nil
	})
	define("get_date", func(args []Value) (Value, error) {
		return ArrayValue(c.GetDate()), arity("get_date", args, 0)
	})
	define("get_time", func(args []Value) (Value, error) {
		return IntValue(c.GetTime()), arity("get_time", args, 0)
	})
	define("read", func(args []Value) (Value, error) {
		a, offset, length, err := sliceArgs("read", args)
		if err != nil {
			return Void, err
		}
		n, err := c.Read(a, offset, length)
		return IntValue(n), err
	})
	define("read_int", func(args []Value) (Value, error) {
		if err := arity("read_int", args, 0); err != nil {
			return Void, err
		}
		n, err := c.ReadInt()
		return IntValue(n), err
	})
	define("read_ints", func(args []Value) (Value, error) {
		if err := arity("read_ints", args, 1); err != nil {
			return Void, err
		}
		if args[0].Kind != KindInt {
			return Void, operandFault("read_ints", args[0])
		}
		a, err := c.ReadInts(args[0].I32)
		if err != nil {
			return Void, err
		}
		return ArrayValue(a), nil
	})
	define("write", func(args []Value) (Value, error) {
		a, offset, length, err := sliceArgs("write", args)
		if err != nil {
			return Void, err
		}
		return Void, c.Write(a, offset, length)
	})
	define("write_int", func(args []Value) (Value, error) {
		if err := arity("write_int", args, 1); err != nil {
			return Void, err
		}
		if args[0].Kind != KindInt {
			return Void, operandFault("write_int", args[0])
		}
		return Void, c.WriteInt(args[0].I32)
	})
	define("write_ints", func(args []Value) (Value, error) {
		if err := arity("write_ints", args, 1); err != nil {
			return Void, err
		}
		a, err := arrayArg("write_ints", args[0])
		if err != nil {
			return Void, err
		}
		return Void, c.WriteInts(a)
	})
}

func arity(name string, args []Value, n int) error {
	if len(args) != n {
		return &Fault{Kind: FaultBadOperand, Msg: fmt.Sprintf("%s: expected %d arguments, got %d", name, n, len(args))}
	}
	return nil
}

func arrayArg(name string, v Value) (*Array, error) {
	if v.Kind != KindArray {
		return nil, operandFault(name, v)
	}
	return v.Arr, nil
}

func intArgs2(name string, a, b Value) (int32, int32, error) {
	if a.Kind != KindInt {
		return 0, 0, operandFault(name, a)
	}
	if b.Kind != KindInt {
		return 0, 0, operandFault(name, b)
	}
	return a.I32, b.I32, nil
}

func sliceArgs(name string, args []Value) (*Array, int32, int32, error) {
	if err := arity(name, args, 3); err != nil {
		return nil, 0, 0, err
	}
	a, err := arrayArg(name, args[0])
	if err != nil {
		return nil, 0, 0, err
	}
	offset, length, err := intArgs2(name, args[1], args[2])
	if err != nil {
		return nil, 0, 0, err
	}
	return a, offset, length, nil
}
