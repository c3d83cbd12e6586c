package types

// Builtin names as seen by Intro programs. The runtime exposes an operation
// under each of these names.
const (
	BuiltinGetDate   = "get_date"
	BuiltinGetTime   = "get_time"
	BuiltinRead      = "read"
	BuiltinReadInt   = "read_int"
	BuiltinReadInts  = "read_ints"
	BuiltinWrite     = "write"
	BuiltinWriteInt  = "write_int"
	BuiltinWriteInts = "write_ints"
)

var builtinTable = []*Symbol{
	{Name: BuiltinGetDate, Ret: IntArray()},
	{Name: BuiltinGetTime, Ret: Int()},
	{Name: BuiltinRead, Params: []*Type{IntArray(), Int(), Int()}, Ret: Int()},
	{Name: BuiltinReadInt, Ret: Int()},
	{Name: BuiltinReadInts, Params: []*Type{Int()}, Ret: IntArray()},
	{Name: BuiltinWrite, Params: []*Type{IntArray(), Int(), Int()}},
	{Name: BuiltinWriteInts, Params: []*Type{IntArray()}},
	{Name: BuiltinWriteInt, Params: []*Type{Int()}},
}

func init() {
	for _, sym := range builtinTable {
		sym.Kind = SymFunc
		sym.Builtin = true
	}
}

// Builtins returns a fresh name -> symbol mapping of every builtin.
// The symbols themselves are shared and must not be modified.
func Builtins() map[string]*Symbol {
	m := make(map[string]*Symbol, len(builtinTable))
	for _, sym := range builtinTable {
		m[sym.Name] = sym
	}
	return m
}

func IsBuiltin(name string) bool {
	for _, sym := range builtinTable {
		if sym.Name == name {
			return true
		}
	}
	return false
}
