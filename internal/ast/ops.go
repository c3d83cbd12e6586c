package ast

import "strings"

// BinaryOps maps source operators to runtime operation names.
var BinaryOps = map[string]string{
	"==":  "eq",
	"!=":  "ne",
	"<=":  "le",
	">=":  "ge",
	"<":   "lt",
	">":   "gt",
	"<<":  "lsh",
	">>":  "rsh",
	">>>": "zrsh",
	"+":   "add",
	"-":   "sub",
	"*":   "mul",
	"//":  "fdiv",
	"/":   "zdiv",
	"%%":  "mod",
	"%":   "rem",
	"&":   "band",
	"|":   "bor",
	"^":   "bxor",
}

var UnaryOps = map[string]string{
	"-": "neg",
	"+": "pos",
	"~": "bnot",
	"!": "not",
	"$": "len",
}

// compoundOps are the binary operators that have an `op=` assignment form.
var compoundOps = map[string]bool{
	"<<": true, ">>": true, ">>>": true,
	"+": true, "-": true, "*": true,
	"//": true, "/": true, "%%": true, "%": true,
	"&": true, "|": true, "^": true,
}

func IsAssignOp(op string) bool {
	if op == "=" {
		return true
	}
	_, ok := CompoundOpName(op)
	return ok
}

// CompoundOpName returns the runtime operation behind a compound assignment
// operator such as "+=" ("add").
func CompoundOpName(op string) (string, bool) {
	base, ok := strings.CutSuffix(op, "=")
	if !ok || !compoundOps[base] {
		return "", false
	}
	return BinaryOps[base], true
}
