package ast

import "intro/internal/types"

type Program struct {
	Funcs []*FuncDecl
	Span  Span
}

func (p *Program) GetSpan() Span { return p.Span }

type FuncDecl struct {
	Name     string
	NameSpan Span
	Params   []Param
	Ret      *types.Type // nil for void
	Body     *BlockStmt
	Span     Span
}

func (d *FuncDecl) GetSpan() Span { return d.Span }

type Param struct {
	Name string
	Type *types.Type
	Span Span
}

type Stmt interface {
	stmtNode()
	GetSpan() Span
}

type BlockStmt struct {
	Stmts []Stmt
	Span  Span
}

func (*BlockStmt) stmtNode()       {}
func (s *BlockStmt) GetSpan() Span { return s.Span }

type VarDecl struct {
	Name     string
	NameSpan Span
	Init     Expr
	Span     Span
}

func (*VarDecl) stmtNode()       {}
func (s *VarDecl) GetSpan() Span { return s.Span }

type ExprStmt struct {
	Expr Expr
	Span Span
}

func (*ExprStmt) stmtNode()       {}
func (s *ExprStmt) GetSpan() Span { return s.Span }

type IfStmt struct {
	Test Expr
	Then *BlockStmt
	Else *BlockStmt
	Span Span
}

func (*IfStmt) stmtNode()       {}
func (s *IfStmt) GetSpan() Span { return s.Span }

type LabeledStmt struct {
	Label string
	Body  Stmt
	Span  Span
}

func (*LabeledStmt) stmtNode()       {}
func (s *LabeledStmt) GetSpan() Span { return s.Span }

// ForOp is the directional operator of a numeric for-in loop.
type ForOp string

const (
	ForPlain       ForOp = ""
	ForUpTo        ForOp = ":<"
	ForUpThrough   ForOp = ":<="
	ForDownTo      ForOp = ":>"
	ForDownThrough ForOp = ":>="
)

// ForInStmt is `for v in first[op last[, step]] { ... }`.
type ForInStmt struct {
	Var     string
	VarSpan Span
	First   Expr
	Op      ForOp
	Last    Expr
	Step    Expr
	Body    *BlockStmt
	Span    Span
}

func (*ForInStmt) stmtNode()       {}
func (s *ForInStmt) GetSpan() Span { return s.Span }

// ForStmt is the canonical loop: Counter takes each value produced by the
// iterator Source returns until the end marker.
type ForStmt struct {
	Counter *Ident
	Source  *RuntimeCall
	Body    *BlockStmt
	Span    Span
}

func (*ForStmt) stmtNode()       {}
func (s *ForStmt) GetSpan() Span { return s.Span }

type WhileStmt struct {
	Test Expr
	Body *BlockStmt
	Span Span
}

func (*WhileStmt) stmtNode()       {}
func (s *WhileStmt) GetSpan() Span { return s.Span }

type BreakStmt struct {
	Label string
	Span  Span
}

func (*BreakStmt) stmtNode()       {}
func (s *BreakStmt) GetSpan() Span { return s.Span }

type ContinueStmt struct {
	Label string
	Span  Span
}

func (*ContinueStmt) stmtNode()       {}
func (s *ContinueStmt) GetSpan() Span { return s.Span }

type ReturnStmt struct {
	Value Expr
	Span  Span
}

func (*ReturnStmt) stmtNode()       {}
func (s *ReturnStmt) GetSpan() Span { return s.Span }

// Expr nodes carry a DataType once converted; nil means void or unconverted.
type Expr interface {
	exprNode()
	GetSpan() Span
	DataType() *types.Type
}

type ConditionalExpr struct {
	Test Expr
	Then Expr
	Else Expr
	Type *types.Type
	Span Span
}

func (*ConditionalExpr) exprNode()               {}
func (e *ConditionalExpr) GetSpan() Span         { return e.Span }
func (e *ConditionalExpr) DataType() *types.Type { return e.Type }

// LogicalExpr is `&&` or `||`; it survives conversion unchanged in shape.
type LogicalExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Type  *types.Type
	Span  Span
}

func (*LogicalExpr) exprNode()               {}
func (e *LogicalExpr) GetSpan() Span         { return e.Span }
func (e *LogicalExpr) DataType() *types.Type { return e.Type }

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  Span
}

func (*BinaryExpr) exprNode()             {}
func (e *BinaryExpr) GetSpan() Span       { return e.Span }
func (*BinaryExpr) DataType() *types.Type { return nil }

type UnaryExpr struct {
	Op      string
	Operand Expr
	Span    Span
}

func (*UnaryExpr) exprNode()             {}
func (e *UnaryExpr) GetSpan() Span       { return e.Span }
func (*UnaryExpr) DataType() *types.Type { return nil }

// CallExpr calls a user function by name.
type CallExpr struct {
	Callee     string
	CalleeSpan Span
	Args       []Expr
	Type       *types.Type
	Span       Span
}

func (*CallExpr) exprNode()               {}
func (e *CallExpr) GetSpan() Span         { return e.Span }
func (e *CallExpr) DataType() *types.Type { return e.Type }

// IndexExpr is `object[index]`.
type IndexExpr struct {
	Object Expr
	Index  Expr
	Span   Span
}

func (*IndexExpr) exprNode()             {}
func (e *IndexExpr) GetSpan() Span       { return e.Span }
func (*IndexExpr) DataType() *types.Type { return nil }

// IntLit keeps the literal text as written; Value is filled by conversion.
type IntLit struct {
	Raw   string
	Value int32
	Type  *types.Type
	Span  Span
}

func (*IntLit) exprNode()               {}
func (e *IntLit) GetSpan() Span         { return e.Span }
func (e *IntLit) DataType() *types.Type { return e.Type }

// TextLit only appears as the source-text argument of a trace call.
type TextLit struct {
	Value string
	Span  Span
}

func (*TextLit) exprNode()             {}
func (e *TextLit) GetSpan() Span       { return e.Span }
func (*TextLit) DataType() *types.Type { return nil }

type Ident struct {
	Name string
	Type *types.Type
	Span Span
}

func (*Ident) exprNode()               {}
func (e *Ident) GetSpan() Span         { return e.Span }
func (e *Ident) DataType() *types.Type { return e.Type }

// NewExpr is `new Int[n][m]...`.
type NewExpr struct {
	Elem  *types.Type
	Sizes []Expr
	Span  Span
}

func (*NewExpr) exprNode()             {}
func (e *NewExpr) GetSpan() Span       { return e.Span }
func (*NewExpr) DataType() *types.Type { return nil }

type ArrayLit struct {
	Elems []Expr
	Type  *types.Type
	Span  Span
}

func (*ArrayLit) exprNode()               {}
func (e *ArrayLit) GetSpan() Span         { return e.Span }
func (e *ArrayLit) DataType() *types.Type { return e.Type }

// TraceExpr evaluates Exprs and reports them with the literal source Text.
type TraceExpr struct {
	Text  string
	Exprs []Expr
	Span  Span
}

func (*TraceExpr) exprNode()             {}
func (e *TraceExpr) GetSpan() Span       { return e.Span }
func (*TraceExpr) DataType() *types.Type { return nil }

// AssignExpr is `left[indices...] op right`. Indices is empty for a plain
// variable assignment.
type AssignExpr struct {
	Op      string
	Left    Expr
	Indices []Expr
	Right   Expr
	Span    Span
}

func (*AssignExpr) exprNode()             {}
func (e *AssignExpr) GetSpan() Span       { return e.Span }
func (*AssignExpr) DataType() *types.Type { return nil }

// RuntimeCall invokes a runtime operation through the context handle.
type RuntimeCall struct {
	Name string
	Args []Expr
	Type *types.Type
	Span Span
}

func (*RuntimeCall) exprNode()               {}
func (e *RuntimeCall) GetSpan() Span         { return e.Span }
func (e *RuntimeCall) DataType() *types.Type { return e.Type }

// ContextHandle is the name under which rendered code reaches the runtime.
const ContextHandle = "$"

type Span struct {
	Start Position
	End   Position
}

// Known reports whether the span was attached by the parser.
func (s Span) Known() bool {
	return s.Start.Line > 0
}

// To joins two spans.
func (s Span) To(end Span) Span {
	return Span{Start: s.Start, End: end.End}
}

type Position struct {
	Line int
	Col  int
}
