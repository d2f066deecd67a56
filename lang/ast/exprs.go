package ast

import (
	"fmt"

	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// ====================
// LITERALS
// ====================

type (
	// IntLit is an integer literal.
	IntLit struct {
		Loc token.Loc
		Val int64
	}

	// FloatLit is a float literal.
	FloatLit struct {
		Loc token.Loc
		Val float64
	}

	// StringLit is a non-interpolated string literal (single-quoted, or
	// double-quoted with no "#{...}").
	StringLit struct {
		Loc token.Loc
		Val string
	}

	// InterpolatedStringExpr is "...#{a}...#{b}..."; Chunks holds the
	// literal text pieces (len(Chunks) == len(Exprs)+1) and Exprs the
	// embedded expressions between them, per spec.md section 4.3.
	InterpolatedStringExpr struct {
		Loc    token.Loc
		Chunks []string
		Exprs  []Expr
	}

	// SymbolLit is a :foo literal.
	SymbolLit struct {
		Loc token.Loc
		Id  ident.Id
	}

	// BoolLit is true or false.
	BoolLit struct {
		Loc token.Loc
		Val bool
	}

	// NilLit is the nil literal.
	NilLit struct{ Loc token.Loc }

	// SelfExpr is the self keyword.
	SelfExpr struct{ Loc token.Loc }

	// WordsLit is a %w(...) literal array of strings.
	WordsLit struct {
		Loc   token.Loc
		Words []string
	}
)

func (n *IntLit) Format(f fmt.State, verb rune)   { format(f, verb, n, fmt.Sprintf("int %d", n.Val), nil) }
func (n *IntLit) Span() token.Loc                 { return n.Loc }
func (n *IntLit) Walk(_ Visitor)                  {}
func (*IntLit) expr()                             {}

func (n *FloatLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("float %g", n.Val), nil)
}
func (n *FloatLit) Span() token.Loc { return n.Loc }
func (n *FloatLit) Walk(_ Visitor)  {}
func (*FloatLit) expr()             {}

func (n *StringLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("string %q", n.Val), nil)
}
func (n *StringLit) Span() token.Loc { return n.Loc }
func (n *StringLit) Walk(_ Visitor)  {}
func (*StringLit) expr()             {}

func (n *InterpolatedStringExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "interpolated string", map[string]int{"exprs": len(n.Exprs)})
}
func (n *InterpolatedStringExpr) Span() token.Loc { return n.Loc }
func (n *InterpolatedStringExpr) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}
func (*InterpolatedStringExpr) expr() {}

func (n *SymbolLit) Format(f fmt.State, verb rune) { format(f, verb, n, "symbol", nil) }
func (n *SymbolLit) Span() token.Loc               { return n.Loc }
func (n *SymbolLit) Walk(_ Visitor)                {}
func (*SymbolLit) expr()                           {}

func (n *BoolLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("bool %t", n.Val), nil)
}
func (n *BoolLit) Span() token.Loc { return n.Loc }
func (n *BoolLit) Walk(_ Visitor)  {}
func (*BoolLit) expr()             {}

func (n *NilLit) Format(f fmt.State, verb rune) { format(f, verb, n, "nil", nil) }
func (n *NilLit) Span() token.Loc               { return n.Loc }
func (n *NilLit) Walk(_ Visitor)                {}
func (*NilLit) expr()                           {}

func (n *SelfExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "self", nil) }
func (n *SelfExpr) Span() token.Loc               { return n.Loc }
func (n *SelfExpr) Walk(_ Visitor)                {}
func (*SelfExpr) expr()                           {}

func (n *WordsLit) Format(f fmt.State, verb rune) {
	format(f, verb, n, "words", map[string]int{"words": len(n.Words)})
}
func (n *WordsLit) Span() token.Loc { return n.Loc }
func (n *WordsLit) Walk(_ Visitor)  {}
func (*WordsLit) expr()             {}

// ====================
// COLLECTIONS
// ====================

type (
	// ArrayExpr is [a, b, c].
	ArrayExpr struct {
		Loc   token.Loc
		Elems []Expr
	}

	// HashEntry is one key: value (or key => value) pair of a HashExpr.
	HashEntry struct {
		Key, Value Expr
	}

	// HashExpr is {a: 1, b => 2}.
	HashExpr struct {
		Loc     token.Loc
		Entries []HashEntry
	}

	// RangeExpr is a..b or a...b.
	RangeExpr struct {
		Loc                token.Loc
		Low, High          Expr // either may be nil (beginless/endless range)
		ExcludeEnd         bool
	}
)

func (n *ArrayExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array", map[string]int{"elems": len(n.Elems)})
}
func (n *ArrayExpr) Span() token.Loc { return n.Loc }
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (*ArrayExpr) expr() {}

func (n *HashExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "hash", map[string]int{"entries": len(n.Entries)})
}
func (n *HashExpr) Span() token.Loc { return n.Loc }
func (n *HashExpr) Walk(v Visitor) {
	for _, e := range n.Entries {
		Walk(v, e.Key)
		Walk(v, e.Value)
	}
}
func (*HashExpr) expr() {}

func (n *RangeExpr) Format(f fmt.State, verb rune) {
	lbl := ".."
	if n.ExcludeEnd {
		lbl = "..."
	}
	format(f, verb, n, "range"+lbl, nil)
}
func (n *RangeExpr) Span() token.Loc { return n.Loc }
func (n *RangeExpr) Walk(v Visitor) {
	if n.Low != nil {
		Walk(v, n.Low)
	}
	if n.High != nil {
		Walk(v, n.High)
	}
}
func (*RangeExpr) expr() {}

// ====================
// REFERENCES
// ====================

type (
	// IdentExpr is a bare identifier the parser has not yet settled into a
	// local-variable read or a method call (spec.md section 4.3's "pending
	// identifier" state). The compiler never sees one: by the time parsing
	// of the enclosing statement completes, every IdentExpr has been
	// replaced by either a LvarExpr or a Send.
	IdentExpr struct {
		Loc token.Loc
		Id  ident.Id
	}

	// LvarExpr is a resolved local-variable read.
	LvarExpr struct {
		Loc token.Loc
		Id  ident.Id
	}

	// ConstExpr is a bare constant reference, e.g. Foo.
	ConstExpr struct {
		Loc token.Loc
		Id  ident.Id
	}

	// ScopedConstExpr is Scope::Name.
	ScopedConstExpr struct {
		Loc   token.Loc
		Scope Expr // nil means top-level ::Name
		Name  ident.Id
	}

	// IvarExpr is @name.
	IvarExpr struct {
		Loc token.Loc
		Id  ident.Id
	}

	// GvarExpr is $name.
	GvarExpr struct {
		Loc token.Loc
		Id  ident.Id
	}
)

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "ident", nil) }
func (n *IdentExpr) Span() token.Loc               { return n.Loc }
func (n *IdentExpr) Walk(_ Visitor)                {}
func (*IdentExpr) expr()                           {}

func (n *LvarExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "lvar", nil) }
func (n *LvarExpr) Span() token.Loc               { return n.Loc }
func (n *LvarExpr) Walk(_ Visitor)                {}
func (*LvarExpr) expr()                            {}

func (n *ConstExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "const", nil) }
func (n *ConstExpr) Span() token.Loc               { return n.Loc }
func (n *ConstExpr) Walk(_ Visitor)                {}
func (*ConstExpr) expr()                           {}

func (n *ScopedConstExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "scoped const", nil) }
func (n *ScopedConstExpr) Span() token.Loc               { return n.Loc }
func (n *ScopedConstExpr) Walk(v Visitor) {
	if n.Scope != nil {
		Walk(v, n.Scope)
	}
}
func (*ScopedConstExpr) expr() {}

func (n *IvarExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "ivar", nil) }
func (n *IvarExpr) Span() token.Loc               { return n.Loc }
func (n *IvarExpr) Walk(_ Visitor)                {}
func (*IvarExpr) expr()                           {}

func (n *GvarExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "gvar", nil) }
func (n *GvarExpr) Span() token.Loc               { return n.Loc }
func (n *GvarExpr) Walk(_ Visitor)                {}
func (*GvarExpr) expr()                           {}

// ====================
// CALLS & OPERATORS
// ====================

// KwArg is one name: value keyword argument in a Send's argument list.
type KwArg struct {
	Key   ident.Id
	Value Expr
}

// Send is a method call, spec.md's "Send{receiver, method_id, args, kw_args,
// block, completed}". Receiver is nil for an implicit-self call.
type Send struct {
	Loc       token.Loc
	Receiver  Expr
	MethodId  ident.Id
	Args      []Expr
	KwArgs    []KwArg
	Block     *BlockExpr // nil if no block given
	Completed bool       // false: may still absorb a following command arglist
	SafeNav   bool        // &. instead of .
}

func (n *Send) Format(f fmt.State, verb rune) {
	format(f, verb, n, "send", map[string]int{"args": len(n.Args)})
}
func (n *Send) Span() token.Loc { return n.Loc }
func (n *Send) Walk(v Visitor) {
	if n.Receiver != nil {
		Walk(v, n.Receiver)
	}
	for _, a := range n.Args {
		Walk(v, a)
	}
	for _, kw := range n.KwArgs {
		Walk(v, kw.Value)
	}
	if n.Block != nil {
		Walk(v, n.Block)
	}
}
func (*Send) expr() {}

// IndexExpr is recv[args].
type IndexExpr struct {
	Loc  token.Loc
	Recv Expr
	Args []Expr
}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "index", nil) }
func (n *IndexExpr) Span() token.Loc               { return n.Loc }
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Recv)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (*IndexExpr) expr() {}

// BinOpExpr is a binary operator expression.
type BinOpExpr struct {
	Loc         token.Loc
	Op          token.Kind
	Left, Right Expr
}

func (n *BinOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binop "+n.Op.GoString(), nil)
}
func (n *BinOpExpr) Span() token.Loc { return n.Loc }
func (n *BinOpExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (*BinOpExpr) expr() {}

// UnaryOpExpr is a unary operator expression (-x, !x, ~x, not x).
type UnaryOpExpr struct {
	Loc     token.Loc
	Op      token.Kind
	Operand Expr
}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unaryop "+n.Op.GoString(), nil)
}
func (n *UnaryOpExpr) Span() token.Loc { return n.Loc }
func (n *UnaryOpExpr) Walk(v Visitor)  { Walk(v, n.Operand) }
func (*UnaryOpExpr) expr()             {}

// SplatExpr is *expr, used in argument lists and multi-assign targets.
type SplatExpr struct {
	Loc   token.Loc
	Value Expr
}

func (n *SplatExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "splat", nil) }
func (n *SplatExpr) Span() token.Loc               { return n.Loc }
func (n *SplatExpr) Walk(v Visitor)                { Walk(v, n.Value) }
func (*SplatExpr) expr()                           {}

// ====================
// PROC / LAMBDA
// ====================

// BlockExpr is a block literal attached to a Send (do...end or {...}) or a
// standalone proc/lambda literal (-> (...) { ... }).
type BlockExpr struct {
	Loc      token.Loc
	Params   *Params
	Body     *Block
	IsLambda bool // true for -> {}; false for do...end / {}
	Locals   *LvarCollector
}

func (n *BlockExpr) Format(f fmt.State, verb rune) {
	lbl := "block"
	if n.IsLambda {
		lbl = "lambda"
	}
	format(f, verb, n, lbl, nil)
}
func (n *BlockExpr) Span() token.Loc { return n.Loc }
func (n *BlockExpr) Walk(v Visitor) {
	if n.Body != nil {
		Walk(v, n.Body)
	}
}
func (*BlockExpr) expr() {}

// ====================
// PARAMETERS
// ====================

// OptParam is name = default.
type OptParam struct {
	Name    ident.Id
	Default Expr
}

// KwParam is name: or name: default.
type KwParam struct {
	Name    ident.Id
	Default Expr // nil if required
}

// Params is a full parameter list, ordered per spec.md section 4.3:
// required, optional, rest, post-required, keyword, keyword-rest, block.
type Params struct {
	Required []ident.Id
	Optional []OptParam
	Rest     ident.Id // ident.None if absent
	Post     []ident.Id
	Keywords []KwParam
	KwRest   ident.Id // ident.None if absent
	Block    ident.Id // ident.None if absent
}
