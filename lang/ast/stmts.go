package ast

import (
	"fmt"

	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	E Expr
}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() token.Loc               { return n.E.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.E) }
func (*ExprStmt) BlockEnding() bool                { return false }

// AssignStmt is a single assignment target = value, including compound
// assignment (Op != token.ASSIGN, e.g. PLUS_EQ for +=).
type AssignStmt struct {
	Loc   token.Loc
	Op    token.Kind
	Lhs   Expr // LvarExpr, IvarExpr, GvarExpr, ConstExpr, IndexExpr, or a Send (attr=)
	Rhs   Expr
}

func (n *AssignStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assign "+n.Op.GoString(), nil)
}
func (n *AssignStmt) Span() token.Loc { return n.Loc }
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Lhs)
	Walk(v, n.Rhs)
}
func (*AssignStmt) BlockEnding() bool { return false }

// MultiAssignStmt is a, b = 1, 2 (spec.md's "mul_assign": multi-LHS =
// multi-RHS). Each Lhs entry must be a legal assignment target per spec.md
// section 3's invariant; SplatExpr is allowed to collect the remainder.
type MultiAssignStmt struct {
	Loc token.Loc
	Lhs []Expr
	Rhs []Expr
}

func (n *MultiAssignStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "multi-assign", map[string]int{"lhs": len(n.Lhs), "rhs": len(n.Rhs)})
}
func (n *MultiAssignStmt) Span() token.Loc { return n.Loc }
func (n *MultiAssignStmt) Walk(v Visitor) {
	for _, e := range n.Lhs {
		Walk(v, e)
	}
	for _, e := range n.Rhs {
		Walk(v, e)
	}
}
func (*MultiAssignStmt) BlockEnding() bool { return false }

// ElsifClause is one elsif branch of an IfStmt.
type ElsifClause struct {
	Cond Expr
	Body *Block
}

// IfStmt is if/unless, with any number of elsif branches and an optional
// else branch. Negate is true for unless (spec.md section 4.3: "unless" is
// the same construct with the condition negated).
type IfStmt struct {
	Loc    token.Loc
	Negate bool
	Cond   Expr
	Body   *Block
	Elsifs []ElsifClause
	Else   *Block // nil if absent
}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Negate {
		lbl = "unless"
	}
	format(f, verb, n, lbl, map[string]int{"elsifs": len(n.Elsifs)})
}
func (n *IfStmt) Span() token.Loc { return n.Loc }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
	for _, e := range n.Elsifs {
		Walk(v, e.Cond)
		Walk(v, e.Body)
	}
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (*IfStmt) BlockEnding() bool { return false }

// WhileStmt is while/until. Negate is true for until.
type WhileStmt struct {
	Loc    token.Loc
	Negate bool
	Cond   Expr
	Body   *Block
	// PostCond is true for the "begin...end while cond" form, where the
	// body runs once unconditionally before the first test.
	PostCond bool
}

func (n *WhileStmt) Format(f fmt.State, verb rune) {
	lbl := "while"
	if n.Negate {
		lbl = "until"
	}
	format(f, verb, n, lbl, nil)
}
func (n *WhileStmt) Span() token.Loc { return n.Loc }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (*WhileStmt) BlockEnding() bool { return false }

// ForStmt is for x [, y...] in iter ... end. It desugars at compile time to
// iter.each do |x[, y...]| ... end (spec.md section 4.4) but is kept as its
// own node through parsing since the desugaring is the compiler's job.
type ForStmt struct {
	Loc  token.Loc
	Vars []ident.Id
	Iter Expr
	Body *Block
}

func (n *ForStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "for", map[string]int{"vars": len(n.Vars)})
}
func (n *ForStmt) Span() token.Loc { return n.Loc }
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.Iter)
	Walk(v, n.Body)
}
func (*ForStmt) BlockEnding() bool { return false }

// WhenClause is one when arm of a CaseStmt.
type WhenClause struct {
	Exprs []Expr
	Body  *Block
}

// CaseStmt is case [subject] when ... [else ...] end. Subject is nil for
// the subject-less form (each when's expr is evaluated as a boolean test).
type CaseStmt struct {
	Loc     token.Loc
	Subject Expr
	Whens   []WhenClause
	Else    *Block
}

func (n *CaseStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "case", map[string]int{"whens": len(n.Whens)})
}
func (n *CaseStmt) Span() token.Loc { return n.Loc }
func (n *CaseStmt) Walk(v Visitor) {
	if n.Subject != nil {
		Walk(v, n.Subject)
	}
	for _, w := range n.Whens {
		for _, e := range w.Exprs {
			Walk(v, e)
		}
		Walk(v, w.Body)
	}
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (*CaseStmt) BlockEnding() bool { return false }

// MethodDecl is def name(...) ... end, or def self.name(...) ... end when
// IsClassMethod is set (spec.md's "method/class-method declaration").
type MethodDecl struct {
	Loc           token.Loc
	Name          ident.Id
	IsClassMethod bool
	Params        *Params
	Body          *Block
	Locals        *LvarCollector
}

func (n *MethodDecl) Format(f fmt.State, verb rune) {
	lbl := "def"
	if n.IsClassMethod {
		lbl = "def self."
	}
	format(f, verb, n, lbl, nil)
}
func (n *MethodDecl) Span() token.Loc { return n.Loc }
func (n *MethodDecl) Walk(v Visitor)  { Walk(v, n.Body) }
func (*MethodDecl) BlockEnding() bool { return false }

// ClassDecl is class Name [< Superclass] ... end, or module Name ... end
// when IsModule is set. Per spec.md section 3's invariant, a module may not
// have a superclass.
type ClassDecl struct {
	Loc        token.Loc
	Name       ident.Id
	Scope      Expr // non-nil for "class A::B" style scoped names
	Superclass Expr // nil if absent; always nil when IsModule
	IsModule   bool
	Body       *Block
	Locals     *LvarCollector // class-body-level locals
}

func (n *ClassDecl) Format(f fmt.State, verb rune) {
	lbl := "class"
	if n.IsModule {
		lbl = "module"
	}
	format(f, verb, n, lbl, nil)
}
func (n *ClassDecl) Span() token.Loc { return n.Loc }
func (n *ClassDecl) Walk(v Visitor) {
	if n.Scope != nil {
		Walk(v, n.Scope)
	}
	if n.Superclass != nil {
		Walk(v, n.Superclass)
	}
	Walk(v, n.Body)
}
func (*ClassDecl) BlockEnding() bool { return false }

// BreakStmt is break [value].
type BreakStmt struct {
	Loc   token.Loc
	Value Expr // nil if absent (equivalent to break nil)
}

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() token.Loc               { return n.Loc }
func (n *BreakStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (*BreakStmt) BlockEnding() bool { return true }

// NextStmt is next [value].
type NextStmt struct {
	Loc   token.Loc
	Value Expr
}

func (n *NextStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "next", nil) }
func (n *NextStmt) Span() token.Loc               { return n.Loc }
func (n *NextStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (*NextStmt) BlockEnding() bool { return true }

// ReturnStmt is return [value].
type ReturnStmt struct {
	Loc   token.Loc
	Value Expr
}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() token.Loc               { return n.Loc }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (*ReturnStmt) BlockEnding() bool { return true }

// BadStmt is a placeholder inserted by the parser's error-recovery path in
// place of a statement it could not parse, so that the rest of the chunk
// can still be walked and later passes do not need to special-case nils.
type BadStmt struct{ Loc token.Loc }

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "<bad statement>", nil) }
func (n *BadStmt) Span() token.Loc               { return n.Loc }
func (n *BadStmt) Walk(_ Visitor)                {}
func (*BadStmt) BlockEnding() bool               { return false }

// BadExpr is the expression-position counterpart of BadStmt.
type BadExpr struct{ Loc token.Loc }

func (n *BadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "<bad expr>", nil) }
func (n *BadExpr) Span() token.Loc               { return n.Loc }
func (n *BadExpr) Walk(_ Visitor)                {}
func (*BadExpr) expr()                           {}
