package parser_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/parser"
	"github.com/stretchr/testify/require"
)

// lastExprStmt returns the Expr of the last top-level statement of ch.
func lastExprStmt(t *testing.T, ch *ast.Chunk) ast.Expr {
	t.Helper()
	require.NotEmpty(t, ch.Block.Stmts)
	es, ok := ch.Block.Stmts[len(ch.Block.Stmts)-1].(*ast.ExprStmt)
	require.True(t, ok, "expected last statement to be an ExprStmt, got %T", ch.Block.Stmts[len(ch.Block.Stmts)-1])
	return es.E
}

// TestScopeRuleAssignThenRead exercises spec.md section 8's scope-rule
// property: after "x = ...; f(x)", the reference to x parses as a local-var
// read (LvarExpr), not a method call.
func TestScopeRuleAssignThenRead(t *testing.T) {
	tbl := ident.NewTable()
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte("x = 1\nx\n"))
	require.Empty(t, errs)

	e := lastExprStmt(t, ch)
	_, ok := e.(*ast.LvarExpr)
	require.True(t, ok, "expected a LvarExpr, got %T", e)
}

// TestScopeRuleReadBeforeAssign exercises the opposite side of the same
// property: "f(x); x = ...", where the first occurrence of x precedes any
// assignment and so must parse as a method call (a Send), not a local read.
func TestScopeRuleReadBeforeAssign(t *testing.T) {
	tbl := ident.NewTable()
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte("x\nx = 1\n"))
	require.Empty(t, errs)

	require.NotEmpty(t, ch.Block.Stmts)
	es, ok := ch.Block.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected first statement to be an ExprStmt, got %T", ch.Block.Stmts[0])

	_, isSend := es.E.(*ast.Send)
	require.True(t, isSend, "expected a Send (method call), got %T", es.E)
}

// TestBlockLocalsSeeEnclosingMethodLocals exercises the Block-frame side of
// is_local: a block opened inside a method can read a local assigned before
// the block in the same method, because Block frames continue the search
// outward past themselves but stop at the enclosing Method frame.
func TestBlockLocalsSeeEnclosingMethodLocals(t *testing.T) {
	tbl := ident.NewTable()
	src := "def m\n" +
		"  total = 0\n" +
		"  [1, 2, 3].each { |x| total = total + x }\n" +
		"  total\n" +
		"end\n"
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte(src))
	require.Empty(t, errs)

	md, ok := ch.Block.Stmts[0].(*ast.MethodDecl)
	require.True(t, ok, "expected a MethodDecl, got %T", ch.Block.Stmts[0])

	last := md.Body.Stmts[len(md.Body.Stmts)-1]
	es, ok := last.(*ast.ExprStmt)
	require.True(t, ok, "expected an ExprStmt, got %T", last)
	_, isLvar := es.E.(*ast.LvarExpr)
	require.True(t, isLvar, "expected the method-ending `total` to resolve as a local read, got %T", es.E)
}

// TestDefInsideDefIsIllegal exercises spec.md section 4.3's rule that
// method definitions are illegal inside Method contexts.
func TestDefInsideDefIsIllegal(t *testing.T) {
	tbl := ident.NewTable()
	_, errs := parser.ParseChunk(tbl, "t.kv", []byte("def outer\n  def inner\n  end\nend\n"))
	require.NotEmpty(t, errs, "expected a parse error for a nested def")
}

// TestClassBoundaryBlocksOuterLocal exercises the Class-frame side of
// is_local: a class body does not see a local from the enclosing scope, so
// a bare reference inside it to a name only assigned outside the class
// parses as a method call, not a local read.
func TestClassBoundaryBlocksOuterLocal(t *testing.T) {
	tbl := ident.NewTable()
	src := "x = 1\n" +
		"class C\n" +
		"  x\n" +
		"end\n"
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte(src))
	require.Empty(t, errs)

	cd, ok := ch.Block.Stmts[1].(*ast.ClassDecl)
	require.True(t, ok, "expected a ClassDecl, got %T", ch.Block.Stmts[1])

	es, ok := cd.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected an ExprStmt, got %T", cd.Body.Stmts[0])
	_, isSend := es.E.(*ast.Send)
	require.True(t, isSend, "expected a Send (method call), got %T", es.E)
}
