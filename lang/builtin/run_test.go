package builtin_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/builtin"
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/machine"
	"github.com/kavi-lang/kavi/lang/parser"
	"github.com/stretchr/testify/require"
)

// run compiles and executes src against a fresh machine.Globals with every
// builtin installed, returning the value of its last (kept) top-level
// expression.
func run(t *testing.T, src string) machine.Value {
	t.Helper()
	tbl := ident.NewTable()
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte(src))
	require.Empty(t, errs, "unexpected parse errors: %v", errs)

	prog, err := compiler.CompileChunk(tbl, ch)
	require.NoError(t, err)

	g := machine.NewGlobals(tbl)
	builtin.Install(g)
	th := machine.NewThread(g, nil, nil, nil)

	v, err := th.RunProgram(prog)
	require.NoError(t, err)
	return v
}

// TestArrayMapInspect exercises spec.md's array-of-squares scenario: a
// Range mapped through a block, then rendered with #inspect.
func TestArrayMapInspect(t *testing.T) {
	v := run(t, "(1..5).map { |x| x * x }.inspect\n")
	s, ok := v.(*machine.String)
	require.True(t, ok, "expected a String, got %T", v)
	require.Equal(t, "[1, 4, 9, 16, 25]", s.Val)
}

// TestRecursiveFactorial exercises recursive method calls and an
// if/else used as an expression.
func TestRecursiveFactorial(t *testing.T) {
	v := run(t, "def fact(n)\n"+
		"  if n <= 1\n"+
		"    1\n"+
		"  else\n"+
		"    n * fact(n - 1)\n"+
		"  end\n"+
		"end\n"+
		"fact(5)\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(120), i)
}

// TestEnumeratorWithIndex exercises spec.md's `a.map.with_index` scenario:
// #map without a block returns an Enumerator over the source, and
// #with_index pairs each value with its position.
func TestEnumeratorWithIndex(t *testing.T) {
	v := run(t, "a = [10, 20, 30]\n"+
		"a.map.with_index { |x, i| x * i }.inspect\n")
	s, ok := v.(*machine.String)
	require.True(t, ok, "expected a String, got %T", v)
	require.Equal(t, "[0, 20, 60]", s.Val)
}

// TestClassIvarsAndMethods exercises class definition, initialize,
// instance variables and an instance method reading them back.
func TestClassIvarsAndMethods(t *testing.T) {
	v := run(t, "class Point\n"+
		"  def initialize(x, y)\n"+
		"    @x = x\n"+
		"    @y = y\n"+
		"  end\n"+
		"  def sum\n"+
		"    @x + @y\n"+
		"  end\n"+
		"end\n"+
		"p = Point.new(3, 4)\n"+
		"p.sum\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(7), i)
}

// TestHashEachAccumulates exercises hash literals with symbol keys and
// #each destructuring [k, v] pairs.
func TestHashEachAccumulates(t *testing.T) {
	v := run(t, "h = { a: 1, b: 2, c: 3 }\n"+
		"sum = 0\n"+
		"h.each { |k, v| sum = sum + v }\n"+
		"sum\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(6), i)
}

// TestForLoopOverRange exercises the `for .. in` statement, which
// desugars to a SEND of #each (lang/compiler/compiler.go's compileFor).
func TestForLoopOverRange(t *testing.T) {
	v := run(t, "sum = 0\n"+
		"for i in 1..5\n"+
		"  sum = sum + i\n"+
		"end\n"+
		"sum\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(15), i)
}

// TestIntegerTimesAndBreak exercises #times honoring `break` with a
// value, per spec.md section 7's ControlFlow contract.
func TestIntegerTimesAndBreak(t *testing.T) {
	v := run(t, "5.times { |i| break i * 10 if i == 2 }\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(20), i)
}

// TestProcCallAndArity exercises a lambda literal stored in a local and
// invoked later with #call, plus #arity reporting its required-parameter
// count.
func TestProcCallAndArity(t *testing.T) {
	v := run(t, "add = ->(a, b) { a + b }\n"+
		"[add.call(3, 4), add.arity]\n")
	arr, ok := v.(*machine.Array)
	require.True(t, ok, "expected an Array, got %T", v)
	require.Equal(t, machine.Int(7), arr.Elems[0])
	require.Equal(t, machine.Int(2), arr.Elems[1])
}
