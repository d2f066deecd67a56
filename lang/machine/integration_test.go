package machine_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/builtin"
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/machine"
	"github.com/kavi-lang/kavi/lang/parser"
	"github.com/stretchr/testify/require"
)

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

// TestMethodLookupMonotonicity exercises spec.md section 8's "Method lookup
// monotonicity" property: calling a method once (populating the call
// site's inline cache), redefining it, then calling it again must observe
// the new definition, not the cached one.
func TestMethodLookupMonotonicity(t *testing.T) {
	src := "class C\n" +
		"  def greet\n" +
		"    1\n" +
		"  end\n" +
		"end\n" +
		"c = C.new\n" +
		"first = c.greet\n" +
		"class C\n" +
		"  def greet\n" +
		"    2\n" +
		"  end\n" +
		"end\n" +
		"second = c.greet\n" +
		"[first, second]\n"
	v := run(t, src)
	arr, ok := v.(*machine.Array)
	require.True(t, ok, "expected an Array, got %T", v)
	require.Equal(t, 2, len(arr.Elems))
	require.Equal(t, machine.Int(1), arr.Elems[0])
	require.Equal(t, machine.Int(2), arr.Elems[1])
}

// TestMethodLookupMonotonicityHotLoop exercises the same property but with
// the call site executed repeatedly inside a loop before and after
// redefinition, so the inline cache is warm (not merely populated once)
// when the method table changes underneath it.
func TestMethodLookupMonotonicityHotLoop(t *testing.T) {
	src := "class C\n" +
		"  def v\n" +
		"    1\n" +
		"  end\n" +
		"end\n" +
		"c = C.new\n" +
		"sum = 0\n" +
		"3.times { sum = sum + c.v }\n" +
		"class C\n" +
		"  def v\n" +
		"    10\n" +
		"  end\n" +
		"end\n" +
		"3.times { sum = sum + c.v }\n" +
		"sum\n"
	v := run(t, src)
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(3+30), i)
}

// TestBlockCapturesEnclosingMethodLocalsAfterReturn exercises spec.md
// section 8's "Block capture" property: a proc created inside a method
// continues to read and write the enclosing method's locals after the
// method has returned.
func TestBlockCapturesEnclosingMethodLocalsAfterReturn(t *testing.T) {
	src := "def make_counter\n" +
		"  count = 0\n" +
		"  -> { count = count + 1; count }\n" +
		"end\n" +
		"counter = make_counter\n" +
		"counter.call\n" +
		"counter.call\n" +
		"counter.call\n"
	v := run(t, src)
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(3), i)
}

// TestDivisionByZeroRaisesZeroDivisionError exercises spec.md section 8's
// arithmetic property for integer division by zero.
func TestDivisionByZeroRaisesZeroDivisionError(t *testing.T) {
	tbl := ident.NewTable()
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte("1 / 0\n"))
	require.Empty(t, errs)

	prog, err := compiler.CompileChunk(tbl, ch)
	require.NoError(t, err)

	g := machine.NewGlobals(tbl)
	builtin.Install(g)
	th := machine.NewThread(g, nil, nil, nil)

	_, err = th.RunProgram(prog)
	require.Error(t, err)
	ee, ok := err.(*machine.EvalError)
	require.True(t, ok, "expected a *machine.EvalError, got %T", err)
	require.Equal(t, machine.ZeroDivisionError, ee.Kind)
}

// TestRangeBounds exercises spec.md section 8's Range-bounds property:
// (a..b).to_a has length b-a+1 for a<=b, "..." excludes the upper bound.
func TestRangeBounds(t *testing.T) {
	v := run(t, "(1..5).to_a.length\n")
	i, ok := v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(5), i)

	v = run(t, "(1...5).to_a.length\n")
	i, ok = v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(4), i)

	v = run(t, "(5..1).to_a.length\n")
	i, ok = v.(machine.Int)
	require.True(t, ok, "expected an Integer, got %T", v)
	require.Equal(t, machine.Int(0), i)
}
