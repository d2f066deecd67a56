package compiler_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/parser"
	"github.com/stretchr/testify/require"
)

func compileSrc(t *testing.T, src string) *compiler.Program {
	t.Helper()
	tbl := ident.NewTable()
	ch, errs := parser.ParseChunk(tbl, "t.kv", []byte(src))
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	prog, err := compiler.CompileChunk(tbl, ch)
	require.NoError(t, err)
	return prog
}

func opNames(insts []compiler.Instruction) []string {
	names := make([]string, len(insts))
	for i, in := range insts {
		names[i] = in.Op
	}
	return names
}

func TestDisassembleFuncArithmetic(t *testing.T) {
	// The sole top-level statement's value is kept (not popped), since
	// compileFunc compiles a chunk's body with keepLast=true.
	prog := compileSrc(t, "1 + 2\n")
	insts, err := compiler.DisassembleFunc(prog.Toplevel)
	require.NoError(t, err)
	require.Equal(t, []string{"push_fixnum", "push_fixnum", "add", "return"}, opNames(insts))
}

func TestDisassembleFuncJumpTargetsResolveForward(t *testing.T) {
	prog := compileSrc(t, "if true\n  1\nend\n")
	insts, err := compiler.DisassembleFunc(prog.Toplevel)
	require.NoError(t, err)

	var sawJump bool
	for _, in := range insts {
		if in.Op == "jmp_if_false" {
			sawJump = true
			require.Len(t, in.Args, 1)
			require.Greater(t, in.Args[0], int64(in.PC), "jump target must resolve forward of the instruction")
		}
	}
	require.True(t, sawJump, "expected a jmp_if_false in: %v", insts)
}

func TestDisassembleFuncMethodDefIsAChild(t *testing.T) {
	prog := compileSrc(t, "def greet(name)\n  puts name\nend\n")
	require.NotEmpty(t, prog.Toplevel.Children, "def should compile its body as a child Func")

	child := prog.Toplevel.Children[0]
	insts, err := compiler.DisassembleFunc(child)
	require.NoError(t, err)
	require.NotEmpty(t, insts)
}

func TestDisassembleYAMLRoundTripsFilename(t *testing.T) {
	prog := compileSrc(t, "x = 1\n")
	out, err := compiler.DisassembleYAML(prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "filename: t.kv")
	require.Contains(t, string(out), "toplevel:")
}
