package maincmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/kavi-lang/kavi/internal/maincmd"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

// TestRunEval exercises the "run" subcommand's -e path end to end: parse,
// compile and execute a literal source string, with output going to
// stdout exactly as a real invocation would produce it.
func TestRunEval(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{Eval: "puts 1 + 2\n"}
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := c.Run(context.Background(), stdio, nil)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
	require.Equal(t, "3\n", out.String())
}

// TestRunEvalReportsUncaughtError exercises spec.md section 6's contract:
// an uncaught runtime error is printed to stderr and Run returns non-nil,
// the signal internal/maincmd.Main uses to pick mainer.Failure.
func TestRunEvalReportsUncaughtError(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{Eval: "1 / 0\n"}
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := c.Run(context.Background(), stdio, nil)
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
}

// TestDisasmTextListsOpcodes exercises the "disasm" subcommand's default
// text format, checking it names the toplevel func and lists the
// arithmetic opcodes compileSrc would produce.
func TestDisasmTextListsOpcodes(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{Eval: "1 + 2\n"}
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := c.Disasm(context.Background(), stdio, nil)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
	require.Contains(t, out.String(), "func <main>")
	require.Contains(t, out.String(), "add")
}

// TestDisasmYAMLFormat exercises the --format=yaml alternative, which
// delegates to compiler.DisassembleYAML instead of the indented text tree.
func TestDisasmYAMLFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{Eval: "x = 1\n", Format: "yaml"}
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := c.Disasm(context.Background(), stdio, nil)
	require.NoError(t, err)
	require.Empty(t, errOut.String())
	require.Contains(t, out.String(), "filename: <eval>")
}

// TestCompileReportsSyntaxErrors exercises, through "compile", the
// loadSources/parseAll error path that "parse" shares.
func TestCompileReportsSyntaxErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &maincmd.Cmd{Eval: "def\n"}
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := c.Compile(context.Background(), stdio, nil)
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
}
