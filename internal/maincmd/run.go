package maincmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kavi-lang/kavi/lang/builtin"
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/machine"
	"github.com/mna/mainer"
)

// Run parses, compiles and executes each input in turn against a fresh
// machine.Globals: exit 0 on success, 1 on any uncaught error, with a
// diagnostic written to standard error. Syntax errors print as
// "file:line:col: message"; a runtime error's position carries only the
// file name. No source line or caret is printed.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := c.loadSources(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	bySrcName := make(map[string][]byte, len(srcs))
	for _, s := range srcs {
		bySrcName[s.Name] = s.Src
	}

	tbl := ident.NewTable()
	chunks, _, perrs := parseAll(tbl, srcs)
	if len(perrs) > 0 {
		printErrors(stdio.Stderr, perrs)
		return perrs
	}

	g := machine.NewGlobals(tbl)
	builtin.Install(g)

	limits := envOverrides()
	th := machine.NewThread(g, stdio.Stdout, stdio.Stderr, stdio.Stdin)
	th.MaxSteps = limits.MaxSteps
	th.MaxCallDepth = int(limits.MaxCallDepth)

	for i, ch := range chunks {
		prog, err := compiler.CompileChunk(tbl, ch)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", srcs[i].Name, err)
			return err
		}

		if _, err := th.RunProgram(prog); err != nil {
			printRuntimeError(stdio.Stderr, err, bySrcName)
			return err
		}
	}
	return nil
}

// printRuntimeError renders err per spec.md section 6: the diagnostic
// line, followed by the offending source line and a caret under the
// column, when the error carries a resolvable backtrace position.
func printRuntimeError(w io.Writer, err error, srcs map[string][]byte) {
	fmt.Fprintln(w, err)

	ee, ok := err.(*machine.EvalError)
	if !ok || len(ee.Backtrace) == 0 {
		return
	}
	pos := ee.Backtrace[0].Pos
	src, ok := srcs[pos.Filename]
	if !ok || pos.Line <= 0 {
		return
	}
	lines := strings.Split(string(src), "\n")
	if pos.Line > len(lines) {
		return
	}
	line := lines[pos.Line-1]
	fmt.Fprintln(w, line)
	col := pos.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintln(w, strings.Repeat(" ", col-1)+"^")
}
