package maincmd

import (
	"context"
	"fmt"

	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/mna/mainer"
)

// Compile runs the parser and compiler over each input, reporting "ok" for
// each source that compiles and stopping at the first compile error
// (spec.md section 4.4).
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := c.loadSources(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	tbl := ident.NewTable()
	chunks, _, perrs := parseAll(tbl, srcs)
	if len(perrs) > 0 {
		printErrors(stdio.Stderr, perrs)
		return perrs
	}

	for i, ch := range chunks {
		prog, err := compiler.CompileChunk(tbl, ch)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", srcs[i].Name, err)
			return err
		}
		fmt.Fprintf(stdio.Stdout, "%s: ok (%d top-level locals)\n", prog.Filename, prog.Toplevel.NumLocals)
	}
	return nil
}
