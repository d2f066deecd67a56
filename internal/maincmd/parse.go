package maincmd

import (
	"context"
	"fmt"

	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/mna/mainer"
)

// Parse runs the parser over each input and pretty-prints the resulting
// AST, one indented line per node (spec.md section 4.3).
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := c.loadSources(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	tbl := ident.NewTable()
	chunks, files, perrs := parseAll(tbl, srcs)

	for i, ch := range chunks {
		printer := ast.Printer{Output: stdio.Stdout, WithPos: true, File: files[i]}
		if err := printer.Print(ch); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}

	if len(perrs) > 0 {
		printErrors(stdio.Stderr, perrs)
		return perrs
	}
	return nil
}
