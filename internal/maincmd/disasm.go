package maincmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/mna/mainer"
)

// Disasm runs the parser and compiler over each input and prints the
// resulting bytecode, one function at a time, children indented under
// their parent (SPEC_FULL.md section 3's `--format=yaml` alternative dumps
// the same tree via compiler.DisassembleYAML instead).
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
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

		if c.Format == "yaml" {
			out, err := compiler.DisassembleYAML(prog)
			if err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				return err
			}
			stdio.Stdout.Write(out)
			continue
		}

		fmt.Fprintf(stdio.Stdout, "; %s\n", prog.Filename)
		if err := disasmFunc(stdio.Stdout, prog.Toplevel, 0); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}

func disasmFunc(w io.Writer, fn *compiler.Func, depth int) error {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%sfunc %s (locals=%d, max_stack=%d)\n", indent, fn.Name, fn.NumLocals, fn.MaxStack)

	insts, err := compiler.DisassembleFunc(fn)
	if err != nil {
		return err
	}
	for _, in := range insts {
		if len(in.Args) == 0 {
			fmt.Fprintf(w, "%s  %4d %s\n", indent, in.PC, in.Op)
			continue
		}
		fmt.Fprintf(w, "%s  %4d %s %v\n", indent, in.PC, in.Op, in.Args)
	}
	for _, child := range fn.Children {
		if err := disasmFunc(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
