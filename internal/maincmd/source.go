package maincmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/parser"
	"github.com/kavi-lang/kavi/lang/token"
)

// namedSource pairs a source's bytes with the name used to report
// diagnostics against it ("<eval>" for -e source, the path otherwise).
type namedSource struct {
	Name string
	Src  []byte
}

// loadSources resolves the CLI's input: either the -e flag's literal
// source, or each named file read from disk.
func (c *Cmd) loadSources(files []string) ([]namedSource, error) {
	if c.Eval != "" {
		return []namedSource{{Name: "<eval>", Src: []byte(c.Eval)}}, nil
	}

	srcs := make([]namedSource, 0, len(files))
	for _, name := range files {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		srcs = append(srcs, namedSource{Name: name, Src: b})
	}
	return srcs, nil
}

// newFile builds the same *token.File line-start index ParseChunk builds
// internally, so a caller that only has the parsed *ast.Chunk back can
// still resolve positions for printing (ast.Printer, the caret-diagnostic
// renderer).
func newFile(s namedSource) *token.File {
	f := token.NewFile(s.Name, len(s.Src))
	for i, c := range s.Src {
		if c == '\n' {
			f.AddLine(i + 1)
		}
	}
	return f
}

// parseAll parses every source, sharing one ident.Table across all of them
// so that a method/ivar/const name interned while parsing one file gets
// the same ident.Id when it recurs in another file -- the table the VM's
// Globals is later built from must agree with the one the parser used.
func parseAll(tbl *ident.Table, srcs []namedSource) ([]*ast.Chunk, []*token.File, token.ErrorList) {
	chunks := make([]*ast.Chunk, 0, len(srcs))
	files := make([]*token.File, 0, len(srcs))
	var errs token.ErrorList

	for _, s := range srcs {
		ch, perrs := parser.ParseChunk(tbl, s.Name, s.Src)
		chunks = append(chunks, ch)
		files = append(files, newFile(s))
		errs = append(errs, perrs...)
	}
	errs.Sort()
	return chunks, files, errs
}

// printErrors writes each diagnostic in errs, one per line, to w.
func printErrors(w io.Writer, errs token.ErrorList) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}
