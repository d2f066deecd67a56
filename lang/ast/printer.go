package ast

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kavi-lang/kavi/lang/token"
)

// Printer controls pretty-printing of AST nodes, one indented line per
// node, used by the `kavi parse` subcommand (SPEC_FULL.md section 2).
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// WithPos prints each node's source position alongside its label.
	WithPos bool

	// File resolves positions to line:column; required when WithPos is set.
	File *token.File

	// NodeFmt is the fmt verb used to render each node; defaults to "%v".
	NodeFmt string
}

// Print pretty-prints n, indenting child nodes one level deeper than their
// parent. If n is a *Chunk with comments, each comment is printed directly
// under the node it is associated with.
func (p *Printer) Print(n Node) error {
	if p.WithPos && p.File == nil {
		return errors.New("ast: File must be provided to print positions")
	}

	pp := &printer{w: p.Output, withPos: p.WithPos, file: p.File, nodeFmt: p.NodeFmt}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	if ch, ok := n.(*Chunk); ok && len(ch.Comments) > 0 {
		m := make(map[Node][]*Comment, len(ch.Comments))
		for _, c := range ch.Comments {
			m[c.Node] = append(m[c.Node], c)
		}
		pp.comments = m
	}

	Walk(pp, n)
	return pp.err
}

type printer struct {
	w        io.Writer
	withPos  bool
	file     *token.File
	nodeFmt  string
	comments map[Node][]*Comment
	depth    int
	err      error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	p.printNode(n, p.depth-1)
	for _, c := range p.comments[n] {
		p.printNode(c, p.depth)
	}
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.withPos {
		loc := n.Span()
		format += "[%s-%s] "
		args = append(args, p.file.Position(loc.Start).String(), p.file.Position(loc.End).String())
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
