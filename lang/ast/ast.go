// Package ast defines the abstract syntax tree produced by lang/parser and
// consumed by lang/compiler. Unlike the source language's token stream, the
// tree does not aim to losslessly reproduce source text: comments are kept
// only as a side list associated with the node they follow most closely,
// and no node remembers the exact whitespace or parenthesization used to
// write it.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a short
	// description of itself. The only supported verbs are 'v' and 's'; '#'
	// additionally prints child-count information, and a width pads or
	// truncates the description the same way the teacher's ast.Node did.
	fmt.Formatter

	// Span reports the node's source location.
	Span() token.Loc

	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding reports whether this statement may only appear last in a
	// block (break, next, return).
	BlockEnding() bool
}

// Chunk is the root of a parsed file.
type Chunk struct {
	Name     string
	Comments []*Comment
	Block    *Block
	EOF      token.Pos

	// Locals collects the top-level scope's local variables (spec.md
	// section 4.3's scope stack bottoms out here, not in a Method frame).
	Locals *LvarCollector
}

// Comment is a single '#'-to-end-of-line comment, kept only when comment
// parsing was requested.
type Comment struct {
	Node  Node // the node this comment is associated with, if any
	Start token.Pos
	Raw   string
	Val   string
}

// Block is a sequence of statements (spec.md's "comp-stmt").
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + n.Name
	}
	format(f, verb, n, lbl, nil)
}

func (n *Chunk) Span() token.Loc {
	if n.Block != nil {
		return n.Block.Span()
	}
	return token.Loc{Start: n.EOF, End: n.EOF}
}

func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Comment) Format(f fmt.State, verb rune) { format(f, verb, n, "comment "+n.Val, nil) }
func (n *Comment) Span() token.Loc {
	return token.Loc{Start: n.Start, End: n.Start + token.Pos(len(n.Raw))}
}
func (n *Comment) Walk(_ Visitor) {}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() token.Loc { return token.Loc{Start: n.Start, End: n.End} }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// Name renders id using tbl, or a placeholder if id is ident.None (used for
// an absent optional name, e.g. a superclass-less class).
func Name(tbl *ident.Table, id ident.Id) string {
	if id == ident.None {
		return "<none>"
	}
	return tbl.Name(id)
}

// format implements the shared fmt.Formatter body every node uses, ported
// from the teacher's ast.format, including its width/flag handling.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		switch {
		case len(runes) >= w:
			runes = runes[:w]
		case minus:
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		case !plus:
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
