// Package parser implements the recursive-descent parser that turns a
// token stream into an *ast.Chunk, assigning local-variable roles as it
// goes (spec.md section 4.3).
package parser

import (
	"errors"
	"os"
	"strings"

	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/lexer"
	"github.com/kavi-lang/kavi/lang/token"
)

// ParseFiles parses each named file into an *ast.Chunk, interning
// identifiers into tbl. The returned error, if non-nil, is a
// *token.ErrorList.
func ParseFiles(tbl *ident.Table, files ...string) ([]*ast.Chunk, error) {
	var errs token.ErrorList
	chunks := make([]*ast.Chunk, 0, len(files))

	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			errs.Add(token.Position{Filename: name}, err.Error())
			continue
		}
		ch, perrs := ParseChunk(tbl, name, src)
		chunks = append(chunks, ch)
		errs = append(errs, perrs...)
	}
	errs.Sort()
	return chunks, errs.Err()
}

// ParseChunk parses a single chunk from src under filename, for error
// reporting. It always returns a non-nil *ast.Chunk, even on error (bad
// statements are recorded as ast.BadStmt so the rest of the file still
// parses).
func ParseChunk(tbl *ident.Table, filename string, src []byte) (*ast.Chunk, token.ErrorList) {
	var p parser
	p.tbl = tbl
	p.file = token.NewFile(filename, len(src))
	for i, c := range src {
		if c == '\n' {
			p.file.AddLine(i + 1)
		}
	}
	p.lex = lexer.New(p.file, src, &p.errors)
	p.advance()

	ch := p.parseChunk()
	ch.Name = filename
	p.errors.Sort()
	return ch, p.errors
}

// parser holds all mutable state for one parse of one chunk.
type parser struct {
	tbl    *ident.Table
	file   *token.File
	lex    *lexer.Lexer
	errors token.ErrorList

	tok token.Kind
	val lexer.Value

	scope scopeStack

	// parenDepth counts open (, [ and hash-literal { so that NEWLINE tokens can
	// be skipped while inside them, matching Ruby's "newlines are
	// insignificant inside brackets" rule; the lexer itself stays
	// indifferent to bracket nesting (spec.md section 4.2) and always
	// emits NEWLINE, leaving the suppression decision to the parser.
	parenDepth int
}

func (p *parser) advance() {
	p.tok = p.lex.Scan(&p.val)
	for p.parenDepth > 0 && p.tok == token.NEWLINE {
		p.tok = p.lex.Scan(&p.val)
	}
}

// skipTerms consumes any number of NEWLINE/SEMI tokens, used at points
// where a statement terminator is optional (e.g. after "then", before
// "end").
func (p *parser) skipTerms() {
	for p.tok == token.NEWLINE || p.tok == token.SEMI {
		p.advance()
	}
}

var errPanicMode = errors.New("panic")

// expect consumes the current token if it matches one of toks, otherwise
// records an error and panics with errPanicMode, recovered at the
// statement level into an ast.BadStmt.
func (p *parser) expect(toks ...token.Kind) token.Pos {
	pos := p.val.Pos
	for _, t := range toks {
		if p.tok == t {
			p.advance()
			return pos
		}
	}
	p.errorExpected(pos, toks)
	panic(errPanicMode)
}

func (p *parser) accept(tok token.Kind) bool {
	if p.tok == tok {
		p.advance()
		return true
	}
	return false
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

func (p *parser) errorExpected(pos token.Pos, toks []token.Kind) {
	var buf strings.Builder
	for i, t := range toks {
		if i > 0 {
			buf.WriteString(" or ")
		}
		buf.WriteString(t.GoString())
	}
	msg := "expected " + buf.String()
	if pos == p.val.Pos {
		if p.tok == token.EOF {
			msg += ", found end of file (UnexpectedEOF)"
		} else {
			msg += ", found " + p.tok.GoString()
		}
	}
	p.error(pos, msg)
}

// intern is a small convenience wrapper so expr.go/stmt.go don't need to
// thread p.tbl everywhere by hand.
func (p *parser) intern(name string) ident.Id { return p.tbl.Intern(name) }

func (p *parser) parseChunk() *ast.Chunk {
	lc := p.scope.push(methodFrame) // top level behaves like a method frame
	p.scope.top().inMethod = false  // ...except that a def is allowed there
	defer p.scope.pop()

	ch := &ast.Chunk{Locals: lc}
	blk := &ast.Block{Start: p.val.Pos}
	p.skipTerms()
	for p.tok != token.EOF {
		blk.Stmts = append(blk.Stmts, p.parseStmtRecover())
		p.skipTerms()
	}
	blk.End = p.val.Pos
	ch.Block = blk
	ch.EOF = p.val.Pos
	return ch
}

// parseStmtRecover parses one statement, recovering from a panic into a
// BadStmt and skipping to the next statement boundary, per the teacher's
// errPanicMode convention.
func (p *parser) parseStmtRecover() (s ast.Stmt) {
	start := p.val.Pos
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			s = &ast.BadStmt{Loc: token.Loc{Start: start, End: p.val.Pos}}
			p.syncToStmtBoundary()
		}
	}()
	return p.parseStmt()
}

// syncToStmtBoundary advances past tokens until a likely statement
// boundary, so a single syntax error does not cascade through the rest of
// the file.
func (p *parser) syncToStmtBoundary() {
	for {
		switch p.tok {
		case token.NEWLINE, token.SEMI, token.EOF, token.END,
			token.ELSE, token.ELSIF, token.WHEN:
			return
		}
		p.advance()
	}
}
