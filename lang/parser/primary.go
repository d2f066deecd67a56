package parser

import (
	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/token"
)

// parsePrimary parses one primary expression: a literal, a reference, a
// parenthesized expression, a collection literal, or a bare identifier
// (whose role — local read vs. method call — is decided right here, per
// spec.md section 4.3's disambiguation table).
func (p *parser) parsePrimary() ast.Expr {
	pos := p.val.Pos

	switch p.tok {
	case token.INT:
		v := p.val.Int
		p.advance()
		return &ast.IntLit{Loc: span1(pos, p), Val: v}

	case token.FLOAT:
		v := p.val.Float
		p.advance()
		return &ast.FloatLit{Loc: span1(pos, p), Val: v}

	case token.STRING_PLAIN:
		v := p.val.Str
		p.advance()
		return &ast.StringLit{Loc: span1(pos, p), Val: v}

	case token.STRING_OPEN:
		return p.parseInterpolatedString()

	case token.SYMBOL:
		id := p.intern(p.val.Str)
		p.advance()
		return &ast.SymbolLit{Loc: span1(pos, p), Id: id}

	case token.WORDS:
		words := p.val.Words
		p.advance()
		return &ast.WordsLit{Loc: span1(pos, p), Words: words}

	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Loc: span1(pos, p), Val: true}

	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Loc: span1(pos, p), Val: false}

	case token.NIL:
		p.advance()
		return &ast.NilLit{Loc: span1(pos, p)}

	case token.SELF:
		p.advance()
		return &ast.SelfExpr{Loc: span1(pos, p)}

	case token.IVAR:
		id := p.intern(p.val.Str)
		p.advance()
		return &ast.IvarExpr{Loc: span1(pos, p), Id: id}

	case token.GVAR:
		id := p.intern(p.val.Str)
		p.advance()
		return &ast.GvarExpr{Loc: span1(pos, p), Id: id}

	case token.CONST:
		name := p.val.Str
		p.advance()
		id := p.intern(name)
		return &ast.ConstExpr{Loc: span1(pos, p), Id: id}

	case token.COLONCOLON:
		p.advance()
		name := p.val.Str
		p.expect(token.CONST)
		return &ast.ScopedConstExpr{Loc: token.Loc{Start: pos, End: p.val.Pos}, Scope: nil, Name: p.intern(name)}

	case token.LPAREN:
		p.parenDepth++
		p.advance()
		p.skipTerms()
		e := p.parseExpr()
		p.skipTerms()
		p.parenDepth--
		p.expect(token.RPAREN)
		return e

	case token.LBRACK:
		return p.parseArrayLit()

	case token.LBRACE:
		return p.parseHashLit()

	case token.ARROW:
		return p.parseLambdaLit()

	case token.IDENT:
		return p.parseIdentPrimary()

	default:
		p.errorExpected(pos, []token.Kind{token.IDENT})
		panic(errPanicMode)
	}
}

func span1(start token.Pos, p *parser) token.Loc {
	return token.Loc{Start: start, End: p.val.Pos}
}

// parseIdentPrimary implements spec.md section 4.3's primary disambiguation
// table for a bare NAME with no suffix.
func (p *parser) parseIdentPrimary() ast.Expr {
	pos := p.val.Pos
	name := p.val.Raw
	suffix := p.val.Suffix
	id := p.intern(name)
	p.advance()
	loc := token.Loc{Start: pos, End: p.val.Pos}

	if suffix == 0 && p.scope.isLocal(id) {
		return &ast.LvarExpr{Loc: loc, Id: id}
	}

	send := &ast.Send{Loc: loc, MethodId: id, Completed: false}
	if p.tok == token.LPAREN {
		p.parseParenArgs(send)
		send.Completed = true
	} else if token.IsCommandArgStart(p.tok) && !p.atStmtBoundaryAhead() {
		p.parseCommandArgs(send)
		send.Completed = true
	}
	p.attachTrailingBlock(send)
	if send.Block != nil {
		send.Completed = true
	}
	return send
}

// parseInterpolatedString parses "...#{e}...#{e}..." starting at the
// current STRING_OPEN token.
func (p *parser) parseInterpolatedString() ast.Expr {
	pos := p.val.Pos
	n := &ast.InterpolatedStringExpr{Chunks: []string{p.val.Str}}
	p.advance()

	for {
		n.Exprs = append(n.Exprs, p.parseExpr())
		switch p.tok {
		case token.STRING_MID:
			n.Chunks = append(n.Chunks, p.val.Str)
			p.advance()
			continue
		case token.STRING_CLOSE:
			n.Chunks = append(n.Chunks, p.val.Str)
			p.advance()
			n.Loc = token.Loc{Start: pos, End: p.val.Pos}
			return n
		default:
			p.errorExpected(p.val.Pos, []token.Kind{token.STRING_CLOSE})
			panic(errPanicMode)
		}
	}
}

func (p *parser) parseArrayLit() ast.Expr {
	pos := p.val.Pos
	p.parenDepth++
	p.advance() // '['
	p.skipTerms()
	elems := p.parseExprListUntil(token.RBRACK)
	p.skipTerms()
	p.parenDepth--
	end := p.expect(token.RBRACK)
	return &ast.ArrayExpr{Loc: token.Loc{Start: pos, End: end}, Elems: elems}
}

func (p *parser) parseHashLit() ast.Expr {
	pos := p.val.Pos
	p.parenDepth++
	p.advance() // '{'
	p.skipTerms()

	var entries []ast.HashEntry
	for p.tok != token.RBRACE && p.tok != token.EOF {
		var key ast.Expr
		if p.tok == token.IDENT && p.peekIsColon() {
			id := p.intern(p.val.Raw)
			keyPos := p.val.Pos
			p.advance() // ident
			p.advance() // colon
			key = &ast.SymbolLit{Loc: span1(keyPos, p), Id: id}
		} else if p.tok == token.SYMBOL {
			// bare :sym => ... is also legal, the key is the expression.
			key = p.parseExpr()
			p.expect(token.FATARROW)
		} else {
			key = p.parseExpr()
			p.expect(token.FATARROW)
		}
		p.skipTerms()
		val := p.parseExpr()
		entries = append(entries, ast.HashEntry{Key: key, Value: val})
		p.skipTerms()
		if !p.accept(token.COMMA) {
			break
		}
		p.skipTerms()
	}
	p.skipTerms()
	p.parenDepth--
	end := p.expect(token.RBRACE)
	return &ast.HashExpr{Loc: token.Loc{Start: pos, End: end}, Entries: entries}
}

// parseLambdaLit parses -> (params) { body } or -> { body }.
func (p *parser) parseLambdaLit() ast.Expr {
	pos := p.val.Pos
	p.advance() // '->'

	var params *ast.Params
	if p.tok == token.LPAREN {
		params = p.parseParenParamList()
	}

	blk := p.parseBlock(token.LBRACE, token.RBRACE)
	blk.Params = params
	blk.IsLambda = true
	blk.Loc.Start = pos
	return blk
}

// parseBlock parses a block body delimited by open/close, pushing a Block
// scope frame so its locals are tracked independently per spec.md section
// 4.3 (outward resolution up to the enclosing Method's locals).
func (p *parser) parseBlock(open, close token.Kind) *ast.BlockExpr {
	pos := p.val.Pos
	p.expect(open)

	var params *ast.Params
	if p.tok == token.PIPE {
		params = p.parseBarParamList()
	}

	lc := p.scope.push(blockFrame)
	p.bindParamsAsLocals(params)
	body := p.parseStmtsUntil(close)
	p.scope.pop()

	end := p.expect(close)
	return &ast.BlockExpr{Loc: token.Loc{Start: pos, End: end}, Params: params, Body: body, Locals: lc}
}
