package parser

import (
	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// parseExpr is the expression grammar's entry point, implementing the
// precedence table of spec.md section 4.3 from low to high: and/or/not,
// ternary, ranges, ||, &&, equality, relational, bitwise or/xor, bitwise
// and, shift, additive, multiplicative, unary minus, ** (right-assoc),
// unary ~/!, postfix call chains, primary. Assignment sits below all of
// this in the teacher's Lua grammar; kavi instead parses assignment only
// at statement level (see stmt.go's parseExprStmt), which simplifies the
// grammar at the cost of not accepting `while (line = next)`-style
// assignment-as-expression — a deliberate scope simplification, noted in
// DESIGN.md.
func (p *parser) parseExpr() ast.Expr {
	return p.parseAndOrKeyword()
}

func (p *parser) parseAndOrKeyword() ast.Expr {
	left := p.parseNotKeyword()
	for p.tok == token.AND || p.tok == token.OR {
		op := p.tok
		p.advance()
		p.skipTerms()
		right := p.parseNotKeyword()
		left = &ast.BinOpExpr{Loc: token.Merge(left.Span(), right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseNotKeyword() ast.Expr {
	if p.tok == token.NOT {
		pos := p.val.Pos
		p.advance()
		operand := p.parseNotKeyword()
		return &ast.UnaryOpExpr{Loc: token.Merge(token.Loc{Start: pos, End: pos}, operand.Span()), Op: token.NOT, Operand: operand}
	}
	return p.parseTernary()
}

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseRange()
	if p.tok != token.QUESTION {
		return cond
	}
	p.advance()
	p.skipTerms()
	then := p.parseExpr()
	p.expect(token.COLON)
	p.skipTerms()
	els := p.parseExpr()
	// desugared into an IfStmt wrapped as a value-producing expression is
	// not representable without an expression-level if, since IfStmt is a
	// Stmt and this needs to be an Expr; the ternary is instead a Send of
	// the synthetic method __ternary__ carrying its three operands, which
	// the compiler lowers to a conditional jump.
	return &ast.Send{
		Loc:      token.Merge(cond.Span(), els.Span()),
		MethodId: p.intern("__ternary__"),
		Args:     []ast.Expr{cond, then, els},
		Completed: true,
	}
}

func (p *parser) parseRange() ast.Expr {
	low := p.parseOrOr()
	if p.tok == token.DOTDOT || p.tok == token.DOTDOTDOT {
		exclude := p.tok == token.DOTDOTDOT
		pos := p.val.Pos
		p.advance()
		var high ast.Expr
		if canStartExpr(p.tok) {
			high = p.parseOrOr()
		}
		loc := token.Loc{Start: low.Span().Start, End: pos}
		if high != nil {
			loc.End = high.Span().End
		}
		return &ast.RangeExpr{Loc: loc, Low: low, High: high, ExcludeEnd: exclude}
	}
	return low
}

func (p *parser) parseOrOr() ast.Expr {
	return p.parseLeftAssoc(p.parseAndAnd, token.PIPEPIPE)
}

func (p *parser) parseAndAnd() ast.Expr {
	return p.parseLeftAssoc(p.parseEquality, token.AMPAMP)
}

func (p *parser) parseEquality() ast.Expr {
	return p.parseLeftAssoc(p.parseRelational, token.EQ, token.NEQ, token.CASEEQ, token.SPACESHIP)
}

func (p *parser) parseRelational() ast.Expr {
	return p.parseLeftAssoc(p.parseBitOr, token.LT, token.LE, token.GT, token.GE)
}

func (p *parser) parseBitOr() ast.Expr {
	return p.parseLeftAssoc(p.parseBitAnd, token.PIPE, token.CARET)
}

func (p *parser) parseBitAnd() ast.Expr {
	return p.parseLeftAssoc(p.parseShift, token.AMP)
}

func (p *parser) parseShift() ast.Expr {
	return p.parseLeftAssoc(p.parseAdditive, token.LSHIFT, token.RSHIFT)
}

func (p *parser) parseAdditive() ast.Expr {
	return p.parseLeftAssoc(p.parseMultiplicative, token.PLUS, token.MINUS)
}

func (p *parser) parseMultiplicative() ast.Expr {
	return p.parseLeftAssoc(p.parseUnaryMinus, token.STAR, token.SLASH, token.PERCENT)
}

// parseUnaryMinus handles prefix - and +, which bind looser than ** (so
// that -2**2 parses as -(2**2), matching Ruby).
func (p *parser) parseUnaryMinus() ast.Expr {
	if p.tok == token.MINUS || p.tok == token.PLUS {
		op := p.tok
		pos := p.val.Pos
		p.advance()
		operand := p.parseUnaryMinus()
		return &ast.UnaryOpExpr{Loc: token.Loc{Start: pos, End: operand.Span().End}, Op: op, Operand: operand}
	}
	return p.parsePower()
}

// parsePower is right-associative: 2**3**2 == 2**(3**2).
func (p *parser) parsePower() ast.Expr {
	left := p.parseUnaryBangTilde()
	if p.tok == token.STARSTAR {
		p.advance()
		right := p.parseUnaryMinus() // allow 2 ** -2
		return &ast.BinOpExpr{Loc: token.Merge(left.Span(), right.Span()), Op: token.STARSTAR, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnaryBangTilde() ast.Expr {
	if p.tok == token.BANG || p.tok == token.TILDE {
		op := p.tok
		pos := p.val.Pos
		p.advance()
		operand := p.parseUnaryBangTilde()
		return &ast.UnaryOpExpr{Loc: token.Loc{Start: pos, End: operand.Span().End}, Op: op, Operand: operand}
	}
	return p.parsePostfix()
}

// parseLeftAssoc is the shared shape for every left-associative binary
// level: parse one operand at the next tighter level, then fold in any
// number of same-or-lower-level operators found in ops.
func (p *parser) parseLeftAssoc(next func() ast.Expr, ops ...token.Kind) ast.Expr {
	left := next()
	for containsKind(p.tok, ops) {
		op := p.tok
		p.advance()
		p.skipTerms()
		right := next()
		left = &ast.BinOpExpr{Loc: token.Merge(left.Span(), right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func containsKind(k token.Kind, ks []token.Kind) bool {
	for _, x := range ks {
		if k == x {
			return true
		}
	}
	return false
}

// canStartExpr is a conservative check used where an expression is
// optional (e.g. an endless range's upper bound).
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.NEWLINE, token.SEMI, token.EOF, token.RPAREN, token.RBRACK,
		token.RBRACE, token.COMMA, token.THEN, token.DO, token.END:
		return false
	default:
		return true
	}
}

// parsePostfix parses a primary expression followed by any chain of
// `.method`, `::Const`, `[index]`, and absorbs a trailing block literal
// or unparenthesized command argument list onto an unsettled Send.
func (p *parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()

	for {
		switch p.tok {
		case token.DOT:
			pos := p.val.Pos
			p.advance()
			name, nameEnd := p.parseMethodName()
			send := &ast.Send{Loc: token.Loc{Start: pos, End: nameEnd}, Receiver: e, MethodId: name, Completed: true}
			p.parseCallTail(send)
			e = send
		case token.COLONCOLON:
			p.advance()
			name := p.intern(p.val.Str)
			namePos := p.expect(token.CONST)
			_ = namePos
			e = &ast.ScopedConstExpr{Loc: token.Loc{Start: e.Span().Start, End: p.val.Pos}, Scope: e, Name: name}
		case token.LBRACK:
			pos := p.val.Pos
			p.advance()
			args := p.parseExprListUntil(token.RBRACK)
			endPos := p.expect(token.RBRACK)
			e = &ast.IndexExpr{Loc: token.Loc{Start: pos, End: endPos}, Recv: e, Args: args}
		default:
			return e
		}
	}
}

// parseMethodName parses a method-name token after '.', which may be an
// identifier (with optional trailing ?/!) or a constant used as a method
// name (e.g. a rare `.Foo` accessor).
func (p *parser) parseMethodName() (id ident.Id, end token.Pos) {
	switch p.tok {
	case token.IDENT, token.CONST:
		name := p.val.Raw
		end = p.val.Pos + token.Pos(len(name))
		id = p.intern(name)
		p.advance()
		return id, end
	default:
		p.errorExpected(p.val.Pos, []token.Kind{token.IDENT})
		panic(errPanicMode)
	}
}

// parseCallTail parses an optional parenthesized argument list and/or
// trailing block onto send, mutating it in place.
func (p *parser) parseCallTail(send *ast.Send) {
	if p.tok == token.LPAREN {
		p.parseParenArgs(send)
	} else if token.IsCommandArgStart(p.tok) && !p.atStmtBoundaryAhead() {
		p.parseCommandArgs(send)
	}
	p.attachTrailingBlock(send)
}

// parseParenArgs parses "(args)" into send.Args/KwArgs.
func (p *parser) parseParenArgs(send *ast.Send) {
	p.parenDepth++
	p.advance() // consume '('
	p.parseArgList(send)
	p.parenDepth--
	end := p.expect(token.RPAREN)
	send.Loc.End = end
}

// parseCommandArgs parses an unparenthesized, comma-separated argument
// list (spec.md section 4.3's "Command calls").
func (p *parser) parseCommandArgs(send *ast.Send) {
	p.parseArgList(send)
	if len(send.Args) > 0 {
		send.Loc.End = send.Args[len(send.Args)-1].Span().End
	}
}

// parseArgList parses comma-separated arguments, splitting off a trailing
// keyword-argument run (NAME: value, ...) and a leading/ trailing splat.
func (p *parser) parseArgList(send *ast.Send) {
	for canStartExpr(p.tok) && p.tok != token.RPAREN {
		if p.tok == token.IDENT && p.peekIsColon() {
			key := p.intern(p.val.Raw)
			p.advance() // ident
			p.advance() // colon
			val := p.parseExpr()
			send.KwArgs = append(send.KwArgs, ast.KwArg{Key: key, Value: val})
		} else if p.tok == token.STAR {
			pos := p.val.Pos
			p.advance()
			val := p.parseExpr()
			send.Args = append(send.Args, &ast.SplatExpr{Loc: token.Loc{Start: pos, End: val.Span().End}, Value: val})
		} else {
			send.Args = append(send.Args, p.parseExpr())
		}
		if !p.accept(token.COMMA) {
			break
		}
		p.skipTerms()
	}
}

// peekIsColon is a one-token lookahead hack for `name:` keyword-argument
// sugar: it is only safe to call when p.tok == token.IDENT, and it does
// not consume input if the answer is false (it just inspects the next
// byte of source directly rather than running a second lexer; the parser
// has no save/restore backtracking of its own).
func (p *parser) peekIsColon() bool {
	return p.lex.PeekIsColon()
}

// attachTrailingBlock parses a `do...end` or `{ ... }` block and attaches
// it to send, if present.
func (p *parser) attachTrailingBlock(send *ast.Send) {
	switch p.tok {
	case token.DO:
		send.Block = p.parseBlock(token.DO, token.END)
		send.Loc.End = send.Block.Loc.End
	case token.LBRACE:
		send.Block = p.parseBlock(token.LBRACE, token.RBRACE)
		send.Loc.End = send.Block.Loc.End
	}
}

// atStmtBoundaryAhead reports whether the current token cannot legally
// begin a command-call argument list because a statement terminator or
// block/end keyword is immediately ahead; guards against misreading
// trailing modifiers as arguments.
func (p *parser) atStmtBoundaryAhead() bool {
	switch p.tok {
	case token.NEWLINE, token.SEMI, token.EOF, token.END, token.THEN,
		token.DO, token.ELSE, token.ELSIF, token.WHEN:
		return true
	default:
		return false
	}
}

// parseExprListUntil parses a comma-separated expression list up to (but
// not consuming) the closing token.
func (p *parser) parseExprListUntil(closing token.Kind) []ast.Expr {
	var out []ast.Expr
	for p.tok != closing && p.tok != token.EOF {
		out = append(out, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
		p.skipTerms()
	}
	return out
}
