package parser

import (
	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// parseStmtsUntil parses statements up to (not consuming) a closing
// keyword/token, used for every kind of body (method, block, if-branch,
// loop, class).
func (p *parser) parseStmtsUntil(closing ...token.Kind) *ast.Block {
	blk := &ast.Block{Start: p.val.Pos}
	p.skipTerms()
	for !p.atAny(closing) && p.tok != token.EOF {
		blk.Stmts = append(blk.Stmts, p.parseStmtRecover())
		p.skipTerms()
	}
	blk.End = p.val.Pos
	return blk
}

func (p *parser) atAny(toks []token.Kind) bool {
	for _, t := range toks {
		if p.tok == t {
			return true
		}
	}
	return false
}

// parseStmt parses one statement, including its optional trailing
// modifier (if/unless/while/until), per spec.md section 4.3.
func (p *parser) parseStmt() ast.Stmt {
	var s ast.Stmt
	switch p.tok {
	case token.IF:
		s = p.parseIf(false)
	case token.UNLESS:
		s = p.parseIf(true)
	case token.WHILE:
		s = p.parseWhile(false)
	case token.UNTIL:
		s = p.parseWhile(true)
	case token.FOR:
		s = p.parseFor()
	case token.CASE:
		s = p.parseCase()
	case token.DEF:
		s = p.parseDef()
	case token.CLASS:
		s = p.parseClass(false)
	case token.MODULE:
		s = p.parseClass(true)
	case token.BREAK:
		s = p.parseBreak()
	case token.NEXT:
		s = p.parseNext()
	case token.RETURN:
		s = p.parseReturn()
	default:
		s = p.parseAssignOrExprStmt()
	}
	return p.applyModifier(s)
}

// applyModifier wraps s if followed by a trailing if/unless/while/until
// modifier (spec.md section 4.3's "Statement modifiers").
func (p *parser) applyModifier(s ast.Stmt) ast.Stmt {
	switch p.tok {
	case token.IF:
		pos := p.val.Pos
		p.advance()
		cond := p.parseExpr()
		return &ast.IfStmt{Loc: token.Loc{Start: s.Span().Start, End: cond.Span().End}, Cond: cond,
			Body: &ast.Block{Stmts: []ast.Stmt{s}, Start: pos, End: cond.Span().End}}
	case token.UNLESS:
		pos := p.val.Pos
		p.advance()
		cond := p.parseExpr()
		return &ast.IfStmt{Loc: token.Loc{Start: s.Span().Start, End: cond.Span().End}, Negate: true, Cond: cond,
			Body: &ast.Block{Stmts: []ast.Stmt{s}, Start: pos, End: cond.Span().End}}
	case token.WHILE:
		p.advance()
		cond := p.parseExpr()
		return &ast.WhileStmt{Loc: token.Loc{Start: s.Span().Start, End: cond.Span().End}, Cond: cond,
			Body: &ast.Block{Stmts: []ast.Stmt{s}}}
	case token.UNTIL:
		p.advance()
		cond := p.parseExpr()
		return &ast.WhileStmt{Loc: token.Loc{Start: s.Span().Start, End: cond.Span().End}, Negate: true, Cond: cond,
			Body: &ast.Block{Stmts: []ast.Stmt{s}}}
	default:
		return s
	}
}

// parseAssignOrExprStmt parses an expression statement, a single
// assignment (including compound assignment), or a multi-assign,
// disambiguated by what follows the first parsed expression.
func (p *parser) parseAssignOrExprStmt() ast.Stmt {
	start := p.val.Pos
	first := p.parseExpr()

	if p.tok == token.COMMA {
		lhs := []ast.Expr{p.toAssignTarget(first)}
		for p.accept(token.COMMA) {
			p.skipTerms()
			lhs = append(lhs, p.toAssignTarget(p.parseExpr()))
		}
		p.expect(token.ASSIGN)
		p.skipTerms()
		rhs := p.parseExprListUntil(token.NEWLINE)
		return &ast.MultiAssignStmt{Loc: token.Loc{Start: start, End: p.val.Pos}, Lhs: lhs, Rhs: rhs}
	}

	if isAssignOp(p.tok) {
		op := p.tok
		p.advance()
		p.skipTerms()
		lhs := p.toAssignTarget(first)
		rhs := p.parseExpr()
		return &ast.AssignStmt{Loc: token.Loc{Start: start, End: rhs.Span().End}, Op: op, Lhs: lhs, Rhs: rhs}
	}

	return &ast.ExprStmt{E: first}
}

func isAssignOp(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.AMP_EQ, token.PIPE_EQ, token.CARET_EQ,
		token.LSHIFT_EQ, token.RSHIFT_EQ, token.STARSTAR_EQ, token.ANDAND_EQ, token.OROR_EQ:
		return true
	default:
		return false
	}
}

// toAssignTarget converts e, which was parsed as a plain expression, into
// an assignment target, promoting a bare pending identifier to a local per
// spec.md section 4.3 ("Assignment to a bare identifier ... promotes it to
// a local in the current scope"). It enforces spec.md section 3's
// invariant on legal mul_assign/assign targets.
func (p *parser) toAssignTarget(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.Send:
		if v.Receiver == nil && !v.Completed && len(v.Args) == 0 && len(v.KwArgs) == 0 && v.Block == nil {
			p.scope.addLocalIfNew(v.MethodId)
			return &ast.LvarExpr{Loc: v.Loc, Id: v.MethodId}
		}
		if v.Receiver != nil && len(v.Args) == 0 {
			// attr= send target, e.g. `obj.attr = x`; valid as-is.
			return v
		}
	case *ast.LvarExpr, *ast.IvarExpr, *ast.GvarExpr, *ast.ConstExpr,
		*ast.ScopedConstExpr, *ast.IndexExpr:
		return v
	case *ast.SplatExpr:
		return &ast.SplatExpr{Loc: v.Loc, Value: p.toAssignTarget(v.Value)}
	}
	p.error(e.Span().Start, "invalid assignment target")
	return e
}

func (p *parser) parseIf(negate bool) ast.Stmt {
	pos := p.val.Pos
	p.advance()
	cond := p.parseExpr()
	p.acceptThen()
	body := p.parseStmtsUntil(token.ELSIF, token.ELSE, token.END)

	stmt := &ast.IfStmt{Loc: token.Loc{Start: pos}, Negate: negate, Cond: cond, Body: body}
	for p.tok == token.ELSIF {
		p.advance()
		c := p.parseExpr()
		p.acceptThen()
		b := p.parseStmtsUntil(token.ELSIF, token.ELSE, token.END)
		stmt.Elsifs = append(stmt.Elsifs, ast.ElsifClause{Cond: c, Body: b})
	}
	if p.accept(token.ELSE) {
		stmt.Else = p.parseStmtsUntil(token.END)
	}
	end := p.expect(token.END)
	stmt.Loc.End = end
	return stmt
}

func (p *parser) acceptThen() {
	p.skipTerms()
	p.accept(token.THEN)
	p.skipTerms()
}

func (p *parser) parseWhile(negate bool) ast.Stmt {
	pos := p.val.Pos
	p.advance()
	cond := p.parseExpr()
	p.skipTerms()
	p.accept(token.DO)
	p.skipTerms()
	body := p.parseStmtsUntil(token.END)
	end := p.expect(token.END)
	return &ast.WhileStmt{Loc: token.Loc{Start: pos, End: end}, Negate: negate, Cond: cond, Body: body}
}

func (p *parser) parseFor() ast.Stmt {
	pos := p.val.Pos
	p.advance()

	var vars []ident.Id
	for {
		id, _ := p.expectParamName()
		vars = append(vars, id)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	p.skipTerms()
	p.accept(token.DO)
	p.skipTerms()

	// `for` shares the enclosing scope for its loop variables (unlike a
	// block), per Ruby semantics: they remain visible after the loop ends.
	for _, id := range vars {
		p.scope.addLocalIfNew(id)
	}
	body := p.parseStmtsUntil(token.END)
	end := p.expect(token.END)
	return &ast.ForStmt{Loc: token.Loc{Start: pos, End: end}, Vars: vars, Iter: iter, Body: body}
}

func (p *parser) parseCase() ast.Stmt {
	pos := p.val.Pos
	p.advance()

	var subject ast.Expr
	if p.tok != token.NEWLINE && p.tok != token.WHEN {
		subject = p.parseExpr()
	}
	p.skipTerms()

	stmt := &ast.CaseStmt{Loc: token.Loc{Start: pos}, Subject: subject}
	for p.accept(token.WHEN) {
		exprs := p.parseExprListUntil(token.THEN)
		p.acceptThen()
		body := p.parseStmtsUntil(token.WHEN, token.ELSE, token.END)
		stmt.Whens = append(stmt.Whens, ast.WhenClause{Exprs: exprs, Body: body})
	}
	if p.accept(token.ELSE) {
		stmt.Else = p.parseStmtsUntil(token.END)
	}
	end := p.expect(token.END)
	stmt.Loc.End = end
	return stmt
}

func (p *parser) parseDef() ast.Stmt {
	pos := p.val.Pos
	p.advance()

	isClassMethod := false
	if p.tok == token.SELF {
		p.advance()
		p.expect(token.DOT)
		isClassMethod = true
	}

	if p.scope.inMethodBody() {
		p.error(pos, "method definition inside a method body is not allowed")
	}

	name, _ := p.parseMethodNameForDef()

	var params *ast.Params
	if p.tok == token.LPAREN {
		params = p.parseParenParamList()
	} else if p.tok != token.NEWLINE && p.tok != token.SEMI {
		params = p.parseParamListBody(token.NEWLINE)
	}

	lc := p.scope.push(methodFrame)
	p.bindParamsAsLocals(params)
	body := p.parseStmtsUntil(token.END)
	p.scope.pop()

	end := p.expect(token.END)
	return &ast.MethodDecl{Loc: token.Loc{Start: pos, End: end}, Name: name, IsClassMethod: isClassMethod,
		Params: params, Body: body, Locals: lc}
}

// parseMethodNameForDef accepts an identifier or a bracket/operator method
// name (e.g. `def []`, `def ==`); kavi supports the common identifier case
// fully and operator-name defs as their raw punctuator spelling.
func (p *parser) parseMethodNameForDef() (ident.Id, token.Pos) {
	pos := p.val.Pos
	name := p.val.Raw
	if p.tok != token.IDENT {
		name = p.tok.GoString()
	}
	p.advance()
	if p.tok == token.ASSIGN && len(name) > 0 {
		// a setter method, e.g. `def name=`.
		name += "="
		p.advance()
	}
	return p.intern(name), pos
}

func (p *parser) parseClass(isModule bool) ast.Stmt {
	pos := p.val.Pos
	p.advance()

	nameStr := p.val.Raw
	namePos := p.val.Pos
	p.expect(token.CONST)
	name := p.intern(nameStr)

	var scope ast.Expr
	for p.tok == token.COLONCOLON {
		p.advance()
		inner := p.val.Raw
		p.expect(token.CONST)
		scope = &ast.ConstExpr{Loc: span1(namePos, p), Id: name}
		name = p.intern(inner)
	}

	var super ast.Expr
	if !isModule && p.accept(token.LT) {
		super = p.parseExpr()
	}
	p.skipTerms()

	lc := p.scope.push(classFrame)
	body := p.parseStmtsUntil(token.END)
	p.scope.pop()

	end := p.expect(token.END)
	return &ast.ClassDecl{Loc: token.Loc{Start: pos, End: end}, Name: name, Scope: scope, Superclass: super,
		IsModule: isModule, Body: body, Locals: lc}
}

func (p *parser) parseBreak() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	var v ast.Expr
	if canStartExpr(p.tok) {
		v = p.parseExpr()
	}
	loc := token.Loc{Start: pos, End: p.val.Pos}
	if v != nil {
		loc.End = v.Span().End
	}
	return &ast.BreakStmt{Loc: loc, Value: v}
}

func (p *parser) parseNext() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	var v ast.Expr
	if canStartExpr(p.tok) {
		v = p.parseExpr()
	}
	loc := token.Loc{Start: pos, End: p.val.Pos}
	if v != nil {
		loc.End = v.Span().End
	}
	return &ast.NextStmt{Loc: loc, Value: v}
}

func (p *parser) parseReturn() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	var v ast.Expr
	if canStartExpr(p.tok) {
		v = p.parseExpr()
	}
	loc := token.Loc{Start: pos, End: p.val.Pos}
	if v != nil {
		loc.End = v.Span().End
	}
	return &ast.ReturnStmt{Loc: loc, Value: v}
}
