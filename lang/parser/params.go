package parser

import (
	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// parseParenParamList parses "(required, opt = default, *rest, post,
// name:, name: default, **kwrest, &blk)", enforcing the ordering from
// spec.md section 4.3.
func (p *parser) parseParenParamList() *ast.Params {
	p.expect(token.LPAREN)
	p.parenDepth++
	params := p.parseParamListBody(token.RPAREN)
	p.parenDepth--
	p.expect(token.RPAREN)
	return params
}

// parseBarParamList parses "|a, b = 1, *rest, &blk|" block parameters.
func (p *parser) parseBarParamList() *ast.Params {
	p.expect(token.PIPE)
	params := p.parseParamListBody(token.PIPE)
	p.expect(token.PIPE)
	return params
}

// parseParamListBody parses comma-separated parameters up to (not
// consuming) closing, enforcing required -> optional -> rest ->
// post-required -> keyword -> keyword-rest -> block ordering. A required
// parameter seen after rest is accepted as post-required; any other
// reordering, a second rest, a param after the block param, or a
// duplicate name is a syntax error.
func (p *parser) parseParamListBody(closing token.Kind) *ast.Params {
	params := &ast.Params{Rest: ident.None, KwRest: ident.None, Block: ident.None}
	seen := make(map[ident.Id]bool)
	sawOptional, sawRest, sawKeyword := false, false, false
	sawKwRest, sawBlock := false, false

	checkDup := func(id ident.Id, pos token.Pos) {
		if seen[id] {
			p.error(pos, "duplicated argument name")
		}
		seen[id] = true
	}

	for p.tok != closing && p.tok != token.EOF {
		if sawBlock {
			p.error(p.val.Pos, "parameter after block parameter")
		}
		switch {
		case p.tok == token.STAR:
			p.advance()
			if sawRest {
				p.error(p.val.Pos, "a second rest parameter is not allowed")
			}
			if sawKeyword || sawKwRest {
				p.error(p.val.Pos, "rest parameter after keyword parameter")
			}
			id, pos := p.expectParamName()
			checkDup(id, pos)
			params.Rest = id
			sawRest = true

		case p.tok == token.STARSTAR:
			p.advance()
			id, pos := p.expectParamName()
			checkDup(id, pos)
			params.KwRest = id
			sawKwRest = true

		case p.tok == token.AMP:
			p.advance()
			id, pos := p.expectParamName()
			checkDup(id, pos)
			params.Block = id
			sawBlock = true

		case p.tok == token.IDENT && p.peekIsColon():
			id, pos := p.expectParamName()
			checkDup(id, pos)
			if sawKwRest {
				p.error(pos, "keyword parameter after keyword rest parameter")
			}
			p.advance() // colon
			var def ast.Expr
			if canStartExpr(p.tok) && p.tok != token.COMMA {
				def = p.parseExpr()
			}
			params.Keywords = append(params.Keywords, ast.KwParam{Name: id, Default: def})
			sawKeyword = true

		default:
			id, pos := p.expectParamName()
			checkDup(id, pos)
			if p.tok == token.ASSIGN {
				p.advance()
				def := p.parseExpr()
				if sawRest || sawKeyword || sawKwRest {
					p.error(pos, "optional parameter must precede rest and keyword parameters")
				}
				params.Optional = append(params.Optional, ast.OptParam{Name: id, Default: def})
				sawOptional = true
			} else if sawKeyword || sawKwRest {
				p.error(pos, "required parameter after keyword parameter")
			} else if sawRest {
				params.Post = append(params.Post, id)
			} else if sawOptional {
				p.error(pos, "required parameter after optional parameter")
			} else {
				params.Required = append(params.Required, id)
			}
		}

		if !p.accept(token.COMMA) {
			break
		}
		p.skipTerms()
	}
	return params
}

func (p *parser) expectParamName() (ident.Id, token.Pos) {
	pos := p.val.Pos
	if p.tok != token.IDENT {
		p.errorExpected(pos, []token.Kind{token.IDENT})
		panic(errPanicMode)
	}
	id := p.intern(p.val.Raw)
	p.advance()
	return id, pos
}

// bindParamsAsLocals inserts every parameter name into the current (just
// pushed) scope frame, so the body sees them as locals from the start.
func (p *parser) bindParamsAsLocals(params *ast.Params) {
	if params == nil {
		return
	}
	for _, id := range params.Required {
		p.scope.top().locals.Insert(id)
	}
	for _, op := range params.Optional {
		p.scope.top().locals.Insert(op.Name)
	}
	if params.Rest != ident.None {
		p.scope.top().locals.Insert(params.Rest)
	}
	for _, id := range params.Post {
		p.scope.top().locals.Insert(id)
	}
	for _, kw := range params.Keywords {
		p.scope.top().locals.Insert(kw.Name)
	}
	if params.KwRest != ident.None {
		p.scope.top().locals.Insert(params.KwRest)
	}
	if params.Block != ident.None {
		lv := p.scope.top().locals.Insert(params.Block)
		p.scope.top().locals.SetBlockParam(lv)
	}
}
