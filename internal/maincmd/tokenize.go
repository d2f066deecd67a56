package maincmd

import (
	"context"
	"fmt"

	"github.com/kavi-lang/kavi/lang/lexer"
	"github.com/kavi-lang/kavi/lang/token"
	"github.com/mna/mainer"
)

// Tokenize runs the lexer over each input and prints its token stream,
// one "pos: KIND literal" line per token (spec.md section 6's token
// grammar).
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	srcs, err := c.loadSources(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var errs token.ErrorList
	for _, s := range srcs {
		f := newFile(s)
		var fileErrs token.ErrorList
		toks := lexer.ScanAll(f, s.Src, &fileErrs)
		for _, tv := range toks {
			pos := f.Position(tv.Value.Pos)
			fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tv.Kind)
			if lit := tokenLiteral(tv); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		errs = append(errs, fileErrs...)
	}

	if len(errs) > 0 {
		errs.Sort()
		printErrors(stdio.Stderr, errs)
		return errs
	}
	return nil
}

// tokenLiteral renders a token's decoded payload, if it carries one, for
// the tokenize subcommand's listing.
func tokenLiteral(tv lexer.TokenAndValue) string {
	switch tv.Kind {
	case token.IDENT, token.CONST, token.IVAR, token.GVAR:
		return tv.Value.Raw
	case token.INT:
		return fmt.Sprintf("%d", tv.Value.Int)
	case token.FLOAT:
		return fmt.Sprintf("%g", tv.Value.Float)
	case token.SYMBOL, token.STRING_PLAIN, token.STRING_OPEN, token.STRING_MID, token.STRING_CLOSE:
		return fmt.Sprintf("%q", tv.Value.Str)
	case token.WORDS:
		return fmt.Sprintf("%q", tv.Value.Words)
	default:
		return tv.Value.Raw
	}
}
