package lexer_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/lexer"
	"github.com/kavi-lang/kavi/lang/token"
	"github.com/stretchr/testify/require"
)

func scanKinds(t *testing.T, src string) ([]token.Kind, []lexer.Value) {
	t.Helper()
	f := token.NewFile("t.kv", len(src))
	var errs token.ErrorList
	toks := lexer.ScanAll(f, []byte(src), &errs)
	require.Empty(t, errs, "unexpected lexer errors: %v", errs)

	kinds := make([]token.Kind, len(toks))
	vals := make([]lexer.Value, len(toks))
	for i, tv := range toks {
		kinds[i] = tv.Kind
		vals[i] = tv.Value
	}
	return kinds, vals
}

func TestScanIdentsAndKeywords(t *testing.T) {
	kinds, vals := scanKinds(t, "foo bar? baz! if Const @ivar $gvar")
	require.Equal(t, []token.Kind{
		token.IDENT, token.IDENT, token.IDENT, token.IF, token.CONST,
		token.IVAR, token.GVAR, token.EOF,
	}, kinds)
	require.Equal(t, "foo", vals[0].Raw)
	require.Equal(t, "bar?", vals[1].Raw)
	require.Equal(t, byte('?'), vals[1].Suffix)
	require.Equal(t, "baz!", vals[2].Raw)
	require.Equal(t, "Const", vals[4].Str)
	require.Equal(t, "ivar", vals[5].Str)
	require.Equal(t, "gvar", vals[6].Str)
}

func TestScanNumbers(t *testing.T) {
	kinds, vals := scanKinds(t, "123 1_000 3.14 2e10 2.5e-3")
	require.Equal(t, []token.Kind{
		token.INT, token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF,
	}, kinds)
	require.EqualValues(t, 123, vals[0].Int)
	require.EqualValues(t, 1000, vals[1].Int)
	require.InDelta(t, 3.14, vals[2].Float, 1e-9)
	require.InDelta(t, 2e10, vals[3].Float, 1e-9)
	require.InDelta(t, 2.5e-3, vals[4].Float, 1e-9)
}

func TestScanSymbol(t *testing.T) {
	kinds, vals := scanKinds(t, ":foo ::Bar")
	require.Equal(t, []token.Kind{token.SYMBOL, token.COLONCOLON, token.CONST, token.EOF}, kinds)
	require.Equal(t, "foo", vals[0].Str)
}

func TestScanPlainString(t *testing.T) {
	kinds, vals := scanKinds(t, `'it\'s \\fine'`)
	require.Equal(t, []token.Kind{token.STRING_PLAIN, token.EOF}, kinds)
	require.Equal(t, `it's \fine`, vals[0].Str)
}

func TestScanDoubleQuotedNoInterp(t *testing.T) {
	kinds, vals := scanKinds(t, `"hello\nworld"`)
	require.Equal(t, []token.Kind{token.STRING_PLAIN, token.EOF}, kinds)
	require.Equal(t, "hello\nworld", vals[0].Str)
}

func TestScanInterpolatedString(t *testing.T) {
	kinds, vals := scanKinds(t, `"a#{1 + b}c#{2}d"`)
	require.Equal(t, []token.Kind{
		token.STRING_OPEN, token.INT, token.PLUS, token.IDENT, token.STRING_MID,
		token.INT, token.STRING_CLOSE, token.EOF,
	}, kinds)
	require.Equal(t, "a", vals[0].Str)
	require.Equal(t, "c", vals[4].Str)
	require.Equal(t, "d", vals[6].Str)
}

func TestScanInterpolatedStringWithBraceExpr(t *testing.T) {
	// the hash literal's braces must not be mistaken for the end of the
	// interpolation.
	kinds, _ := scanKinds(t, `"x#{ {a: 1}.size }y"`)
	require.Equal(t, []token.Kind{
		token.STRING_OPEN, token.LBRACE, token.IDENT, token.COLON, token.INT,
		token.RBRACE, token.DOT, token.IDENT, token.STRING_CLOSE, token.EOF,
	}, kinds)
}

func TestScanWords(t *testing.T) {
	kinds, vals := scanKinds(t, "%w(foo bar baz)")
	require.Equal(t, []token.Kind{token.WORDS, token.EOF}, kinds)
	require.Equal(t, []string{"foo", "bar", "baz"}, vals[0].Words)
}

func TestScanPunctuation(t *testing.T) {
	kinds, _ := scanKinds(t, "+ - * ** / % == != <=> && || ** = -> => .. ...")
	require.Equal(t, []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.STARSTAR, token.SLASH,
		token.PERCENT, token.EQ, token.NEQ, token.SPACESHIP, token.AMPAMP,
		token.PIPEPIPE, token.STARSTAR, token.ASSIGN, token.ARROW,
		token.FATARROW, token.DOTDOT, token.DOTDOTDOT, token.EOF,
	}, kinds)
}

func TestScanComment(t *testing.T) {
	kinds, _ := scanKinds(t, "foo # a comment\nbar")
	require.Equal(t, []token.Kind{token.IDENT, token.NEWLINE, token.IDENT, token.EOF}, kinds)
}

func TestScanLineContinuation(t *testing.T) {
	kinds, _ := scanKinds(t, "foo + \\\n  bar")
	require.Equal(t, []token.Kind{token.IDENT, token.PLUS, token.IDENT, token.EOF}, kinds)
}

func TestScanIllegalCharacter(t *testing.T) {
	f := token.NewFile("t.kv", 1)
	var errs token.ErrorList
	toks := lexer.ScanAll(f, []byte("`"), &errs)
	require.NotEmpty(t, errs)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
}
