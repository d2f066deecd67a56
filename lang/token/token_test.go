package token_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/token"
	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	k, ok := token.LookupKeyword("if")
	require.True(t, ok)
	require.Equal(t, token.IF, k)

	_, ok = token.LookupKeyword("iffy")
	require.False(t, ok)
}

func TestLocMerge(t *testing.T) {
	a := token.Loc{Start: 0, End: 3}
	b := token.Loc{Start: 2, End: 5}
	got := token.Merge(a, b)
	require.Equal(t, token.Loc{Start: 0, End: 5}, got)
}

func TestIsCommandArgStart(t *testing.T) {
	require.True(t, token.IsCommandArgStart(token.INT))
	require.True(t, token.IsCommandArgStart(token.STRING_PLAIN))
	require.False(t, token.IsCommandArgStart(token.RPAREN))
	require.False(t, token.IsCommandArgStart(token.EOF))
}
