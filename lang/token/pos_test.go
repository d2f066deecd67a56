package token_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/token"
	"github.com/stretchr/testify/require"
)

func TestFilePosition(t *testing.T) {
	src := "abc\ndef\nghi"
	f := token.NewFile("t.kv", len(src))
	for i, c := range src {
		if c == '\n' {
			f.AddLine(i + 1)
		}
	}

	p := f.Position(5) // 'e' in "def", offset 5 = line 2 col 2
	require.Equal(t, 2, p.Line)
	require.Equal(t, 2, p.Column)
	require.Equal(t, "t.kv:2:2", p.String())
}
