package ident_test

import (
	"testing"

	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/stretchr/testify/require"
)

func TestInternIdempotent(t *testing.T) {
	tbl := ident.NewTable()
	a1 := tbl.Intern("foo")
	a2 := tbl.Intern("foo")
	require.Equal(t, a1, a2)

	b := tbl.Intern("bar")
	require.NotEqual(t, a1, b)

	require.Equal(t, "foo", tbl.Name(a1))
	require.Equal(t, "bar", tbl.Name(b))
	require.Equal(t, 2, tbl.Len())
}

func TestLookupDoesNotCreate(t *testing.T) {
	tbl := ident.NewTable()
	_, ok := tbl.Lookup("missing")
	require.False(t, ok)
	require.Equal(t, 0, tbl.Len())

	tbl.Intern("present")
	id, ok := tbl.Lookup("present")
	require.True(t, ok)
	require.Equal(t, "present", tbl.Name(id))
}

func TestNoneReserved(t *testing.T) {
	tbl := ident.NewTable()
	id := tbl.Intern("x")
	require.NotEqual(t, ident.None, id)
}
