package machine

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Array is the heap array type: ordered, mutable in place (spec.md
// section 4.5).
type Array struct {
	Elems []Value
}

// NewArray allocates a new Array over elems (taking ownership of the
// slice).
func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (a *Array) String() string { return a.Inspect() }
func (*Array) Type() string     { return "Array" }

// Inspect renders the array the way #inspect/Kernel#p do (spec.md
// scenario 1: "[1, 4, 9, 16, 25]").
func (a *Array) Inspect() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Inspect(e))
	}
	b.WriteByte(']')
	return b.String()
}

func (a *Array) Len() int { return len(a.Elems) }

func (a *Array) Iterate() Iterator { return &arrayIterator{a: a} }

type arrayIterator struct {
	a   *Array
	pos int
}

func (it *arrayIterator) Next() (Value, bool) {
	if it.pos >= len(it.a.Elems) {
		return nil, false
	}
	v := it.a.Elems[it.pos]
	it.pos++
	return v, true
}

// Index implements recv[i] (and recv[i,n]) with negative indices counting
// from the end.
func (a *Array) Index(args []Value) (Value, error) {
	n := len(a.Elems)
	switch len(args) {
	case 1:
		i, ok := args[0].(Int)
		if !ok {
			return nil, typeErrorf("no implicit conversion of %s into Integer", args[0].Type())
		}
		idx := normalizeIndex(int(i), n)
		if idx < 0 || idx >= n {
			return Nil, nil
		}
		return a.Elems[idx], nil
	case 2:
		i, ok1 := args[0].(Int)
		l, ok2 := args[1].(Int)
		if !ok1 || !ok2 {
			return nil, typeErrorf("no implicit conversion into Integer")
		}
		idx := normalizeIndex(int(i), n)
		length := int(l)
		if idx < 0 || idx > n || length < 0 {
			return Nil, nil
		}
		end := idx + length
		if end > n {
			end = n
		}
		return NewArray(append([]Value(nil), a.Elems[idx:end]...)), nil
	default:
		return nil, argumentErrorf("wrong number of arguments for Array#[]")
	}
}

// SetIndex implements recv[i] = v, growing the array with nils as needed.
func (a *Array) SetIndex(args []Value, val Value) error {
	if len(args) != 1 {
		return argumentErrorf("wrong number of arguments for Array#[]=")
	}
	i, ok := args[0].(Int)
	if !ok {
		return typeErrorf("no implicit conversion of %s into Integer", args[0].Type())
	}
	idx := normalizeIndex(int(i), len(a.Elems))
	if idx < 0 {
		return rangeErrorf("index %d too small for array", int(i))
	}
	for idx >= len(a.Elems) {
		a.Elems = append(a.Elems, Nil)
	}
	a.Elems[idx] = val
	return nil
}

// Sort returns a new Array with Elems sorted by Compare (spec.md section
// 4.5's Ordered contract), used by Array#sort (SPEC_FULL.md section 3's
// x/exp/slices wiring).
func (a *Array) Sort() (*Array, error) {
	out := append([]Value(nil), a.Elems...)
	var sortErr error
	slices.SortFunc(out, func(x, y Value) int {
		if sortErr != nil {
			return 0
		}
		c, err := Compare(x, y)
		if err != nil {
			sortErr = err
			return 0
		}
		return c
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return NewArray(out), nil
}
