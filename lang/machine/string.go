package machine

import "strconv"

// String is the heap string type. Strings are mutable in place (spec.md
// section 4.5), so String is always passed around as a pointer and
// identity, not value, is what "shared ownership" means here.
type String struct {
	Val string
}

// NewString allocates a new String wrapping s.
func NewString(s string) *String { return &String{Val: s} }

func (s *String) String() string  { return s.Val }
func (*String) Type() string      { return "String" }
func (s *String) Inspect() string { return strconv.Quote(s.Val) }

// Index implements recv[i] / recv[i, n] for strings (single-character or
// substring indexing, negative indices count from the end).
func (s *String) Index(args []Value) (Value, error) {
	runes := []rune(s.Val)
	n := len(runes)
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
		return NewString(string(runes[idx])), nil
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
		return NewString(string(runes[idx:end])), nil
	default:
		return nil, argumentErrorf("wrong number of arguments for String#[]")
	}
}

// SetIndex implements recv[i] = v (single-character replacement), matching
// the single-character read form of Index.
func (s *String) SetIndex(args []Value, val Value) error {
	if len(args) != 1 {
		return argumentErrorf("wrong number of arguments for String#[]=")
	}
	i, ok := args[0].(Int)
	if !ok {
		return typeErrorf("no implicit conversion of %s into Integer", args[0].Type())
	}
	repl, ok := val.(*String)
	if !ok {
		return typeErrorf("no implicit conversion of %s into String", val.Type())
	}
	runes := []rune(s.Val)
	idx := normalizeIndex(int(i), len(runes))
	if idx < 0 || idx >= len(runes) {
		return rangeErrorf("index %d out of string", int(i))
	}
	out := append(append([]rune(nil), runes[:idx]...), []rune(repl.Val)...)
	out = append(out, runes[idx+1:]...)
	s.Val = string(out)
	return nil
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		return n + i
	}
	return i
}
