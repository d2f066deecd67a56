// Package machine implements the value model and the bytecode dispatch
// loop described in spec.md sections 3 and 4.6: a uniform tagged Value
// representation, the Context/frame chain, method lookup with an inline
// cache, the calling convention, and block/proc capture.
//
// Much of the shape of this package (the interface-based Value design, the
// fetch-decode-switch dispatch loop, a Frame-per-call-stack) is adapted
// from the Starlark-family teacher package this repository started from;
// the opcode vocabulary, method dispatch, class/instance model and
// block-capture-by-outer-Context are kavi's own (spec.md §4.6), since the
// teacher's language has neither classes nor method dispatch.
package machine

// Value is the interface implemented by every value the machine
// manipulates (spec.md section 3's tagged Value sum).
type Value interface {
	// String returns the value's textual representation, as used by
	// to_s/puts.
	String() string

	// Type returns a short, user-facing type name ("Integer", "Array", ...).
	Type() string
}

// Inspecter is implemented by values with a distinct #inspect
// representation (spec.md scenario 1: ".inspect" on an array of integers),
// separate from #to_s.
type Inspecter interface {
	Inspect() string
}

// Callable is implemented by any value that may be the target of a method
// call dispatch: Proc (for yield/#call) and native builtins.
type Callable interface {
	Value
	Call(th *Thread, self Value, args []Value, kwargs *Hash, block *Proc) (Value, error)
}

// Iterable abstracts a value that can produce a sequence, backing
// INDEX_GET-independent uses like `for x in iter` (desugared to
// `iter.each`) and Enumerator.
type Iterable interface {
	Value
	Iterate() Iterator
}

// Iterator yields successive values. Next returns false when exhausted.
type Iterator interface {
	Next() (Value, bool)
}

// Indexable is implemented by values supporting `recv[i]`/`recv[i]=`.
type Indexable interface {
	Value
	Index(args []Value) (Value, error)
}

// IndexSettable is implemented by values supporting `recv[i] = v`.
type IndexSettable interface {
	Value
	SetIndex(args []Value, val Value) error
}

// Inspect returns v's #inspect string: Inspecter's own rendering if it has
// one, else its ordinary String().
func Inspect(v Value) string {
	if v == nil {
		return "nil"
	}
	if i, ok := v.(Inspecter); ok {
		return i.Inspect()
	}
	return v.String()
}

// Truth reports v's boolean coercion: everything is truthy except nil and
// false (spec.md's Ruby-flavored truthiness: 0 and "" are truthy).
func Truth(v Value) bool {
	switch v := v.(type) {
	case NilValue:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}
