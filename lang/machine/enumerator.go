package machine

// Enumerator wraps an Iterator with the external (pull-based) protocol
// spec.md section 1's Enumerator contract needs: #next/#peek raise
// StopIteration once the source is exhausted, and #with_index pairs each
// value with its 0-based position without consuming the enumerator twice.
type Enumerator struct {
	it       Iterator
	buf      Value
	buffered bool
	index    int64
}

// NewEnumerator wraps it (e.g. an Array/Range/Hash's Iterate()) as an
// external enumerator, the value `arr.each` (no block) produces.
func NewEnumerator(it Iterator) *Enumerator {
	return &Enumerator{it: it}
}

func (*Enumerator) Type() string     { return "Enumerator" }
func (*Enumerator) String() string   { return "#<Enumerator>" }

// Next pulls and consumes the next value, or returns a StopIteration
// EvalError once exhausted (spec.md's #next contract).
func (e *Enumerator) Next() (Value, error) {
	if e.buffered {
		v := e.buf
		e.buffered = false
		e.index++
		return v, nil
	}
	v, ok := e.it.Next()
	if !ok {
		return nil, stopIterationf("iteration reached an end")
	}
	e.index++
	return v, nil
}

// Peek returns the next value without consuming it.
func (e *Enumerator) Peek() (Value, error) {
	if !e.buffered {
		v, ok := e.it.Next()
		if !ok {
			return nil, stopIterationf("iteration reached an end")
		}
		e.buf = v
		e.buffered = true
	}
	return e.buf, nil
}

// NextIndexed pulls the next (value, index) pair for #with_index, index
// starting at 0.
func (e *Enumerator) NextIndexed() (Value, int64, bool) {
	var v Value
	if e.buffered {
		v = e.buf
		e.buffered = false
	} else {
		var ok bool
		v, ok = e.it.Next()
		if !ok {
			return nil, 0, false
		}
	}
	idx := e.index
	e.index++
	return v, idx, true
}
