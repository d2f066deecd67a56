package machine

import "fmt"

// Range is spec.md section 3's Obj::Range(start,end,exclude_end). Ranges
// are immutable (spec.md section 4.5).
type Range struct {
	Low, High Value
	Exclude   bool
}

// NewRange allocates a Range.
func NewRange(low, high Value, exclude bool) *Range {
	return &Range{Low: low, High: high, Exclude: exclude}
}

func (r *Range) String() string {
	op := ".."
	if r.Exclude {
		op = "..."
	}
	return fmt.Sprintf("%s%s%s", Inspect(r.Low), op, Inspect(r.High))
}
func (*Range) Type() string { return "Range" }

// ToArray materializes the range, per spec.md section 8: "(a..b).to_a has
// length b-a+1 when a<=b, else []; ... excludes b" for '...'.
func (r *Range) ToArray() (*Array, error) {
	lo, ok1 := r.Low.(Int)
	hi, ok2 := r.High.(Int)
	if !ok1 || !ok2 {
		return nil, typeErrorf("can't iterate from %s", r.Low.Type())
	}
	end := int64(hi)
	if r.Exclude {
		end--
	}
	if int64(lo) > end {
		return NewArray(nil), nil
	}
	elems := make([]Value, 0, end-int64(lo)+1)
	for i := int64(lo); i <= end; i++ {
		elems = append(elems, Int(i))
	}
	return NewArray(elems), nil
}

// Iterate lets `for x in (a..b)` (desugared to (a..b).each) and other
// iterable consumers walk a Range without first materializing it as an
// Array.
func (r *Range) Iterate() Iterator {
	lo, ok1 := r.Low.(Int)
	hi, ok2 := r.High.(Int)
	if !ok1 || !ok2 {
		return &emptyIterator{}
	}
	end := int64(hi)
	if r.Exclude {
		end--
	}
	return &rangeIterator{cur: int64(lo), end: end}
}

type rangeIterator struct {
	cur, end int64
}

func (it *rangeIterator) Next() (Value, bool) {
	if it.cur > it.end {
		return nil, false
	}
	v := Int(it.cur)
	it.cur++
	return v, true
}

type emptyIterator struct{}

func (*emptyIterator) Next() (Value, bool) { return nil, false }

// Includes reports whether v lies within the range (Range#include?/===,
// the latter used by case/when).
func (r *Range) Includes(v Value) (bool, error) {
	cLow, err := Compare(r.Low, v)
	if err != nil {
		return false, err
	}
	if cLow > 0 {
		return false, nil
	}
	cHigh, err := Compare(v, r.High)
	if err != nil {
		return false, err
	}
	if r.Exclude {
		return cHigh < 0, nil
	}
	return cHigh <= 0, nil
}
