package machine

import (
	"strings"

	"github.com/dolthub/swiss"
)

// Hash is the Value-model's hash object (spec.md section 3 Obj::Hash),
// backed by a SwissTable (SPEC_FULL.md section 3) for O(1) lookup, with an
// explicit insertion-order key slice layered on top since Ruby hashes
// iterate in written order (spec.md section 5: "Hash literals ... entries
// in written order"), which a plain hash table does not give for free.
//
// Equality is the same identity-or-value equality the teacher's Map uses
// for its keys (Value is used directly as the SwissTable key type): two
// distinct *String objects with equal contents are therefore distinct
// keys, same as object identity for any other heap Value. Symbols, being a
// small value type carrying the interned ident.Id, compare equal whenever
// they denote the same name, which is what every spec.md example (hash
// literals keyed by symbols) relies on.
type Hash struct {
	table *swiss.Map[Value, Value]
	order []Value
}

// NewHash returns an empty Hash with initial capacity for size entries.
func NewHash(size int) *Hash {
	if size < 1 {
		size = 1
	}
	return &Hash{table: swiss.NewMap[Value, Value](uint32(size))}
}

func (h *Hash) String() string { return h.Inspect() }
func (*Hash) Type() string     { return "Hash" }

func (h *Hash) Inspect() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range h.order {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := h.table.Get(k)
		b.WriteString(Inspect(k))
		b.WriteString(" => ")
		b.WriteString(Inspect(v))
	}
	b.WriteByte('}')
	return b.String()
}

// Get returns the value for k, and whether it was present.
func (h *Hash) Get(k Value) (Value, bool) { return h.table.Get(k) }

// SetKey sets k to v, appending k to the insertion order the first time it
// is seen.
func (h *Hash) SetKey(k, v Value) error {
	if _, existed := h.table.Get(k); !existed {
		h.order = append(h.order, k)
	}
	h.table.Put(k, v)
	return nil
}

func (h *Hash) Len() int { return len(h.order) }

// Index implements recv[k].
func (h *Hash) Index(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, argumentErrorf("wrong number of arguments for Hash#[]")
	}
	v, ok := h.table.Get(args[0])
	if !ok {
		return Nil, nil
	}
	return v, nil
}

// SetIndex implements recv[k] = v.
func (h *Hash) SetIndex(args []Value, val Value) error {
	if len(args) != 1 {
		return argumentErrorf("wrong number of arguments for Hash#[]=")
	}
	return h.SetKey(args[0], val)
}

// Iterate walks entries in insertion (written) order, yielding [k, v]
// pair Arrays, matching how #each destructures a block's |k, v| params.
func (h *Hash) Iterate() Iterator { return &hashIterator{h: h} }

type hashIterator struct {
	h   *Hash
	pos int
}

func (it *hashIterator) Next() (Value, bool) {
	if it.pos >= len(it.h.order) {
		return nil, false
	}
	k := it.h.order[it.pos]
	it.pos++
	v, _ := it.h.table.Get(k)
	return NewArray([]Value{k, v}), true
}
