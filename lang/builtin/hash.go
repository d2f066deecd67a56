package builtin

import (
	"github.com/kavi-lang/kavi/lang/machine"
)

// installHash wires Hash#each (yielding [k, v] pair Arrays, spec.md
// scenario 5's hash-of-integers arithmetic) and a few lookup helpers.
// Indexing (recv[k], recv[k]=) is handled by machine.Hash's own
// Indexable/IndexSettable, not a method here.
func installHash(g *machine.Globals) {
	cls := g.ClassNamed("Hash")
	defInstance(g, cls, "each", hashEach)
	defInstance(g, cls, "length", hashLength)
	defInstance(g, cls, "size", hashLength)
	defInstance(g, cls, "key?", hashKeyQ)
	defInstance(g, cls, "has_key?", hashKeyQ)
	defInstance(g, cls, "empty?", hashEmptyQ)
	defInstance(g, cls, "keys", hashKeys)
	defInstance(g, cls, "values", hashValues)
}

func hashEach(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	h, ok := self.(*machine.Hash)
	if !ok {
		return nil, machine.TypeErrorf("Hash#each called on a %s", self.Type())
	}
	return iterateEach(th, h.Iterate(), block, h)
}

func hashLength(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	h, ok := self.(*machine.Hash)
	if !ok {
		return nil, machine.TypeErrorf("Hash#length called on a %s", self.Type())
	}
	return machine.Int(h.Len()), nil
}

func hashKeyQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	h, ok := self.(*machine.Hash)
	if !ok {
		return nil, machine.TypeErrorf("Hash#key? called on a %s", self.Type())
	}
	if err := wantArgc(args, 1, "key?"); err != nil {
		return nil, err
	}
	_, ok = h.Get(args[0])
	return machine.Bool(ok), nil
}

func hashEmptyQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	h := self.(*machine.Hash)
	return machine.Bool(h.Len() == 0), nil
}

func hashKeys(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	h, ok := self.(*machine.Hash)
	if !ok {
		return nil, machine.TypeErrorf("Hash#keys called on a %s", self.Type())
	}
	var keys []machine.Value
	it := h.Iterate()
	for {
		pair, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, pair.(*machine.Array).Elems[0])
	}
	return machine.NewArray(keys), nil
}

func hashValues(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	h, ok := self.(*machine.Hash)
	if !ok {
		return nil, machine.TypeErrorf("Hash#values called on a %s", self.Type())
	}
	var vals []machine.Value
	it := h.Iterate()
	for {
		pair, ok := it.Next()
		if !ok {
			break
		}
		vals = append(vals, pair.(*machine.Array).Elems[1])
	}
	return machine.NewArray(vals), nil
}
