package builtin

import (
	"strings"

	"github.com/kavi-lang/kavi/lang/machine"
)

// installArray wires the Array methods spec.md scenario 1 exercises
// (#map, #inspect via Kernel) plus scenario 3's #map.with_index (#map
// without a block returns an Enumerator; #with_index is Enumerator's own,
// lang/builtin/enumerator.go) and the handful of others a translated Ruby
// script commonly reaches for. Indexing (recv[i], recv[i]=) is handled by
// machine.Array's own Indexable/IndexSettable, not a method here.
func installArray(g *machine.Globals) {
	cls := g.ClassNamed("Array")
	defInstance(g, cls, "each", arrayEach)
	defInstance(g, cls, "map", arrayMap)
	defInstance(g, cls, "length", arrayLength)
	defInstance(g, cls, "size", arrayLength)
	defInstance(g, cls, "push", arrayPush)
	defInstance(g, cls, "pop", arrayPop)
	defInstance(g, cls, "sort", arraySort)
	defInstance(g, cls, "first", arrayFirst)
	defInstance(g, cls, "last", arrayLast)
	defInstance(g, cls, "empty?", arrayEmptyQ)
	defInstance(g, cls, "include?", arrayIncludeQ)
	defInstance(g, cls, "join", arrayJoin)
	defInstance(g, cls, "reverse", arrayReverse)
}

func arrayEach(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#each called on a %s", self.Type())
	}
	return iterateEach(th, a.Iterate(), block, a)
}

func arrayMap(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#map called on a %s", self.Type())
	}
	return iterateCollect(th, a.Iterate(), block)
}

func arrayLength(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#length called on a %s", self.Type())
	}
	return machine.Int(a.Len()), nil
}

func arrayPush(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#push called on a %s", self.Type())
	}
	a.Elems = append(a.Elems, args...)
	return a, nil
}

func arrayPop(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#pop called on a %s", self.Type())
	}
	if len(a.Elems) == 0 {
		return machine.Nil, nil
	}
	last := a.Elems[len(a.Elems)-1]
	a.Elems = a.Elems[:len(a.Elems)-1]
	return last, nil
}

func arraySort(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#sort called on a %s", self.Type())
	}
	return a.Sort()
}

func arrayFirst(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#first called on a %s", self.Type())
	}
	if len(a.Elems) == 0 {
		return machine.Nil, nil
	}
	return a.Elems[0], nil
}

func arrayLast(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#last called on a %s", self.Type())
	}
	if len(a.Elems) == 0 {
		return machine.Nil, nil
	}
	return a.Elems[len(a.Elems)-1], nil
}

func arrayEmptyQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a := self.(*machine.Array)
	return machine.Bool(a.Len() == 0), nil
}

func arrayIncludeQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#include? called on a %s", self.Type())
	}
	if err := wantArgc(args, 1, "include?"); err != nil {
		return nil, err
	}
	for _, e := range a.Elems {
		eq, err := th.Equal(e, args[0])
		if err != nil {
			return nil, err
		}
		if eq {
			return machine.True, nil
		}
	}
	return machine.False, nil
}

func arrayJoin(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#join called on a %s", self.Type())
	}
	sep := ""
	if len(args) == 1 {
		s, ok := args[0].(*machine.String)
		if !ok {
			return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
		}
		sep = s.Val
	}
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		s, err := th.ToS(e)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return machine.NewString(strings.Join(parts, sep)), nil
}

func arrayReverse(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	a, ok := self.(*machine.Array)
	if !ok {
		return nil, machine.TypeErrorf("Array#reverse called on a %s", self.Type())
	}
	out := make([]machine.Value, len(a.Elems))
	for i, e := range a.Elems {
		out[len(out)-1-i] = e
	}
	return machine.NewArray(out), nil
}
