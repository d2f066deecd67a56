package builtin

import (
	"github.com/kavi-lang/kavi/lang/machine"
)

// installRange wires Range#each/#to_a/#include? directly onto
// machine.Range's own Iterate/ToArray/Includes (spec.md scenario 6's
// range-sum loop and scenario 1's `(1..5).map{...}`), plus #begin/#end
// and the count-taking #first(n)/#last(n) forms
// (original_source/src/builtin/range.rs's range_begin/range_first/
// range_last, dropped by spec.md's distillation but still in scope per
// SPEC_FULL.md section 8's supplemented-feature list).
func installRange(g *machine.Globals) {
	cls := g.ClassNamed("Range")
	defInstance(g, cls, "each", rangeEach)
	defInstance(g, cls, "map", rangeMap)
	defInstance(g, cls, "to_a", rangeToA)
	defInstance(g, cls, "include?", rangeIncludeQ)
	defInstance(g, cls, "===", rangeIncludeQ)
	defInstance(g, cls, "begin", rangeBegin)
	defInstance(g, cls, "end", rangeEnd)
	defInstance(g, cls, "first", rangeFirst)
	defInstance(g, cls, "last", rangeLast)
	defInstance(g, cls, "size", rangeSize)
}

func rangeEach(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	r, ok := self.(*machine.Range)
	if !ok {
		return nil, machine.TypeErrorf("Range#each called on a %s", self.Type())
	}
	return iterateEach(th, r.Iterate(), block, r)
}

func rangeMap(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	r, ok := self.(*machine.Range)
	if !ok {
		return nil, machine.TypeErrorf("Range#map called on a %s", self.Type())
	}
	return iterateCollect(th, r.Iterate(), block)
}

func rangeToA(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r, ok := self.(*machine.Range)
	if !ok {
		return nil, machine.TypeErrorf("Range#to_a called on a %s", self.Type())
	}
	return r.ToArray()
}

func rangeIncludeQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r, ok := self.(*machine.Range)
	if !ok {
		return nil, machine.TypeErrorf("Range#include? called on a %s", self.Type())
	}
	if err := wantArgc(args, 1, "include?"); err != nil {
		return nil, err
	}
	ok, err := r.Includes(args[0])
	if err != nil {
		return nil, err
	}
	return machine.Bool(ok), nil
}

func rangeBegin(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r := self.(*machine.Range)
	return r.Low, nil
}

func rangeEnd(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r := self.(*machine.Range)
	return r.High, nil
}

// rangeFirst is Range#first, with no argument the range's start value
// (original_source/src/builtin/range.rs's range_begin/range_first), with
// a count argument the leading n elements, clamped to the range's own
// length.
func rangeFirst(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r := self.(*machine.Range)
	if len(args) == 0 {
		return r.Low, nil
	}
	if err := wantArgc(args, 1, "first"); err != nil {
		return nil, err
	}
	arr, n, err := rangeTakeN(r, args[0])
	if err != nil {
		return nil, err
	}
	return machine.NewArray(append([]machine.Value(nil), arr.Elems[:n]...)), nil
}

// rangeLast is Range#last, mirroring rangeFirst but taking from the tail.
func rangeLast(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r := self.(*machine.Range)
	if len(args) == 0 {
		return r.High, nil
	}
	if err := wantArgc(args, 1, "last"); err != nil {
		return nil, err
	}
	arr, n, err := rangeTakeN(r, args[0])
	if err != nil {
		return nil, err
	}
	return machine.NewArray(append([]machine.Value(nil), arr.Elems[len(arr.Elems)-n:]...)), nil
}

// rangeTakeN materializes r and clamps countArg to [0, len(elems)],
// rejecting a negative count the way original_source/src/builtin/range.rs's
// range_first/range_last do ("Negative array size").
func rangeTakeN(r *machine.Range, countArg machine.Value) (*machine.Array, int, error) {
	count, ok := countArg.(machine.Int)
	if !ok {
		return nil, 0, machine.TypeErrorf("no implicit conversion of %s into Integer", countArg.Type())
	}
	if count < 0 {
		return nil, 0, argErrorf("negative array size")
	}
	arr, err := r.ToArray()
	if err != nil {
		return nil, 0, err
	}
	n := int(count)
	if n > len(arr.Elems) {
		n = len(arr.Elems)
	}
	return arr, n, nil
}

func rangeSize(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	r := self.(*machine.Range)
	arr, err := r.ToArray()
	if err != nil {
		return nil, err
	}
	return machine.Int(arr.Len()), nil
}
