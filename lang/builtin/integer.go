package builtin

import (
	"github.com/kavi-lang/kavi/lang/machine"
)

// installInteger wires the Integer methods spec.md's recursive-factorial
// and range-sum scenarios (section 8) exercise beyond the primitive
// arithmetic opcodes: #times/#upto/#downto as explicit iteration methods,
// plus the handful of conversions and predicates a translated Ruby script
// commonly reaches for.
func installInteger(g *machine.Globals) {
	cls := g.ClassNamed("Integer")
	defInstance(g, cls, "times", integerTimes)
	defInstance(g, cls, "upto", integerUpto)
	defInstance(g, cls, "downto", integerDownto)
	defInstance(g, cls, "to_s", integerToS)
	defInstance(g, cls, "to_i", integerToI)
	defInstance(g, cls, "to_f", integerToF)
	defInstance(g, cls, "even?", integerEven)
	defInstance(g, cls, "odd?", integerOdd)
	defInstance(g, cls, "abs", integerAbs)
	defInstance(g, cls, "zero?", integerZero)
}

// countIterator yields [start, end) (or (end, start] in reverse), backing
// #times/#upto/#downto without first materializing an Array.
type countIterator struct {
	cur, end int64
	step     int64
}

func (it *countIterator) Next() (machine.Value, bool) {
	if it.step > 0 && it.cur >= it.end {
		return nil, false
	}
	if it.step < 0 && it.cur <= it.end {
		return nil, false
	}
	v := machine.Int(it.cur)
	it.cur += it.step
	return v, true
}

func integerTimes(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	n, ok := self.(machine.Int)
	if !ok {
		return nil, machine.TypeErrorf("Integer#times called on a %s", self.Type())
	}
	it := &countIterator{cur: 0, end: int64(n), step: 1}
	return iterateEach(th, it, block, self)
}

func integerUpto(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "upto"); err != nil {
		return nil, err
	}
	n, ok := self.(machine.Int)
	if !ok {
		return nil, machine.TypeErrorf("Integer#upto called on a %s", self.Type())
	}
	limit, ok := args[0].(machine.Int)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into Integer", args[0].Type())
	}
	it := &countIterator{cur: int64(n), end: int64(limit) + 1, step: 1}
	return iterateEach(th, it, block, self)
}

func integerDownto(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "downto"); err != nil {
		return nil, err
	}
	n, ok := self.(machine.Int)
	if !ok {
		return nil, machine.TypeErrorf("Integer#downto called on a %s", self.Type())
	}
	limit, ok := args[0].(machine.Int)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into Integer", args[0].Type())
	}
	it := &countIterator{cur: int64(n), end: int64(limit) - 1, step: -1}
	return iterateEach(th, it, block, self)
}

func integerToS(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return machine.NewString(self.String()), nil
}

func integerToI(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return self, nil
}

func integerToF(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	n := self.(machine.Int)
	return machine.Float(n), nil
}

func integerEven(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	n := self.(machine.Int)
	return machine.Bool(n%2 == 0), nil
}

func integerOdd(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	n := self.(machine.Int)
	return machine.Bool(n%2 != 0), nil
}

func integerAbs(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	n := self.(machine.Int)
	if n < 0 {
		return -n, nil
	}
	return n, nil
}

func integerZero(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	n := self.(machine.Int)
	return machine.Bool(n == 0), nil
}
