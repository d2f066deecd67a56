package builtin

import "github.com/kavi-lang/kavi/lang/machine"

// installEnumerator wires the external-iteration protocol spec.md's
// SUPPLEMENTED FEATURES section asks for (a "minimal Enumerator with
// #next/#peek/with_index"): #next and #peek raise StopIteration once
// exhausted (machine.Enumerator's own contract), and #with_index pairs
// each value with its 0-based position, collecting the block's return
// values the way the #map an Enumerator was produced from would have
// (spec.md scenario 3: `a.map.with_index{ |x, i| x * i }`).
func installEnumerator(g *machine.Globals) {
	cls := g.ClassNamed("Enumerator")
	defInstance(g, cls, "next", enumeratorNext)
	defInstance(g, cls, "peek", enumeratorPeek)
	defInstance(g, cls, "with_index", enumeratorWithIndex)
	defInstance(g, cls, "each", enumeratorEach)
}

func enumeratorNext(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	e, ok := self.(*machine.Enumerator)
	if !ok {
		return nil, machine.TypeErrorf("Enumerator#next called on a %s", self.Type())
	}
	return e.Next()
}

func enumeratorPeek(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	e, ok := self.(*machine.Enumerator)
	if !ok {
		return nil, machine.TypeErrorf("Enumerator#peek called on a %s", self.Type())
	}
	return e.Peek()
}

func enumeratorWithIndex(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	e, ok := self.(*machine.Enumerator)
	if !ok {
		return nil, machine.TypeErrorf("Enumerator#with_index called on a %s", self.Type())
	}
	if block == nil {
		return nil, argErrorf("Enumerator#with_index requires a block")
	}
	var out []machine.Value
	for {
		v, idx, ok := e.NextIndexed()
		if !ok {
			return machine.NewArray(out), nil
		}
		r, err := th.CallBlock(block, []machine.Value{v, machine.Int(idx)})
		if err != nil {
			if bv, isBreak := machine.BreakValue(err); isBreak {
				return bv, nil
			}
			return nil, err
		}
		out = append(out, r)
	}
}

func enumeratorEach(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, block *machine.Proc) (machine.Value, error) {
	e, ok := self.(*machine.Enumerator)
	if !ok {
		return nil, machine.TypeErrorf("Enumerator#each called on a %s", self.Type())
	}
	if block == nil {
		return e, nil
	}
	for {
		v, err := e.Next()
		if err != nil {
			if ee, ok := err.(*machine.EvalError); ok && ee.Kind == machine.StopIteration {
				return e, nil
			}
			return nil, err
		}
		if _, err := th.CallBlock(block, []machine.Value{v}); err != nil {
			if bv, isBreak := machine.BreakValue(err); isBreak {
				return bv, nil
			}
			return nil, err
		}
	}
}
