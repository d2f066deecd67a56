package builtin

import (
	"math"

	"github.com/kavi-lang/kavi/lang/machine"
)

// installFloat wires the small set of Float conversions/predicates a
// translated Ruby script reaches for; Float's arithmetic is handled by
// the VM's primitive opcodes (lang/machine/arith.go), not a method table.
func installFloat(g *machine.Globals) {
	cls := g.ClassNamed("Float")
	defInstance(g, cls, "to_s", floatToS)
	defInstance(g, cls, "to_i", floatToI)
	defInstance(g, cls, "to_f", floatToF)
	defInstance(g, cls, "round", floatRound)
	defInstance(g, cls, "floor", floatFloor)
	defInstance(g, cls, "ceil", floatCeil)
	defInstance(g, cls, "abs", floatAbs)
}

func floatToS(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return machine.NewString(self.String()), nil
}

func floatToI(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	f := self.(machine.Float)
	return machine.Int(int64(f)), nil
}

func floatToF(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return self, nil
}

func floatRound(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	f := self.(machine.Float)
	return machine.Int(int64(math.Round(float64(f)))), nil
}

func floatFloor(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	f := self.(machine.Float)
	return machine.Int(int64(math.Floor(float64(f)))), nil
}

func floatCeil(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	f := self.(machine.Float)
	return machine.Int(int64(math.Ceil(float64(f)))), nil
}

func floatAbs(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	f := self.(machine.Float)
	return machine.Float(math.Abs(float64(f))), nil
}
