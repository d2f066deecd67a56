package builtin

import "github.com/kavi-lang/kavi/lang/machine"

// installProc wires up invocation for proc/lambda literals (spec.md
// section 3's "Proc(iseq, captured_context)"): #call is the only way to
// re-invoke a captured Proc value from script code outside of `yield`
// (which the compiler lowers straight to machine.Thread.CallBlock and
// never goes through this method table at all). #arity exposes the
// parameter descriptor machine.Proc.Fn already carries.
func installProc(g *machine.Globals) {
	cls := g.ClassNamed("Proc")
	defInstance(g, cls, "call", procCall)
	defInstance(g, cls, "arity", procArity)
}

func procCall(th *machine.Thread, self machine.Value, args []machine.Value, kwargs *machine.Hash, block *machine.Proc) (machine.Value, error) {
	p, ok := self.(*machine.Proc)
	if !ok {
		return nil, machine.TypeErrorf("Proc#call called on a %s", self.Type())
	}
	return p.Call(th, self, args, kwargs, block)
}

func procArity(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	p, ok := self.(*machine.Proc)
	if !ok {
		return nil, machine.TypeErrorf("Proc#arity called on a %s", self.Type())
	}
	return machine.Int(len(p.Fn.Params.Required)), nil
}
