package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kavi-lang/kavi/lang/machine"
)

// installKernel wires the methods spec.md calls out by name without a
// receiver (`puts`, `p`, `Integer(...)`) onto Object, so every self in the
// program — including the toplevel main object — inherits them, matching
// Ruby's own Kernel-mixed-into-Object placement.
func installKernel(g *machine.Globals) {
	obj := g.Object

	defInstance(g, obj, "puts", kernelPuts)
	defInstance(g, obj, "p", kernelP)
	defInstance(g, obj, "print", kernelPrint)
	defInstance(g, obj, "Integer", kernelInteger)
	defInstance(g, obj, "class", kernelClass(g))
	defInstance(g, obj, "is_a?", kernelIsA(g))
	defInstance(g, obj, "respond_to?", kernelRespondTo(g))
	defInstance(g, obj, "nil?", kernelNilQ)
	defInstance(g, obj, "==", kernelEq)
	defInstance(g, obj, "!=", kernelNeq)
	defInstance(g, obj, "to_s", kernelToS(g))
	defInstance(g, obj, "inspect", kernelInspect(g))
	defInstance(g, obj, "freeze", kernelFreeze)
	defInstance(g, obj, "frozen?", kernelFrozenQ)
}

// kernelPuts writes each argument's #to_s on its own line, flattening
// Array arguments one level deep (Ruby's own `puts [1,2]` behavior), and
// writes a single blank line when called with no arguments.
func kernelPuts(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if len(args) == 0 {
		fmt.Fprintln(th.Stdout)
		return machine.Nil, nil
	}
	for _, a := range args {
		if arr, ok := a.(*machine.Array); ok {
			for _, e := range arr.Elems {
				if err := putsOne(th, e); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := putsOne(th, a); err != nil {
			return nil, err
		}
	}
	return machine.Nil, nil
}

func putsOne(th *machine.Thread, v machine.Value) error {
	s, err := th.ToS(v)
	if err != nil {
		return err
	}
	if strings.HasSuffix(s, "\n") {
		fmt.Fprint(th.Stdout, s)
	} else {
		fmt.Fprintln(th.Stdout, s)
	}
	return nil
}

// kernelP prints each argument's #inspect representation and returns the
// last argument (nil if none were given), mirroring Ruby's Kernel#p.
func kernelP(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	for _, a := range args {
		fmt.Fprintln(th.Stdout, machine.Inspect(a))
	}
	if len(args) == 0 {
		return machine.Nil, nil
	}
	return args[len(args)-1], nil
}

func kernelPrint(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	for _, a := range args {
		s, err := th.ToS(a)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(th.Stdout, s)
	}
	return machine.Nil, nil
}

// kernelInteger coerces a String or Float to an Integer (spec.md section
// 7's "Integer() coercion"), raising ArgumentError on an unparseable
// string, matching Ruby's own `Integer("x")` behavior.
func kernelInteger(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "Integer()"); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case machine.Int:
		return v, nil
	case machine.Float:
		return machine.Int(v), nil
	case *machine.String:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Val), 10, 64)
		if err != nil {
			return nil, argErrorf("invalid value for Integer(): %q", v.Val)
		}
		return machine.Int(i), nil
	default:
		return nil, argErrorf("can't convert %s into Integer", args[0].Type())
	}
}

func kernelClass(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		return g.ClassOf(self), nil
	}
}

func kernelIsA(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		if err := wantArgc(args, 1, "is_a?"); err != nil {
			return nil, err
		}
		cls, ok := args[0].(*machine.Class)
		if !ok {
			return nil, machine.TypeErrorf("class or module required")
		}
		return machine.Bool(g.ClassOf(self).IsA(cls)), nil
	}
}

func kernelRespondTo(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		if err := wantArgc(args, 1, "respond_to?"); err != nil {
			return nil, err
		}
		sym, ok := args[0].(machine.Symbol)
		if !ok {
			return nil, machine.TypeErrorf("no implicit conversion into Symbol")
		}
		cls := g.ClassOf(self)
		if m, _ := cls.LookupInstanceMethod(sym.Id); m != nil {
			return machine.True, nil
		}
		return machine.False, nil
	}
}

func kernelNilQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	_, isNil := self.(machine.NilValue)
	return machine.Bool(isNil), nil
}

func kernelEq(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "=="); err != nil {
		return nil, err
	}
	return machine.Bool(self == args[0]), nil
}

func kernelNeq(th *machine.Thread, self machine.Value, args []machine.Value, kwargs *machine.Hash, block *machine.Proc) (machine.Value, error) {
	v, err := kernelEq(th, self, args, kwargs, block)
	if err != nil {
		return nil, err
	}
	return machine.Bool(!bool(v.(machine.Bool))), nil
}

func kernelToS(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		if inst, ok := self.(*machine.Instance); ok {
			return machine.NewString(fmt.Sprintf("#<%s>", inst.Class.Name)), nil
		}
		return machine.NewString(self.String()), nil
	}
}

func kernelInspect(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		return machine.NewString(machine.Inspect(self)), nil
	}
}

// freeze is accepted as a no-op: kavi's mutability model (spec.md section
// 4.5) has no freeze mechanism, but scripts translated from idiomatic Ruby
// commonly call it defensively. frozen? answers true for the immutable
// kinds (integers, floats, symbols, nil, booleans, ranges, procs) and
// false for every other value.
func kernelFreeze(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return self, nil
}

func kernelFrozenQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	switch self.(type) {
	case machine.Int, machine.Float, machine.Symbol, machine.NilValue, machine.Bool, *machine.Range, *machine.Proc:
		return machine.True, nil
	default:
		return machine.False, nil
	}
}
