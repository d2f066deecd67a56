// Package builtin installs kavi's native method library onto a fresh
// machine.Globals: Integer, Range, Array, Hash, Enumerator, Proc, Kernel
// and File (SPEC_FULL.md section 7). Every method here is a plain Go function
// matching machine.NativeFunc's signature, grounded on the teacher's
// native-Callable convention ("a builtin method is a native function
// taking (vm, self, args, block) and returning a Value or an error",
// spec.md section 4.6) and, for naming and error-taxonomy idiom, on
// goby's builtin-method registration style (other_examples).
package builtin

import (
	"github.com/kavi-lang/kavi/lang/machine"
)

// Install registers every builtin method onto g's classes. Call once,
// right after machine.NewGlobals, before running any program.
func Install(g *machine.Globals) {
	installKernel(g)
	installInteger(g)
	installFloat(g)
	installRange(g)
	installArray(g)
	installHash(g)
	installString(g)
	installEnumerator(g)
	installProc(g)
	installFile(g)
}

func defInstance(g *machine.Globals, cls *machine.Class, name string, fn machine.NativeFunc) {
	id := g.Idents.Intern(name)
	cls.DefineInstanceMethod(id, &machine.Method{Name: id, Native: fn})
}

func defClassMethod(g *machine.Globals, cls *machine.Class, name string, fn machine.NativeFunc) {
	id := g.Idents.Intern(name)
	cls.DefineClassMethod(id, &machine.Method{Name: id, Native: fn})
}

// iterateEach implements the common "#each without a block returns an
// Enumerator" pattern (spec.md scenario 3: `a.map.with_index`). With a
// block it runs it over every value it yields, honoring `break` (spec.md
// section 7's ControlFlow), and returns dflt once the source is
// exhausted — dflt is the receiver itself for an #each-style method.
func iterateEach(th *machine.Thread, it machine.Iterator, block *machine.Proc, dflt machine.Value) (machine.Value, error) {
	if block == nil {
		return machine.NewEnumerator(it), nil
	}
	for {
		v, ok := it.Next()
		if !ok {
			return dflt, nil
		}
		if _, err := th.CallBlock(block, []machine.Value{v}); err != nil {
			if bv, isBreak := machine.BreakValue(err); isBreak {
				return bv, nil
			}
			return nil, err
		}
	}
}

// iterateCollect implements "#map without a block returns an Enumerator",
// otherwise collecting the block's return value for every element into a
// new Array (spec.md scenario 1: `(1..5).map { |x| x * x }`).
func iterateCollect(th *machine.Thread, it machine.Iterator, block *machine.Proc) (machine.Value, error) {
	if block == nil {
		return machine.NewEnumerator(it), nil
	}
	var out []machine.Value
	for {
		v, ok := it.Next()
		if !ok {
			return machine.NewArray(out), nil
		}
		r, err := th.CallBlock(block, []machine.Value{v})
		if err != nil {
			if bv, isBreak := machine.BreakValue(err); isBreak {
				return bv, nil
			}
			return nil, err
		}
		out = append(out, r)
	}
}

func wantArgc(args []machine.Value, n int, method string) error {
	if len(args) != n {
		return argErrorf("wrong number of arguments for %s (given %d, expected %d)", method, len(args), n)
	}
	return nil
}

func argErrorf(format string, args ...any) error {
	return machine.ArgumentErrorf(format, args...)
}
