package machine

import (
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/token"
)

// Context is one activation record of the frame chain (spec.md section
// 4.6): "self, the running Func, a locals array, an outer pointer (for
// blocks, the lexically enclosing Context; nil for methods/toplevel), a
// caller pointer (for backtraces), and the block passed to this call (if
// any), for yield."
type Context struct {
	Self   Value
	Fn     *compiler.Func
	Locals []Value

	// Outer is the lexically enclosing Context a block literal closes
	// over. nil for ordinary method/toplevel activations.
	Outer *Context

	// Caller is the dynamic caller, used only to build backtraces; it is
	// not consulted for name resolution (kavi has no dynamic scoping).
	Caller *Context

	// Block is the Proc passed to this call, consulted by YIELD (a
	// kavi-level method call modeled as an implicit send to this slot,
	// spec.md section 4.6).
	Block *Proc

	Pos token.Pos

	// DefiningClass is the class a method/class-body activation belongs
	// to, consulted by GET_CONST/SET_CONST/DEF_METHOD/DEF_CLASS_METHOD
	// to resolve the "current" lexical class (spec.md section 4.5's
	// constant/class scoping, simplified to a single enclosing class
	// rather than a full cref nesting stack). nil at toplevel.
	DefiningClass *Class
}

// lookupLocal resolves a (depth, slot) pair against the Outer chain, the
// same way the compiler's lookupLvar walks cframes: depth counts how many
// Outer hops to follow before indexing Locals.
func (c *Context) lookupLocal(depth int, slot uint32) *Value {
	cur := c
	for i := 0; i < depth; i++ {
		cur = cur.Outer
	}
	return &cur.Locals[slot]
}

// frameInfo renders this Context as a backtrace entry.
func (c *Context) frameInfo(prog *compiler.Program) FrameInfo {
	name := c.Fn.Name
	if name == "" {
		name = "<main>"
	}
	fi := FrameInfo{FuncName: name}
	if prog != nil && prog.Filename != "" {
		fi.Pos.Filename = prog.Filename
	}
	return fi
}
