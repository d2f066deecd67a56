package machine

import "github.com/kavi-lang/kavi/lang/compiler"

// Proc is a captured block or an explicit Proc.new-style closure (spec.md
// section 3: "Proc{func, outer_context, self}"). A block literal closes
// over the whole enclosing frame via Outer, rather than per-variable
// freevar cells the teacher's own closures use (DESIGN.md records this as
// a deliberate simplification: kavi blocks never outlive their defining
// call in a way that would make per-variable cells observably different).
type Proc struct {
	Fn    *compiler.Func
	Outer *Context
	Self  Value
}

// NewProc captures fn at the point ctx is active: Self is ctx.Self (the
// lexical self of whoever wrote the block), and Outer is ctx itself, so a
// GET_LOCAL/SET_LOCAL inside the block can walk outward to the enclosing
// locals.
func NewProc(fn *compiler.Func, ctx *Context) *Proc {
	return &Proc{Fn: fn, Outer: ctx, Self: ctx.Self}
}

func (*Proc) Type() string   { return "Proc" }
func (p *Proc) String() string { return "#<Proc>" }

// Call invokes the proc's body. Per spec.md section 4.6, "yield ... invokes
// [the block] with the caller's self" — which, since a block's lexical
// self never changes after capture, is simply p.Self; the self argument
// passed in by the caller (e.g. a builtin's `block.Call(th, recvSelf,
// ...)`) is intentionally ignored here.
func (p *Proc) Call(th *Thread, _ Value, args []Value, kwargs *Hash, block *Proc) (Value, error) {
	var defining *Class
	if p.Outer != nil {
		defining = p.Outer.DefiningClass
	}
	return th.invoke(p.Fn, p.Self, p.Outer, args, kwargs, block, defining, true)
}
