package machine

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
)

// Thread is one independent execution of kavi bytecode against a shared
// Globals (spec.md section 4.6: "Context/frame chain ... Globals threaded
// explicitly, never an ambient singleton"). Thread itself is NOT
// goroutine-safe to run concurrently with itself, mirroring the teacher's
// own single-threaded-interpreter-loop Thread shape.
type Thread struct {
	Globals *Globals

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps bounds the number of dispatched instructions before Run
	// fails with an Internal error (0 = unbounded), the runaway-script
	// guard of SPEC_FULL.md's KAVI_MAX_STEPS.
	MaxSteps int64
	// MaxCallDepth bounds Go-level call recursion (KAVI_MAX_CALL_DEPTH).
	MaxCallDepth int

	steps   int64
	depth   int
	current *Context

	icache map[icKey]icEntry
}

// NewThread builds a Thread ready to run programs against g.
func NewThread(g *Globals, stdout, stderr io.Writer, stdin io.Reader) *Thread {
	return &Thread{
		Globals:      g,
		Stdout:       stdout,
		Stderr:       stderr,
		Stdin:        stdin,
		MaxCallDepth: 2000,
		icache:       make(map[icKey]icEntry),
	}
}

// icKey identifies one SEND/SEND_SELF call site: the Func whose bytecode
// contains it and the byte offset of the instruction.
type icKey struct {
	fn *compiler.Func
	pc int
}

// icEntry is a monomorphic inline cache entry (spec.md section 4.6):
// valid only while version still matches Globals.MethodVersion and the
// receiver's class still matches class.
type icEntry struct {
	version uint64
	class   *Class
	method  *Method
	owner   *Class
}

// ivarHolder is implemented by any Value that can carry @ivars: ordinary
// Instances, and Classes (a class body's self is the Class itself).
type ivarHolder interface {
	GetIVar(id ident.Id) Value
	SetIVar(id ident.Id, v Value)
}

// RunProgram executes prog's toplevel Func with a fresh main object as
// self, per spec.md section 4.6.
func (th *Thread) RunProgram(prog *compiler.Program) (Value, error) {
	main := NewInstance(th.Globals.Object)
	return th.invoke(prog.Toplevel, main, nil, nil, nil, nil, nil, false)
}

// CallBlock invokes block with args, the calling convention a builtin uses
// to run the block it was handed (spec.md section 4.6's yield semantics:
// "invokes it with the caller's self", i.e. the block's own captured
// self — see Proc.Call).
func (th *Thread) CallBlock(block *Proc, args []Value) (Value, error) {
	if block == nil {
		return nil, argumentErrorf("no block given")
	}
	return block.Call(th, block.Self, args, nil, nil)
}

// BreakValue reports whether err is a BREAK unwinding out of a block
// invoked via CallBlock, and if so returns the value it carried. A
// builtin implementing an iteration method (#each, #times, ...) should
// check this after every CallBlock and stop iterating, returning value as
// its own result, rather than propagating the error (spec.md section 7:
// "ControlFlow ... not user-visible errors").
func BreakValue(err error) (Value, bool) {
	if cs, ok := err.(*controlSignal); ok && cs.isBreak {
		return cs.value, true
	}
	return nil, false
}

// Send performs a dynamic method call the way a SEND instruction does,
// without an inline cache (no call-site to key one by); exported for
// builtins implementing generic dispatch (e.g. Enumerator#each re-sending
// to its source, or Kernel#respond_to?).
func (th *Thread) Send(recv Value, method ident.Id, args []Value, kwargs *Hash, block *Proc) (Value, error) {
	return th.dispatch(nil, -1, recv, method, args, kwargs, block)
}

func (th *Thread) dispatch(callerFn *compiler.Func, pc int, recv Value, methodId ident.Id, args []Value, kwargs *Hash, block *Proc) (Value, error) {
	g := th.Globals

	if cls, ok := recv.(*Class); ok {
		if m, owner := cls.LookupClassMethod(methodId); m != nil {
			return th.callMethod(m, owner, recv, args, kwargs, block)
		}
		if methodId == g.NewId {
			inst := NewInstance(cls)
			if initM, iowner := cls.LookupInstanceMethod(g.InitializeId); initM != nil {
				if _, err := th.callMethod(initM, iowner, inst, args, kwargs, block); err != nil {
					return nil, err
				}
			}
			return inst, nil
		}
		if methodId == g.ToSId {
			return NewString(cls.Name), nil
		}
		return nil, noMethodErrorf("undefined method `%s' for %s", g.Idents.Name(methodId), cls.Name)
	}

	cls := g.ClassOf(recv)

	if callerFn != nil {
		key := icKey{fn: callerFn, pc: pc}
		if ent, ok := th.icache[key]; ok && ent.version == g.MethodVersion && ent.class == cls {
			return th.callMethod(ent.method, ent.owner, recv, args, kwargs, block)
		}
		m, owner := cls.LookupInstanceMethod(methodId)
		if m == nil {
			return nil, noMethodErrorf("undefined method `%s' for a %s", g.Idents.Name(methodId), cls.Name)
		}
		th.icache[key] = icEntry{version: g.MethodVersion, class: cls, method: m, owner: owner}
		return th.callMethod(m, owner, recv, args, kwargs, block)
	}

	m, owner := cls.LookupInstanceMethod(methodId)
	if m == nil {
		return nil, noMethodErrorf("undefined method `%s' for a %s", g.Idents.Name(methodId), cls.Name)
	}
	return th.callMethod(m, owner, recv, args, kwargs, block)
}

func (th *Thread) callMethod(m *Method, owner *Class, self Value, args []Value, kwargs *Hash, block *Proc) (Value, error) {
	if m.Native != nil {
		return m.Native(th, self, args, kwargs, block)
	}
	return th.invoke(m.Func, self, nil, args, kwargs, block, owner, false)
}

// invoke runs fn as a fresh activation: self, a lexical outer (nil except
// for blocks/defaults), the arguments to bind per fn.Params, and the
// class fn is considered to belong to for constant/def resolution.
// forBlock selects the calling convention bindParams uses: false for an
// ordinary def-declared method (spec.md section 4.6's strict calling
// convention), true for a block/proc invocation (Proc.Call), which binds
// more leniently the way the source language's own blocks do.
func (th *Thread) invoke(fn *compiler.Func, self Value, outer *Context, args []Value, kwargs *Hash, block *Proc, definingClass *Class, forBlock bool) (Value, error) {
	th.depth++
	if th.MaxCallDepth > 0 && th.depth > th.MaxCallDepth {
		th.depth--
		return nil, internalErrorf("stack level too deep")
	}
	defer func() { th.depth-- }()

	locals := make([]Value, fn.NumLocals)
	for i := range locals {
		locals[i] = Nil
	}
	ctx := &Context{
		Self: self, Fn: fn, Locals: locals, Outer: outer, Caller: th.current,
		Block: block, Pos: fn.Pos, DefiningClass: definingClass,
	}
	if fn.Params != nil {
		if err := th.bindParams(fn, ctx, args, kwargs, forBlock); err != nil {
			return nil, err
		}
	}
	v, err := th.run(ctx)
	if ee, ok := err.(*EvalError); ok {
		ee.Backtrace = append(ee.Backtrace, ctx.frameInfo(fn.Prog))
	}
	return v, err
}

// bindParams implements spec.md section 4.6's calling convention: params
// occupy the function's first locals slots in declaration order (required,
// optional, rest, post, keywords, kwrest, block — ParamSpec's own field
// order, which is how the parser inserted them into the LvarCollector).
//
// forBlock relaxes this to the source language's own block-calling
// convention: a lone Array argument auto-splats across more than one
// declared positional parameter (so `{ |k, v| ... }` destructures the
// single [k, v] pair a Hash#each yields), and missing trailing
// parameters are nil-filled instead of raising ArgumentError — both
// demonstrated by original_source/src/builtin/enumerator.rs's
// enumerator_with_index test (`.with_index {|x,y,z| [x,y,z]}` given only
// two values nil-fills z). A def-declared method keeps the strict arity
// check.
func (th *Thread) bindParams(fn *compiler.Func, ctx *Context, args []Value, kwargs *Hash, forBlock bool) error {
	spec := fn.Params
	min := len(spec.Required) + len(spec.Post)
	max := min + len(spec.Optional)
	hasRest := spec.Rest != ident.None

	if forBlock {
		if len(args) == 1 && max > 1 {
			if arr, ok := args[0].(*Array); ok {
				args = arr.Elems
			}
		}
	} else if len(args) < min || (!hasRest && len(args) > max) {
		return argumentErrorf("wrong number of arguments (given %d, expected %s)", len(args), arityString(min, max, hasRest))
	}

	argAt := func(i int) Value {
		if i >= 0 && i < len(args) {
			return args[i]
		}
		return Nil
	}

	slot := 0
	consumed := 0
	for range spec.Required {
		ctx.Locals[slot] = argAt(consumed)
		slot++
		consumed++
	}
	remaining := len(args) - min
	for _, op := range spec.Optional {
		if remaining > 0 {
			ctx.Locals[slot] = args[consumed]
			consumed++
			remaining--
		} else if op.DefaultFunc >= 0 {
			v, err := th.runDefault(fn.Children[op.DefaultFunc], ctx)
			if err != nil {
				return err
			}
			ctx.Locals[slot] = v
		} else {
			ctx.Locals[slot] = Nil
		}
		slot++
	}
	if hasRest {
		n := remaining
		if n < 0 {
			n = 0
		}
		start := consumed
		if start > len(args) {
			start = len(args)
		}
		end := start + n
		if end > len(args) {
			end = len(args)
		}
		rest := append([]Value(nil), args[start:end]...)
		ctx.Locals[slot] = NewArray(rest)
		consumed = end
		slot++
	}
	for range spec.Post {
		ctx.Locals[slot] = argAt(consumed)
		consumed++
		slot++
	}
	for _, kw := range spec.Keywords {
		if v, ok := kwLookup(kwargs, kw.Name); ok {
			ctx.Locals[slot] = v
		} else if kw.DefaultFunc >= 0 {
			v, err := th.runDefault(fn.Children[kw.DefaultFunc], ctx)
			if err != nil {
				return err
			}
			ctx.Locals[slot] = v
		} else {
			return argumentErrorf("missing keyword: :%s", th.Globals.Idents.Name(kw.Name))
		}
		slot++
	}
	if spec.KwRest != ident.None {
		rest := NewHash(1)
		if kwargs != nil {
			named := make(map[ident.Id]bool, len(spec.Keywords))
			for _, kw := range spec.Keywords {
				named[kw.Name] = true
			}
			it := kwargs.Iterate()
			for {
				pair, ok := it.Next()
				if !ok {
					break
				}
				kv := pair.(*Array).Elems
				if sym, ok := kv[0].(Symbol); !ok || !named[sym.Id] {
					rest.SetKey(kv[0], kv[1])
				}
			}
		}
		ctx.Locals[slot] = rest
		slot++
	}
	if spec.Block != ident.None {
		if ctx.Block != nil {
			ctx.Locals[slot] = ctx.Block
		} else {
			ctx.Locals[slot] = Nil
		}
		slot++
	}
	return nil
}

func arityString(min, max int, hasRest bool) string {
	if hasRest {
		return fmt.Sprintf("%d+", min)
	}
	if min == max {
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d..%d", min, max)
}

func kwLookup(kwargs *Hash, id ident.Id) (Value, bool) {
	if kwargs == nil {
		return nil, false
	}
	for _, k := range kwargs.order {
		if sym, ok := k.(Symbol); ok && sym.Id == id {
			v, _ := kwargs.table.Get(k)
			return v, true
		}
	}
	return nil, false
}

// runDefault evaluates a parameter's default-value expression, compiled as
// its own child Func whose outer is the activation under construction (so
// it can see earlier, already-bound parameters).
func (th *Thread) runDefault(fn *compiler.Func, outer *Context) (Value, error) {
	return th.invoke(fn, outer.Self, outer, nil, nil, nil, outer.DefiningClass, false)
}

// run is the fetch-decode-dispatch loop (spec.md section 4.6): it owns a
// private operand stack for this activation only; nested calls recurse
// through Go's own call stack via invoke/dispatch.
func (th *Thread) run(ctx *Context) (Value, error) {
	prevCurrent := th.current
	th.current = ctx
	defer func() { th.current = prevCurrent }()

	stack := make([]Value, 0, ctx.Fn.MaxStack+4)
	push := func(v Value) { stack = append(stack, v) }
	pop := func() Value {
		n := len(stack) - 1
		v := stack[n]
		stack = stack[:n]
		return v
	}

	code := ctx.Fn.Code
	pc := 0
	for pc < len(code) {
		th.steps++
		if th.MaxSteps > 0 && th.steps > th.MaxSteps {
			return nil, internalErrorf("step limit exceeded")
		}
		op := compiler.Opcode(code[pc])
		size := compiler.InstSize(op)

		switch op {
		case compiler.NOP:

		case compiler.POP:
			pop()
		case compiler.DUP:
			push(stack[len(stack)-1])
		case compiler.DUP2:
			n := len(stack)
			push(stack[n-2])
			push(stack[n-1])
		case compiler.SWAP:
			n := len(stack)
			stack[n-1], stack[n-2] = stack[n-2], stack[n-1]

		case compiler.SUB, compiler.DIV, compiler.MOD, compiler.POW,
			compiler.BITAND, compiler.BITOR, compiler.BITXOR,
			compiler.SHL, compiler.SHR,
			compiler.LT, compiler.LE, compiler.GT, compiler.GE,
			compiler.EQ, compiler.NEQ, compiler.CASEEQ, compiler.SPACESHIP:
			b := pop()
			a := pop()
			res, err := th.binary(op, a, b)
			if err != nil {
				return nil, err
			}
			push(res)

		case compiler.BITNOT, compiler.NEG, compiler.UPLUS, compiler.NOT:
			v := pop()
			res, err := th.unary(op, v)
			if err != nil {
				return nil, err
			}
			push(res)

		case compiler.TO_S:
			v := pop()
			s, err := th.toS(v)
			if err != nil {
				return nil, err
			}
			push(NewString(s))
		case compiler.CONCAT_STRING:
			b := pop()
			a := pop()
			as, ok1 := a.(*String)
			bs, ok2 := b.(*String)
			if !ok1 || !ok2 {
				return nil, internalErrorf("CONCAT_STRING on non-string operand")
			}
			push(NewString(as.Val + bs.Val))
		case compiler.SPLAT:
			v := pop()
			arr, ok := v.(*Array)
			if !ok {
				return nil, typeErrorf("splat requires an Array, got %s", v.Type())
			}
			for _, e := range arr.Elems {
				push(e)
			}
		case compiler.CREATE_RANGE, compiler.CREATE_RANGE_EXCL:
			hi := pop()
			lo := pop()
			push(NewRange(lo, hi, op == compiler.CREATE_RANGE_EXCL))

		case compiler.NIL:
			push(Nil)
		case compiler.TRUE:
			push(True)
		case compiler.FALSE:
			push(False)
		case compiler.SELF:
			push(ctx.Self)

		case compiler.RETURN:
			return pop(), nil
		case compiler.BREAK:
			v := pop()
			return nil, &controlSignal{isBreak: true, value: v}
		case compiler.NEXT:
			// NEXT behaves like RETURN within run(): it only ever unwinds
			// the current block/loop activation, which is exactly what a
			// normal function return does here (spec.md section 4.6's
			// ControlFlow note).
			return pop(), nil

		case compiler.PUSH_STRING:
			idx := binary.LittleEndian.Uint32(code[pc+1:])
			push(NewString(ctx.Fn.Consts[idx].Str))
		case compiler.PUSH_SYMBOL:
			idx := binary.LittleEndian.Uint32(code[pc+1:])
			id := ctx.Fn.Consts[idx].Id
			push(Symbol{Id: id, Name: th.Globals.Idents.Name(id)})
		case compiler.GET_CONST:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			v, err := th.getConst(ctx, id)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.SET_CONST:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			v := pop()
			if ctx.DefiningClass != nil {
				ctx.DefiningClass.Consts[id] = v
			} else {
				th.Globals.Consts[id] = v
			}
		case compiler.GET_IVAR:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			if holder, ok := ctx.Self.(ivarHolder); ok {
				push(holder.GetIVar(id))
			} else {
				push(Nil)
			}
		case compiler.SET_IVAR:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			v := pop()
			if holder, ok := ctx.Self.(ivarHolder); ok {
				holder.SetIVar(id, v)
			}
		case compiler.GET_GVAR:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			if v, ok := th.Globals.Gvars[id]; ok {
				push(v)
			} else {
				push(Nil)
			}
		case compiler.SET_GVAR:
			id := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			th.Globals.Gvars[id] = pop()

		case compiler.INDEX_GET:
			n := int(binary.LittleEndian.Uint32(code[pc+1:]))
			args := popN(&stack, n)
			recv := pop()
			v, err := th.index(recv, args)
			if err != nil {
				return nil, err
			}
			push(v)
		case compiler.INDEX_SET:
			n := int(binary.LittleEndian.Uint32(code[pc+1:]))
			val := pop()
			args := popN(&stack, n)
			recv := pop()
			if err := th.setIndex(recv, args, val); err != nil {
				return nil, err
			}
			push(val)

		case compiler.CREATE_ARRAY:
			n := int(binary.LittleEndian.Uint32(code[pc+1:]))
			elems := popN(&stack, n)
			push(NewArray(elems))
		case compiler.CREATE_PROC:
			idx := binary.LittleEndian.Uint32(code[pc+1:])
			push(NewProc(ctx.Fn.Children[idx], ctx))
		case compiler.CREATE_HASH:
			n := int(binary.LittleEndian.Uint32(code[pc+1:]))
			kvs := popN(&stack, 2*n)
			h := NewHash(n)
			for i := 0; i < n; i++ {
				h.SetKey(kvs[2*i], kvs[2*i+1])
			}
			push(h)

		case compiler.JMP:
			offset := int32(binary.LittleEndian.Uint32(code[pc+1:]))
			pc = pc + size + int(offset)
			continue
		case compiler.JMP_IF_FALSE:
			offset := int32(binary.LittleEndian.Uint32(code[pc+1:]))
			cond := pop()
			if !Truth(cond) {
				pc = pc + size + int(offset)
				continue
			}
		case compiler.JMP_IF_TRUE:
			offset := int32(binary.LittleEndian.Uint32(code[pc+1:]))
			cond := pop()
			if Truth(cond) {
				pc = pc + size + int(offset)
				continue
			}

		case compiler.TAKE:
			n := int(binary.LittleEndian.Uint32(code[pc+1:]))
			v := pop()
			var elems []Value
			if arr, ok := v.(*Array); ok {
				elems = arr.Elems
			} else {
				elems = []Value{v}
			}
			for i := 0; i < n; i++ {
				if i < len(elems) {
					push(elems[i])
				} else {
					push(Nil)
				}
			}

		case compiler.ADD, compiler.MUL:
			b := pop()
			a := pop()
			res, err := th.binary(op, a, b)
			if err != nil {
				return nil, err
			}
			push(res)

		case compiler.PUSH_FIXNUM:
			push(Int(int64(binary.LittleEndian.Uint64(code[pc+1:]))))
		case compiler.PUSH_FLONUM:
			bits := binary.LittleEndian.Uint64(code[pc+1:])
			push(Float(math.Float64frombits(bits)))
		case compiler.GET_LOCAL:
			depth := binary.LittleEndian.Uint32(code[pc+1:])
			slot := binary.LittleEndian.Uint32(code[pc+5:])
			push(*ctx.lookupLocal(int(depth), slot))
		case compiler.SET_LOCAL:
			depth := binary.LittleEndian.Uint32(code[pc+1:])
			slot := binary.LittleEndian.Uint32(code[pc+5:])
			*ctx.lookupLocal(int(depth), slot) = pop()

		case compiler.DEF_CLASS:
			name := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			flags := code[pc+5]
			bodyIdx := binary.LittleEndian.Uint32(code[pc+6:])
			super := pop()
			cls, err := th.defClass(ctx, name, flags, super, ctx.Fn.Children[bodyIdx])
			if err != nil {
				return nil, err
			}
			push(cls)

		case compiler.OPT_CASE:
			return nil, internalErrorf("OPT_CASE is not emitted by the compiler")

		case compiler.SEND, compiler.SEND_SELF:
			method := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			argc := int(binary.LittleEndian.Uint32(code[pc+5:]))
			flags := compiler.SendFlag(code[pc+9])

			var block *Proc
			if flags&compiler.SendHasBlock != 0 {
				v := pop()
				p, ok := v.(*Proc)
				if !ok {
					return nil, typeErrorf("block argument must be a Proc")
				}
				block = p
			}
			var kwargs *Hash
			if flags&compiler.SendHasKwargs != 0 {
				v := pop()
				h, ok := v.(*Hash)
				if !ok {
					return nil, internalErrorf("kwargs assembly did not produce a Hash")
				}
				kwargs = h
			}
			args := popN(&stack, argc)
			var recv Value
			if op == compiler.SEND {
				recv = pop()
			} else {
				recv = ctx.Self
			}
			if flags&compiler.SendSafeNav != 0 {
				if _, isNil := recv.(NilValue); isNil {
					push(Nil)
					pc += size
					continue
				}
			}
			result, err := th.dispatch(ctx.Fn, pc, recv, method, args, kwargs, block)
			if err != nil {
				return nil, err
			}
			push(result)

		case compiler.DEF_METHOD, compiler.DEF_CLASS_METHOD:
			name := ident.Id(binary.LittleEndian.Uint32(code[pc+1:]))
			v := pop()
			proc, ok := v.(*Proc)
			if !ok {
				return nil, internalErrorf("def body did not compile to a Proc")
			}
			target := ctx.DefiningClass
			if target == nil {
				target = th.Globals.Object
			}
			m := &Method{Name: name, Func: proc.Fn}
			if op == compiler.DEF_METHOD {
				target.DefineInstanceMethod(name, m)
			} else {
				target.DefineClassMethod(name, m)
			}
			th.Globals.MethodVersion++

		default:
			return nil, internalErrorf("illegal opcode %s", op)
		}

		pc += size
	}
	return Nil, nil
}

// popN removes and returns the last n values of *stack, in their original
// push order.
func popN(stack *[]Value, n int) []Value {
	s := *stack
	k := len(s) - n
	out := append([]Value(nil), s[k:]...)
	*stack = s[:k]
	return out
}

func (th *Thread) getConst(ctx *Context, id ident.Id) (Value, error) {
	if ctx.DefiningClass != nil {
		for cur := ctx.DefiningClass; cur != nil; cur = cur.Super {
			if v, ok := cur.Consts[id]; ok {
				return v, nil
			}
		}
	}
	if v, ok := th.Globals.Consts[id]; ok {
		return v, nil
	}
	if cls, ok := th.Globals.Classes[id]; ok {
		return cls, nil
	}
	return nil, nameErrorf("uninitialized constant %s", th.Globals.Idents.Name(id))
}

// defClass implements DEF_CLASS (spec.md section 4.4): reopens an
// existing class/module by name, or creates one, runs its body with self
// set to the class, and binds the class name as a constant in the
// enclosing scope.
func (th *Thread) defClass(ctx *Context, name ident.Id, flags byte, super Value, body *compiler.Func) (*Class, error) {
	g := th.Globals

	var superClass *Class
	switch s := super.(type) {
	case NilValue:
		superClass = g.Object
	case *Class:
		superClass = s
	default:
		return nil, typeErrorf("superclass must be a Class")
	}

	cls := g.Classes[name]
	if cls == nil {
		cls = NewClass(name, g.Idents.Name(name), superClass)
		cls.IsModule = flags&1 != 0
		g.Classes[name] = cls
	}

	if ctx.DefiningClass != nil {
		ctx.DefiningClass.Consts[name] = cls
	} else {
		g.Consts[name] = cls
	}

	if _, err := th.invoke(body, cls, nil, nil, nil, nil, cls, false); err != nil {
		return nil, err
	}
	g.MethodVersion++
	return cls, nil
}
