// Package compiler lowers a parsed *ast.Chunk into a compiler.Program: a
// tree of compiler.Func, one per method/block/class-body/chunk, per
// spec.md section 4.4. Expression nodes push exactly one result; statement
// compilation tracks whether its value is needed (the last statement of a
// kept block) so intermediate results are popped rather than accumulating.
package compiler

import (
	"fmt"
	"math"

	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// CompileChunk compiles ch into a Program. tbl must be the same table used
// to parse ch, so that method/ivar/gvar/const names round-trip to the same
// ident.Id the VM's globals were loaded with.
func CompileChunk(tbl *ident.Table, ch *ast.Chunk) (*Program, error) {
	c := &compiler{tbl: tbl}
	top := c.compileFunc("<main>", ch.Locals, false, nil, ch.Block, ch.Block.Start)
	if len(c.errors) > 0 {
		return nil, fmt.Errorf("compile %s: %v", ch.Name, c.errors[0])
	}
	return &Program{Toplevel: top, Filename: ch.Name}, nil
}

type compiler struct {
	tbl    *ident.Table
	errors []error
}

func (c *compiler) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Errorf(format, args...))
}

// cframe is one entry of the compiler's lexical lookup chain, mirroring
// lang/parser/scope.go's scopeStack one-for-one: every Chunk/MethodDecl/
// ClassDecl/BlockExpr the parser pushed a frame for becomes one cframe
// here, in the same nesting order, so GET_LOCAL/SET_LOCAL frame depths
// line up with how the VM will walk Context.outer chains at run time.
type cframe struct {
	collector *ast.LvarCollector
	isBlock   bool
}

// funcBuilder accumulates the bytecode, constant pool, and child Funcs for
// one in-progress Func.
type funcBuilder struct {
	name   string
	pos    token.Pos
	code   []byte
	consts []Value

	constIdxStr map[string]int
	constIdxSym map[ident.Id]int

	children  []*Func
	numLocals int

	curStack, maxStack int

	frames []cframe
	loops  []*loopCtx
}

type loopCtx struct {
	breakJumps []int // positions of JMP placeholders to patch to loop-end
	nextJumps  []int // positions of JMP placeholders to patch to condition re-check
}

func newFuncBuilder() *funcBuilder {
	return &funcBuilder{
		constIdxStr: make(map[string]int),
		constIdxSym: make(map[ident.Id]int),
	}
}

func (c *compiler) compileFunc(name string, collector *ast.LvarCollector, isBlock bool, params *ast.Params, body *ast.Block, pos token.Pos) *Func {
	fb := newFuncBuilder()
	fb.name = name
	fb.pos = pos
	fb.frames = []cframe{{collector: collector, isBlock: isBlock}}
	fb.numLocals = collector.Len()

	var spec *ParamSpec
	if params != nil {
		spec = c.compileParamSpec(fb, params)
	}

	c.compileBlockBody(fb, body, true)
	fb.emit(RETURN)

	return &Func{
		Pos:       pos,
		Name:      name,
		Code:      fb.code,
		Consts:    fb.consts,
		Children:  fb.children,
		NumLocals: fb.numLocals,
		Params:    spec,
		MaxStack:  fb.maxStack,
	}
}

// compileParamSpec translates ast.Params into a ParamSpec, compiling every
// default-value expression as its own nested Func (child index recorded in
// DefaultFunc), run by the callee with its outer context set to the frame
// under construction — so `def f(a, b = a + 1)` sees `a` already bound
// (spec.md section 4.6's calling convention for omitted arguments).
func (c *compiler) compileParamSpec(fb *funcBuilder, params *ast.Params) *ParamSpec {
	spec := &ParamSpec{Required: params.Required, Rest: params.Rest, Post: params.Post,
		KwRest: params.KwRest, Block: params.Block}

	for _, op := range params.Optional {
		idx := -1
		if op.Default != nil {
			idx = c.compileDefaultFunc(fb, op.Default)
		}
		spec.Optional = append(spec.Optional, OptParamSpec{Name: op.Name, DefaultFunc: idx})
	}
	for _, kw := range params.Keywords {
		idx := -1
		if kw.Default != nil {
			idx = c.compileDefaultFunc(fb, kw.Default)
		}
		spec.Keywords = append(spec.Keywords, KwParamSpec{Name: kw.Name, DefaultFunc: idx})
	}
	return spec
}

func (c *compiler) compileDefaultFunc(fb *funcBuilder, def ast.Expr) int {
	sub := newFuncBuilder()
	sub.name = "<default>"
	sub.frames = []cframe{{collector: ast.NewLvarCollector(), isBlock: true}}
	c.pushOuterFrames(sub, fb)
	c.compileExpr(sub, def)
	sub.emit(RETURN)
	child := &Func{Name: "<default>", Code: sub.code, Consts: sub.consts, Children: sub.children,
		NumLocals: 0, MaxStack: sub.maxStack}
	fb.children = append(fb.children, child)
	return len(fb.children) - 1
}

// pushOuterFrames copies outer's entire lookup chain onto sub (ahead of
// sub's own, already-pushed innermost frame) so a nested compile resolves
// outer-scope locals exactly as the parser did.
func (c *compiler) pushOuterFrames(sub, outer *funcBuilder) {
	sub.frames = append(append([]cframe{}, outer.frames...), sub.frames...)
}

// ==================== locals ====================

// lookupLvar finds id in fb's lookup chain, replicating lang/parser/scope.go's
// isLocal/findLocal: scanning frames top-down, continuing outward only
// across Block frames. depth is how many frames out it was found (0 = the
// innermost frame, i.e. fb's own Func locals).
func lookupLvar(fb *funcBuilder, id ident.Id) (depth int, lv ast.LvarId, ok bool) {
	for i := len(fb.frames) - 1; i >= 0; i-- {
		f := fb.frames[i]
		if l, found := f.collector.Lookup(id); found {
			return len(fb.frames) - 1 - i, l, true
		}
		if !f.isBlock {
			break
		}
	}
	return 0, 0, false
}

// ==================== emission helpers ====================

func (fb *funcBuilder) emit(op Opcode) {
	fb.code = append(fb.code, byte(op))
	fb.adjustStack(op)
}

func (fb *funcBuilder) emitU32(op Opcode, n uint32) {
	fb.code = append(fb.code, byte(op))
	fb.code = appendU32(fb.code, n)
	fb.adjustStack(op)
}

func (fb *funcBuilder) emitI64(op Opcode, n int64) {
	fb.code = append(fb.code, byte(op))
	fb.code = appendU64(fb.code, uint64(n))
	fb.adjustStack(op)
}

func (fb *funcBuilder) emitLocal(op Opcode, depth int, slot ast.LvarId) {
	fb.code = append(fb.code, byte(op))
	fb.code = appendU32(fb.code, uint32(depth))
	fb.code = appendU32(fb.code, uint32(slot))
	fb.adjustStack(op)
}

// emitJump emits op with a placeholder 4-byte offset and returns the
// position of the opcode byte, for a later patchJump/patchJumpTo call.
func (fb *funcBuilder) emitJump(op Opcode) int {
	pos := len(fb.code)
	fb.code = append(fb.code, byte(op))
	fb.code = appendU32(fb.code, 0)
	fb.adjustStack(op)
	return pos
}

// patchJump rewrites the jump at pos (as returned by emitJump) to land at
// the current end of the code buffer.
func (fb *funcBuilder) patchJump(pos int) {
	fb.patchJumpTo(pos, len(fb.code))
}

// patchJumpTo rewrites the jump at pos to land at target (an absolute code
// offset), used for back-edges (loop conditions).
func (fb *funcBuilder) patchJumpTo(pos, target int) {
	offset := uint32(int32(target - (pos + 5)))
	copy(fb.code[pos+1:pos+5], encodeU32(offset))
}

func (fb *funcBuilder) emitSend(op Opcode, method ident.Id, argc int, flags SendFlag) {
	fb.code = append(fb.code, byte(op))
	fb.code = appendU32(fb.code, uint32(method))
	fb.code = appendU32(fb.code, uint32(argc))
	fb.code = append(fb.code, byte(flags))
	fb.code = appendU32(fb.code, 0) // inline-cache slot, always 0: the VM keys its cache by (Func, pc)
	fb.code = appendU32(fb.code, 0) // reserved, keeps the fixed 21-byte shape
	fb.code = append(fb.code, 0, 0, 0)
	pops := argc
	if op == SEND {
		pops++
	}
	if flags&SendHasBlock != 0 {
		pops++
	}
	fb.adjustStackBy(1 - pops)
}

func (fb *funcBuilder) adjustStack(op Opcode) {
	eff := stackEffect[op]
	if int8(eff) == variableStackEffect {
		return // only emitSend computes its own delta; other variable ops go uncounted, so maxStack is an estimate
	}
	fb.adjustStackBy(int(eff))
}

func (fb *funcBuilder) adjustStackBy(delta int) {
	fb.curStack += delta
	if fb.curStack > fb.maxStack {
		fb.maxStack = fb.curStack
	}
}

func (fb *funcBuilder) internString(s string) uint32 {
	if idx, ok := fb.constIdxStr[s]; ok {
		return uint32(idx)
	}
	idx := len(fb.consts)
	fb.consts = append(fb.consts, Value{Kind: ConstString, Str: s})
	fb.constIdxStr[s] = idx
	return uint32(idx)
}

func (fb *funcBuilder) internSymbol(id ident.Id) uint32 {
	if idx, ok := fb.constIdxSym[id]; ok {
		return uint32(idx)
	}
	idx := len(fb.consts)
	fb.consts = append(fb.consts, Value{Kind: ConstSymbol, Id: id})
	fb.constIdxSym[id] = idx
	return uint32(idx)
}

func appendU32(b []byte, n uint32) []byte { return append(b, encodeU32(n)...) }
func encodeU32(n uint32) []byte {
	return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}
func appendU64(b []byte, n uint64) []byte {
	return append(b, byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56))
}

// ==================== statements ====================

// compileBlockBody compiles every statement of blk. If keepLast is true,
// the final statement's value is left on the stack (pushing NIL if blk is
// empty); otherwise every statement's value is popped.
func (c *compiler) compileBlockBody(fb *funcBuilder, blk *ast.Block, keepLast bool) {
	if blk == nil || len(blk.Stmts) == 0 {
		if keepLast {
			fb.emit(NIL)
		}
		return
	}
	for i, s := range blk.Stmts {
		last := i == len(blk.Stmts)-1
		c.compileStmt(fb, s, last && keepLast)
	}
}

// compileStmt compiles s. If keep is true and s is a value-producing
// statement, its value is left on the stack; otherwise any pushed value is
// popped so intermediate statements don't leak stack slots.
func (c *compiler) compileStmt(fb *funcBuilder, s ast.Stmt, keep bool) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.compileExpr(fb, n.E)
		if !keep {
			fb.emit(POP)
		}

	case *ast.AssignStmt:
		c.compileAssign(fb, n.Lhs, n.Op, n.Rhs, keep)

	case *ast.MultiAssignStmt:
		c.compileMultiAssign(fb, n)
		if keep {
			fb.emit(NIL)
		}

	case *ast.IfStmt:
		c.compileIf(fb, n, keep)

	case *ast.WhileStmt:
		c.compileWhile(fb, n)
		if keep {
			fb.emit(NIL)
		}

	case *ast.ForStmt:
		c.compileFor(fb, n)
		if keep {
			fb.emit(NIL)
		}

	case *ast.CaseStmt:
		c.compileCase(fb, n, keep)

	case *ast.MethodDecl:
		c.compileMethodDecl(fb, n)
		if keep {
			fb.emit(NIL)
		}

	case *ast.ClassDecl:
		c.compileClassDecl(fb, n)
		if keep {
			fb.emit(NIL)
		}

	case *ast.BreakStmt:
		c.compileLoopExit(fb, BREAK, n.Value)

	case *ast.NextStmt:
		c.compileLoopExit(fb, NEXT, n.Value)

	case *ast.ReturnStmt:
		if n.Value != nil {
			c.compileExpr(fb, n.Value)
		} else {
			fb.emit(NIL)
		}
		fb.emit(RETURN)

	case *ast.BadStmt:
		if keep {
			fb.emit(NIL)
		}

	default:
		c.errorf("compiler: unhandled statement %T", s)
		if keep {
			fb.emit(NIL)
		}
	}
}

func (c *compiler) compileLoopExit(fb *funcBuilder, op Opcode, value ast.Expr) {
	if value != nil {
		c.compileExpr(fb, value)
	} else {
		fb.emit(NIL)
	}
	if len(fb.loops) == 0 {
		if fb.frames[len(fb.frames)-1].isBlock {
			fb.emit(op) // unwinds the block activation (BREAK via controlSignal, NEXT as a return)
			return
		}
		c.errorf("%s outside of a loop or block", op)
		fb.emit(POP)
		return
	}
	pos := fb.emitJump(JMP)
	lc := fb.loops[len(fb.loops)-1]
	if op == BREAK {
		lc.breakJumps = append(lc.breakJumps, pos)
	} else {
		lc.nextJumps = append(lc.nextJumps, pos)
	}
}

// compileAssign emits code to evaluate rhs (desugaring x op= rhs to
// x = x op rhs for op != ASSIGN) and store into lhs. If keep is true, a
// copy of the stored value is left on the stack (an AssignStmt used in
// value position, e.g. the last statement of a kept block) without
// re-evaluating lhs a second time.
func (c *compiler) compileAssign(fb *funcBuilder, lhs ast.Expr, op token.Kind, rhs ast.Expr, keep bool) {
	if op == token.ASSIGN {
		c.compileExpr(fb, rhs)
	} else {
		c.compileExpr(fb, lhs)
		c.compileExpr(fb, rhs)
		fb.emit(binOpcode(compoundToBinOp(op)))
	}
	if keep {
		fb.emit(DUP)
	}
	c.compileStore(fb, lhs)
}

func compoundToBinOp(op token.Kind) token.Kind {
	switch op {
	case token.PLUS_EQ:
		return token.PLUS
	case token.MINUS_EQ:
		return token.MINUS
	case token.STAR_EQ:
		return token.STAR
	case token.SLASH_EQ:
		return token.SLASH
	case token.PERCENT_EQ:
		return token.PERCENT
	case token.AMP_EQ:
		return token.AMP
	case token.PIPE_EQ:
		return token.PIPE
	case token.CARET_EQ:
		return token.CARET
	case token.LSHIFT_EQ:
		return token.LSHIFT
	case token.RSHIFT_EQ:
		return token.RSHIFT
	case token.STARSTAR_EQ:
		return token.STARSTAR
	case token.ANDAND_EQ:
		return token.AMPAMP
	case token.OROR_EQ:
		return token.PIPEPIPE
	default:
		return op
	}
}

// compileStore pops the top-of-stack value into target.
func (c *compiler) compileStore(fb *funcBuilder, target ast.Expr) {
	switch t := target.(type) {
	case *ast.LvarExpr:
		depth, lv, ok := lookupLvar(fb, t.Id)
		if !ok {
			c.errorf("compiler: %q is not a local in this scope", c.tbl.Name(t.Id))
			fb.emit(POP)
			return
		}
		fb.emitLocal(SET_LOCAL, depth, lv)
	case *ast.IvarExpr:
		fb.emitU32(SET_IVAR, uint32(t.Id))
	case *ast.GvarExpr:
		fb.emitU32(SET_GVAR, uint32(t.Id))
	case *ast.ConstExpr:
		fb.emitU32(SET_CONST, uint32(t.Id))
	case *ast.IndexExpr:
		c.compileIndexStore(fb, t)
	case *ast.Send:
		// attr= send target: `obj.attr = v` desugars to `obj.attr=(v)`.
		valTmp := fb.reserveTempSlot()
		fb.emitLocal(SET_LOCAL, 0, valTmp)
		c.compileExpr(fb, t.Receiver)
		fb.emitLocal(GET_LOCAL, 0, valTmp)
		fb.emitSend(SEND, setterId(c.tbl, t.MethodId), 1, 0)
		fb.emit(POP)
	case *ast.SplatExpr:
		c.compileStore(fb, t.Value)
	default:
		c.errorf("compiler: invalid assignment target %T", target)
		fb.emit(POP)
	}
}

// compileIndexStore handles `recv[args] = value`: the value is already on
// top of stack, so it is stashed into a temp slot, recv/args are evaluated,
// the value restored, and INDEX_SET issued.
func (c *compiler) compileIndexStore(fb *funcBuilder, t *ast.IndexExpr) {
	valTmp := fb.reserveTempSlot()
	fb.emitLocal(SET_LOCAL, 0, valTmp)
	c.compileExpr(fb, t.Recv)
	for _, a := range t.Args {
		c.compileExpr(fb, a)
	}
	fb.emitLocal(GET_LOCAL, 0, valTmp)
	fb.emitU32(INDEX_SET, uint32(len(t.Args)))
}

// setterId interns "name=" for an attr-assignment send target.
func setterId(tbl *ident.Table, base ident.Id) ident.Id {
	return tbl.Intern(tbl.Name(base) + "=")
}

// reserveTempSlot borrows one local slot beyond the declared locals for a
// short-lived spill (index/attr-assignment value reordering); NumLocals
// grows to fit.
func (fb *funcBuilder) reserveTempSlot() ast.LvarId {
	lv := ast.LvarId(fb.numLocals)
	fb.numLocals++
	return lv
}

// compileMultiAssign evaluates every Rhs, bundles into an array, TAKEs it
// apart into len(Lhs) values, and stores right-to-left so the top of stack
// always matches the next target (spec.md section 4.4's multi-assign).
func (c *compiler) compileMultiAssign(fb *funcBuilder, n *ast.MultiAssignStmt) {
	for _, r := range n.Rhs {
		c.compileExpr(fb, r)
	}
	if len(n.Rhs) != 1 {
		fb.emitU32(CREATE_ARRAY, uint32(len(n.Rhs)))
	}
	fb.emitU32(TAKE, uint32(len(n.Lhs)))
	for i := len(n.Lhs) - 1; i >= 0; i-- {
		c.compileStore(fb, n.Lhs[i])
	}
}

func (c *compiler) compileIf(fb *funcBuilder, n *ast.IfStmt, keep bool) {
	var endJumps []int
	emitBranch := func(cond ast.Expr, negate bool, body *ast.Block) {
		c.compileExpr(fb, cond)
		if negate {
			fb.emit(NOT)
		}
		skip := fb.emitJump(JMP_IF_FALSE)
		c.compileBlockBody(fb, body, keep)
		endJumps = append(endJumps, fb.emitJump(JMP))
		fb.patchJump(skip)
	}
	emitBranch(n.Cond, n.Negate, n.Body)
	for _, ei := range n.Elsifs {
		emitBranch(ei.Cond, false, ei.Body)
	}
	if n.Else != nil {
		c.compileBlockBody(fb, n.Else, keep)
	} else if keep {
		fb.emit(NIL)
	}
	for _, pos := range endJumps {
		fb.patchJump(pos)
	}
}

func (c *compiler) compileWhile(fb *funcBuilder, n *ast.WhileStmt) {
	lc := &loopCtx{}
	fb.loops = append(fb.loops, lc)
	defer func() { fb.loops = fb.loops[:len(fb.loops)-1] }()

	start := len(fb.code)
	if n.PostCond {
		c.compileBlockBody(fb, n.Body, false)
	}
	condPC := len(fb.code)
	c.compileExpr(fb, n.Cond)
	if n.Negate {
		fb.emit(NOT)
	}
	exit := fb.emitJump(JMP_IF_FALSE)
	if !n.PostCond {
		c.compileBlockBody(fb, n.Body, false)
	}
	back := fb.emitJump(JMP)
	fb.patchJumpTo(back, start)
	fb.patchJump(exit)

	for _, p := range lc.breakJumps {
		fb.patchJump(p)
	}
	for _, p := range lc.nextJumps {
		fb.patchJumpTo(p, condPC)
	}
}

// compileFor desugars `for x[, y...] in iter ... end` to
// `iter.each do |__for0_x__, __for1_y__, ...| x = __for0_x__; y = __for1_y__; ... end`
// (spec.md section 4.4): the loop variables were bound by the parser
// directly into the enclosing frame (so they stay visible after the loop
// ends), but the synthesized block still needs its own parameter slots to
// receive each yielded value before copying it outward.
func (c *compiler) compileFor(fb *funcBuilder, n *ast.ForStmt) {
	c.compileExpr(fb, n.Iter)

	collector := ast.NewLvarCollector()
	var paramNames []ident.Id
	for i, v := range n.Vars {
		synthetic := c.tbl.Intern(fmt.Sprintf("__for%d_%s__", i, c.tbl.Name(v)))
		collector.Insert(synthetic)
		paramNames = append(paramNames, synthetic)
	}

	sub := newFuncBuilder()
	sub.name = "<for>"
	sub.pos = n.Loc.Start
	sub.frames = []cframe{{collector: collector, isBlock: true}}
	c.pushOuterFrames(sub, fb)
	sub.numLocals = collector.Len()

	for i, v := range n.Vars {
		lv, _ := collector.Lookup(paramNames[i])
		sub.emitLocal(GET_LOCAL, 0, lv)
		c.compileStore(sub, &ast.LvarExpr{Loc: n.Loc, Id: v})
	}
	c.compileBlockBody(sub, n.Body, true)
	sub.emit(RETURN)

	child := &Func{Pos: n.Loc.Start, Name: "<for>", Code: sub.code, Consts: sub.consts,
		Children: sub.children, NumLocals: sub.numLocals,
		Params:   &ParamSpec{Required: paramNames, Rest: ident.None, KwRest: ident.None, Block: ident.None},
		MaxStack: sub.maxStack}
	fb.children = append(fb.children, child)
	fb.emitU32(CREATE_PROC, uint32(len(fb.children)-1))

	fb.emitSend(SEND, c.tbl.Intern("each"), 0, SendHasBlock)
	fb.emit(POP)
}

func (c *compiler) compileCase(fb *funcBuilder, n *ast.CaseStmt, keep bool) {
	var endJumps []int
	hasSubject := n.Subject != nil
	var subjTmp ast.LvarId
	if hasSubject {
		c.compileExpr(fb, n.Subject)
		subjTmp = fb.reserveTempSlot()
		fb.emitLocal(SET_LOCAL, 0, subjTmp)
	}
	for _, w := range n.Whens {
		var hitJumps []int
		for _, cond := range w.Exprs {
			c.compileExpr(fb, cond)
			if hasSubject {
				fb.emitLocal(GET_LOCAL, 0, subjTmp)
				fb.emit(CASEEQ)
			}
			hitJumps = append(hitJumps, fb.emitJump(JMP_IF_TRUE))
		}
		skip := fb.emitJump(JMP)
		for _, h := range hitJumps {
			fb.patchJump(h)
		}
		c.compileBlockBody(fb, w.Body, keep)
		endJumps = append(endJumps, fb.emitJump(JMP))
		fb.patchJump(skip)
	}
	if n.Else != nil {
		c.compileBlockBody(fb, n.Else, keep)
	} else if keep {
		fb.emit(NIL)
	}
	for _, p := range endJumps {
		fb.patchJump(p)
	}
}

func (c *compiler) compileMethodDecl(fb *funcBuilder, n *ast.MethodDecl) {
	body := c.compileFunc(c.tbl.Name(n.Name), n.Locals, false, n.Params, n.Body, n.Loc.Start)
	fb.children = append(fb.children, body)
	idx := len(fb.children) - 1
	fb.emitU32(CREATE_PROC, uint32(idx))
	op := DEF_METHOD
	if n.IsClassMethod {
		op = DEF_CLASS_METHOD
	}
	fb.emitU32(op, uint32(n.Name))
}

func (c *compiler) compileClassDecl(fb *funcBuilder, n *ast.ClassDecl) {
	body := c.compileFunc(c.tbl.Name(n.Name), n.Locals, false, nil, n.Body, n.Loc.Start)
	fb.children = append(fb.children, body)
	idx := len(fb.children) - 1
	if n.Superclass != nil {
		c.compileExpr(fb, n.Superclass)
	} else {
		fb.emit(NIL)
	}
	var flags uint8
	if n.IsModule {
		flags |= 1
	}
	fb.code = append(fb.code, byte(DEF_CLASS))
	fb.code = appendU32(fb.code, uint32(n.Name))
	fb.code = append(fb.code, flags)
	fb.code = appendU32(fb.code, uint32(idx))
	fb.adjustStackBy(0) // pops the superclass-or-nil, pushes the class: net 0
}

// ==================== expressions ====================

func (c *compiler) compileExpr(fb *funcBuilder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntLit:
		fb.emitI64(PUSH_FIXNUM, n.Val)
	case *ast.FloatLit:
		fb.emitI64(PUSH_FLONUM, int64(math.Float64bits(n.Val)))
	case *ast.StringLit:
		fb.emitU32(PUSH_STRING, fb.internString(n.Val))
	case *ast.InterpolatedStringExpr:
		c.compileInterpolated(fb, n)
	case *ast.SymbolLit:
		fb.emitU32(PUSH_SYMBOL, fb.internSymbol(n.Id))
	case *ast.BoolLit:
		if n.Val {
			fb.emit(TRUE)
		} else {
			fb.emit(FALSE)
		}
	case *ast.NilLit:
		fb.emit(NIL)
	case *ast.SelfExpr:
		fb.emit(SELF)
	case *ast.WordsLit:
		for _, w := range n.Words {
			fb.emitU32(PUSH_STRING, fb.internString(w))
		}
		fb.emitU32(CREATE_ARRAY, uint32(len(n.Words)))
	case *ast.ArrayExpr:
		for _, el := range n.Elems {
			c.compileExpr(fb, el)
		}
		fb.emitU32(CREATE_ARRAY, uint32(len(n.Elems)))
	case *ast.HashExpr:
		for _, ent := range n.Entries {
			c.compileExpr(fb, ent.Key)
			c.compileExpr(fb, ent.Value)
		}
		fb.emitU32(CREATE_HASH, uint32(len(n.Entries)))
	case *ast.RangeExpr:
		if n.Low != nil {
			c.compileExpr(fb, n.Low)
		} else {
			fb.emit(NIL)
		}
		if n.High != nil {
			c.compileExpr(fb, n.High)
		} else {
			fb.emit(NIL)
		}
		if n.ExcludeEnd {
			fb.emit(CREATE_RANGE_EXCL)
		} else {
			fb.emit(CREATE_RANGE)
		}
	case *ast.LvarExpr:
		depth, lv, ok := lookupLvar(fb, n.Id)
		if !ok {
			c.errorf("compiler: %q is not a local in this scope", c.tbl.Name(n.Id))
			fb.emit(NIL)
			return
		}
		fb.emitLocal(GET_LOCAL, depth, lv)
	case *ast.ConstExpr:
		fb.emitU32(GET_CONST, uint32(n.Id))
	case *ast.ScopedConstExpr:
		if n.Scope != nil {
			c.compileExpr(fb, n.Scope)
			fb.emitSend(SEND, n.Name, 0, 0)
		} else {
			fb.emitU32(GET_CONST, uint32(n.Name))
		}
	case *ast.IvarExpr:
		fb.emitU32(GET_IVAR, uint32(n.Id))
	case *ast.GvarExpr:
		fb.emitU32(GET_GVAR, uint32(n.Id))
	case *ast.Send:
		c.compileSend(fb, n)
	case *ast.IndexExpr:
		c.compileExpr(fb, n.Recv)
		for _, a := range n.Args {
			c.compileExpr(fb, a)
		}
		fb.emitU32(INDEX_GET, uint32(len(n.Args)))
	case *ast.BinOpExpr:
		c.compileBinOp(fb, n)
	case *ast.UnaryOpExpr:
		c.compileExpr(fb, n.Operand)
		fb.emit(unaryOpcode(n.Op))
	case *ast.SplatExpr:
		c.compileExpr(fb, n.Value)
		fb.emit(SPLAT)
	case *ast.BlockExpr:
		c.compileBlockExpr(fb, n)
	case *ast.IdentExpr:
		c.errorf("compiler: unresolved identifier %q reached the compiler", c.tbl.Name(n.Id))
		fb.emit(NIL)
	case *ast.BadExpr:
		fb.emit(NIL)
	default:
		c.errorf("compiler: unhandled expression %T", e)
		fb.emit(NIL)
	}
}

func (c *compiler) compileInterpolated(fb *funcBuilder, n *ast.InterpolatedStringExpr) {
	fb.emitU32(PUSH_STRING, fb.internString(n.Chunks[0]))
	for i, e := range n.Exprs {
		c.compileExpr(fb, e)
		fb.emit(TO_S)
		fb.emit(CONCAT_STRING)
		fb.emitU32(PUSH_STRING, fb.internString(n.Chunks[i+1]))
		fb.emit(CONCAT_STRING)
	}
}

func (c *compiler) compileBinOp(fb *funcBuilder, n *ast.BinOpExpr) {
	// && and || (and their keyword aliases and/or) short-circuit: they
	// cannot be plain stack ops.
	switch n.Op {
	case token.AMPAMP, token.AND:
		c.compileExpr(fb, n.Left)
		fb.emit(DUP)
		skip := fb.emitJump(JMP_IF_FALSE)
		fb.emit(POP)
		c.compileExpr(fb, n.Right)
		fb.patchJump(skip)
		return
	case token.PIPEPIPE, token.OR:
		c.compileExpr(fb, n.Left)
		fb.emit(DUP)
		skip := fb.emitJump(JMP_IF_TRUE)
		fb.emit(POP)
		c.compileExpr(fb, n.Right)
		fb.patchJump(skip)
		return
	}
	c.compileExpr(fb, n.Left)
	c.compileExpr(fb, n.Right)
	fb.emit(binOpcode(n.Op))
}

// binOpcode maps a binary token to its opcode. All arithmetic/comparison
// opcodes are plain 1-byte stack ops; the monomorphic inline cache lives
// at SEND/SEND_SELF call sites instead (keyed by call-site pc), so there
// is no separate fixnum-fast-path cache slot on ADD/MUL to maintain.
func binOpcode(op token.Kind) Opcode {
	switch op {
	case token.PLUS:
		return ADD
	case token.MINUS:
		return SUB
	case token.STAR:
		return MUL
	case token.SLASH:
		return DIV
	case token.PERCENT:
		return MOD
	case token.STARSTAR:
		return POW
	case token.AMP:
		return BITAND
	case token.PIPE:
		return BITOR
	case token.CARET:
		return BITXOR
	case token.LSHIFT:
		return SHL
	case token.RSHIFT:
		return SHR
	case token.LT:
		return LT
	case token.LE:
		return LE
	case token.GT:
		return GT
	case token.GE:
		return GE
	case token.EQ:
		return EQ
	case token.NEQ:
		return NEQ
	case token.CASEEQ:
		return CASEEQ
	case token.SPACESHIP:
		return SPACESHIP
	default:
		return NOP
	}
}

func unaryOpcode(op token.Kind) Opcode {
	switch op {
	case token.MINUS:
		return NEG
	case token.PLUS:
		return UPLUS
	case token.BANG, token.NOT:
		return NOT
	case token.TILDE:
		return BITNOT
	default:
		return NOP
	}
}

func (c *compiler) compileSend(fb *funcBuilder, n *ast.Send) {
	if n.Receiver == nil && len(n.Args) == 3 && c.tbl.Name(n.MethodId) == "__ternary__" {
		// cond ? then : else, lowered like an if/else expression
		c.compileExpr(fb, n.Args[0])
		skip := fb.emitJump(JMP_IF_FALSE)
		c.compileExpr(fb, n.Args[1])
		end := fb.emitJump(JMP)
		fb.patchJump(skip)
		c.compileExpr(fb, n.Args[2])
		fb.patchJump(end)
		return
	}
	op := SEND_SELF
	if n.Receiver != nil {
		c.compileExpr(fb, n.Receiver)
		op = SEND
	}
	for _, a := range n.Args {
		c.compileExpr(fb, a)
	}
	var flags SendFlag
	if len(n.KwArgs) > 0 {
		for _, kw := range n.KwArgs {
			fb.emitU32(PUSH_SYMBOL, fb.internSymbol(kw.Key))
			c.compileExpr(fb, kw.Value)
		}
		fb.emitU32(CREATE_HASH, uint32(len(n.KwArgs)))
		flags |= SendHasKwargs
	}
	if n.Block != nil {
		c.compileBlockExpr(fb, n.Block)
		flags |= SendHasBlock
	}
	if n.SafeNav {
		flags |= SendSafeNav
	}
	fb.emitSend(op, n.MethodId, len(n.Args), flags)
}

// compileBlockExpr compiles a block/lambda literal into its own child Func
// (CREATE_PROC captures the current context as the proc's outer, per
// spec.md section 4.6).
func (c *compiler) compileBlockExpr(fb *funcBuilder, n *ast.BlockExpr) {
	sub := newFuncBuilder()
	sub.name = "<block>"
	sub.pos = n.Loc.Start
	sub.frames = []cframe{{collector: n.Locals, isBlock: true}}
	c.pushOuterFrames(sub, fb)
	sub.numLocals = n.Locals.Len()

	var spec *ParamSpec
	if n.Params != nil {
		spec = c.compileParamSpec(sub, n.Params)
	}
	c.compileBlockBody(sub, n.Body, true)
	sub.emit(RETURN)

	child := &Func{Pos: n.Loc.Start, Name: "<block>", Code: sub.code, Consts: sub.consts,
		Children: sub.children, NumLocals: sub.numLocals, Params: spec, MaxStack: sub.maxStack}
	fb.children = append(fb.children, child)
	fb.emitU32(CREATE_PROC, uint32(len(fb.children)-1))
}
