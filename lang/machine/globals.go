package machine

import (
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
)

// Globals is the interpreter-wide state threaded explicitly through every
// Thread (spec.md section 4.6: "never an ambient singleton"): the ident
// table shared with the parser/compiler, the class registry, top-level
// constants, and the method-table version counter backing the inline
// cache's invalidation check.
type Globals struct {
	Idents *ident.Table

	// Classes indexes every class/module by its name identifier.
	Classes map[ident.Id]*Class

	// Consts holds top-level constants (ones not defined inside any
	// class), e.g. a bare `Foo = 1` at toplevel.
	Consts map[ident.Id]Value

	// MethodVersion is bumped every time any class's method table is
	// mutated (def/undef at runtime), invalidating every inline cache
	// whose stamped version no longer matches (spec.md section 4.6).
	MethodVersion uint64

	Object *Class

	// builtinClasses caches the Class for every primitive Value kind, so
	// ClassOf (consulted on every SEND) never needs to re-intern a name.
	builtinClasses struct {
		integer, float_, string_, array, hash, rangeCls, symbol,
		nilClass, boolean, proc, enumerator, bytes *Class
	}

	// Gvars holds $-prefixed global variables (spec.md section 4.5).
	Gvars map[ident.Id]Value

	// Cached ids for names the dispatch loop and DEF_CLASS/DEF_METHOD
	// handling consult on every call, so they aren't re-interned.
	NewId        ident.Id
	InitializeId ident.Id
	ToSId        ident.Id
	IndexId      ident.Id
	IndexSetId   ident.Id

	// OperatorIds maps an arithmetic/comparison opcode to the method name
	// a user-defined Instance must implement to overload it (spec.md
	// section 4.6's "dynamic dispatch": the same Ruby-flavored operators
	// the language's primitives get dedicated opcodes for are still plain
	// method calls when the receiver is a user Instance).
	OperatorIds map[compiler.Opcode]ident.Id
}

// NewGlobals builds a fresh Globals with the root Object class and kavi's
// builtin classes registered (spec.md section 3's class hierarchy), ready
// for a builtin package to install native methods onto.
func NewGlobals(tbl *ident.Table) *Globals {
	g := &Globals{
		Idents:  tbl,
		Classes: make(map[ident.Id]*Class),
		Consts:  make(map[ident.Id]Value),
		Gvars:   make(map[ident.Id]Value),
	}
	g.Object = g.defineClass("Object", nil)
	g.builtinClasses.integer = g.defineClass("Integer", g.Object)
	g.builtinClasses.float_ = g.defineClass("Float", g.Object)
	g.builtinClasses.string_ = g.defineClass("String", g.Object)
	g.builtinClasses.array = g.defineClass("Array", g.Object)
	g.builtinClasses.hash = g.defineClass("Hash", g.Object)
	g.builtinClasses.rangeCls = g.defineClass("Range", g.Object)
	g.builtinClasses.symbol = g.defineClass("Symbol", g.Object)
	g.builtinClasses.nilClass = g.defineClass("NilClass", g.Object)
	g.builtinClasses.boolean = g.defineClass("Boolean", g.Object)
	g.builtinClasses.proc = g.defineClass("Proc", g.Object)
	g.builtinClasses.enumerator = g.defineClass("Enumerator", g.Object)
	g.builtinClasses.bytes = g.defineClass("Bytes", g.Object)
	g.defineClass("Exception", g.Object)

	g.NewId = tbl.Intern("new")
	g.InitializeId = tbl.Intern("initialize")
	g.ToSId = tbl.Intern("to_s")
	g.IndexId = tbl.Intern("[]")
	g.IndexSetId = tbl.Intern("[]=")

	g.OperatorIds = map[compiler.Opcode]ident.Id{
		compiler.ADD:       tbl.Intern("+"),
		compiler.SUB:       tbl.Intern("-"),
		compiler.MUL:       tbl.Intern("*"),
		compiler.DIV:       tbl.Intern("/"),
		compiler.MOD:       tbl.Intern("%"),
		compiler.POW:       tbl.Intern("**"),
		compiler.BITAND:    tbl.Intern("&"),
		compiler.BITOR:     tbl.Intern("|"),
		compiler.BITXOR:    tbl.Intern("^"),
		compiler.SHL:       tbl.Intern("<<"),
		compiler.SHR:       tbl.Intern(">>"),
		compiler.LT:        tbl.Intern("<"),
		compiler.LE:        tbl.Intern("<="),
		compiler.GT:        tbl.Intern(">"),
		compiler.GE:        tbl.Intern(">="),
		compiler.EQ:        tbl.Intern("=="),
		compiler.NEQ:       tbl.Intern("!="),
		compiler.SPACESHIP: tbl.Intern("<=>"),
	}
	return g
}

func (g *Globals) defineClass(name string, super *Class) *Class {
	id := g.Idents.Intern(name)
	cls := NewClass(id, name, super)
	g.Classes[id] = cls
	return cls
}

// ClassNamed looks up (or, for a script-defined class encountered for the
// first time, this does NOT create one: DEF_CLASS is responsible for that)
// a registered class by name.
func (g *Globals) ClassNamed(name string) *Class {
	id, ok := g.Idents.Lookup(name)
	if !ok {
		return nil
	}
	return g.Classes[id]
}

// DefineClass installs cls under id and bumps MethodVersion on every call,
// whether or not it replaces an existing registration (reopening a class
// to add methods still counts as a mutation of the method tables reachable
// from it).
func (g *Globals) DefineClass(id ident.Id, cls *Class) {
	g.Classes[id] = cls
	g.MethodVersion++
}

// ClassOf returns the Class that models v's own runtime type, used by
// method dispatch (SEND) and by Kernel#class.
func (g *Globals) ClassOf(v Value) *Class {
	switch x := v.(type) {
	case Int:
		return g.builtinClasses.integer
	case Float:
		return g.builtinClasses.float_
	case *String:
		return g.builtinClasses.string_
	case *Array:
		return g.builtinClasses.array
	case *Hash:
		return g.builtinClasses.hash
	case *Range:
		return g.builtinClasses.rangeCls
	case Symbol:
		return g.builtinClasses.symbol
	case NilValue:
		return g.builtinClasses.nilClass
	case Bool:
		return g.builtinClasses.boolean
	case *Proc:
		return g.builtinClasses.proc
	case *Enumerator:
		return g.builtinClasses.enumerator
	case Bytes:
		return g.builtinClasses.bytes
	case *Instance:
		return x.Class
	case *Class:
		return g.Object
	default:
		return g.Object
	}
}
