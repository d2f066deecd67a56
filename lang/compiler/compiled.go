package compiler

import (
	"github.com/kavi-lang/kavi/lang/ident"
	"github.com/kavi-lang/kavi/lang/token"
)

// A Func is the compiled code of one method, block, class body, or the
// top-level chunk (spec.md section 4.4: "each method/class-body/block
// compiles to a distinct iseq"). Funcs exist only in memory: no subcommand
// serializes them (`kavi compile` only reports success, `kavi disasm` prints
// them).
type Func struct {
	Prog     *Program
	Pos      token.Pos
	Name     string // for traces and disassembly; not used for lookup
	Code     []byte
	Consts   []Value    // the constant pool referenced by CONSTANT-style opcodes
	Children []*Func    // nested Funcs referenced by CREATE_PROC/DEF_CLASS body indices
	NumLocals int       // total local slots, parameters first
	Params   *ParamSpec
	MaxStack int

	pclinetab []uint32 // pc -> byte offset into source, for backtraces
}

// ParamSpec mirrors ast.Params but in compiled form: defaults are sub-Func
// indices into Children, executed by the callee on entry when the
// corresponding argument was not supplied (spec.md section 4.6).
type ParamSpec struct {
	Required []ident.Id
	Optional []OptParamSpec
	Rest     ident.Id // ident.None if absent
	Post     []ident.Id
	Keywords []KwParamSpec
	KwRest   ident.Id
	Block    ident.Id
}

// OptParamSpec is name = default, default compiled as a child Func index
// (-1 if the parameter has no default, which cannot happen for Optional).
type OptParamSpec struct {
	Name        ident.Id
	DefaultFunc int
}

// KwParamSpec is name: or name: default.
type KwParamSpec struct {
	Name        ident.Id
	DefaultFunc int // -1 if required
}

// Value is a compile-time constant-pool entry: the subset of runtime
// values that can be produced purely from a literal (spec.md section 4.5).
// machine.Value is built from these at load time; the compiler never
// constructs a machine.Value directly so that lang/compiler has no
// dependency on lang/machine.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
	Id    ident.Id
}

// ValueKind discriminates a constant-pool Value.
type ValueKind uint8

const (
	ConstNil ValueKind = iota
	ConstInt
	ConstFloat
	ConstString
	ConstSymbol
)

// Program is the output of compiling one parsed Chunk: its top-level Func
// and the source file name. Nested Funcs (methods, blocks, class bodies,
// parameter-default initializers) are reached through each Func's
// Children, not flattened here.
type Program struct {
	Toplevel *Func
	Filename string
}
