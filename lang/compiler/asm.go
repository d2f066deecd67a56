package compiler

import (
	"encoding/binary"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// This file implements a disassembler, stepping through a Func's bytecode
// one instruction at a time and decoding its operand per the fixed layout
// in opcode.go's instSize. It replaces the teacher's textual assembler
// (parse + emit a human-writable bytecode format for VM unit tests without
// going through the parser): kavi's own tests build programs from source
// strings through the parser and compiler rather than from hand-written
// bytecode fixtures, so only the read direction — disassembly for `kavi
// disasm` and debugging — is needed.

// Instruction is one decoded instruction, ready for printing or encoding to
// YAML (see DisassembleYAML).
type Instruction struct {
	PC   int    `yaml:"pc"`
	Op   string `yaml:"op"`
	Args []int64 `yaml:"args,omitempty"`
}

// DisassembleFunc decodes fn.Code into a flat instruction list. Nested
// Funcs (method bodies, blocks, class bodies, parameter defaults) are not
// recursed into; call DisassembleFunc again on each of fn.Children.
func DisassembleFunc(fn *Func) ([]Instruction, error) {
	var out []Instruction
	code := fn.Code
	pc := 0
	for pc < len(code) {
		op := Opcode(code[pc])
		size := instSize(op)
		if pc+size > len(code) {
			return out, fmt.Errorf("disassemble %s: truncated instruction %s at pc=%d", fn.Name, op, pc)
		}
		inst := Instruction{PC: pc, Op: op.String()}

		switch {
		case op == PUSH_FIXNUM:
			inst.Args = []int64{int64(binary.LittleEndian.Uint64(code[pc+1:]))}
		case op == PUSH_FLONUM:
			bits := binary.LittleEndian.Uint64(code[pc+1:])
			inst.Args = []int64{int64(bits)}
			inst.Op = fmt.Sprintf("%s(%g)", inst.Op, math.Float64frombits(bits))
		case op == GET_LOCAL || op == SET_LOCAL:
			depth := binary.LittleEndian.Uint32(code[pc+1:])
			slot := binary.LittleEndian.Uint32(code[pc+5:])
			inst.Args = []int64{int64(depth), int64(slot)}
		case op == DEF_CLASS:
			name := binary.LittleEndian.Uint32(code[pc+1:])
			flags := code[pc+5]
			bodyIdx := binary.LittleEndian.Uint32(code[pc+6:])
			inst.Args = []int64{int64(name), int64(flags), int64(bodyIdx)}
		case op == OPT_CASE:
			table := binary.LittleEndian.Uint32(code[pc+1:])
			elseTarget := binary.LittleEndian.Uint32(code[pc+5:])
			n := binary.LittleEndian.Uint32(code[pc+9:])
			inst.Args = []int64{int64(table), int64(elseTarget), int64(n)}
		case op == SEND || op == SEND_SELF:
			method := binary.LittleEndian.Uint32(code[pc+1:])
			argc := binary.LittleEndian.Uint32(code[pc+5:])
			flags := code[pc+9]
			ic := binary.LittleEndian.Uint32(code[pc+10:])
			inst.Args = []int64{int64(method), int64(argc), int64(flags), int64(ic)}
		case op == JMP || op == JMP_IF_FALSE || op == JMP_IF_TRUE:
			offset := int32(binary.LittleEndian.Uint32(code[pc+1:]))
			inst.Args = []int64{int64(pc + size + int(offset))}
		case op >= OpcodeArgMin:
			inst.Args = []int64{int64(binary.LittleEndian.Uint32(code[pc+1:]))}
		}

		out = append(out, inst)
		pc += size
	}
	return out, nil
}

// funcDump is the YAML-serializable view of one disassembled Func, used by
// the `kavi disasm --format=yaml` subcommand (SPEC_FULL.md section 3).
type funcDump struct {
	Name         string         `yaml:"name"`
	NumLocals    int            `yaml:"num_locals"`
	MaxStack     int            `yaml:"max_stack"`
	Consts       []string       `yaml:"consts,omitempty"`
	Code         []Instruction  `yaml:"code"`
	Children     []*funcDump    `yaml:"children,omitempty"`
}

// DisassembleYAML renders prog as YAML, recursing into every reachable Func.
func DisassembleYAML(prog *Program) ([]byte, error) {
	dump, err := dumpFunc(prog.Toplevel)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(struct {
		Filename string    `yaml:"filename"`
		Toplevel *funcDump `yaml:"toplevel"`
	}{Filename: prog.Filename, Toplevel: dump})
}

func dumpFunc(fn *Func) (*funcDump, error) {
	code, err := DisassembleFunc(fn)
	if err != nil {
		return nil, err
	}
	d := &funcDump{Name: fn.Name, NumLocals: fn.NumLocals, MaxStack: fn.MaxStack, Code: code}
	for _, v := range fn.Consts {
		d.Consts = append(d.Consts, dumpConst(v))
	}
	for _, child := range fn.Children {
		cd, err := dumpFunc(child)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, cd)
	}
	return d, nil
}

func dumpConst(v Value) string {
	switch v.Kind {
	case ConstInt:
		return fmt.Sprintf("int %d", v.Int)
	case ConstFloat:
		return fmt.Sprintf("float %g", v.Float)
	case ConstString:
		return fmt.Sprintf("string %q", v.Str)
	case ConstSymbol:
		return fmt.Sprintf("symbol #%d", v.Id)
	default:
		return "nil"
	}
}
