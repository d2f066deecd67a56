package builtin

import (
	"os"

	"github.com/kavi-lang/kavi/lang/machine"
)

// installFile wires File.read/File.binread as class methods on a bare
// File class, behind the contract-only boundary spec.md draws around the
// filesystem builtin (section 1: "only its contract, not an OS-specific
// implementation, is specified"): a thin os.ReadFile wrapper, not a real
// filesystem layer (no File.open/IO instances, no write path).
func installFile(g *machine.Globals) {
	cls := g.ClassNamed("File")
	if cls == nil {
		id := g.Idents.Intern("File")
		cls = machine.NewClass(id, "File", g.Object)
		g.DefineClass(id, cls)
	}
	defClassMethod(g, cls, "read", fileRead)
	defClassMethod(g, cls, "binread", fileBinread)
	defClassMethod(g, cls, "exist?", fileExistQ)
}

func fileRead(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "File.read"); err != nil {
		return nil, err
	}
	path, ok := args[0].(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
	}
	b, err := os.ReadFile(path.Val)
	if err != nil {
		return nil, argErrorf("%s", err)
	}
	return machine.NewString(string(b)), nil
}

func fileBinread(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "File.binread"); err != nil {
		return nil, err
	}
	path, ok := args[0].(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
	}
	b, err := os.ReadFile(path.Val)
	if err != nil {
		return nil, argErrorf("%s", err)
	}
	return machine.Bytes(b), nil
}

func fileExistQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	if err := wantArgc(args, 1, "File.exist?"); err != nil {
		return nil, err
	}
	path, ok := args[0].(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
	}
	_, err := os.Stat(path.Val)
	return machine.Bool(err == nil), nil
}
