package builtin

import (
	"strconv"
	"strings"

	"github.com/kavi-lang/kavi/lang/machine"
)

// installString wires the String methods a translated Ruby script reaches
// for beyond concatenation (handled by the ADD opcode, lang/machine/arith.go).
// Indexing (recv[i], recv[i]=) is handled by machine.String's own
// Indexable/IndexSettable, not a method here.
func installString(g *machine.Globals) {
	cls := g.ClassNamed("String")
	defInstance(g, cls, "length", stringLength)
	defInstance(g, cls, "size", stringLength)
	defInstance(g, cls, "to_s", stringToS)
	defInstance(g, cls, "to_i", stringToI)
	defInstance(g, cls, "to_f", stringToF)
	defInstance(g, cls, "upcase", stringUpcase)
	defInstance(g, cls, "downcase", stringDowncase)
	defInstance(g, cls, "reverse", stringReverse)
	defInstance(g, cls, "empty?", stringEmptyQ)
	defInstance(g, cls, "strip", stringStrip)
	defInstance(g, cls, "split", stringSplit)
	defInstance(g, cls, "include?", stringIncludeQ)
	defInstance(g, cls, "to_sym", stringToSym(g))
	defInstance(g, cls, "chars", stringChars)
}

func stringLength(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s, ok := self.(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("String#length called on a %s", self.Type())
	}
	return machine.Int(len([]rune(s.Val))), nil
}

func stringToS(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	return self, nil
}

func stringToI(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	i, _ := strconv.ParseInt(strings.TrimSpace(s.Val), 10, 64)
	return machine.Int(i), nil
}

func stringToF(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	f, _ := strconv.ParseFloat(strings.TrimSpace(s.Val), 64)
	return machine.Float(f), nil
}

func stringUpcase(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	return machine.NewString(strings.ToUpper(s.Val)), nil
}

func stringDowncase(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	return machine.NewString(strings.ToLower(s.Val)), nil
}

func stringReverse(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	runes := []rune(s.Val)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return machine.NewString(string(runes)), nil
}

func stringEmptyQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	return machine.Bool(s.Val == ""), nil
}

func stringStrip(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	return machine.NewString(strings.TrimSpace(s.Val)), nil
}

func stringSplit(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s, ok := self.(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("String#split called on a %s", self.Type())
	}
	sep := " "
	if len(args) == 1 {
		sepStr, ok := args[0].(*machine.String)
		if !ok {
			return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
		}
		sep = sepStr.Val
	}
	var parts []string
	if sep == " " {
		parts = strings.Fields(s.Val)
	} else {
		parts = strings.Split(s.Val, sep)
	}
	out := make([]machine.Value, len(parts))
	for i, p := range parts {
		out[i] = machine.NewString(p)
	}
	return machine.NewArray(out), nil
}

func stringIncludeQ(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s, ok := self.(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("String#include? called on a %s", self.Type())
	}
	if err := wantArgc(args, 1, "include?"); err != nil {
		return nil, err
	}
	sub, ok := args[0].(*machine.String)
	if !ok {
		return nil, machine.TypeErrorf("no implicit conversion of %s into String", args[0].Type())
	}
	return machine.Bool(strings.Contains(s.Val, sub.Val)), nil
}

func stringToSym(g *machine.Globals) machine.NativeFunc {
	return func(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
		s := self.(*machine.String)
		id := g.Idents.Intern(s.Val)
		return machine.Symbol{Id: id, Name: s.Val}, nil
	}
}

func stringChars(th *machine.Thread, self machine.Value, args []machine.Value, _ *machine.Hash, _ *machine.Proc) (machine.Value, error) {
	s := self.(*machine.String)
	runes := []rune(s.Val)
	out := make([]machine.Value, len(runes))
	for i, r := range runes {
		out[i] = machine.NewString(string(r))
	}
	return machine.NewArray(out), nil
}
