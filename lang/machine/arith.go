package machine

import (
	"strings"

	"github.com/kavi-lang/kavi/lang/compiler"
)

// binary dispatches one of the pure-stack binary opcodes (spec.md section
// 4.6). A user-defined Instance overloads the operator as an ordinary
// method of the same name ("+", "<=>", ...); every other receiver goes
// through the primitive implementation below.
func (th *Thread) binary(op compiler.Opcode, a, b Value) (Value, error) {
	if inst, ok := a.(*Instance); ok {
		if id, ok := th.Globals.OperatorIds[op]; ok {
			return th.Send(inst, id, []Value{b}, nil, nil)
		}
	}

	switch op {
	case compiler.ADD:
		return numericOrConcat(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	case compiler.SUB:
		return numeric(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	case compiler.MUL:
		return numeric(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
	case compiler.DIV:
		return divide(a, b)
	case compiler.MOD:
		return modulo(a, b)
	case compiler.POW:
		return power(a, b)
	case compiler.BITAND:
		return intOnly(a, b, func(x, y int64) int64 { return x & y })
	case compiler.BITOR:
		return intOnly(a, b, func(x, y int64) int64 { return x | y })
	case compiler.BITXOR:
		return intOnly(a, b, func(x, y int64) int64 { return x ^ y })
	case compiler.SHL:
		if arr, ok := a.(*Array); ok {
			return NewArray(append(append([]Value(nil), arr.Elems...), b)), nil
		}
		return intOnly(a, b, func(x, y int64) int64 { return x << uint(y) })
	case compiler.SHR:
		return intOnly(a, b, func(x, y int64) int64 { return x >> uint(y) })
	case compiler.LT, compiler.LE, compiler.GT, compiler.GE:
		c, err := Compare(a, b)
		if err != nil {
			return nil, err
		}
		switch op {
		case compiler.LT:
			return Bool(c < 0), nil
		case compiler.LE:
			return Bool(c <= 0), nil
		case compiler.GT:
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}
	case compiler.EQ:
		return Bool(valueEqual(a, b)), nil
	case compiler.NEQ:
		return Bool(!valueEqual(a, b)), nil
	case compiler.CASEEQ:
		return th.caseEq(a, b)
	case compiler.SPACESHIP:
		c, err := Compare(a, b)
		if err != nil {
			return Nil, nil
		}
		return Int(c), nil
	}
	return nil, internalErrorf("unhandled binary opcode %s", op)
}

// caseEq implements case/when's === (spec.md section 4.4): a Range tests
// inclusion, a Class tests is_a?, everything else falls back to ==.
func (th *Thread) caseEq(a, b Value) (Value, error) {
	switch recv := a.(type) {
	case *Range:
		ok, err := recv.Includes(b)
		if err != nil {
			return nil, err
		}
		return Bool(ok), nil
	case *Class:
		return Bool(th.Globals.ClassOf(b).IsA(recv)), nil
	default:
		return Bool(valueEqual(a, b)), nil
	}
}

func (th *Thread) unary(op compiler.Opcode, v Value) (Value, error) {
	switch op {
	case compiler.NEG:
		switch n := v.(type) {
		case Int:
			return Int(-n), nil
		case Float:
			return Float(-n), nil
		}
		return nil, typeErrorf("undefined method `-@' for a %s", v.Type())
	case compiler.UPLUS:
		switch v.(type) {
		case Int, Float:
			return v, nil
		}
		return nil, typeErrorf("undefined method `+@' for a %s", v.Type())
	case compiler.NOT:
		return Bool(!Truth(v)), nil
	case compiler.BITNOT:
		if n, ok := v.(Int); ok {
			return Int(^n), nil
		}
		return nil, typeErrorf("undefined method `~' for a %s", v.Type())
	}
	return nil, internalErrorf("unhandled unary opcode %s", op)
}

// ToS renders v's #to_s, dispatching to a user Instance's own override
// when it has one. Exported for the builtin package's Kernel#puts/#print.
func (th *Thread) ToS(v Value) (string, error) { return th.toS(v) }

func (th *Thread) toS(v Value) (string, error) {
	if inst, ok := v.(*Instance); ok {
		if m, owner := inst.Class.LookupInstanceMethod(th.Globals.ToSId); m != nil {
			res, err := th.callMethod(m, owner, inst, nil, nil, nil)
			if err != nil {
				return "", err
			}
			if s, ok := res.(*String); ok {
				return s.Val, nil
			}
			return res.String(), nil
		}
	}
	return v.String(), nil
}

func numeric(a, b Value, fi func(int64, int64) int64, ff func(float64, float64) float64) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return Int(fi(int64(x), int64(y))), nil
		case Float:
			return Float(ff(float64(x), float64(y))), nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return Float(ff(float64(x), float64(y))), nil
		case Float:
			return Float(ff(float64(x), float64(y))), nil
		}
	}
	return nil, typeErrorf("%s can't be coerced into %s", b.Type(), a.Type())
}

func numericOrConcat(a, b Value, fi func(int64, int64) int64, ff func(float64, float64) float64) (Value, error) {
	switch x := a.(type) {
	case *String:
		y, ok := b.(*String)
		if !ok {
			return nil, typeErrorf("no implicit conversion of %s into String", b.Type())
		}
		return NewString(x.Val + y.Val), nil
	case *Array:
		y, ok := b.(*Array)
		if !ok {
			return nil, typeErrorf("no implicit conversion of %s into Array", b.Type())
		}
		return NewArray(append(append([]Value(nil), x.Elems...), y.Elems...)), nil
	}
	return numeric(a, b, fi, ff)
}

func intOnly(a, b Value, f func(int64, int64) int64) (Value, error) {
	x, ok1 := a.(Int)
	y, ok2 := b.(Int)
	if !ok1 || !ok2 {
		return nil, typeErrorf("bitwise operations require Integer operands")
	}
	return Int(f(int64(x), int64(y))), nil
}

func divide(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			if y == 0 {
				return nil, zeroDivisionErrorf("divided by 0")
			}
			return Int(floorDivInt(int64(x), int64(y))), nil
		case Float:
			return Float(float64(x) / float64(y)), nil
		}
	case Float:
		switch y := b.(type) {
		case Int:
			return Float(float64(x) / float64(y)), nil
		case Float:
			return Float(float64(x) / float64(y)), nil
		}
	}
	return nil, typeErrorf("%s can't be coerced into %s", b.Type(), a.Type())
}

func floorDivInt(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func modulo(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		if !ok {
			fy, ok := b.(Float)
			if !ok {
				return nil, typeErrorf("%s can't be coerced into Integer", b.Type())
			}
			return Float(floorMod(float64(x), float64(fy))), nil
		}
		if y == 0 {
			return nil, zeroDivisionErrorf("divided by 0")
		}
		return Int(int64(floorMod(float64(x), float64(y)))), nil
	case Float:
		var fy float64
		switch y := b.(type) {
		case Int:
			fy = float64(y)
		case Float:
			fy = float64(y)
		default:
			return nil, typeErrorf("%s can't be coerced into Float", b.Type())
		}
		return Float(floorMod(float64(x), fy)), nil
	}
	return nil, typeErrorf("undefined method `%%' for a %s", a.Type())
}

func floorMod(x, y float64) float64 {
	m := x - y*float64(int64(x/y))
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}

func power(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok && y >= 0 {
			var r int64 = 1
			base := int64(x)
			for i := int64(0); i < int64(y); i++ {
				r *= base
			}
			return Int(r), nil
		}
	}
	fx, ok1 := toFloat(a)
	fy, ok2 := toFloat(b)
	if !ok1 || !ok2 {
		return nil, typeErrorf("%s can't be coerced into %s", b.Type(), a.Type())
	}
	return Float(floatPow(fx, fy)), nil
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}

// floatPow avoids importing math twice across files; kept local to this
// file's arithmetic helpers.
func floatPow(x, y float64) float64 {
	if y == 0 {
		return 1
	}
	neg := y < 0
	if neg {
		y = -y
	}
	r := 1.0
	for ; y >= 1; y-- {
		r *= x
	}
	if neg {
		return 1 / r
	}
	return r
}

// valueEqual implements == (spec.md section 4.5): numeric values compare
// across Int/Float by value, Strings/Symbols by content, Arrays
// elementwise, everything else falls back to identity/Go equality.
func valueEqual(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return x == y
		}
		if y, ok := b.(Float); ok {
			return float64(x) == float64(y)
		}
		return false
	case Float:
		if y, ok := toFloat(b); ok {
			return float64(x) == y
		}
		return false
	case *String:
		y, ok := b.(*String)
		return ok && x.Val == y.Val
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Id == y.Id
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !valueEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case *Range:
		y, ok := b.(*Range)
		return ok && valueEqual(x.Low, y.Low) && valueEqual(x.High, y.High) && x.Exclude == y.Exclude
	default:
		return a == b
	}
}

// Equal reports a == b, the same dispatch binary's EQ case performs
// (including an Instance's own == override), exported for builtins that
// need value equality outside of an opcode (Array#include?, Hash lookups
// by value).
func (th *Thread) Equal(a, b Value) (bool, error) {
	v, err := th.binary(compiler.EQ, a, b)
	if err != nil {
		return false, err
	}
	return bool(v.(Bool)), nil
}

// Compare implements the Ordered contract (spec.md section 4.5) used by
// Array#sort and Range#include?/===. It only knows the language's
// primitive orderings; a custom Instance implementing <=> must be
// compared via a SEND (Thread.binary), not through this package-level
// helper, since Compare has no Thread to dispatch through.
func Compare(a, b Value) (int, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return cmpInt64(int64(x), int64(y)), nil
		case Float:
			return cmpFloat64(float64(x), float64(y)), nil
		}
	case Float:
		if fy, ok := toFloat(b); ok {
			return cmpFloat64(float64(x), fy), nil
		}
	case *String:
		y, ok := b.(*String)
		if ok {
			return strings.Compare(x.Val, y.Val), nil
		}
	case Symbol:
		y, ok := b.(Symbol)
		if ok {
			return strings.Compare(x.Name, y.Name), nil
		}
	}
	return 0, typeErrorf("comparison of %s with %s failed", a.Type(), b.Type())
}

func cmpInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
