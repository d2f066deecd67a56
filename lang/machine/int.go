package machine

import "strconv"

// Int is a fixnum: a 64-bit two's-complement integer (spec.md section 3,
// "Fixnum(i64)"). Arithmetic on Int matches Go's native int64 wraparound
// semantics (spec.md section 8 "Arithmetic").
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() string     { return "Integer" }
