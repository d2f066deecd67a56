package machine

import "strconv"

// Bytes is a raw byte buffer, the Obj::Bytes of spec.md section 3, used
// by File.binread (spec.md section 1's File contract).
type Bytes []byte

func (b Bytes) String() string { return string(b) }
func (Bytes) Type() string     { return "Bytes" }
func (b Bytes) Inspect() string {
	return strconv.Quote(string(b))
}
