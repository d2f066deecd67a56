package machine

// NilValue is the type of the single Nil value.
type NilValue struct{}

// Nil is the language's nil/null value.
var Nil = NilValue{}

func (NilValue) String() string { return "nil" }
func (NilValue) Type() string   { return "NilClass" }
