package machine

// Bool is the type of true/false.
type Bool bool

const (
	True  = Bool(true)
	False = Bool(false)
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "Boolean" }
