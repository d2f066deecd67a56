package machine

import "github.com/kavi-lang/kavi/lang/ident"

// Symbol is an interned name, spec.md section 3's "Symbol(IdentId)". Name
// is resolved when the Symbol is created (by each PUSH_SYMBOL, from the
// same ident.Table the parser used) and cached here so Symbol.String doesn't need a Globals
// reference threaded through every value.
type Symbol struct {
	Id   ident.Id
	Name string
}

func (s Symbol) String() string { return ":" + s.Name }
func (Symbol) Type() string     { return "Symbol" }

// Inspect renders a symbol the way #inspect does inside an array/hash
// literal (spec.md scenario 5's h={a:1,b:2}).
func (s Symbol) Inspect() string { return ":" + s.Name }
