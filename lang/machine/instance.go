package machine

import (
	"fmt"

	"github.com/kavi-lang/kavi/lang/ident"
)

// Instance is spec.md section 3's Instance{class, ivars}.
type Instance struct {
	Class *Class
	IVars map[ident.Id]Value
}

// NewInstance allocates a bare instance of cls with no ivars set; absent
// ivars read as nil (spec.md section 4.5).
func NewInstance(cls *Class) *Instance {
	return &Instance{Class: cls, IVars: make(map[ident.Id]Value)}
}

func (in *Instance) String() string { return fmt.Sprintf("#<%s>", in.Class.Name) }
func (in *Instance) Type() string   { return in.Class.Name }

// GetIVar reads an instance variable, defaulting to nil when unset (spec.md
// section 4.5's "absent ivars read as nil, not an error").
func (in *Instance) GetIVar(id ident.Id) Value {
	if v, ok := in.IVars[id]; ok {
		return v
	}
	return Nil
}

func (in *Instance) SetIVar(id ident.Id, v Value) {
	in.IVars[id] = v
}
