package machine

import (
	"github.com/kavi-lang/kavi/lang/compiler"
	"github.com/kavi-lang/kavi/lang/ident"
)

// NativeFunc is the signature of a builtin method: "a native function
// taking (vm, self, args, block) and returning a Value or an error"
// (spec.md section 4.6 "Builtins").
type NativeFunc func(th *Thread, self Value, args []Value, kwargs *Hash, block *Proc) (Value, error)

// Method is one entry of the method registry (spec.md section 3): either a
// compiled iseq or a native builtin function pointer, represented as a
// tagged variant per spec.md section 9's "Dynamic dispatch" note (the
// teacher's Starlark source has no equivalent call-signature abstraction
// to borrow here since it never dispatches by name; the tagged-variant
// shape is spec.md's own suggestion, "simpler and fits the call-site
// better" than a single interface).
type Method struct {
	Name   ident.Id
	Func   *compiler.Func // nil for a native method
	Native NativeFunc     // nil for a compiled method
}

// Class is spec.md section 3's Class{name_id, superclass?, instance_methods,
// class_methods, constants}.
type Class struct {
	NameId          ident.Id
	Name            string // resolved once at registration, mirrors Symbol's cached Name
	Super           *Class
	InstanceMethods map[ident.Id]*Method
	ClassMethods    map[ident.Id]*Method
	Consts          map[ident.Id]Value
	IsModule        bool

	// IVars holds class-level instance variables (set when self is the
	// Class itself, e.g. inside a class body or a class method).
	IVars map[ident.Id]Value
}

// GetIVar and SetIVar let a Class serve as an ivarHolder, since a class
// body's self is the Class value itself.
func (c *Class) GetIVar(id ident.Id) Value {
	if c.IVars == nil {
		return Nil
	}
	if v, ok := c.IVars[id]; ok {
		return v
	}
	return Nil
}

func (c *Class) SetIVar(id ident.Id, v Value) {
	if c.IVars == nil {
		c.IVars = make(map[ident.Id]Value)
	}
	c.IVars[id] = v
}

// NewClass allocates an empty Class named name with the given superclass
// (nil for Object, the root).
func NewClass(nameId ident.Id, name string, super *Class) *Class {
	return &Class{
		NameId:          nameId,
		Name:            name,
		Super:           super,
		InstanceMethods: make(map[ident.Id]*Method),
		ClassMethods:    make(map[ident.Id]*Method),
		Consts:          make(map[ident.Id]Value),
	}
}

func (c *Class) String() string {
	if c.IsModule {
		return c.Name
	}
	return c.Name
}
func (*Class) Type() string { return "Class" }

// LookupInstanceMethod walks the superclass chain searching
// instance_methods (spec.md section 4.6 "Method lookup").
func (c *Class) LookupInstanceMethod(id ident.Id) (*Method, *Class) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.InstanceMethods[id]; ok {
			return m, cur
		}
	}
	return nil, nil
}

// LookupClassMethod walks the superclass chain searching class_methods.
func (c *Class) LookupClassMethod(id ident.Id) (*Method, *Class) {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.ClassMethods[id]; ok {
			return m, cur
		}
	}
	return nil, nil
}

// DefineInstanceMethod installs m as the method named id on c, and
// reports whether the definition replaced an existing method. DEF_METHOD
// ignores the result and bumps the global method-version counter on every
// definition (spec.md section 4.6's inline-cache invalidation rule).
func (c *Class) DefineInstanceMethod(id ident.Id, m *Method) (replaced bool) {
	_, replaced = c.InstanceMethods[id]
	c.InstanceMethods[id] = m
	return replaced
}

// DefineClassMethod installs m as a class (singleton) method named id.
func (c *Class) DefineClassMethod(id ident.Id, m *Method) (replaced bool) {
	_, replaced = c.ClassMethods[id]
	c.ClassMethods[id] = m
	return replaced
}

// IsA reports whether c is other or a descendant of other, backing
// Integer#is_a?/Range#===-style ancestry checks.
func (c *Class) IsA(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == other {
			return true
		}
	}
	return false
}
