package ast

import "github.com/kavi-lang/kavi/lang/ident"

// LvarId is the dense, zero-based index of a local variable within a
// single lexical scope frame (spec.md section 3's "LvarId"). The VM uses
// it directly as an index into a Context's local-slot vector.
type LvarId uint32

// LvarCollector maps IdentId to LvarId for one scope frame (a method body,
// a block body, a class body, or the top-level chunk). Ids are assigned
// monotonically in first-insertion order and are never removed; inserting
// an already-known name returns its existing id (spec.md section 3).
type LvarCollector struct {
	ids   map[ident.Id]LvarId
	names []ident.Id

	hasBlockParam bool
	blockParam    LvarId
}

// NewLvarCollector returns an empty collector.
func NewLvarCollector() *LvarCollector {
	return &LvarCollector{ids: make(map[ident.Id]LvarId)}
}

// Insert returns id's LvarId, assigning the next dense index the first time
// it is seen.
func (c *LvarCollector) Insert(id ident.Id) LvarId {
	if lv, ok := c.ids[id]; ok {
		return lv
	}
	lv := LvarId(len(c.names))
	c.ids[id] = lv
	c.names = append(c.names, id)
	return lv
}

// Lookup reports whether id has already been inserted, and its LvarId.
func (c *LvarCollector) Lookup(id ident.Id) (LvarId, bool) {
	lv, ok := c.ids[id]
	return lv, ok
}

// Len returns the number of distinct locals collected.
func (c *LvarCollector) Len() int { return len(c.names) }

// NameAt returns the IdentId inserted at LvarId lv.
func (c *LvarCollector) NameAt(lv LvarId) ident.Id { return c.names[lv] }

// SetBlockParam remembers lv as the frame's (single) block parameter slot,
// per spec.md section 3: "remembers at most one block-parameter LvarId".
func (c *LvarCollector) SetBlockParam(lv LvarId) {
	c.hasBlockParam = true
	c.blockParam = lv
}

// BlockParam returns the frame's block-parameter LvarId, if it has one.
func (c *LvarCollector) BlockParam() (LvarId, bool) { return c.blockParam, c.hasBlockParam }
