// Package ident implements the identifier table: an append-only, two-way
// mapping between names (method names, variable names, symbols) and small
// dense integers (Id). Equal ids denote equal names and vice versa.
package ident

// Id is an opaque interned identifier. The zero Id is reserved and denotes
// "no identifier" -- used by the parser where the grammar requires a
// constant expression for an absent superclass.
type Id uint32

// None is the reserved placeholder identifier.
const None Id = 0

// Table interns names to Ids and supports the reverse lookup. The zero value
// is not usable; use NewTable. A Table is not safe for concurrent use, which
// matches the single-threaded execution model of the rest of the
// interpreter (spec.md section 5).
type Table struct {
	byName map[string]Id
	byId   []string // byId[0] is the placeholder name for None
}

// NewTable returns an initialized, empty Table.
func NewTable() *Table {
	t := &Table{
		byName: make(map[string]Id),
		byId:   []string{"<none>"},
	}
	return t
}

// Intern returns the Id for name, creating one if this is the first time
// name is seen. Intern is idempotent: interning the same name twice returns
// the same Id.
func (t *Table) Intern(name string) Id {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := Id(len(t.byId))
	t.byId = append(t.byId, name)
	t.byName[name] = id
	return id
}

// Lookup returns the Id already assigned to name, and whether it was found.
// Unlike Intern, it never creates a new entry.
func (t *Table) Lookup(name string) (Id, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the name interned as id. It panics if id was never returned
// by Intern on this table.
func (t *Table) Name(id Id) string {
	return t.byId[id]
}

// Len returns the number of distinct names interned so far (not counting the
// None placeholder).
func (t *Table) Len() int {
	return len(t.byId) - 1
}
