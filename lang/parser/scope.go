package parser

import (
	"github.com/kavi-lang/kavi/lang/ast"
	"github.com/kavi-lang/kavi/lang/ident"
)

// frameKind is the kind of lexical scope frame on the parser's scope stack
// (spec.md section 4.3: "kind ∈ {Class, Method, Block}").
type frameKind int

const (
	classFrame frameKind = iota
	methodFrame
	blockFrame
)

// scopeFrame is one entry of the parser's scope stack. It owns the
// ast.LvarCollector that the enclosing MethodDecl/BlockExpr/ClassDecl/Chunk
// node is ultimately given, so the collector fills in as parsing proceeds
// rather than in a separate post-parse pass (this is the one deliberate
// departure from the teacher's resolver.go, which runs after parsing
// completes: spec.md section 4.3 makes parsing itself context-sensitive on
// assignment, so the decision cannot wait).
type scopeFrame struct {
	kind    frameKind
	locals  *ast.LvarCollector
	inMethod bool // true if this frame or an enclosing Block frame is within a Method
}

// scopeStack implements spec.md section 4.3's local-variable resolution
// algorithm.
type scopeStack struct {
	frames []*scopeFrame
}

func (s *scopeStack) push(kind frameKind) *ast.LvarCollector {
	lc := ast.NewLvarCollector()
	f := &scopeFrame{kind: kind, locals: lc}
	if kind == methodFrame {
		f.inMethod = true
	} else if kind == blockFrame && len(s.frames) > 0 {
		f.inMethod = s.frames[len(s.frames)-1].inMethod
	}
	s.frames = append(s.frames, f)
	return lc
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) top() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

// isLocal implements spec.md section 4.3's is_local(id): scan the stack
// top-down; a Block frame continues outward on miss, a Method or Class
// frame stops the search.
func (s *scopeStack) isLocal(id ident.Id) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if _, ok := f.locals.Lookup(id); ok {
			return true
		}
		if f.kind != blockFrame {
			return false
		}
	}
	return false
}

// addLocalIfNew implements add_local_if_new(id): insert id into the
// current (innermost) frame unless it already resolves as a local
// somewhere in the reachable chain, and return its LvarId either way.
//
// Per spec.md section 4.3, assignment to a bare identifier is what
// promotes it to a local; this is called exactly at assignment sites.
func (s *scopeStack) addLocalIfNew(id ident.Id) ast.LvarId {
	if s.isLocal(id) {
		return s.findLocal(id)
	}
	return s.top().locals.Insert(id)
}

// findLocal returns the LvarId of id in whichever frame it resolves to,
// following the same Block-pierces-outward rule as isLocal. Panics if id is
// not actually local; callers must check isLocal first.
func (s *scopeStack) findLocal(id ident.Id) ast.LvarId {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if lv, ok := f.locals.Lookup(id); ok {
			return lv
		}
		if f.kind != blockFrame {
			break
		}
	}
	panic("parser: findLocal called for a non-local identifier")
}

// inMethodBody reports whether the innermost frame is a Method, or a chain
// of Block frames rooted in one; this drives the "def inside def is
// illegal" check (spec.md section 4.3).
func (s *scopeStack) inMethodBody() bool {
	return len(s.frames) > 0 && s.top().inMethod
}
