package machine

// index implements recv[args...] (spec.md section 4.5): built-in
// Indexable receivers dispatch directly, a user Instance dispatches to
// its own `[]` method.
func (th *Thread) index(recv Value, args []Value) (Value, error) {
	if inst, ok := recv.(*Instance); ok {
		return th.Send(inst, th.Globals.IndexId, args, nil, nil)
	}
	ix, ok := recv.(Indexable)
	if !ok {
		return nil, noMethodErrorf("undefined method `[]' for a %s", recv.Type())
	}
	return ix.Index(args)
}

// setIndex implements recv[args...] = val.
func (th *Thread) setIndex(recv Value, args []Value, val Value) error {
	if inst, ok := recv.(*Instance); ok {
		_, err := th.Send(inst, th.Globals.IndexSetId, append(append([]Value(nil), args...), val), nil, nil)
		return err
	}
	ix, ok := recv.(IndexSettable)
	if !ok {
		return noMethodErrorf("undefined method `[]=' for a %s", recv.Type())
	}
	return ix.SetIndex(args, val)
}
