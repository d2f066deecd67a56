package machine

import "fmt"

// Kind classifies a RuntimeError per spec.md section 7's error taxonomy.
type Kind uint8

const (
	ArgumentError Kind = iota
	TypeError
	NameError
	NoMethodError
	ZeroDivisionError
	RangeError
	StopIteration
	Internal
)

func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "ArgumentError"
	case TypeError:
		return "TypeError"
	case NameError:
		return "NameError"
	case NoMethodError:
		return "NoMethodError"
	case ZeroDivisionError:
		return "ZeroDivisionError"
	case RangeError:
		return "RangeError"
	case StopIteration:
		return "StopIteration"
	default:
		return "Internal"
	}
}

// FrameInfo is one entry of an EvalError's backtrace: a function name and
// its source position, of which only the Filename is filled in
// (spec.md section 4.6 "Failure").
type FrameInfo struct {
	FuncName string
	Pos      Position
}

// Position is a human-facing source location, mirroring token.Position but
// kept independent of the token package's File so EvalError can be
// constructed without one in scope.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if p.Line <= 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// EvalError is a runtime error with a kavi backtrace, surfaced to the
// embedder per spec.md section 7: "unhandled errors reach the embedder,
// which prints the backtrace and exits non-zero."
type EvalError struct {
	Kind      Kind
	Msg       string
	Backtrace []FrameInfo
}

func (e *EvalError) Error() string {
	if len(e.Backtrace) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Backtrace[0].Pos)
}

func newError(kind Kind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func argumentErrorf(format string, args ...any) error  { return newError(ArgumentError, format, args...) }
func typeErrorf(format string, args ...any) error       { return newError(TypeError, format, args...) }
func nameErrorf(format string, args ...any) error       { return newError(NameError, format, args...) }
func noMethodErrorf(format string, args ...any) error   { return newError(NoMethodError, format, args...) }
func zeroDivisionErrorf(format string, args ...any) error {
	return newError(ZeroDivisionError, format, args...)
}

// Exported constructors, for the lang/builtin package (and any other
// consumer outside machine) to raise the same typed errors the VM itself
// raises (spec.md section 7's error taxonomy).
func ArgumentErrorf(format string, args ...any) error   { return argumentErrorf(format, args...) }
func TypeErrorf(format string, args ...any) error       { return typeErrorf(format, args...) }
func NameErrorf(format string, args ...any) error       { return nameErrorf(format, args...) }
func NoMethodErrorf(format string, args ...any) error   { return noMethodErrorf(format, args...) }
func ZeroDivisionErrorf(format string, args ...any) error { return zeroDivisionErrorf(format, args...) }
func RangeErrorf(format string, args ...any) error      { return rangeErrorf(format, args...) }
func StopIterationf(format string, args ...any) error   { return stopIterationf(format, args...) }
func rangeErrorf(format string, args ...any) error { return newError(RangeError, format, args...) }
func internalErrorf(format string, args ...any) error { return newError(Internal, format, args...) }
func stopIterationf(format string, args ...any) error {
	return newError(StopIteration, format, args...)
}

// controlSignal is returned by run() (never by a Callable's own Call) when
// a BREAK opcode unwinds out of a block; NEXT returns normally, like
// RETURN. It is not a user-visible error (spec.md section 7, "ControlFlow
// ... not user-visible errors"); the builtin that invoked the block via
// CallBlock catches it with BreakValue. A break outside any loop or block
// is rejected by the compiler.
type controlSignal struct {
	isBreak bool
	value   Value
}

func (c *controlSignal) Error() string {
	if c.isBreak {
		return "break outside of a loop or block"
	}
	return "next outside of a loop or block"
}
