package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a single diagnostic tied to a source Position, in the shape the
// lexer, parser and compiler all report errors in (adapted from the
// go/scanner.Error idiom the teacher reuses for the same purpose).
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList collects the errors encountered while processing a file. The
// zero value is ready to use. ErrorList satisfies error (via Error) and
// implements Unwrap() []error so errors.Is/As can reach individual Errors.
type ErrorList []Error

// Add appends a new Error to the list.
func (l *ErrorList) Add(pos Position, msg string) {
	*l = append(*l, Error{Pos: pos, Msg: msg})
}

// Sort orders the list by position (filename, then line, then column),
// stable so that errors reported at the same position keep their relative
// order.
func (l ErrorList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		pi, pj := l[i].Pos, l[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more errors)", l[0].Error(), len(l)-1)
	return b.String()
}

// Unwrap lets errors.Is/As/Join traverse into individual Errors.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// PrintTo renders each error, one per line, to sb (the CLI diagnostic
// format: "file:line:col: message", spec.md section 6).
func (l ErrorList) PrintTo(sb *strings.Builder) {
	for _, e := range l {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
}
