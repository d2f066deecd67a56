// Package maincmd implements the kavi CLI's subcommands (SPEC_FULL.md
// section 2): tokenize, parse, compile, run and disasm, each discovered by
// reflection off a lowercased exported method name, exactly as the
// teacher's internal/maincmd does for its own Lua/Starlark-family toolchain.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"
)

const binName = "kavi"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and all-in-one tool for the %[1]s programming language.

The <command> can be one of:
       tokenize                  Run the lexer and print the resulting
                                 token stream.
       parse                     Run the parser and print the resulting
                                 abstract syntax tree (AST).
       compile                   Run the parser and compiler, reporting
                                 success or any compile errors.
       run                       Parse, compile and execute the program.
       disasm                    Parse, compile and print the resulting
                                 bytecode (use --format=yaml for a
                                 machine-readable dump).

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -e --eval <src>           Use <src> as the program source instead of
                                 reading a file.

Valid flag options for the <disasm> command are:
       --format <text|yaml>      Output format (default: text).

Environment:
       KAVI_MAX_STEPS            Bound on dispatched instructions before
                                 'run' aborts (0 = unbounded, default).
       KAVI_MAX_CALL_DEPTH       Bound on nested call depth before 'run'
                                 aborts (0 = unbounded, default).
`, binName)
)

// EnvOverrides holds the resource-limit knobs read once at startup
// (SPEC_FULL.md section 2's "Config" paragraph), so a script that recurses
// or loops forever can be bounded without a flag on every invocation.
type EnvOverrides struct {
	MaxSteps     int64 `env:"KAVI_MAX_STEPS" envDefault:"0"`
	MaxCallDepth int64 `env:"KAVI_MAX_CALL_DEPTH" envDefault:"0"`
}

// Cmd is the kavi CLI entry point, implementing mainer's SetArgs/SetFlags/
// Validate/Main contract (SPEC_FULL.md section 2).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Eval   string `flag:"e,eval"`
	Format string `flag:"format"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	needsInput := cmdName == "tokenize" || cmdName == "parse" || cmdName == "compile" ||
		cmdName == "run" || cmdName == "disasm"
	if needsInput && c.Eval == "" && len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided, or use -e", cmdName)
	}

	if c.Format != "" && c.Format != "text" && c.Format != "yaml" {
		return fmt.Errorf("disasm: invalid --format %q (want text or yaml)", c.Format)
	}
	if c.Format != "" && cmdName != "disasm" {
		return fmt.Errorf("%s: invalid flag --format", cmdName)
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // env overrides are read separately, see EnvOverrides
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// envOverrides reads KAVI_MAX_STEPS/KAVI_MAX_CALL_DEPTH, defaulting to
// unbounded (0) when unset or malformed.
func envOverrides() EnvOverrides {
	var o EnvOverrides
	_ = env.Parse(&o) // a malformed env var leaves the zero-value (unbounded) defaults
	return o
}

// valid commands are those that take a context.Context, a mainer.Stdio and
// a slice of strings as input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
