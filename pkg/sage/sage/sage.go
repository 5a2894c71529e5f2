// Package sage is the public API for embedding the interpreter in another
// Go program: construct an Interpreter, feed it source, get Values back,
// without going through the REPL or the command-line driver.
package sage

import (
	"github.com/sambeau/sage/pkg/sage/core"
	"github.com/sambeau/sage/pkg/sage/eval"
	"github.com/sambeau/sage/pkg/sage/printer"
	"github.com/sambeau/sage/pkg/sage/reader"
	"github.com/sambeau/sage/pkg/sage/types"
)

// bootstrapForms are the two definitions the driver installs after the
// core namespace but before any user code runs: `not`, used pervasively by
// macros, and `load-file`, which threads slurp's text through the reader
// and a `do` block.
var bootstrapForms = []string{
	`(def! not (fn* (a) (if a false true)))`,
	`(def! load-file (fn* (path) (eval (read-string (str "(do " (slurp path) "\nnil)")))))`,
}

// Interpreter is a ready-to-use instance of the language: a root
// environment with the core namespace and bootstrap definitions installed,
// and the evaluator that drives it.
type Interpreter struct {
	env    *types.Env
	eval   *eval.Evaluator
	logger Logger
}

// New constructs an Interpreter with the core namespace and bootstrap
// definitions installed, logging to stdout by default.
func New() *Interpreter {
	interp := &Interpreter{logger: StdoutLogger()}

	env := types.NewEnv()
	core.InstallTo(env, &interpreterWriter{interp})
	ev := eval.New(env)

	interp.env = env
	interp.eval = ev

	for _, src := range bootstrapForms {
		ast, err := reader.Read(src)
		if err != nil {
			panic("sage: bootstrap form failed to parse: " + err.Error())
		}
		if _, err := ev.Eval(env, ast); err != nil {
			panic("sage: bootstrap form failed to evaluate: " + err.Error())
		}
	}

	return interp
}

// Eval reads and evaluates a single form from src, returning its result.
func (in *Interpreter) Eval(src string) (types.Value, error) {
	ast, err := reader.Read(src)
	if err != nil {
		return nil, err
	}
	return in.eval.Eval(in.env, ast)
}

// Env returns the interpreter's root environment, for callers that want to
// install additional host bindings before running a script.
func (in *Interpreter) Env() *types.Env { return in.env }

// SetLogger replaces the interpreter's output logger.
func (in *Interpreter) SetLogger(l Logger) { in.logger = l }

// PrintString renders v exactly as the REPL would in raw mode.
func (in *Interpreter) PrintString(v types.Value) string {
	return printer.Str(v, false)
}
