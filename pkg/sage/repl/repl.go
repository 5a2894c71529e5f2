// Package repl implements the interactive read-eval-print loop: line
// editing and history via peterh/liner, multi-line input held until
// parentheses balance, and a handful of ':'-prefixed meta-commands layered
// on top of plain evaluation.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/eval"
	"github.com/sambeau/sage/pkg/sage/printer"
	"github.com/sambeau/sage/pkg/sage/reader"
	"github.com/sambeau/sage/pkg/sage/types"
)

const PROMPT = "sage> "
const PROMPT_RAW = "sage:> "
const CONTINUATION_PROMPT = "....> "

const LOGO = `
█▀ ▄▀█ █▀▀ █▀▀
▄█ █▀█ █▄█ ██▄ `

// completionWords seeds liner's tab completion with special forms and the
// required core builtin names; it is not derived from the live environment
// because a freshly started REPL's env already has everything installed,
// making this list slightly redundant -- but liner needs candidates before
// the first keystroke, not after a lookup.
var completionWords = []string{
	"def!", "let*", "do", "if", "fn*", "quote", "quasiquote", "unquote",
	"splice-unquote", "defmacro!", "macroexpand",
	"+", "-", "*", "/", "=", "<", "<=", ">", ">=",
	"list", "list?", "empty?", "count", "cons", "concat", "nth", "first", "rest",
	"pr-str", "str", "prn", "println", "read-string", "slurp",
	"atom", "atom?", "deref", "reset!", "swap!",
	"nil?", "true?", "false?", "symbol", "symbol?", "keyword", "keyword?",
	"vector", "vector?", "hash-map", "map?", "assoc", "dissoc", "get", "contains?",
	"keys", "vals", "sequential?", "map", "apply", "eval", "throw", "not", "load-file",
	"nil", "true", "false",
}

// Start runs the REPL against env, which the caller has already populated
// with the core namespace and any bootstrap definitions.
func Start(in io.Reader, out io.Writer, env *types.Env, version string) {
	ev := eval.New(env)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string { return filterCompletions(l) })

	historyFile := filepath.Join(os.TempDir(), ".sage_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprint(out, LOGO)
	fmt.Fprintln(out, " v"+version)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, up/down for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out)

	var inputBuffer strings.Builder
	rawMode := false
	basePrompt := PROMPT

	for {
		currentPrompt := basePrompt
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}

		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			newRawMode, handled := handleReplCommand(trimmed, env, out, rawMode)
			if handled {
				rawMode = newRawMode
				if rawMode {
					basePrompt = PROMPT_RAW
				} else {
					basePrompt = PROMPT
				}
			}
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		if trimmed != "" {
			line.AppendHistory(fullInput)
		}

		ast, err := reader.Read(fullInput)
		if err == reader.ErrEmptyInput {
			inputBuffer.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintln(out, "Reader error: "+err.Error())
			inputBuffer.Reset()
			continue
		}

		result, err := ev.Eval(env, ast)
		if err != nil {
			printEvalError(out, err)
		} else if rawMode {
			io.WriteString(out, printer.Str(result, false))
			io.WriteString(out, "\n")
		} else {
			io.WriteString(out, printer.Pretty(result))
			io.WriteString(out, "\n")
		}

		inputBuffer.Reset()
	}
}

func handleReplCommand(cmd string, env *types.Env, out io.Writer, rawMode bool) (bool, bool) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :env            Show variables in scope")
		fmt.Fprintln(out, "  :clear          Clear all user-defined variables")
		fmt.Fprintln(out, "  :raw            Toggle raw output mode")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Output modes:")
		fmt.Fprintln(out, "  sage>  (normal) Readable literal output, multi-line for large values")
		fmt.Fprintln(out, "  sage:> (raw)    Display-mode output, strings unquoted")
		return rawMode, true

	case ":env":
		printEnvironment(env, out)
		return rawMode, true

	case ":clear":
		for _, name := range env.Names() {
			env.Set(name, types.NilValue)
		}
		fmt.Fprintln(out, "Environment cleared")
		return rawMode, true

	case ":raw":
		newMode := !rawMode
		if newMode {
			fmt.Fprintln(out, "Raw output mode ON")
		} else {
			fmt.Fprintln(out, "Raw output mode OFF")
		}
		return newMode, true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
		return rawMode, true
	}
}

func printEnvironment(env *types.Env, out io.Writer) {
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no bindings)")
		return
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := env.Get(name)
		if err != nil {
			continue
		}
		value := v.Inspect()
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(out, "  %s: %s = %s\n", name, v.Type(), value)
	}
}

func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
		return nil
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	lastWord := words[len(words)-1]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// needsMoreInput reports whether input has unbalanced parens, brackets or
// braces (outside a string literal), meaning the REPL should keep
// buffering lines instead of attempting to read a form yet.
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	depth := 0
	inString := false
	escapeNext := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}

	return depth > 0 || inString
}

func printEvalError(out io.Writer, err error) {
	if se, ok := err.(*errors.SageError); ok {
		io.WriteString(out, se.PrettyString())
		io.WriteString(out, "\n")
		return
	}
	if exc, ok := err.(*types.Exception); ok {
		fmt.Fprintf(out, "Uncaught exception: %s\n", exc.Wrapped.Inspect())
		return
	}
	fmt.Fprintf(out, "Error: %s\n", err.Error())
}
