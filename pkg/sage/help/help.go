// Package help answers topic queries from the "sage doc" command-line
// subcommand: a static registry of special forms and core builtins, looked
// up by name with fuzzy "did you mean" fallback when the topic doesn't
// match anything. The REPL's ":help" command does not use this package; it
// only lists the REPL's own commands.
package help

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sambeau/sage/pkg/sage/errors"
)

// Entry describes one special form or builtin.
type Entry struct {
	Name        string
	Category    string // "special form", "arithmetic", "sequence", "atom", ...
	Arity       string // e.g. "(fn* params body)"
	Description string
}

// TopicResult is what DescribeTopic returns: either a single entry, or a
// category listing when the topic names a category rather than one form.
type TopicResult struct {
	Kind    string // "entry", "category", "index"
	Entry   *Entry
	Entries []*Entry
}

var registry = []*Entry{
	{"def!", "special form", "(def! name value)", "Binds value to name in the current environment and returns value."},
	{"let*", "special form", "(let* (name value ...) body)", "Evaluates body in a new environment with the given bindings in scope, each visible to the ones after it."},
	{"do", "special form", "(do expr ...)", "Evaluates each expression in order, returning the last. The last expression is evaluated in tail position."},
	{"if", "special form", "(if cond then else?)", "Evaluates cond; if it is anything other than nil or false, evaluates and returns then, otherwise evaluates and returns else (nil if omitted)."},
	{"fn*", "special form", "(fn* (params...) body)", "Creates a closure over the current environment. A parameter named after & binds the remaining arguments as a list."},
	{"quote", "special form", "(quote form)", "Returns form unevaluated."},
	{"quasiquote", "special form", "(quasiquote form)", "Like quote, but unquote and splice-unquote inside form are evaluated and substituted."},
	{"unquote", "special form", "(unquote form)", "Only meaningful inside quasiquote: evaluates form and substitutes the result."},
	{"splice-unquote", "special form", "(splice-unquote form)", "Only meaningful inside a quasiquoted list: evaluates form, which must yield a list, and splices its elements in place."},
	{"defmacro!", "special form", "(defmacro! name (fn* (params...) body))", "Like def!, but marks the closure as a macro: calls to name receive unevaluated arguments and its result is evaluated again."},
	{"macroexpand", "special form", "(macroexpand form)", "Expands form as if it were about to be evaluated, without evaluating the result, useful for inspecting what a macro produces."},

	{"+", "arithmetic", "(+ n ...)", "Sum of the arguments."},
	{"-", "arithmetic", "(- n ...)", "Subtracts the rest from the first argument."},
	{"*", "arithmetic", "(* n ...)", "Product of the arguments."},
	{"/", "arithmetic", "(/ n ...)", "Divides the first argument by the rest. Division by zero throws."},
	{"<", "arithmetic", "(< n ...)", "True if the arguments are in strictly increasing order."},
	{"<=", "arithmetic", "(<= n ...)", "True if the arguments are in non-decreasing order."},
	{">", "arithmetic", "(> n ...)", "True if the arguments are in strictly decreasing order."},
	{">=", "arithmetic", "(>= n ...)", "True if the arguments are in non-increasing order."},
	{"=", "arithmetic", "(= a b)", "Structural equality: numbers, strings, symbols, keywords compare by value; lists and vectors compare elementwise and interchangeably; atoms compare by identity; functions are never equal."},

	{"list", "sequence", "(list a ...)", "Builds a list from its arguments."},
	{"list?", "sequence", "(list? x)", "True if x is a list."},
	{"vector", "sequence", "(vector a ...)", "Builds a vector from its arguments."},
	{"vector?", "sequence", "(vector? x)", "True if x is a vector."},
	{"sequential?", "sequence", "(sequential? x)", "True if x is a list or a vector."},
	{"empty?", "sequence", "(empty? x)", "True if x has no elements."},
	{"count", "sequence", "(count x)", "Number of elements in x; nil counts as zero."},
	{"cons", "sequence", "(cons a seq)", "Returns a new list with a prepended to seq."},
	{"concat", "sequence", "(concat seq ...)", "Concatenates any number of lists or vectors into one list."},
	{"nth", "sequence", "(nth seq n)", "The nth element of seq, throws if n is out of range."},
	{"first", "sequence", "(first seq)", "The first element of seq, or nil if seq is empty or nil."},
	{"rest", "sequence", "(rest seq)", "A list of every element after the first; empty list if seq has one or zero elements."},
	{"map", "sequence", "(map f seq)", "Applies f to each element of seq, returning a list of results."},
	{"apply", "sequence", "(apply f a ... seq)", "Calls f with the given leading arguments followed by the elements of seq."},

	{"pr-str", "printing", "(pr-str a ...)", "Returns the readable representation of each argument, space separated, strings quoted."},
	{"str", "printing", "(str a ...)", "Returns the display representation of each argument concatenated, strings unquoted."},
	{"prn", "printing", "(prn a ...)", "Prints the readable representation of each argument and a newline, returns nil."},
	{"println", "printing", "(println a ...)", "Prints the display representation of each argument and a newline, returns nil."},
	{"read-string", "printing", "(read-string s)", "Parses s as one form, returning its unevaluated value."},
	{"slurp", "io", "(slurp path)", "Reads the named file as a string. Paths ending in .gz are decompressed transparently."},
	{"time-now", "time", "(time-now)", "Returns the current time as a string in RFC3339."},
	{"time-parse", "time", "(time-parse s)", "Loosely parses s, a date or time in an unspecified format, into an RFC3339 string."},
	{"time-format", "time", "(time-format s locale?)", "Formats the RFC3339 string s as a long date and time, optionally in the given locale keyword (:en :fr :de :es :it :pt :ru)."},

	{"atom", "atom", "(atom value)", "Creates a mutable cell holding value."},
	{"atom?", "atom", "(atom? x)", "True if x is an atom."},
	{"deref", "atom", "(deref a)", "The value currently held by atom a."},
	{"reset!", "atom", "(reset! a value)", "Replaces a's value and returns it."},
	{"swap!", "atom", "(swap! a f arg ...)", "Replaces a's value with (f current-value arg ...) and returns the new value."},

	{"nil?", "predicate", "(nil? x)", "True if x is nil."},
	{"true?", "predicate", "(true? x)", "True if x is the value true."},
	{"false?", "predicate", "(false? x)", "True if x is the value false."},
	{"symbol", "predicate", "(symbol s)", "Interns s, a string, as a symbol."},
	{"symbol?", "predicate", "(symbol? x)", "True if x is a symbol."},
	{"keyword", "predicate", "(keyword s)", "Interns s, a string, as a keyword; a keyword is returned unchanged."},
	{"keyword?", "predicate", "(keyword? x)", "True if x is a keyword."},
	{"map?", "predicate", "(map? x)", "True if x is a hash-map."},

	{"hash-map", "map", "(hash-map k v ...)", "Builds a map from alternating key/value arguments."},
	{"assoc", "map", "(assoc m k v ...)", "Returns a new map like m with the given keys set to the given values."},
	{"dissoc", "map", "(dissoc m k ...)", "Returns a new map like m with the given keys removed."},
	{"get", "map", "(get m k)", "The value for k in m, or nil if absent or m is nil."},
	{"contains?", "map", "(contains? m k)", "True if m has an entry for k."},
	{"keys", "map", "(keys m)", "A list of m's keys."},
	{"vals", "map", "(vals m)", "A list of m's values."},

	{"throw", "control", "(throw value)", "Raises value as an exception, which propagates as an error out of the top-level evaluation; no form catches it."},
	{"eval", "control", "(eval form)", "Evaluates form in the root environment."},
	{"not", "control", "(not x)", "Boolean negation: true if x is nil or false."},
	{"load-file", "control", "(load-file path)", "Reads, wraps in a do block, and evaluates the contents of the named file."},
}

var byName = func() map[string]*Entry {
	m := make(map[string]*Entry, len(registry))
	for _, e := range registry {
		m[e.Name] = e
	}
	return m
}()

var categories = func() map[string][]*Entry {
	m := make(map[string][]*Entry)
	for _, e := range registry {
		m[e.Category] = append(m[e.Category], e)
	}
	return m
}()

// DescribeTopic looks up topic as an exact builtin or special-form name
// first, then as a category name ("arithmetic", "sequence", "io", ...), and
// finally as "builtins" or "all" for the full index. Unknown topics return
// a SageError carrying fuzzy-matched suggestions.
func DescribeTopic(topic string) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)

	if e, ok := byName[topic]; ok {
		return &TopicResult{Kind: "entry", Entry: e}, nil
	}
	if entries, ok := categories[topic]; ok {
		return &TopicResult{Kind: "category", Entries: sortedCopy(entries)}, nil
	}
	if topic == "builtins" || topic == "all" || topic == "" {
		return &TopicResult{Kind: "index", Entries: sortedCopy(registry)}, nil
	}

	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.Name)
	}
	suggestions := errors.FindTopMatches(topic, names, 3)
	return nil, errors.NewUndefinedSymbol(topic, suggestions)
}

func sortedCopy(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FormatText renders a TopicResult as plain text for terminal output.
func FormatText(result *TopicResult) string {
	var sb strings.Builder
	switch result.Kind {
	case "entry":
		formatEntryText(&sb, result.Entry)
	case "category", "index":
		for _, e := range result.Entries {
			fmt.Fprintf(&sb, "%-16s %s\n", e.Name, e.Arity)
		}
	}
	return sb.String()
}

func formatEntryText(sb *strings.Builder, e *Entry) {
	fmt.Fprintf(sb, "%s (%s)\n\n", e.Name, e.Category)
	fmt.Fprintf(sb, "  %s\n\n", e.Arity)
	fmt.Fprintf(sb, "  %s\n", e.Description)
}

// RenderMarkdown renders a TopicResult as a markdown document: a heading
// plus either the one entry's details or a bulleted list of a category's
// (or the index's) entries.
func RenderMarkdown(result *TopicResult) string {
	var sb strings.Builder
	switch result.Kind {
	case "entry":
		e := result.Entry
		fmt.Fprintf(&sb, "# %s\n\n*%s*\n\n```\n%s\n```\n\n%s\n", e.Name, e.Category, e.Arity, e.Description)
	case "category":
		fmt.Fprintln(&sb, "# Builtins")
		fmt.Fprintln(&sb)
		for _, e := range result.Entries {
			fmt.Fprintf(&sb, "- **%s** `%s` -- %s\n", e.Name, e.Arity, e.Description)
		}
	case "index":
		fmt.Fprintln(&sb, "# Builtin index")
		fmt.Fprintln(&sb)
		for _, e := range result.Entries {
			fmt.Fprintf(&sb, "- **%s** (%s) `%s` -- %s\n", e.Name, e.Category, e.Arity, e.Description)
		}
	}
	return sb.String()
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders a TopicResult's markdown form to HTML via goldmark,
// for the "sage doc" subcommand's --html output.
func RenderHTML(result *TopicResult) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(RenderMarkdown(result)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
