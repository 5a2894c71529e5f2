// Package core is the host-callable namespace: the set of NativeFn values
// installed into the root environment before any user or bootstrap code
// runs. Every builtin here receives a types.Context so it can, when it
// needs to (swap!, apply, map, eval), recursively drive the evaluator
// without this package importing it.
package core

import (
	"fmt"
	"io"
	"os"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/printer"
	"github.com/sambeau/sage/pkg/sage/reader"
	"github.com/sambeau/sage/pkg/sage/types"
)

// Install binds every core builtin into env, with prn/println writing to
// os.Stdout. Use InstallTo to direct that output elsewhere.
func Install(env *types.Env) {
	InstallTo(env, os.Stdout)
}

// InstallTo binds every core builtin into env, with prn/println's printed
// side effects going to out instead of the process's stdout --
// the hook an embedding program uses to capture or redirect script output.
func InstallTo(env *types.Env, out io.Writer) {
	installArithmetic(env)
	installComparisons(env)
	installSeqBuiltins(env)
	installPrintBuiltins(env, out)
	installAtomBuiltins(env)
	installPredicates(env)
	installMapBuiltins(env)
	installIOBuiltins(env)
	installTimeBuiltins(env)
	installLocaleBuiltins(env)
}

func set(env *types.Env, name string, fn types.NativeFnImpl) {
	env.Set(name, types.NewNativeFn(name, fn))
}

func asNumber(v types.Value) (int32, error) {
	n, ok := v.(*types.Number)
	if !ok {
		return 0, errors.New(errors.ClassType, "expected a number, got "+v.Inspect())
	}
	return n.Value, nil
}

func checkArity(name string, args []types.Value, n int) error {
	if len(args) != n {
		return errors.New(errors.ClassArity, fmt.Sprintf("%s requires %d argument(s), got %d", name, n, len(args)))
	}
	return nil
}

func checkArityAtLeast(name string, args []types.Value, n int) error {
	if len(args) < n {
		return errors.New(errors.ClassArity, fmt.Sprintf("%s requires at least %d argument(s), got %d", name, n, len(args)))
	}
	return nil
}

func installArithmetic(env *types.Env) {
	binOp := func(name string, op func(a, b int32) int32) types.NativeFnImpl {
		return func(ctx types.Context, args []types.Value) (types.Value, error) {
			if err := checkArityAtLeast(name, args, 1); err != nil {
				return nil, err
			}
			acc, err := asNumber(args[0])
			if err != nil {
				return nil, err
			}
			for _, a := range args[1:] {
				n, err := asNumber(a)
				if err != nil {
					return nil, err
				}
				acc = op(acc, n)
			}
			return &types.Number{Value: acc}, nil
		}
	}
	set(env, "+", binOp("+", func(a, b int32) int32 { return a + b }))
	set(env, "-", binOp("-", func(a, b int32) int32 { return a - b }))
	set(env, "*", binOp("*", func(a, b int32) int32 { return a * b }))
	set(env, "/", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("/", args, 1); err != nil {
			return nil, err
		}
		acc, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			n, err := asNumber(a)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, errors.New(errors.ClassValue, "division by zero")
			}
			acc /= n
		}
		return &types.Number{Value: acc}, nil
	})
}

func installComparisons(env *types.Env) {
	cmp := func(name string, op func(a, b int32) bool) types.NativeFnImpl {
		return func(ctx types.Context, args []types.Value) (types.Value, error) {
			if err := checkArityAtLeast(name, args, 1); err != nil {
				return nil, err
			}
			for i := 0; i < len(args)-1; i++ {
				a, err := asNumber(args[i])
				if err != nil {
					return nil, err
				}
				b, err := asNumber(args[i+1])
				if err != nil {
					return nil, err
				}
				if !op(a, b) {
					return types.FalseValue, nil
				}
			}
			return types.TrueValue, nil
		}
	}
	set(env, "<", cmp("<", func(a, b int32) bool { return a < b }))
	set(env, "<=", cmp("<=", func(a, b int32) bool { return a <= b }))
	set(env, ">", cmp(">", func(a, b int32) bool { return a > b }))
	set(env, ">=", cmp(">=", func(a, b int32) bool { return a >= b }))
	set(env, "=", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("=", args, 2); err != nil {
			return nil, err
		}
		return types.BoolValue(types.Equal(args[0], args[1])), nil
	})
}

func asSeq(v types.Value) (types.Seq, error) {
	seq, ok := v.(types.Seq)
	if !ok {
		return nil, errors.New(errors.ClassType, "expected a list or vector, got "+v.Inspect())
	}
	return seq, nil
}

func installSeqBuiltins(env *types.Env) {
	set(env, "list", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.List{Items: args}, nil
	})
	set(env, "list?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("list?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.List)
		return types.BoolValue(ok), nil
	})
	set(env, "empty?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("empty?", args, 1); err != nil {
			return nil, err
		}
		seq, err := asSeq(args[0])
		if err != nil {
			return nil, err
		}
		return types.BoolValue(len(seq.Elements()) == 0), nil
	})
	set(env, "count", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("count", args, 1); err != nil {
			return nil, err
		}
		if args[0] == types.NilValue {
			return &types.Number{Value: 0}, nil
		}
		seq, err := asSeq(args[0])
		if err != nil {
			return nil, err
		}
		return &types.Number{Value: int32(len(seq.Elements()))}, nil
	})
	set(env, "cons", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("cons", args, 2); err != nil {
			return nil, err
		}
		seq, err := asSeq(args[1])
		if err != nil {
			return nil, err
		}
		items := append([]types.Value{args[0]}, seq.Elements()...)
		return &types.List{Items: items}, nil
	})
	set(env, "concat", func(ctx types.Context, args []types.Value) (types.Value, error) {
		var items []types.Value
		for _, a := range args {
			seq, err := asSeq(a)
			if err != nil {
				return nil, err
			}
			items = append(items, seq.Elements()...)
		}
		return &types.List{Items: items}, nil
	})
	set(env, "nth", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("nth", args, 2); err != nil {
			return nil, err
		}
		seq, err := asSeq(args[0])
		if err != nil {
			return nil, err
		}
		idx, err := asNumber(args[1])
		if err != nil {
			return nil, err
		}
		elems := seq.Elements()
		if idx < 0 || int(idx) >= len(elems) {
			return nil, errors.New(errors.ClassIndex, fmt.Sprintf("nth: index %d out of bounds (length %d)", idx, len(elems)))
		}
		return elems[idx], nil
	})
	set(env, "first", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("first", args, 1); err != nil {
			return nil, err
		}
		if args[0] == types.NilValue {
			return types.NilValue, nil
		}
		seq, err := asSeq(args[0])
		if err != nil {
			return nil, err
		}
		elems := seq.Elements()
		if len(elems) == 0 {
			return types.NilValue, nil
		}
		return elems[0], nil
	})
	set(env, "rest", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("rest", args, 1); err != nil {
			return nil, err
		}
		if args[0] == types.NilValue {
			return &types.List{}, nil
		}
		seq, err := asSeq(args[0])
		if err != nil {
			return nil, err
		}
		elems := seq.Elements()
		if len(elems) == 0 {
			return &types.List{}, nil
		}
		rest := make([]types.Value, len(elems)-1)
		copy(rest, elems[1:])
		return &types.List{Items: rest}, nil
	})
	set(env, "apply", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("apply", args, 2); err != nil {
			return nil, err
		}
		fn := args[0]
		last, err := asSeq(args[len(args)-1])
		if err != nil {
			return nil, err
		}
		callArgs := append([]types.Value{}, args[1:len(args)-1]...)
		callArgs = append(callArgs, last.Elements()...)
		return ctx.Apply(fn, callArgs)
	})
	set(env, "map", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("map", args, 2); err != nil {
			return nil, err
		}
		seq, err := asSeq(args[1])
		if err != nil {
			return nil, err
		}
		elems := seq.Elements()
		out := make([]types.Value, len(elems))
		for i, e := range elems {
			v, err := ctx.Apply(args[0], []types.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &types.List{Items: out}, nil
	})
	set(env, "throw", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("throw", args, 1); err != nil {
			return nil, err
		}
		return nil, types.NewException(args[0])
	})
	set(env, "eval", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("eval", args, 1); err != nil {
			return nil, err
		}
		// Always evaluates against the root environment, not the
		// caller's local scope, so def!/defmacro! inside an eval'd
		// form land where top-level input would put them.
		return ctx.Eval(ctx.RootEnv(), args[0])
	})
}

func installPrintBuiltins(env *types.Env, out io.Writer) {
	set(env, "pr-str", func(ctx types.Context, args []types.Value) (types.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = printer.Str(a, true)
		}
		return &types.String{Value: joinSpace(parts)}, nil
	})
	set(env, "str", func(ctx types.Context, args []types.Value) (types.Value, error) {
		var sb []byte
		for _, a := range args {
			sb = append(sb, printer.Str(a, false)...)
		}
		return &types.String{Value: string(sb)}, nil
	})
	set(env, "prn", func(ctx types.Context, args []types.Value) (types.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = printer.Str(a, true)
		}
		fmt.Fprintln(out, joinSpace(parts))
		return types.NilValue, nil
	})
	set(env, "println", func(ctx types.Context, args []types.Value) (types.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = printer.Str(a, false)
		}
		fmt.Fprintln(out, joinSpace(parts))
		return types.NilValue, nil
	})
	set(env, "read-string", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("read-string", args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(*types.String)
		if !ok {
			return nil, errors.New(errors.ClassType, "read-string requires a string")
		}
		v, err := reader.Read(s.Value)
		if err == reader.ErrEmptyInput {
			return types.NilValue, nil
		}
		if err != nil {
			return nil, errors.New(errors.ClassParse, err.Error())
		}
		return v, nil
	})
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func installAtomBuiltins(env *types.Env) {
	set(env, "atom", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("atom", args, 1); err != nil {
			return nil, err
		}
		return types.NewAtom(args[0]), nil
	})
	set(env, "atom?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("atom?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Atom)
		return types.BoolValue(ok), nil
	})
	set(env, "deref", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("deref", args, 1); err != nil {
			return nil, err
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return nil, errors.New(errors.ClassType, "deref requires an atom")
		}
		return a.Value, nil
	})
	set(env, "reset!", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("reset!", args, 2); err != nil {
			return nil, err
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return nil, errors.New(errors.ClassType, "reset! requires an atom")
		}
		a.Value = args[1]
		return a.Value, nil
	})
	set(env, "swap!", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("swap!", args, 2); err != nil {
			return nil, err
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return nil, errors.New(errors.ClassType, "swap! requires an atom")
		}
		callArgs := append([]types.Value{a.Value}, args[2:]...)
		result, err := ctx.Apply(args[1], callArgs)
		if err != nil {
			return nil, err
		}
		a.Value = result
		return result, nil
	})
}

func installPredicates(env *types.Env) {
	set(env, "nil?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("nil?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Nil)
		return types.BoolValue(ok), nil
	})
	set(env, "true?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("true?", args, 1); err != nil {
			return nil, err
		}
		b, ok := args[0].(*types.Boolean)
		return types.BoolValue(ok && b.Value), nil
	})
	set(env, "false?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("false?", args, 1); err != nil {
			return nil, err
		}
		b, ok := args[0].(*types.Boolean)
		return types.BoolValue(ok && !b.Value), nil
	})
	set(env, "symbol", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("symbol", args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(*types.String)
		if !ok {
			return nil, errors.New(errors.ClassType, "symbol requires a string")
		}
		return types.NewSymbol(s.Value), nil
	})
	set(env, "symbol?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("symbol?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Symbol)
		return types.BoolValue(ok), nil
	})
	set(env, "keyword", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("keyword", args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case *types.Keyword:
			return v, nil
		case *types.String:
			return types.NewKeyword(v.Value), nil
		default:
			return nil, errors.New(errors.ClassType, "keyword requires a string or keyword")
		}
	})
	set(env, "keyword?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("keyword?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Keyword)
		return types.BoolValue(ok), nil
	})
	set(env, "vector", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.Vector{Items: args}, nil
	})
	set(env, "vector?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("vector?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Vector)
		return types.BoolValue(ok), nil
	})
	set(env, "sequential?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("sequential?", args, 1); err != nil {
			return nil, err
		}
		return types.BoolValue(types.IsSeq(args[0])), nil
	})
	set(env, "map?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("map?", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*types.Map)
		return types.BoolValue(ok), nil
	})
}

func installMapBuiltins(env *types.Env) {
	set(env, "hash-map", func(ctx types.Context, args []types.Value) (types.Value, error) {
		m, err := types.MapFromPairs(args)
		if err != nil {
			return nil, errors.New(errors.ClassValue, err.Error())
		}
		return m, nil
	})
	set(env, "assoc", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("assoc", args, 1); err != nil {
			return nil, err
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "assoc requires a map")
		}
		pairs := args[1:]
		if len(pairs)%2 != 0 {
			return nil, errors.New(errors.ClassValue, "assoc requires an even number of key/value arguments")
		}
		var err error
		for i := 0; i < len(pairs); i += 2 {
			m, err = m.Assoc(pairs[i], pairs[i+1])
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	})
	set(env, "dissoc", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("dissoc", args, 1); err != nil {
			return nil, err
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "dissoc requires a map")
		}
		var err error
		for _, k := range args[1:] {
			m, err = m.Dissoc(k)
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	})
	set(env, "get", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("get", args, 2); err != nil {
			return nil, err
		}
		if args[0] == types.NilValue {
			return types.NilValue, nil
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "get requires a map")
		}
		v, found, err := m.Get(args[1])
		if err != nil {
			return nil, err
		}
		if !found {
			return types.NilValue, nil
		}
		return v, nil
	})
	set(env, "contains?", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("contains?", args, 2); err != nil {
			return nil, err
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "contains? requires a map")
		}
		has, err := m.Has(args[1])
		if err != nil {
			return nil, err
		}
		return types.BoolValue(has), nil
	})
	set(env, "keys", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("keys", args, 1); err != nil {
			return nil, err
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "keys requires a map")
		}
		return &types.List{Items: m.Keys()}, nil
	})
	set(env, "vals", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("vals", args, 1); err != nil {
			return nil, err
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return nil, errors.New(errors.ClassType, "vals requires a map")
		}
		return &types.List{Items: m.Vals()}, nil
	})
}
