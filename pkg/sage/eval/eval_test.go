package eval

import (
	"testing"

	"github.com/sambeau/sage/pkg/sage/printer"
	"github.com/sambeau/sage/pkg/sage/reader"
	"github.com/sambeau/sage/pkg/sage/types"
)

func rep(t *testing.T, ev *Evaluator, env *types.Env, src string) string {
	t.Helper()
	ast, err := reader.Read(src)
	if err != nil {
		t.Fatalf("Read(%q): %v", src, err)
	}
	v, err := ev.Eval(env, ast)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return printer.Str(v, true)
}

func newTestEvaluator() (*Evaluator, *types.Env) {
	env := types.NewEnv()
	ev := New(env)
	return ev, env
}

func TestSelfEvaluatingAtoms(t *testing.T) {
	ev, env := newTestEvaluator()
	cases := map[string]string{
		"1":     "1",
		"-7":    "-7",
		"nil":   "nil",
		"true":  "true",
		"false": "false",
		`"hi"`:  `"hi"`,
		":kw":   ":kw",
	}
	for src, want := range cases {
		if got := rep(t, ev, env, src); got != want {
			t.Fatalf("%s: got %s, want %s", src, got, want)
		}
	}
}

func TestDefAndLookup(t *testing.T) {
	ev, env := newTestEvaluator()
	rep(t, ev, env, "(def! x 3)")
	if got := rep(t, ev, env, "x"); got != "3" {
		t.Fatalf("got %s", got)
	}
}

func TestClosureAndApplication(t *testing.T) {
	ev, env := newTestEvaluator()
	rep(t, ev, env, "(def! sq (fn* (x) (* x x)))")
	installArithmetic(env)
	if got := rep(t, ev, env, "(sq 7)"); got != "49" {
		t.Fatalf("got %s", got)
	}
}

func TestSequentialLetBindings(t *testing.T) {
	ev, env := newTestEvaluator()
	if got := rep(t, ev, env, "(let* (x 1 x 2) x)"); got != "2" {
		t.Fatalf("got %s", got)
	}
}

func TestClosureDoesNotLeakParams(t *testing.T) {
	ev, env := newTestEvaluator()
	if got := rep(t, ev, env, "((fn* (x) x) 7)"); got != "7" {
		t.Fatalf("got %s", got)
	}
	if _, err := env.Get("x"); err == nil {
		t.Fatal("expected x to remain unbound in outer env")
	}
}

func TestClosureCapturesEnvironment(t *testing.T) {
	ev, env := newTestEvaluator()
	rep(t, ev, env, "(def! a (let* (n 10) (fn* () n)))")
	if got := rep(t, ev, env, "(a)"); got != "10" {
		t.Fatalf("got %s", got)
	}
}

func TestTailCallOptimizationDoesNotOverflow(t *testing.T) {
	ev, env := newTestEvaluator()
	installArithmetic(env)
	rep(t, ev, env, "(def! f (fn* (n) (if (= n 0) :done (f (- n 1)))))")
	if got := rep(t, ev, env, "(f 10000)"); got != ":done" {
		t.Fatalf("got %s", got)
	}
}

func TestIfBranches(t *testing.T) {
	ev, env := newTestEvaluator()
	if got := rep(t, ev, env, "(if true 1 2)"); got != "1" {
		t.Fatalf("got %s", got)
	}
	if got := rep(t, ev, env, "(if false 1 2)"); got != "2" {
		t.Fatalf("got %s", got)
	}
	if got := rep(t, ev, env, "(if false 1)"); got != "nil" {
		t.Fatalf("got %s", got)
	}
}

func TestDoEvaluatesAllReturnsLast(t *testing.T) {
	ev, env := newTestEvaluator()
	rep(t, ev, env, "(def! x 0)")
	if got := rep(t, ev, env, "(do (def! x 1) (def! x 2) x)"); got != "2" {
		t.Fatalf("got %s", got)
	}
}

func TestQuoteReturnsUnevaluated(t *testing.T) {
	ev, env := newTestEvaluator()
	if got := rep(t, ev, env, "(quote (1 2 3))"); got != "(1 2 3)" {
		t.Fatalf("got %s", got)
	}
	if got := rep(t, ev, env, "'(a b)"); got != "(a b)" {
		t.Fatalf("got %s", got)
	}
}

func installListBuiltins(env *types.Env) {
	env.Set("list", types.NewNativeFn("list", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.List{Items: args}, nil
	}))
	env.Set("cons", types.NewNativeFn("cons", func(ctx types.Context, args []types.Value) (types.Value, error) {
		seq := args[1].(types.Seq)
		items := append([]types.Value{args[0]}, seq.Elements()...)
		return &types.List{Items: items}, nil
	}))
	env.Set("concat", types.NewNativeFn("concat", func(ctx types.Context, args []types.Value) (types.Value, error) {
		var items []types.Value
		for _, a := range args {
			if a == types.NilValue {
				continue
			}
			items = append(items, a.(types.Seq).Elements()...)
		}
		return &types.List{Items: items}, nil
	}))
}

func installArithmetic(env *types.Env) {
	num := func(v types.Value) int32 { return v.(*types.Number).Value }
	env.Set("+", types.NewNativeFn("+", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.Number{Value: num(args[0]) + num(args[1])}, nil
	}))
	env.Set("-", types.NewNativeFn("-", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.Number{Value: num(args[0]) - num(args[1])}, nil
	}))
	env.Set("*", types.NewNativeFn("*", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return &types.Number{Value: num(args[0]) * num(args[1])}, nil
	}))
	env.Set("=", types.NewNativeFn("=", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return types.BoolValue(types.Equal(args[0], args[1])), nil
	}))
}

func TestMacroExpansionIterative(t *testing.T) {
	ev, env := newTestEvaluator()
	installListBuiltins(env)
	rep(t, ev, env, "(defmacro! unless (fn* (p a b) (list (quote if) p b a)))")
	if got := rep(t, ev, env, "(unless false 7 8)"); got != "7" {
		t.Fatalf("got %s", got)
	}
	// A macro that expands into another macro call is expanded again.
	rep(t, ev, env, "(defmacro! unless2 (fn* (p a b) (list (quote unless) p a b)))")
	if got := rep(t, ev, env, "(unless2 false 7 8)"); got != "7" {
		t.Fatalf("got %s", got)
	}
}

func TestQuasiquoteSplicing(t *testing.T) {
	ev, env := newTestEvaluator()
	installListBuiltins(env)
	rep(t, ev, env, "(def! lst (list 2 3))")
	if got := rep(t, ev, env, "`(1 ~@lst 4)"); got != "(1 2 3 4)" {
		t.Fatalf("got %s", got)
	}
}

func TestAtomSwapDerefAliasing(t *testing.T) {
	ev, env := newTestEvaluator()
	installArithmetic(env)
	env.Set("atom", types.NewNativeFn("atom", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return types.NewAtom(args[0]), nil
	}))
	env.Set("deref", types.NewNativeFn("deref", func(ctx types.Context, args []types.Value) (types.Value, error) {
		return args[0].(*types.Atom).Value, nil
	}))
	env.Set("swap!", types.NewNativeFn("swap!", func(ctx types.Context, args []types.Value) (types.Value, error) {
		a := args[0].(*types.Atom)
		result, err := ctx.Apply(args[1], append([]types.Value{a.Value}, args[2:]...))
		if err != nil {
			return nil, err
		}
		a.Value = result
		return result, nil
	}))

	rep(t, ev, env, "(def! a (atom 1))")
	if got := rep(t, ev, env, "(swap! a + 10)"); got != "11" {
		t.Fatalf("got %s", got)
	}
	if got := rep(t, ev, env, "(deref a)"); got != "11" {
		t.Fatalf("got %s", got)
	}
	rep(t, ev, env, "(def! b a)")
	rep(t, ev, env, "(swap! a + 1)")
	if got := rep(t, ev, env, "(deref b)"); got != "12" {
		t.Fatalf("expected alias to observe update, got %s", got)
	}
}

func TestStructuralEqualityListVector(t *testing.T) {
	ev, env := newTestEvaluator()
	installArithmetic(env)
	if got := rep(t, ev, env, "(= (quote (1 2)) [1 2])"); got != "true" {
		t.Fatalf("got %s", got)
	}
}

func TestUndefinedSymbolError(t *testing.T) {
	ev, env := newTestEvaluator()
	ast, _ := reader.Read("undefined-name")
	_, err := ev.Eval(env, ast)
	if err == nil {
		t.Fatal("expected error")
	}
}
