// Package eval implements the tail-call-optimized, metacircular evaluator:
// the loop that turns a reader-produced Value tree into a result by
// repeatedly rewriting (env, ast) instead of recursing the host stack
// through tail positions.
package eval

import (
	"fmt"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/types"
)

// Evaluator owns the root environment and implements types.Context so the
// core namespace's swap!/apply/map/eval builtins can recursively drive
// evaluation without this package needing to be imported by core.
type Evaluator struct {
	root *types.Env
}

// New creates an Evaluator whose root environment is env.
func New(env *types.Env) *Evaluator {
	return &Evaluator{root: env}
}

// RootEnv returns the evaluator's top-level environment.
func (ev *Evaluator) RootEnv() *types.Env { return ev.root }

// CurrentEnv satisfies types.Context for top-level callers (the eval
// builtin uses RootEnv explicitly; this exists for Context completeness).
func (ev *Evaluator) CurrentEnv() *types.Env { return ev.root }

// Eval implements types.Context.Eval and is the evaluator's public entry
// point: evaluate ast in env, looping through tail positions instead of
// recursing for if/do/let*/closure application/quasiquote.
func (ev *Evaluator) Eval(env *types.Env, ast types.Value) (types.Value, error) {
	for {
		expanded, err := ev.macroexpand(env, ast)
		if err != nil {
			return nil, err
		}
		ast = expanded

		list, isList := ast.(*types.List)
		if !isList {
			return ev.evalAst(env, ast)
		}
		if len(list.Items) == 0 {
			return list, nil
		}

		if sym, ok := list.Items[0].(*types.Symbol); ok {
			switch sym.Name {
			case "def!":
				return ev.evalDef(env, list)

			case "let*":
				newEnv, body, err := ev.evalLetBindings(env, list)
				if err != nil {
					return nil, err
				}
				env, ast = newEnv, body
				continue

			case "do":
				next, err := ev.evalDoButLast(env, list)
				if err != nil {
					return nil, err
				}
				ast = next
				continue

			case "if":
				next, err := ev.evalIf(env, list)
				if err != nil {
					return nil, err
				}
				ast = next
				continue

			case "fn*":
				return ev.evalFnStar(env, list)

			case "quote":
				if len(list.Items) < 2 {
					return nil, errors.New(errors.ClassArity, "quote requires one argument")
				}
				return list.Items[1], nil

			case "quasiquote":
				if len(list.Items) < 2 {
					return nil, errors.New(errors.ClassArity, "quasiquote requires one argument")
				}
				ast = quasiquoteExpand(list.Items[1])
				continue

			case "defmacro!":
				return ev.evalDefmacro(env, list)

			case "macroexpand":
				if len(list.Items) < 2 {
					return nil, errors.New(errors.ClassArity, "macroexpand requires one argument")
				}
				return ev.macroexpand(env, list.Items[1])
			}
		}

		evaluated, err := ev.evalAst(env, list)
		if err != nil {
			return nil, err
		}
		evaluatedList := evaluated.(*types.List)
		if len(evaluatedList.Items) == 0 {
			return types.NilValue, nil
		}

		fn := evaluatedList.Items[0]
		args := evaluatedList.Items[1:]

		switch callee := fn.(type) {
		case *types.NativeFn:
			return callee.Fn(ev.contextFor(env), args)

		case *types.Closure:
			newEnv, err := types.NewEnvWithBinds(callee.Env, callee.Params, callee.Rest, args)
			if err != nil {
				return nil, fmt.Errorf("calling function: %w", err)
			}
			env, ast = newEnv, callee.Body
			continue

		default:
			return nil, errors.New(errors.ClassType, "first element is not a function: "+fn.Inspect())
		}
	}
}

// Apply implements types.Context.Apply: invoke fn with args outside the
// TCO loop (used by apply/map/swap! builtins, which need a result, not a
// tail position).
func (ev *Evaluator) Apply(fn types.Value, args []types.Value) (types.Value, error) {
	switch callee := fn.(type) {
	case *types.NativeFn:
		return callee.Fn(ev.contextFor(ev.root), args)
	case *types.Closure:
		newEnv, err := types.NewEnvWithBinds(callee.Env, callee.Params, callee.Rest, args)
		if err != nil {
			return nil, fmt.Errorf("calling function: %w", err)
		}
		return ev.Eval(newEnv, callee.Body)
	default:
		return nil, errors.New(errors.ClassType, "first element is not a function: "+fn.Inspect())
	}
}

// evalAst implements eval_ast (§4.6.3): symbols resolve, Lists/Vectors map
// recursively, Maps evaluate only their values, everything else is
// self-evaluating.
func (ev *Evaluator) evalAst(env *types.Env, ast types.Value) (types.Value, error) {
	switch t := ast.(type) {
	case *types.Symbol:
		v, err := env.Get(t.Name)
		if err != nil {
			var visible []string
			for e := env; e != nil; e = e.Outer() {
				visible = append(visible, e.Names()...)
			}
			return nil, errors.NewUndefinedSymbol(t.Name, visible)
		}
		return v, nil

	case *types.List:
		items := make([]types.Value, len(t.Items))
		for i, e := range t.Items {
			v, err := ev.Eval(env, e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &types.List{Items: items}, nil

	case *types.Vector:
		items := make([]types.Value, len(t.Items))
		for i, e := range t.Items {
			v, err := ev.Eval(env, e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &types.Vector{Items: items}, nil

	case *types.Map:
		out := types.NewMap()
		keys, vals := t.Keys(), t.Vals()
		for i, k := range keys {
			v, err := ev.Eval(env, vals[i])
			if err != nil {
				return nil, err
			}
			var assocErr error
			out, assocErr = out.Assoc(k, v)
			if assocErr != nil {
				return nil, assocErr
			}
		}
		return out, nil

	default:
		return ast, nil
	}
}

func (ev *Evaluator) evalDef(env *types.Env, list *types.List) (types.Value, error) {
	if len(list.Items) != 3 {
		return nil, errors.New(errors.ClassArity, "def! requires exactly 2 arguments: a symbol and a value")
	}
	sym, ok := list.Items[1].(*types.Symbol)
	if !ok {
		return nil, errors.New(errors.ClassType, "def! requires a symbol, got "+list.Items[1].Inspect())
	}
	val, err := ev.Eval(env, list.Items[2])
	if err != nil {
		return nil, err
	}
	env.Set(sym.Name, val)
	return val, nil
}

// evalLetBindings creates the child frame and sequentially binds it,
// returning the frame and the body form for the caller's TCO step.
func (ev *Evaluator) evalLetBindings(env *types.Env, list *types.List) (*types.Env, types.Value, error) {
	if len(list.Items) != 3 {
		return nil, nil, errors.New(errors.ClassArity, "let* requires exactly 2 arguments: bindings and a body")
	}
	bindingsSeq, ok := list.Items[1].(types.Seq)
	if !ok {
		return nil, nil, errors.New(errors.ClassType, "let* bindings must be a list or vector")
	}
	pairs := bindingsSeq.Elements()
	if len(pairs)%2 != 0 {
		return nil, nil, errors.New(errors.ClassFormat, "let* bindings must have an even number of elements")
	}

	newEnv := types.NewEnclosedEnv(env)
	for i := 0; i < len(pairs); i += 2 {
		sym, ok := pairs[i].(*types.Symbol)
		if !ok {
			return nil, nil, errors.New(errors.ClassType, "let* binding name must be a symbol, got "+pairs[i].Inspect())
		}
		val, err := ev.Eval(newEnv, pairs[i+1])
		if err != nil {
			return nil, nil, err
		}
		newEnv.Set(sym.Name, val)
	}

	return newEnv, list.Items[2], nil
}

func (ev *Evaluator) evalDoButLast(env *types.Env, list *types.List) (types.Value, error) {
	body := list.Items[1:]
	if len(body) == 0 {
		return types.NilValue, nil
	}
	for _, e := range body[:len(body)-1] {
		if _, err := ev.Eval(env, e); err != nil {
			return nil, err
		}
	}
	return body[len(body)-1], nil
}

func (ev *Evaluator) evalIf(env *types.Env, list *types.List) (types.Value, error) {
	if len(list.Items) < 3 || len(list.Items) > 4 {
		return nil, errors.New(errors.ClassArity, "if requires 2 or 3 arguments")
	}
	cond, err := ev.Eval(env, list.Items[1])
	if err != nil {
		return nil, err
	}
	if types.Truthy(cond) {
		return list.Items[2], nil
	}
	if len(list.Items) == 4 {
		return list.Items[3], nil
	}
	return types.NilValue, nil
}

func (ev *Evaluator) evalFnStar(env *types.Env, list *types.List) (types.Value, error) {
	if len(list.Items) != 3 {
		return nil, errors.New(errors.ClassArity, "fn* requires exactly 2 arguments: a parameter list and a body")
	}
	paramsSeq, ok := list.Items[1].(types.Seq)
	if !ok {
		return nil, errors.New(errors.ClassType, "fn* parameters must be a list or vector")
	}
	params, rest, err := types.ParseParams(paramsSeq.Elements())
	if err != nil {
		return nil, errors.New(errors.ClassType, err.Error())
	}
	return &types.Closure{
		Params: params,
		Rest:   rest,
		Body:   list.Items[2],
		Env:    env,
	}, nil
}

func (ev *Evaluator) evalDefmacro(env *types.Env, list *types.List) (types.Value, error) {
	if len(list.Items) != 3 {
		return nil, errors.New(errors.ClassArity, "defmacro! requires exactly 2 arguments: a symbol and a fn* form")
	}
	sym, ok := list.Items[1].(*types.Symbol)
	if !ok {
		return nil, errors.New(errors.ClassType, "defmacro! requires a symbol, got "+list.Items[1].Inspect())
	}
	val, err := ev.Eval(env, list.Items[2])
	if err != nil {
		return nil, err
	}
	closure, ok := val.(*types.Closure)
	if !ok {
		return nil, errors.New(errors.ClassType, "defmacro! requires a function, got "+val.Inspect())
	}
	macro := closure.AsMacro()
	env.Set(sym.Name, macro)
	return macro, nil
}

// isMacroCall reports whether ast is a List whose head Symbol resolves to
// a macro Closure, per §4.6.6.
func isMacroCall(env *types.Env, ast types.Value) (*types.Closure, []types.Value, bool) {
	list, ok := ast.(*types.List)
	if !ok || len(list.Items) == 0 {
		return nil, nil, false
	}
	sym, ok := list.Items[0].(*types.Symbol)
	if !ok {
		return nil, nil, false
	}
	val, err := env.Get(sym.Name)
	if err != nil {
		return nil, nil, false
	}
	closure, ok := val.(*types.Closure)
	if !ok || !closure.IsMacro {
		return nil, nil, false
	}
	return closure, list.Items[1:], true
}

// macroexpand iteratively expands ast while it's a macro call, applying
// each macro to its unevaluated arguments (§4.6.6).
func (ev *Evaluator) macroexpand(env *types.Env, ast types.Value) (types.Value, error) {
	for {
		closure, args, ok := isMacroCall(env, ast)
		if !ok {
			return ast, nil
		}
		newEnv, err := types.NewEnvWithBinds(closure.Env, closure.Params, closure.Rest, args)
		if err != nil {
			return nil, fmt.Errorf("expanding macro: %w", err)
		}
		expanded, err := ev.Eval(newEnv, closure.Body)
		if err != nil {
			return nil, err
		}
		ast = expanded
	}
}

// quasiquoteExpand implements §4.6.7.
func quasiquoteExpand(ast types.Value) types.Value {
	seq, ok := ast.(types.Seq)
	if !ok {
		return types.NewList(types.NewSymbol("quote"), ast)
	}
	items := seq.Elements()
	if len(items) == 0 {
		return types.NewList(types.NewSymbol("quote"), ast)
	}

	head, tail := items[0], items[1:]

	if sym, ok := head.(*types.Symbol); ok && sym.Name == "unquote" {
		if len(tail) == 0 {
			return types.NilValue
		}
		return tail[0]
	}

	if headSeq, ok := head.(types.Seq); ok {
		headItems := headSeq.Elements()
		if len(headItems) > 0 {
			if sym, ok := headItems[0].(*types.Symbol); ok && sym.Name == "splice-unquote" {
				var spliced types.Value = types.NilValue
				if len(headItems) > 1 {
					spliced = headItems[1]
				}
				return types.NewList(
					types.NewSymbol("concat"),
					spliced,
					quasiquoteExpand(&types.List{Items: tail}),
				)
			}
		}
	}

	return types.NewList(
		types.NewSymbol("cons"),
		quasiquoteExpand(head),
		quasiquoteExpand(&types.List{Items: tail}),
	)
}

// contextFor builds the types.Context passed to a NativeFn invocation.
func (ev *Evaluator) contextFor(env *types.Env) types.Context {
	return &callContext{ev: ev, env: env}
}

type callContext struct {
	ev  *Evaluator
	env *types.Env
}

func (c *callContext) CurrentEnv() *types.Env { return c.env }
func (c *callContext) RootEnv() *types.Env     { return c.ev.root }
func (c *callContext) Eval(env *types.Env, ast types.Value) (types.Value, error) {
	return c.ev.Eval(env, ast)
}
func (c *callContext) Apply(fn types.Value, args []types.Value) (types.Value, error) {
	return c.ev.Apply(fn, args)
}
