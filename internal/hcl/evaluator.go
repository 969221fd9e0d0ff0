package hcl

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/dag"
	"github.com/specialistvlad/streamgridgo/internal/stream"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Evaluator compiles *Expression bodies into streams. Inputs are consumed in
// lockstep: the n-th output is computed from the n-th element of every
// input, and the shortest input ends the transform.
type Evaluator struct {
	functions map[string]function.Function
}

var _ dag.Evaluator = (*Evaluator)(nil)

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithFunctions adds functions to the evaluation context, replacing built-in
// functions of the same name.
func WithFunctions(funcs map[string]function.Function) EvaluatorOption {
	return func(e *Evaluator) {
		for name, fn := range funcs {
			e.functions[name] = fn
		}
	}
}

// NewEvaluator creates an evaluator with the Functions table.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{functions: Functions()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates the body against the request's slots and returns a
// pending stream that applies it.
func (e *Evaluator) Evaluate(ctx context.Context, req dag.EvalRequest) (*stream.Stream, error) {
	body, ok := req.Body.(*Expression)
	if !ok || body == nil || body.Map == nil {
		return nil, &dag.EvaluationError{
			Operator: "transformation",
			Reason:   fmt.Sprintf("%T is not an HCL expression", req.Body),
		}
	}

	slots := make(map[string]bool, len(req.Inputs))
	for _, in := range req.Inputs {
		slots[in.Slot] = true
	}
	for _, expr := range []hcl.Expression{body.Map, body.Filter} {
		if expr == nil {
			continue
		}
		if err := e.check(expr, slots); err != nil {
			return nil, err
		}
	}

	ctxlog.FromContext(ctx).Debug("Compiled HCL transformation.", "transform", req.Name, "body", body.String(), "inputs", len(req.Inputs))

	inputs := append([]dag.Input(nil), req.Inputs...)
	produce := func(ctx context.Context, emit stream.Emit) error {
		return e.run(ctx, body, inputs, emit)
	}
	return stream.New(req.Name, req.ElementType, produce), nil
}

// check rejects references to anything but the slots and calls to unknown
// functions.
func (e *Evaluator) check(expr hcl.Expression, slots map[string]bool) error {
	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		if !slots[root] {
			return &dag.EvaluationError{
				Operator: "variable",
				Reason:   fmt.Sprintf("%q at %s is not an input (inputs: %v)", root, traversal.SourceRange(), sortedKeys(slots)),
			}
		}
	}

	node, ok := expr.(hclsyntax.Node)
	if !ok {
		return nil
	}
	var unknown *hclsyntax.FunctionCallExpr
	hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok && unknown == nil {
			if _, known := e.functions[call.Name]; !known {
				unknown = call
			}
		}
		return nil
	})
	if unknown != nil {
		return &dag.EvaluationError{
			Operator: "function",
			Reason:   fmt.Sprintf("%q at %s is not defined", unknown.Name, unknown.NameRange),
		}
	}
	return nil
}

func (e *Evaluator) run(ctx context.Context, body *Expression, inputs []dag.Input, emit stream.Emit) error {
	if len(inputs) == 0 {
		v, keep, err := e.apply(body, map[string]cty.Value{})
		if err != nil || !keep {
			return err
		}
		return emit(v)
	}

	next := make([]func() (cty.Value, error, bool), len(inputs))
	for i, in := range inputs {
		pull, stop := iter.Pull2(in.Stream.Values(ctx))
		defer stop()
		next[i] = pull
	}

	for {
		vars := make(map[string]cty.Value, len(inputs))
		for i, in := range inputs {
			v, err, ok := next[i]()
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("input %q: %w", in.Slot, err)
			}
			vars[in.Slot] = v
		}

		v, keep, err := e.apply(body, vars)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}
		if err := emit(v); err != nil {
			return err
		}
	}
}

// apply evaluates the body for one set of inputs. keep is false when the
// filter drops the element.
func (e *Evaluator) apply(body *Expression, vars map[string]cty.Value) (v cty.Value, keep bool, err error) {
	evalCtx := &hcl.EvalContext{Variables: vars, Functions: e.functions}

	if body.Filter != nil {
		cond, diags := body.Filter.Value(evalCtx)
		if diags.HasErrors() {
			return cty.NilVal, false, fmt.Errorf("filter: %w", diags)
		}
		cond, err = convert.Convert(cond, cty.Bool)
		if err != nil {
			return cty.NilVal, false, fmt.Errorf("filter must be a bool: %w", err)
		}
		if cond.IsNull() || !cond.IsKnown() || cond.False() {
			return cty.NilVal, false, nil
		}
	}

	v, diags := body.Map.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, false, fmt.Errorf("map: %w", diags)
	}
	return v, true, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
