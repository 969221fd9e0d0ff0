package dag

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/registry"
	"github.com/specialistvlad/streamgridgo/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.New("boom")

// scale multiplies every value of the single input by factor.
type scale int64

func (s scale) String() string { return fmt.Sprintf("x * %d", int64(s)) }

// fail produces nothing and fails.
type fail struct{}

func (fail) String() string { return "fail()" }

// unsupported is a body the test evaluator rejects.
type unsupported struct{}

func (unsupported) String() string { return "regex()" }

// testEvaluator compiles scale and fail bodies and counts producer runs.
type testEvaluator struct {
	productions atomic.Int32
}

func (e *testEvaluator) Evaluate(_ context.Context, req EvalRequest) (*stream.Stream, error) {
	switch body := req.Body.(type) {
	case scale:
		in := req.Inputs[0].Stream
		return stream.New(req.Name, req.ElementType, func(ctx context.Context, emit stream.Emit) error {
			e.productions.Add(1)
			for v, err := range in.Values(ctx) {
				if err != nil {
					return err
				}
				if err := emit(v.Multiply(cty.NumberIntVal(int64(body)))); err != nil {
					return err
				}
			}
			return nil
		}), nil
	case fail:
		return stream.New(req.Name, req.ElementType, func(context.Context, stream.Emit) error {
			e.productions.Add(1)
			return errBoom
		}), nil
	default:
		return nil, &EvaluationError{Operator: body.String(), Reason: "not known to the test evaluator"}
	}
}

func numberSource(t *testing.T, name string, vals ...int64) *mapping.Source {
	t.Helper()
	values := make([]cty.Value, 0, len(vals))
	for _, v := range vals {
		values = append(values, cty.NumberIntVal(v))
	}
	s, err := mapping.NewSource(name, cty.Number, values...)
	require.NoError(t, err)
	return s
}

func transform(t *testing.T, name string, body mapping.Transformation, slots ...mapping.Slot) *mapping.Transform {
	t.Helper()
	tr, err := mapping.NewTransform(name, cty.Number, body, slots...)
	require.NoError(t, err)
	return tr
}

func container(t *testing.T, ms ...mapping.Mapping) *registry.Container {
	t.Helper()
	c := registry.New()
	for _, m := range ms {
		next, err := c.Add(m)
		require.NoError(t, err)
		c = next
	}
	return c
}

func collect(t *testing.T, g *ExecutionGraph, m mapping.Mapping) ([]cty.Value, error) {
	t.Helper()
	s, err := g.GetStream(m)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Collect(ctx)
}

func requireNumbers(t *testing.T, got []cty.Value, want ...int64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.True(t, got[i].RawEquals(cty.NumberIntVal(w)), "value %d: want %d, got %#v", i, w, got[i])
	}
}

func wait(t *testing.T, f *Future) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := f.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "future did not resolve")
	return err
}
