package dag

import (
	"context"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/stream"
	"github.com/zclconf/go-cty/cty"
)

// Input is one upstream stream bound to a transform slot.
type Input struct {
	Slot   string
	Stream *stream.Stream
}

// EvalRequest carries everything an evaluator needs to build the stream of
// one transform. Inputs are in slot order.
type EvalRequest struct {
	Name        string
	ElementType cty.Type
	Body        mapping.Transformation
	Inputs      []Input
}

// Evaluator turns a transformation body and its input streams into the
// transform's output stream. The returned stream must be pending; the graph
// connects it on Release. Bodies the evaluator cannot handle are reported
// with *EvaluationError.
type Evaluator interface {
	Evaluate(ctx context.Context, req EvalRequest) (*stream.Stream, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, req EvalRequest) (*stream.Stream, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, req EvalRequest) (*stream.Stream, error) {
	return f(ctx, req)
}
