package dag

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/registry"
	"github.com/specialistvlad/streamgridgo/internal/stream"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Compiler builds execution graphs from resolved containers.
type Compiler struct {
	evaluator Evaluator
}

// NewCompiler returns a compiler that hands transform bodies to evaluator.
// A nil evaluator can only compile containers without transforms.
func NewCompiler(evaluator Evaluator) *Compiler {
	return &Compiler{evaluator: evaluator}
}

// Compile turns every queued mapping of c into a StreamNode, in queue order.
// Detached mappings are skipped. The first failure aborts compilation with a
// *CompileError and no graph.
func (cp *Compiler) Compile(ctx context.Context, c *registry.Container) (*ExecutionGraph, error) {
	logger := ctxlog.FromContext(ctx)
	ctx, span := tracer.Start(ctx, "dag.Compile")
	defer span.End()

	if c == nil {
		c = registry.New()
	}
	if err := c.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("dag: refusing to compile: %w", err)
	}
	if detached := c.Detached(); len(detached) > 0 {
		logger.Warn("Compiling with detached mappings, they will not run.", "count", len(detached))
	}

	g := newExecutionGraph(uuid.NewString())
	span.SetAttributes(attribute.String("graph.id", g.id), attribute.Int("graph.queue_length", len(c.ExecutionQueue())))

	for _, entry := range c.ExecutionQueue() {
		n, err := cp.compileEntry(ctx, g, entry)
		if err != nil {
			compileFailuresCounter.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error("Compilation aborted.", "mapping", mapping.Describe(entry), "error", err)
			return nil, err
		}
		g.add(n)
		logger.Debug("Node compiled.", "node", mapping.Describe(entry), "element_type", entry.ElementType().FriendlyName())
	}

	graphsCompiledCounter.Inc()
	logger.Debug("Execution graph compiled.", "graph", g.id, "nodes", len(g.nodes))
	return g, nil
}

func (cp *Compiler) compileEntry(ctx context.Context, g *ExecutionGraph, entry mapping.Mapping) (*StreamNode, error) {
	name := entry.Name()

	switch m := mapping.Identity(entry).(type) {
	case *mapping.Source:
		return newStreamNode(entry, stream.FromValues(name, m.ElementType(), m.Values())), nil

	case *mapping.Transform:
		if cp.evaluator == nil {
			return nil, &CompileError{Mapping: name, Err: ErrNoEvaluator}
		}

		slots := entry.Slots()
		inputs := make([]Input, 0, len(slots))
		for _, s := range slots {
			if a, anonymous := s.Anonymous(); anonymous {
				return nil, &CompileError{Mapping: name, Err: fmt.Errorf("slot %q is still waiting for a %s source", s.ID, a.Type.FriendlyName())}
			}
			upstream, ok := g.lookup(s.Upstream)
			if !ok {
				return nil, &CompileError{Mapping: name, Err: fmt.Errorf("slot %q reads %s, which has not been compiled", s.ID, mapping.Describe(s.Upstream))}
			}
			inputs = append(inputs, Input{Slot: s.ID, Stream: upstream.stream})
		}

		out, err := cp.evaluator.Evaluate(ctx, EvalRequest{
			Name:        name,
			ElementType: m.ElementType(),
			Body:        m.Transformation(),
			Inputs:      inputs,
		})
		if err != nil {
			return nil, &CompileError{Mapping: name, Err: err}
		}
		if out == nil {
			return nil, &CompileError{Mapping: name, Err: errors.New("evaluator returned no stream")}
		}
		if !out.ElementType().Equals(m.ElementType()) {
			return nil, &CompileError{Mapping: name, Err: fmt.Errorf("%w: declared %s, evaluator produced %s",
				ErrElementType, m.ElementType().FriendlyName(), out.ElementType().FriendlyName())}
		}
		return newStreamNode(entry, out), nil

	default:
		return nil, &CompileError{Mapping: name, Err: fmt.Errorf("unexpected %s in execution queue", entry.Kind())}
	}
}
