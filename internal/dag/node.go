package dag

import (
	"context"
	"sync"

	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/stream"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StreamNode is the compiled, runnable unit of one queued mapping.
type StreamNode struct {
	// entry is the queue entry the node was compiled from; it is a proxy when
	// the mapping had anonymous slots.
	entry  mapping.Mapping
	stream *stream.Stream

	once   sync.Once
	future *Future
}

func newStreamNode(entry mapping.Mapping, s *stream.Stream) *StreamNode {
	return &StreamNode{entry: entry, stream: s}
}

// Mapping returns the queue entry the node was compiled from.
func (n *StreamNode) Mapping() mapping.Mapping { return n.entry }

func (n *StreamNode) Name() string { return n.entry.Name() }

// Stream returns the node's output stream. Reading it does not start
// production.
func (n *StreamNode) Stream() *stream.Stream { return n.stream }

func (n *StreamNode) State() stream.State { return n.stream.State() }

// connect starts production the first time it is called and returns a
// future resolving when production ends. Later calls return the same future.
func (n *StreamNode) connect(ctx context.Context) *Future {
	n.once.Do(func() {
		n.future = newFuture()
		name := mapping.Describe(mapping.Identity(n.entry))
		logger := ctxlog.FromContext(ctx).With("node", name)

		ctx, span := tracer.Start(ctx, "dag.node", trace.WithAttributes(
			attribute.String("mapping.name", name),
			attribute.String("mapping.element_type", n.entry.ElementType().FriendlyName()),
		))

		nodesConnectedCounter.Inc()
		logger.Debug("Node connected, production started.")
		done := n.stream.Connect(ctx)

		go func() {
			defer span.End()
			<-done

			if err := n.stream.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				nodesFinishedCounter.WithLabelValues("failed").Inc()
				logger.Error("Node production failed.", "error", err)
				n.future.resolve(&NodeError{Mapping: name, Err: err})
				return
			}

			nodesFinishedCounter.WithLabelValues("done").Inc()
			logger.Debug("Node production finished.", "values", len(n.stream.Snapshot()))
			n.future.resolve(nil)
		}()
	})
	return n.future
}
