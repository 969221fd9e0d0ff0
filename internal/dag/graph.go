package dag

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/streamgridgo/internal/ctxlog"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/specialistvlad/streamgridgo/internal/stream"
)

// ExecutionGraph is the compiled form of a container's execution queue.
// All methods are safe for concurrent use.
type ExecutionGraph struct {
	id    string
	nodes []*StreamNode
	// index maps a mapping's identity to its node.
	index map[mapping.Mapping]*StreamNode

	// mutex guards pending, the nodes not yet connected, in queue order.
	mutex   sync.Mutex
	pending []*StreamNode
}

func newExecutionGraph(id string) *ExecutionGraph {
	return &ExecutionGraph{id: id, index: make(map[mapping.Mapping]*StreamNode)}
}

func (g *ExecutionGraph) add(n *StreamNode) {
	g.nodes = append(g.nodes, n)
	g.index[mapping.Identity(n.entry)] = n
	g.pending = append(g.pending, n)
}

// lookup finds the node of m. Anonymous placeholders never have one.
func (g *ExecutionGraph) lookup(m mapping.Mapping) (*StreamNode, bool) {
	switch id := mapping.Identity(m).(type) {
	case *mapping.Source, *mapping.Transform:
		n, ok := g.index[id]
		return n, ok
	default:
		return nil, false
	}
}

// ID is a unique identifier for this graph instance.
func (g *ExecutionGraph) ID() string { return g.id }

// Nodes returns the nodes in execution order.
func (g *ExecutionGraph) Nodes() []*StreamNode {
	out := make([]*StreamNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node returns the node compiled for m. A proxy and the mapping it forwards
// resolve to the same node.
func (g *ExecutionGraph) Node(m mapping.Mapping) (*StreamNode, error) {
	n, ok := g.lookup(m)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, mapping.Describe(m))
	}
	return n, nil
}

// GetStream returns the output stream of m's node.
func (g *ExecutionGraph) GetStream(m mapping.Mapping) (*stream.Stream, error) {
	n, err := g.Node(m)
	if err != nil {
		return nil, err
	}
	return n.stream, nil
}

// Pending returns how many nodes have not been released yet.
func (g *ExecutionGraph) Pending() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return len(g.pending)
}

// Release starts production of every node not started by an earlier call
// and returns a future that resolves when those nodes have finished. The
// future fails with the joined *NodeError of each failed node. A call that
// finds nothing pending returns an already resolved future.
//
// Production inherits ctx's values but not its cancellation.
func (g *ExecutionGraph) Release(ctx context.Context) *Future {
	logger := ctxlog.FromContext(ctx).With("graph", g.id)
	prodCtx := context.WithoutCancel(ctx)

	g.mutex.Lock()
	pending := g.pending
	g.pending = nil
	futures := make([]*Future, 0, len(pending))
	for _, n := range pending {
		futures = append(futures, n.connect(prodCtx))
	}
	g.mutex.Unlock()

	if len(futures) == 0 {
		logger.Debug("Release found no pending nodes.")
		return resolvedFuture(nil)
	}

	logger.Debug("Released pending nodes.", "count", len(futures))
	return all(futures)
}
