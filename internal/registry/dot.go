package registry

import (
	"fmt"
	"io"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// planNode adapts a registered mapping to gonum's graph and DOT interfaces.
type planNode struct {
	id     int64
	m      mapping.Mapping
	queued bool
}

func (n planNode) ID() int64     { return n.id }
func (n planNode) DOTID() string { return mapping.Describe(n.m) }

func (n planNode) Attributes() []encoding.Attribute {
	if n.queued {
		return []encoding.Attribute{{Key: "shape", Value: "box"}}
	}
	return []encoding.Attribute{{Key: "shape", Value: "box"}, {Key: "style", Value: "dashed"}}
}

// planGraph builds the dependency graph of the registered mappings, with an
// edge from each resolved upstream to its dependent. Unresolved anonymous
// slots have no edge.
func (c *Container) planGraph(queuedOnly bool) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	ids := make(map[mapping.Mapping]int64, c.mappings.Size())

	for i, v := range c.mappings.Values() {
		m := v.(mapping.Mapping)
		_, queued := c.queue.Get(m)
		if queuedOnly && !queued {
			continue
		}
		n := planNode{id: int64(i), m: m, queued: queued}
		g.AddNode(n)
		ids[m] = n.id
	}

	for m, id := range ids {
		entry := m
		if v, ok := c.queue.Get(m); ok {
			entry = v.(mapping.Mapping)
		}
		for _, s := range entry.Slots() {
			upstream := s.Upstream
			if a, ok := s.Anonymous(); ok {
				bound, ok := c.resolution(a.ID())
				if !ok {
					continue
				}
				upstream = bound
			}
			uid, ok := ids[mapping.Identity(upstream)]
			if !ok || uid == id {
				continue
			}
			g.SetEdge(g.NewEdge(g.Node(uid), g.Node(id)))
		}
	}
	return g
}

// ExportDOT writes the plan as a Graphviz digraph. Detached mappings are
// drawn dashed.
func (c *Container) ExportDOT(w io.Writer) error {
	b, err := dot.Marshal(c.planGraph(false), "plan", "", "  ")
	if err != nil {
		return fmt.Errorf("registry: encode plan: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("registry: write plan: %w", err)
	}
	return nil
}
