package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"gonum.org/v1/gonum/graph/topo"
)

// Validate re-checks the structural invariants of c: the queue is a
// topological order of resolved upstreams, and every registered mapping is
// either queued or detached but never both.
func (c *Container) Validate() error {
	var errs []string

	position := make(map[mapping.Mapping]int, c.queue.Size())
	for i, k := range c.queue.Keys() {
		position[k.(mapping.Mapping)] = i
	}

	it := c.queue.Iterator()
	for i := 0; it.Next(); i++ {
		k := it.Key().(mapping.Mapping)
		entry := it.Value().(mapping.Mapping)

		if !c.mappings.Contains(k) {
			errs = append(errs, fmt.Sprintf("%s is queued but not registered", mapping.Describe(k)))
		}
		if c.detached.Contains(k) {
			errs = append(errs, fmt.Sprintf("%s is both queued and detached", mapping.Describe(k)))
		}

		for _, s := range entry.Slots() {
			if _, anonymous := s.Anonymous(); anonymous {
				errs = append(errs, fmt.Sprintf("%s is queued with unresolved slot %q", mapping.Describe(k), s.ID))
				continue
			}
			upstream := mapping.Identity(s.Upstream)
			p, ok := position[upstream]
			switch {
			case !ok:
				errs = append(errs, fmt.Sprintf("%s slot %q reads %s which is not queued", mapping.Describe(k), s.ID, mapping.Describe(upstream)))
			case p >= i:
				errs = append(errs, fmt.Sprintf("%s is queued before its upstream %s", mapping.Describe(k), mapping.Describe(upstream)))
			}
		}
	}

	for _, v := range c.mappings.Values() {
		m := v.(mapping.Mapping)
		_, queued := position[m]
		if !queued && !c.detached.Contains(m) {
			errs = append(errs, fmt.Sprintf("%s is neither queued nor detached", mapping.Describe(m)))
		}
	}
	for _, v := range c.detached.Values() {
		if !c.mappings.Contains(v) {
			errs = append(errs, fmt.Sprintf("%s is detached but not registered", mapping.Describe(v.(mapping.Mapping))))
		}
	}

	if _, err := topo.Sort(c.planGraph(true)); err != nil {
		errs = append(errs, fmt.Sprintf("queued mappings form a cycle: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvariant, strings.Join(errs, "\n- "))
	}
	return nil
}
