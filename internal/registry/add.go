package registry

import (
	"fmt"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
)

// Add registers m and returns the resulting container. Adding a mapping that
// is already registered returns c itself. On error c is still valid and
// unchanged.
func (c *Container) Add(m mapping.Mapping) (*Container, error) {
	k, err := registrable(m)
	if err != nil {
		return nil, err
	}
	if c.mappings.Contains(k) {
		return c, nil
	}

	next := c.clone()
	if err := next.register(k); err != nil {
		return nil, err
	}
	next.promote()
	return next, nil
}

// AddComponent registers every member of comp as one step. A component whose
// name is already registered is a no-op.
func (c *Container) AddComponent(comp mapping.Component) (*Container, error) {
	if _, ok := c.components.Get(comp.Name); ok {
		return c, nil
	}

	next := c.clone()
	for _, m := range comp.Members {
		k, err := registrable(m)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Name, err)
		}
		if next.mappings.Contains(k) {
			continue
		}
		if err := next.register(k); err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Name, err)
		}
		next.promote()
	}
	next.components.Put(comp.Name, comp)
	return next, nil
}

func registrable(m mapping.Mapping) (mapping.Mapping, error) {
	switch v := m.(type) {
	case *mapping.Source:
		return v, nil
	case *mapping.Transform:
		return v, nil
	case nil:
		return nil, fmt.Errorf("%w: nil mapping", ErrNotRegistrable)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotRegistrable, mapping.Describe(m))
	}
}

// register resolves the anonymous slots of m, records it and queues it when
// possible. Every registered candidate is counted, even for an identity that
// is already bound, so a second producer of that type makes m ambiguous. It
// must only be called on a private clone.
func (c *Container) register(m mapping.Mapping) error {
	for _, s := range m.Slots() {
		a, ok := s.Anonymous()
		if !ok {
			continue
		}
		id := a.ID()
		candidates := c.candidates(a)
		if len(candidates) > 1 {
			return &AmbiguousSourceError{ElementType: a.Type, Candidates: candidates}
		}

		bound, ok := c.resolution(id)
		switch {
		case ok && (len(candidates) == 0 || candidates[0] != bound):
			return fmt.Errorf("%w: %s is bound to %s", ErrInvariant, a.Name(), mapping.Describe(bound))
		case ok:
		case len(candidates) == 0:
			c.missing.Put(id, a)
		default:
			c.bind(id, candidates[0])
		}
	}

	c.mappings.Add(m)
	c.detached.Add(m)
	c.tryQueue(m)
	c.satisfyMissing(m)
	return nil
}

// candidates lists the registered mappings that can stand in for a. A mapping
// that itself waits on a is never a candidate for it.
func (c *Container) candidates(a mapping.Anonymous) []mapping.Mapping {
	id := a.ID()
	var out []mapping.Mapping
	for _, v := range c.mappings.Values() {
		m := v.(mapping.Mapping)
		if m.ElementType().Equals(a.Type) && !mapping.HasAnonymousSlot(m, id) {
			out = append(out, m)
		}
	}
	return out
}

func (c *Container) bind(id mapping.AnonymousID, target mapping.Mapping) {
	c.resolved.Put(id, target)
	c.missing.Remove(id)
}

// satisfyMissing binds every pending placeholder that m can serve.
func (c *Container) satisfyMissing(m mapping.Mapping) {
	for _, v := range c.missing.Values() {
		a := v.(mapping.Anonymous)
		id := a.ID()
		if m.ElementType().Equals(a.Type) && !mapping.HasAnonymousSlot(m, id) {
			c.bind(id, m)
		}
	}
}

// tryQueue moves m from detached to the end of the queue when every resolved
// upstream is already queued.
func (c *Container) tryQueue(m mapping.Mapping) bool {
	bindings := make(map[mapping.AnonymousID]mapping.Mapping)
	for _, s := range m.Slots() {
		upstream := s.Upstream
		if a, ok := s.Anonymous(); ok {
			bound, ok := c.resolution(a.ID())
			if !ok {
				return false
			}
			bindings[a.ID()] = bound
			upstream = bound
		}
		k, ok := key(upstream)
		if !ok {
			return false
		}
		if _, queued := c.queue.Get(k); !queued {
			return false
		}
	}

	entry := m
	if len(bindings) > 0 {
		p, err := mapping.NewProxy(m, bindings)
		if err != nil {
			return false
		}
		entry = p
	}
	c.detached.Remove(m)
	c.queue.Put(m, entry)
	return true
}

// promote repeats passes over the detached set until no mapping moves.
func (c *Container) promote() {
	for {
		progressed := false
		for _, v := range c.detached.Values() {
			if c.tryQueue(v.(mapping.Mapping)) {
				progressed = true
			}
		}
		if !progressed {
			return
		}
	}
}
