package registry

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/specialistvlad/streamgridgo/internal/mapping"
)

// Container is an immutable snapshot of registered mappings and their
// resolution state. The zero value is not usable; start from New.
type Container struct {
	// mappings holds every registered Source and Transform in insertion order.
	mappings *linkedhashset.Set
	// components maps a component name to its mapping.Component.
	components *linkedhashmap.Map
	// queue maps a mapping's identity to its queue entry, which is either the
	// mapping itself or a *mapping.Proxy carrying resolved slots. Key order is
	// the execution order.
	queue *linkedhashmap.Map
	// detached holds registered mappings that are not queued yet.
	detached *linkedhashset.Set
	// resolved maps a mapping.AnonymousID to the mapping chosen for it.
	resolved *linkedhashmap.Map
	// missing maps a mapping.AnonymousID with no candidate yet to its
	// mapping.Anonymous placeholder.
	missing *linkedhashmap.Map
}

// New returns an empty container.
func New() *Container {
	return &Container{
		mappings:   linkedhashset.New(),
		components: linkedhashmap.New(),
		queue:      linkedhashmap.New(),
		detached:   linkedhashset.New(),
		resolved:   linkedhashmap.New(),
		missing:    linkedhashmap.New(),
	}
}

// clone returns a private copy that can be modified without affecting c.
func (c *Container) clone() *Container {
	next := New()
	next.mappings.Add(c.mappings.Values()...)
	next.detached.Add(c.detached.Values()...)
	copyMap(next.components, c.components)
	copyMap(next.queue, c.queue)
	copyMap(next.resolved, c.resolved)
	copyMap(next.missing, c.missing)
	return next
}

func copyMap(dst, src *linkedhashmap.Map) {
	it := src.Iterator()
	for it.Next() {
		dst.Put(it.Key(), it.Value())
	}
}

// key returns the registry key of m, or false when m can never be
// registered. Anonymous placeholders are never keys.
func key(m mapping.Mapping) (mapping.Mapping, bool) {
	switch v := mapping.Identity(m).(type) {
	case *mapping.Source:
		return v, true
	case *mapping.Transform:
		return v, true
	default:
		return nil, false
	}
}

// Len returns the number of registered mappings.
func (c *Container) Len() int { return c.mappings.Size() }

// Mappings returns every registered mapping in registration order.
func (c *Container) Mappings() []mapping.Mapping {
	return toMappings(c.mappings.Values())
}

// Components returns the registered components in registration order.
func (c *Container) Components() []mapping.Component {
	out := make([]mapping.Component, 0, c.components.Size())
	for _, v := range c.components.Values() {
		out = append(out, v.(mapping.Component))
	}
	return out
}

// ExecutionQueue returns the queue entries in topological order. Entries for
// mappings with anonymous slots are proxies.
func (c *Container) ExecutionQueue() []mapping.Mapping {
	return toMappings(c.queue.Values())
}

// Detached returns the registered mappings that are not schedulable yet.
func (c *Container) Detached() []mapping.Mapping {
	return toMappings(c.detached.Values())
}

// Entry returns the queue entry of m, which may be a proxy.
func (c *Container) Entry(m mapping.Mapping) (mapping.Mapping, bool) {
	k, ok := key(m)
	if !ok {
		return nil, false
	}
	v, ok := c.queue.Get(k)
	if !ok {
		return nil, false
	}
	return v.(mapping.Mapping), true
}

// Contains reports whether m (or the mapping a proxy forwards) is registered.
func (c *Container) Contains(m mapping.Mapping) bool {
	k, ok := key(m)
	return ok && c.mappings.Contains(k)
}

// Queued reports whether m is in the execution queue.
func (c *Container) Queued(m mapping.Mapping) bool {
	_, ok := c.Entry(m)
	return ok
}

// IsDetached reports whether m is registered but not yet schedulable.
func (c *Container) IsDetached(m mapping.Mapping) bool {
	k, ok := key(m)
	return ok && c.detached.Contains(k)
}

// Satisfied reports whether every registered mapping is queued.
func (c *Container) Satisfied() bool { return c.detached.Empty() }

// Resolution returns the mapping bound to the placeholder, if any.
func (c *Container) Resolution(a mapping.Anonymous) (mapping.Mapping, bool) {
	return c.resolution(a.ID())
}

func (c *Container) resolution(id mapping.AnonymousID) (mapping.Mapping, bool) {
	v, ok := c.resolved.Get(id)
	if !ok {
		return nil, false
	}
	return v.(mapping.Mapping), true
}

// Resolutions returns a copy of every anonymous binding.
func (c *Container) Resolutions() map[mapping.AnonymousID]mapping.Mapping {
	out := make(map[mapping.AnonymousID]mapping.Mapping, c.resolved.Size())
	it := c.resolved.Iterator()
	for it.Next() {
		out[it.Key().(mapping.AnonymousID)] = it.Value().(mapping.Mapping)
	}
	return out
}

// Missing returns the placeholders that have no candidate yet.
func (c *Container) Missing() []mapping.Anonymous {
	out := make([]mapping.Anonymous, 0, c.missing.Size())
	for _, v := range c.missing.Values() {
		out = append(out, v.(mapping.Anonymous))
	}
	return out
}

func toMappings(values []interface{}) []mapping.Mapping {
	out := make([]mapping.Mapping, 0, len(values))
	for _, v := range values {
		out = append(out, v.(mapping.Mapping))
	}
	return out
}
