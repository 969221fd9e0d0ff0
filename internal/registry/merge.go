package registry

import (
	"github.com/specialistvlad/streamgridgo/internal/mapping"
)

// Merge combines two containers. The queue keeps a's order and appends the
// entries only b has queued. Conflicting anonymous bindings and placeholders
// that become ambiguous in the combined set are reported as
// *AmbiguousSourceError. A nil side yields the other.
func Merge(a, b *Container) (*Container, error) {
	switch {
	case a == nil && b == nil:
		return New(), nil
	case a == nil:
		return b, nil
	case b == nil, a == b:
		return a, nil
	}

	next := a.clone()
	next.mappings.Add(b.mappings.Values()...)

	it := b.components.Iterator()
	for it.Next() {
		if _, ok := next.components.Get(it.Key()); !ok {
			next.components.Put(it.Key(), it.Value())
		}
	}

	it = b.resolved.Iterator()
	for it.Next() {
		incoming := it.Value().(mapping.Mapping)
		existing, ok := next.resolution(it.Key().(mapping.AnonymousID))
		if !ok {
			next.resolved.Put(it.Key(), incoming)
			continue
		}
		if existing != incoming {
			return nil, &AmbiguousSourceError{
				ElementType: incoming.ElementType(),
				Candidates:  []mapping.Mapping{existing, incoming},
			}
		}
	}

	it = b.queue.Iterator()
	for it.Next() {
		if _, ok := next.queue.Get(it.Key()); !ok {
			next.queue.Put(it.Key(), it.Value())
		}
	}

	next.detached.Add(b.detached.Values()...)
	next.detached.Remove(next.queue.Keys()...)

	it = b.missing.Iterator()
	for it.Next() {
		next.missing.Put(it.Key(), it.Value())
	}
	for _, v := range next.missing.Values() {
		placeholder := v.(mapping.Anonymous)
		id := placeholder.ID()
		if _, ok := next.resolution(id); ok {
			next.missing.Remove(id)
			continue
		}
		candidates := next.candidates(placeholder)
		switch len(candidates) {
		case 0:
		case 1:
			next.bind(id, candidates[0])
		default:
			return nil, &AmbiguousSourceError{ElementType: placeholder.Type, Candidates: candidates}
		}
	}

	next.promote()
	return next, nil
}
