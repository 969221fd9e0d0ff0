package registry

import (
	"testing"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type label string

func (l label) String() string { return string(l) }

func newSource(t *testing.T, name string, ty cty.Type) *mapping.Source {
	t.Helper()
	s, err := mapping.NewSource(name, ty)
	require.NoError(t, err)
	return s
}

func newTransform(t *testing.T, name string, ty cty.Type, slots ...mapping.Slot) *mapping.Transform {
	t.Helper()
	tr, err := mapping.NewTransform(name, ty, label(name), slots...)
	require.NoError(t, err)
	return tr
}

func slot(id string, upstream mapping.Mapping) mapping.Slot {
	return mapping.Slot{ID: id, Upstream: upstream}
}

func anon(id string, ty cty.Type) mapping.Slot {
	return mapping.Slot{ID: id, Upstream: mapping.AnonymousOf(ty)}
}

func mustAdd(t *testing.T, c *Container, ms ...mapping.Mapping) *Container {
	t.Helper()
	for _, m := range ms {
		next, err := c.Add(m)
		require.NoError(t, err, "adding %s", mapping.Describe(m))
		c = next
	}
	require.NoError(t, c.Validate())
	return c
}

// names renders mappings as their names, marking proxies with a * suffix.
func names(ms []mapping.Mapping) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		n := m.Name()
		if m.Kind() == mapping.KindProxy {
			n += "*"
		}
		out = append(out, n)
	}
	return out
}
