package config

import (
	"context"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
)

// Loader is the interface for a format-specific pipeline loader.
type Loader interface {
	// Load reads every definition found under paths and translates it into
	// the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified representation of a loaded pipeline.
type Model struct {
	// Mappings are the top-level sources and transforms, in definition order.
	Mappings []mapping.Mapping
	// Components are the named groups, each registered as a unit.
	Components []mapping.Component
}

// Len returns the number of mappings in the model, including component
// members.
func (m *Model) Len() int {
	n := len(m.Mappings)
	for _, c := range m.Components {
		n += len(c.Members)
	}
	return n
}
