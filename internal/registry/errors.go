package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/streamgridgo/internal/mapping"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrAmbiguousSource matches every *AmbiguousSourceError.
	ErrAmbiguousSource = errors.New("registry: ambiguous source")
	// ErrNotRegistrable is returned when a placeholder or proxy is added
	// directly.
	ErrNotRegistrable = errors.New("registry: mapping cannot be registered directly")
	// ErrInvariant is returned by Validate.
	ErrInvariant = errors.New("registry: invariant violated")
)

// AmbiguousSourceError reports that more than one registered mapping could
// satisfy an anonymous slot of the given element type.
type AmbiguousSourceError struct {
	ElementType cty.Type
	Candidates  []mapping.Mapping
}

func (e *AmbiguousSourceError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, mapping.Describe(c))
	}
	return fmt.Sprintf("%s for element type %s: candidates %s",
		ErrAmbiguousSource, e.ElementType.FriendlyName(), strings.Join(names, ", "))
}

func (e *AmbiguousSourceError) Is(target error) bool {
	return target == ErrAmbiguousSource
}
