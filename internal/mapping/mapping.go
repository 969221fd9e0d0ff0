// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrInvalidMapping is returned when a mapping cannot be constructed from
	// the given arguments.
	ErrInvalidMapping = errors.New("mapping: invalid mapping")
	// ErrUnresolvedSlot is returned when a proxy is requested for a mapping
	// whose anonymous slot has no binding.
	ErrUnresolvedSlot = errors.New("mapping: unresolved anonymous slot")
)

// Kind enumerates the closed set of mapping variants.
type Kind int

const (
	KindSource Kind = iota
	KindTransform
	KindAnonymous
	KindProxy
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindTransform:
		return "transform"
	case KindAnonymous:
		return "anonymous"
	case KindProxy:
		return "proxy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transformation is the opaque body of a Transform. Only the evaluator that
// compiles it knows what it contains.
type Transformation interface {
	String() string
}

// Slot binds one named input of a mapping to its upstream.
type Slot struct {
	ID       string
	Upstream Mapping
}

// Anonymous reports whether the slot's upstream is still a placeholder.
func (s Slot) Anonymous() (Anonymous, bool) {
	a, ok := s.Upstream.(Anonymous)
	return a, ok
}

// Mapping is implemented by Source, Transform, Anonymous and Proxy only.
type Mapping interface {
	Name() string
	ElementType() cty.Type
	// Transformation returns nil for mappings without a body.
	Transformation() Transformation
	// Slots returns the ordered input slots. The slice is a copy.
	Slots() []Slot
	Kind() Kind

	sealed()
}

// Identity unwraps a proxy to the mapping it forwards. Two mappings are the
// same node of a plan when their identities are equal.
func Identity(m Mapping) Mapping {
	if p, ok := m.(*Proxy); ok {
		return p.original
	}
	return m
}

// Describe renders a mapping as "kind.name" for logs and error messages.
func Describe(m Mapping) string {
	if m == nil {
		return "<nil>"
	}
	return m.Kind().String() + "." + m.Name()
}

// HasAnonymousSlot reports whether any slot of m waits on the given identity.
func HasAnonymousSlot(m Mapping, id AnonymousID) bool {
	for _, s := range m.Slots() {
		if a, ok := s.Anonymous(); ok && a.ID() == id {
			return true
		}
	}
	return false
}

func copySlots(slots []Slot) []Slot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
