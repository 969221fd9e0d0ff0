// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Transform produces its stream by evaluating body over the streams of its
// slots, in slot order.
type Transform struct {
	name  string
	ty    cty.Type
	body  Transformation
	slots []Slot
}

// NewTransform validates and builds a transform. Slot IDs must be unique and
// every upstream must be a Source, a Transform or an Anonymous placeholder.
func NewTransform(name string, ty cty.Type, body Transformation, slots ...Slot) (*Transform, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: transform name must not be empty", ErrInvalidMapping)
	}
	if ty == cty.NilType {
		return nil, fmt.Errorf("%w: transform %q has no element type", ErrInvalidMapping, name)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: transform %q has no transformation", ErrInvalidMapping, name)
	}

	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: transform %q has a slot without an id", ErrInvalidMapping, name)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: transform %q declares slot %q twice", ErrInvalidMapping, name, s.ID)
		}
		seen[s.ID] = struct{}{}

		switch s.Upstream.(type) {
		case *Source, *Transform, Anonymous:
		case nil:
			return nil, fmt.Errorf("%w: transform %q slot %q has no upstream", ErrInvalidMapping, name, s.ID)
		default:
			return nil, fmt.Errorf("%w: transform %q slot %q cannot bind a %s", ErrInvalidMapping, name, s.ID, s.Upstream.Kind())
		}
	}

	return &Transform{name: name, ty: ty, body: body, slots: copySlots(slots)}, nil
}

func (t *Transform) Name() string                   { return t.name }
func (t *Transform) ElementType() cty.Type          { return t.ty }
func (t *Transform) Transformation() Transformation { return t.body }
func (t *Transform) Slots() []Slot                  { return copySlots(t.slots) }
func (t *Transform) Kind() Kind                     { return KindTransform }
func (t *Transform) sealed()                        {}

func (t *Transform) String() string { return Describe(t) }
