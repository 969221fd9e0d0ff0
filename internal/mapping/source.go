// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Source is a mapping with no inputs that emits a fixed sequence of values.
type Source struct {
	name   string
	ty     cty.Type
	values []cty.Value
}

// NewSource builds a source whose values are converted to ty. A value that
// cannot be converted is an error.
func NewSource(name string, ty cty.Type, values ...cty.Value) (*Source, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: source name must not be empty", ErrInvalidMapping)
	}
	if ty == cty.NilType {
		return nil, fmt.Errorf("%w: source %q has no element type", ErrInvalidMapping, name)
	}

	converted := make([]cty.Value, 0, len(values))
	for i, v := range values {
		cv, err := convert.Convert(v, ty)
		if err != nil {
			return nil, fmt.Errorf("%w: source %q value %d: %w", ErrInvalidMapping, name, i, err)
		}
		converted = append(converted, cv)
	}

	return &Source{name: name, ty: ty, values: converted}, nil
}

// SourceOf builds a source from native Go values. The element type is implied
// from T.
func SourceOf[T any](name string, values []T) (*Source, error) {
	var zero T
	ty, err := gocty.ImpliedType(zero)
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: %w", ErrInvalidMapping, name, err)
	}

	ctyValues := make([]cty.Value, 0, len(values))
	for i, v := range values {
		cv, err := gocty.ToCtyValue(v, ty)
		if err != nil {
			return nil, fmt.Errorf("%w: source %q value %d: %w", ErrInvalidMapping, name, i, err)
		}
		ctyValues = append(ctyValues, cv)
	}
	return NewSource(name, ty, ctyValues...)
}

func (s *Source) Name() string                   { return s.name }
func (s *Source) ElementType() cty.Type          { return s.ty }
func (s *Source) Transformation() Transformation { return nil }
func (s *Source) Slots() []Slot                  { return nil }
func (s *Source) Kind() Kind                     { return KindSource }
func (s *Source) sealed()                        {}

// Values returns a copy of the literal sequence.
func (s *Source) Values() []cty.Value {
	out := make([]cty.Value, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Source) String() string { return Describe(s) }
