// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import (
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/zclconf/go-cty/cty"
)

// AnonymousID is the comparable identity of an anonymous placeholder. Two
// placeholders for the same element type share an ID.
type AnonymousID string

// IDOf returns the identity of placeholders for ty.
func IDOf(ty cty.Type) AnonymousID {
	b, err := ctyjson.MarshalType(ty)
	if err != nil {
		// Capsule types have no JSON form.
		return AnonymousID(ty.GoString())
	}
	return AnonymousID(b)
}

// Anonymous stands in for an upstream that is only known by its element type.
// It is never registered on its own.
type Anonymous struct {
	Type cty.Type
}

// AnonymousOf is shorthand for Anonymous{Type: ty}.
func AnonymousOf(ty cty.Type) Anonymous {
	return Anonymous{Type: ty}
}

// ID returns the placeholder identity. Use it instead of == since cty.Type
// values are not always comparable.
func (a Anonymous) ID() AnonymousID { return IDOf(a.Type) }

func (a Anonymous) Name() string                   { return a.Type.FriendlyName() }
func (a Anonymous) ElementType() cty.Type          { return a.Type }
func (a Anonymous) Transformation() Transformation { return nil }
func (a Anonymous) Slots() []Slot                  { return nil }
func (a Anonymous) Kind() Kind                     { return KindAnonymous }
func (a Anonymous) sealed()                        {}

func (a Anonymous) String() string { return Describe(a) }
