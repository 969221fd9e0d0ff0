// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Proxy forwards an original mapping but replaces its anonymous slots with
// the concrete upstreams they were resolved to.
type Proxy struct {
	original Mapping
	slots    []Slot
}

// NewProxy substitutes every anonymous slot of original using bindings. Each
// anonymous slot must be bound, and the bound mapping must produce the
// placeholder's element type.
func NewProxy(original Mapping, bindings map[AnonymousID]Mapping) (*Proxy, error) {
	original = Identity(original)
	if original == nil {
		return nil, fmt.Errorf("%w: proxy needs an original mapping", ErrInvalidMapping)
	}

	slots := original.Slots()
	for i, s := range slots {
		a, ok := s.Anonymous()
		if !ok {
			continue
		}
		bound, ok := bindings[a.ID()]
		if !ok || bound == nil {
			return nil, fmt.Errorf("%w: %s slot %q needs %s", ErrUnresolvedSlot, Describe(original), s.ID, a.Type.FriendlyName())
		}
		bound = Identity(bound)
		if !bound.ElementType().Equals(a.Type) {
			return nil, fmt.Errorf("%w: %s slot %q needs %s, %s produces %s", ErrInvalidMapping,
				Describe(original), s.ID, a.Type.FriendlyName(), Describe(bound), bound.ElementType().FriendlyName())
		}
		slots[i].Upstream = bound
	}

	return &Proxy{original: original, slots: slots}, nil
}

// Original returns the mapping this proxy forwards.
func (p *Proxy) Original() Mapping { return p.original }

func (p *Proxy) Name() string                   { return p.original.Name() }
func (p *Proxy) ElementType() cty.Type          { return p.original.ElementType() }
func (p *Proxy) Transformation() Transformation { return p.original.Transformation() }
func (p *Proxy) Slots() []Slot                  { return copySlots(p.slots) }
func (p *Proxy) Kind() Kind                     { return KindProxy }
func (p *Proxy) sealed()                        {}

func (p *Proxy) String() string { return "proxy(" + Describe(p.original) + ")" }
