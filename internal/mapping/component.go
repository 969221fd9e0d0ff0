// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package mapping

import "fmt"

// Component is a named group of mappings that is registered as a unit.
type Component struct {
	Name    string
	Members []Mapping
}

// NewComponent builds a component. Members are kept in the given order.
func NewComponent(name string, members ...Mapping) (Component, error) {
	if name == "" {
		return Component{}, fmt.Errorf("%w: component name must not be empty", ErrInvalidMapping)
	}
	for i, m := range members {
		if m == nil {
			return Component{}, fmt.Errorf("%w: component %q member %d is nil", ErrInvalidMapping, name, i)
		}
	}
	out := make([]Mapping, len(members))
	copy(out, members)
	return Component{Name: name, Members: out}, nil
}
