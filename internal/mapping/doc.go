// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package mapping defines the nodes of a streaming pipeline plan.
//
// A Mapping is a named, typed description of how one output stream is
// produced: either from a literal sequence of values (Source) or by running a
// transformation over upstream mappings (Transform). Upstreams are bound per
// input slot. A slot may point at a concrete mapping or at an Anonymous
// placeholder that only names the element type it needs; the registry later
// resolves the placeholder to whatever registered mapping produces that type
// and records the result as a Proxy, leaving the original untouched.
//
// All values in this package are immutable once constructed and are safe to
// share between goroutines.
package mapping
