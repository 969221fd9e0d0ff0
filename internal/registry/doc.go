// Package registry holds the dependency-resolution state of a pipeline plan.
//
// A Container is a persistent value: Add, AddComponent and Merge never modify
// the receiver, they return a new Container (or the receiver itself when
// nothing changed). A failed operation leaves every existing Container as it
// was, so callers may keep using the value they had before the call.
//
// Every registered mapping is either in the execution queue, which is kept in
// topological order, or detached because one of its upstreams is not queued
// yet. Anonymous slots are resolved by element type against the registered
// mappings; a resolution is made once and never overwritten, and more than
// one candidate is reported as an ambiguity rather than guessed.
package registry
