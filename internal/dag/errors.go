package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a mapping has no node in the graph.
	ErrNotFound = errors.New("dag: mapping not found in graph")
	// ErrCompile matches every *CompileError.
	ErrCompile = errors.New("dag: compile failed")
	// ErrNoEvaluator is returned when a transform is compiled without an
	// evaluator.
	ErrNoEvaluator = errors.New("dag: no evaluator configured")
	// ErrElementType is returned when an evaluator builds a stream of a
	// different element type than the mapping declares.
	ErrElementType = errors.New("dag: element type mismatch")
)

// EvaluationError is reported by evaluators for transformation bodies they
// cannot compile.
type EvaluationError struct {
	Operator string
	Reason   string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Operator, e.Reason)
}

// CompileError names the mapping whose compilation aborted graph
// construction.
type CompileError struct {
	Mapping string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Mapping, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// NodeError is the runtime failure of one node's production.
type NodeError struct {
	Mapping string
	Err     error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s failed: %v", e.Mapping, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
