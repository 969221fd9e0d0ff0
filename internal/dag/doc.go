// Package dag is the "Execution Layer" of the application. It takes a
// resolved registry.Container, compiles every queued mapping into a
// StreamNode, and exposes the result as an ExecutionGraph whose nodes can be
// started exactly once with Release.
//
// Compilation walks the execution queue in order, so every upstream stream
// exists before the node that reads it. Sources become streams over their
// literal values; transforms are handed to an Evaluator, the boundary to
// whatever expression language the transformation bodies are written in.
//
// Production is detached from the caller's cancellation: once released, a
// node runs until its producer finishes. Callers bound how long they wait
// with Future.Wait, not how long nodes run.
package dag
