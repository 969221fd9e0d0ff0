// Package stream implements the replayable, multicast value streams that
// back every node of an execution graph.
//
// A Stream is cold: reading it never starts production, only Connect does,
// and Connect runs the producer at most once. Every value the producer emits
// is retained, so readers that subscribe late still observe the whole
// sequence from the beginning, followed by the terminal error if production
// failed.
package stream
