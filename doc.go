// Package colflow builds and concurrently executes a dataflow graph of
// column computations, selections and queries over a dataset: a
// record-at-a-time analysis engine in the style of ROOT's RDataFrame.
//
// A caller declares, on a *Dataflow, what columns to read or derive, what
// cut/weight selections partition rows into a tree of regions, and what
// queries each selection feeds. Nothing runs until a query's Result() is
// requested, at which point the graph is sharded across a configured
// number of worker slots, each slot runs the dataset once, and the
// per-slot partial results are merged into the caller-visible result.
//
// The five collaborating components are:
//
//   - graph:     the node model (columns, selections, queries) — C1
//   - lockstep:  N-slot-plus-model replication and merge primitives — C2
//   - (root):    the user-facing builder (this package) — C3
//   - process:   the per-slot row-at-a-time driver — C4
//   - variation: the systematic-variation broadcasting overlay — C5
//
// source defines the dataset/row-reader boundary; memsource and
// boltsource are reference Dataset implementations.
package colflow
