// Package source defines the dataset input boundary (§6): the only
// interfaces the core engine depends on to read rows. Concrete dataset
// formats are deliberately out of core scope; memsource and boltsource
// are reference implementations layered on top of this package.
package source

import (
	"context"

	"github.com/colflowdev/colflow/graph"
)

// RowReader is a per-slot row cursor: Start binds it to a range, Read
// advances the cursor to one entry (after which every column reader
// attached to this reader observes the new row), and Finish tears it
// down at pass end.
type RowReader interface {
	Start(graph.Range) error
	Read(graph.Range, int64) error
	Finish(graph.Range) error
}

// Dataset supplies everything the dataflow graph needs to plan and run
// one pass: a partition of the row space, an optional sample-weight
// scalar, per-slot row readers, and per-slot typed column readers.
type Dataset interface {
	// Parallelize produces the partition spanning the whole dataset.
	Parallelize(ctx context.Context) (graph.Partition, error)

	// Normalize is a scalar applied to the sample weight (1.0 if the
	// dataset implementation has no normalization to offer).
	Normalize() float64

	// OpenPlayer opens a per-slot row cursor over rng.
	OpenPlayer(rng graph.Range) (RowReader, error)

	// OpenColumnReader opens a type-erased per-slot column reader for
	// name, bound to reader (the RowReader previously opened for rng via
	// OpenPlayer) so it observes that reader's row advances.
	OpenColumnReader(rng graph.Range, reader RowReader, name string) (graph.Cell, error)

	// Initialize/Finalize bracket the whole pass, once, outside the slot
	// loop (e.g. opening/closing a shared file handle).
	Initialize(ctx context.Context) error
	Finalize(ctx context.Context) error
}
