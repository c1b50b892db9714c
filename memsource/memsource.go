// Package memsource is a reference source.Dataset: a columnar, in-memory
// table backed by typed Go slices. It exists for tests and for callers
// prototyping a dataflow graph before wiring a real dataset (e.g.
// boltsource, or a caller's own format).
package memsource

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/source"
)

// Dataset is a columnar, slice-backed source.Dataset. Every column must
// have the same length; that length is the dataset's row count.
type Dataset struct {
	Columns    map[string]Column
	Weight     float64
	NumSlots   int
	rowCount   int64
}

// Column is the type-erased, per-name slice a Dataset column is built
// from. At lives purely for the sake of this reference implementation,
// in place of a real storage engine's row-group/page layout.
type Column interface {
	Len() int
	At(i int64) any
}

// Float64Column, Int64Column, StringColumn and BoolColumn are the closed
// set of concrete column kinds memsource supports, one per Go primitive
// the engine commonly reads.
type Float64Column []float64
type Int64Column []int64
type StringColumn []string
type BoolColumn []bool

func (c Float64Column) Len() int      { return len(c) }
func (c Float64Column) At(i int64) any { return c[i] }
func (c Int64Column) Len() int        { return len(c) }
func (c Int64Column) At(i int64) any  { return c[i] }
func (c StringColumn) Len() int       { return len(c) }
func (c StringColumn) At(i int64) any { return c[i] }
func (c BoolColumn) Len() int         { return len(c) }
func (c BoolColumn) At(i int64) any   { return c[i] }

// New builds a Dataset from named columns, all of which must share the
// same length, and a slot count to partition into (clamped up to 1).
func New(columns map[string]Column, slots int) (*Dataset, error) {
	if slots < 1 {
		slots = 1
	}
	var rows int64 = -1
	for name, col := range columns {
		n := int64(col.Len())
		if rows == -1 {
			rows = n
			continue
		}
		if n != rows {
			return nil, errors.Errorf("memsource: column %q has %d rows, want %d", name, n, rows)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &Dataset{Columns: columns, NumSlots: slots, rowCount: rows}, nil
}

// Parallelize splits [0, rowCount) into NumSlots contiguous ranges.
func (d *Dataset) Parallelize(ctx context.Context) (graph.Partition, error) {
	if d.rowCount == 0 {
		return graph.Partition{}, nil
	}
	whole := graph.Partition{{Slot: 0, Begin: 0, End: d.rowCount}}
	return whole.Merge(d.NumSlots), nil
}

// Normalize reports the dataset's sample-weight scalar (1.0, the
// identity, unless the caller set Weight).
func (d *Dataset) Normalize() float64 {
	if d.Weight == 0 {
		return 1
	}
	return d.Weight
}

// Initialize and Finalize bracket the whole pass; memsource needs no
// shared setup/teardown, so both are no-ops.
func (d *Dataset) Initialize(ctx context.Context) error { return nil }
func (d *Dataset) Finalize(ctx context.Context) error   { return nil }

// rowCursor is the RowReader memsource hands out: it tracks the current
// entry index and nothing else, since every column reads directly out of
// its backing slice at that index.
type rowCursor struct {
	current int64
}

func (c *rowCursor) Start(graph.Range) error { return nil }

func (c *rowCursor) Read(rng graph.Range, entry int64) error {
	c.current = entry
	return nil
}

func (c *rowCursor) Finish(graph.Range) error { return nil }

// OpenPlayer opens a per-slot row cursor over rng.
func (d *Dataset) OpenPlayer(rng graph.Range) (source.RowReader, error) {
	return &rowCursor{}, nil
}

// columnCell adapts a named Column, read through a shared rowCursor, into
// a graph.Cell: Value() always reflects the cursor's current entry.
type columnCell struct {
	graph.NoopNode
	col    Column
	cursor *rowCursor
}

func (c *columnCell) Execute(graph.Range, int64) error { return nil }
func (c *columnCell) Value() any                       { return c.col.At(c.cursor.current) }

// OpenColumnReader opens a type-erased reader for name bound to reader
// (the RowReader this rng's OpenPlayer returned), so it observes that
// cursor's row advances.
func (d *Dataset) OpenColumnReader(rng graph.Range, reader source.RowReader, name string) (graph.Cell, error) {
	col, ok := d.Columns[name]
	if !ok {
		return nil, fmt.Errorf("memsource: no such column %q", name)
	}
	cursor, ok := reader.(*rowCursor)
	if !ok {
		return nil, errors.Errorf("memsource: reader for %s is not a memsource cursor", rng)
	}
	return &columnCell{col: col, cursor: cursor}, nil
}
