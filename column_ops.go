package colflow

import (
	"github.com/pkg/errors"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/lockstep"
	"github.com/colflowdev/colflow/source"
	"github.com/colflowdev/colflow/variation"
)

// LazyColumn is a handle to a column node (reader, constant, or computed)
// that has been fully specified but whose dataset pass hasn't necessarily
// run yet. It carries one graph.Column[T] replica per slot.
type LazyColumn[T any] struct {
	df   *Dataflow
	cols *lockstep.Lockstep[graph.Column[T]]
}

// Vary wraps l as a Varied handle whose nominal is l and whose named
// variation is alt — the entry point into the C5 broadcasting overlay
// (§4.5). Unlike the C++ source, the alternate node is not derived
// automatically by kind-dispatch; the caller builds it with the same
// Read/Constant/Define entry points and passes it in explicitly.
func (l *LazyColumn[T]) Vary(name string, alt *LazyColumn[T]) variation.Varied[*LazyColumn[T]] {
	return variation.New(l).Vary(name, alt)
}

// Read installs a per-slot reader column bound to name into every slot's
// processor.
func Read[T any](df *Dataflow, name string) (*LazyColumn[T], error) {
	ls := lockstep.New[graph.Column[T]]()
	nodes := make([]graph.Node, 0, df.Concurrency())
	for i, rng := range df.partition {
		cell, err := df.dataset.OpenColumnReader(rng, df.readers[i], name)
		if err != nil {
			return nil, errors.Wrapf(err, "opening column reader %q for %s", name, rng)
		}
		col := &graph.TypedCell[T]{Raw: cell, Convert: source.Cast[T]}
		ls.AddSlot(col)
		nodes = append(nodes, col)
	}
	df.scheduleColumn(nodes)
	return &LazyColumn[T]{df: df, cols: ls}, nil
}

// Constant installs a fixed-value column, independent of row, into every
// slot.
func Constant[T any](df *Dataflow, v T) *LazyColumn[T] {
	ls := lockstep.New[graph.Column[T]]()
	nodes := make([]graph.Node, 0, df.Concurrency())
	for range df.partition {
		c := graph.NewConstant(v)
		ls.AddSlot(c)
		nodes = append(nodes, c)
	}
	df.scheduleColumn(nodes)
	return &LazyColumn[T]{df: df, cols: ls}
}

// DelayedColumn1 is a deferred column factory (the column evaluator, C1)
// awaiting one input column before it can emit a concrete Lazy column.
type DelayedColumn1[A, R any] struct {
	df *Dataflow
	fn func(A) (R, error)
}

// Define1 declares how to compute a column from one upstream column,
// before the actual input is named.
func Define1[A, R any](df *Dataflow, fn func(A) R) *DelayedColumn1[A, R] {
	return &DelayedColumn1[A, R]{df: df, fn: func(a A) (R, error) { return fn(a), nil }}
}

// Evaluate binds the evaluator to an input column, emitting a Lazy
// computed column: one graph.Computed per slot, built via
// lockstep.GetConcurrentResult so the slot bijection between input and
// output is preserved (§4.2's central node-family-construction primitive).
func (d *DelayedColumn1[A, R]) Evaluate(a *LazyColumn[A]) *LazyColumn[R] {
	ls := lockstep.GetConcurrentResult(a.cols, func(ac graph.Column[A]) graph.Column[R] {
		return graph.NewComputed(func() (R, error) { return d.fn(ac.Value()) })
	})
	nodes := make([]graph.Node, 0, ls.Concurrency())
	for _, c := range ls.Slots() {
		nodes = append(nodes, c)
	}
	d.df.scheduleColumn(nodes)
	return &LazyColumn[R]{df: d.df, cols: ls}
}

// DelayedColumn2 is the two-input form of DelayedColumn1.
type DelayedColumn2[A, B, R any] struct {
	df *Dataflow
	fn func(A, B) (R, error)
}

// Define2 declares how to compute a column from two upstream columns.
func Define2[A, B, R any](df *Dataflow, fn func(A, B) R) *DelayedColumn2[A, B, R] {
	return &DelayedColumn2[A, B, R]{df: df, fn: func(a A, b B) (R, error) { return fn(a, b), nil }}
}

// Evaluate binds the evaluator to two input columns.
func (d *DelayedColumn2[A, B, R]) Evaluate(a *LazyColumn[A], b *LazyColumn[B]) (*LazyColumn[R], error) {
	ls, err := lockstep.GetConcurrentResult2(a.cols, b.cols, func(ac graph.Column[A], bc graph.Column[B]) graph.Column[R] {
		return graph.NewComputed(func() (R, error) { return d.fn(ac.Value(), bc.Value()) })
	})
	if err != nil {
		return nil, err
	}
	nodes := make([]graph.Node, 0, ls.Concurrency())
	for _, c := range ls.Slots() {
		nodes = append(nodes, c)
	}
	d.df.scheduleColumn(nodes)
	return &LazyColumn[R]{df: d.df, cols: ls}, nil
}
