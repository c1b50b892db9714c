package colflow

import (
	"context"
	"sort"

	"github.com/colflowdev/colflow/cferrors"
	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/lockstep"
	"github.com/colflowdev/colflow/query"
)

// LazyQuery is a handle to a query node booked at exactly one selection.
// Result() is the lazy-evaluation trigger (§4.3 point 4): it forces
// Analyze() if a pass is outstanding, then merges every slot's partial.
type LazyQuery[R any] struct {
	df   *Dataflow
	qs   *lockstep.Lockstep[*query.Query[R]]
	path string
}

// Path is the selection path this query is booked at.
func (l *LazyQuery[R]) Path() string { return l.path }

// Result runs (at most) one dataset pass and merges every slot's partial
// result into the single caller-visible result (testable properties 1, 6
// and 9).
func (l *LazyQuery[R]) Result(ctx context.Context) (R, error) {
	var zero R
	if err := l.df.Analyze(ctx); err != nil {
		return zero, err
	}
	slots := l.qs.Slots()
	if len(slots) == 0 {
		return zero, cferrors.ErrEmptyMerge.New(l.path)
	}
	partials := make([]R, 0, len(slots))
	for _, q := range slots {
		partials = append(partials, q.Result())
	}
	return slots[0].Out.Merge(partials), nil
}

// DelayedBooker is a pending query: it remembers the result constructor
// and (if any) the fill-column binding for one slot each, and emits one
// concrete Query per selection it is applied .At.
type DelayedBooker[R any] struct {
	df      *Dataflow
	bookers *lockstep.Lockstep[*query.Booker[R]]
}

// Book0 declares a non-fillable (count-only) query, e.g. a row counter.
func Book0[R any](df *Dataflow, newOutput func() query.Output[R]) *DelayedBooker[R] {
	ls := lockstep.New[*query.Booker[R]]()
	for range df.partition {
		ls.AddSlot(query.NewBooker(newOutput, nil))
	}
	return &DelayedBooker[R]{df: df, bookers: ls}
}

// Book1 declares a query fillable with one column's current value.
// newOutput must return a value also implementing query.Filler1[A]: Fill
// is called directly on each selection's own Output instance, so
// selections booked from the same booker accumulate independently
// (§4.1's "Fillable Query").
func Book1[A, R any](df *Dataflow, newOutput func() query.Output[R], a *LazyColumn[A]) *DelayedBooker[R] {
	ls := lockstep.New[*query.Booker[R]]()
	aSlots := a.cols.Slots()
	for slot := range df.partition {
		ac := aSlots[slot]
		ls.AddSlot(query.NewBooker(newOutput, func(out query.Output[R]) (func(weight float64) error, error) {
			filler, ok := out.(query.Filler1[A])
			if !ok {
				return nil, cferrors.ErrNotFillable.New(out)
			}
			return func(w float64) error {
				filler.Fill(ac.Value(), w)
				return nil
			}, nil
		}))
	}
	return &DelayedBooker[R]{df: df, bookers: ls}
}

// Book2 declares a query fillable with two columns' current values.
// newOutput must return a value also implementing query.Filler2[A, B].
func Book2[A, B, R any](df *Dataflow, newOutput func() query.Output[R], a *LazyColumn[A], b *LazyColumn[B]) *DelayedBooker[R] {
	ls := lockstep.New[*query.Booker[R]]()
	aSlots, bSlots := a.cols.Slots(), b.cols.Slots()
	for slot := range df.partition {
		ac, bc := aSlots[slot], bSlots[slot]
		ls.AddSlot(query.NewBooker(newOutput, func(out query.Output[R]) (func(weight float64) error, error) {
			filler, ok := out.(query.Filler2[A, B])
			if !ok {
				return nil, cferrors.ErrNotFillable.New(out)
			}
			return func(w float64) error {
				filler.Fill(ac.Value(), bc.Value(), w)
				return nil
			}, nil
		}))
	}
	return &DelayedBooker[R]{df: df, bookers: ls}
}

// At books this query at sel, emitting a Lazy query handle.
func (d *DelayedBooker[R]) At(sel *LazySelection) (*LazyQuery[R], error) {
	ls := lockstep.New[*query.Query[R]]()
	bSlots := d.bookers.Slots()
	selSlots := sel.sels.Slots()
	for slot := range d.df.partition {
		q, err := bSlots[slot].At(selSlots[slot])
		if err != nil {
			return nil, err
		}
		ls.AddSlot(q)
	}
	nodes := make([]graph.Node, 0, ls.Concurrency())
	for _, q := range ls.Slots() {
		nodes = append(nodes, q)
	}
	d.df.scheduleQuery(nodes)
	return &LazyQuery[R]{df: d.df, qs: ls, path: sel.Path()}, nil
}

// LazyBookkeeper is the emitted form of book(...).at(sel1, sel2, ...): a
// selection-path -> Lazy query map with deterministic iteration order.
type LazyBookkeeper[R any] struct {
	byPath map[string]*LazyQuery[R]
	paths  []string
}

// AtMany books one query per selection and returns the bookkeeper.
func (d *DelayedBooker[R]) AtMany(sels ...*LazySelection) (*LazyBookkeeper[R], error) {
	bk := &LazyBookkeeper[R]{byPath: make(map[string]*LazyQuery[R])}
	for _, sel := range sels {
		lq, err := d.At(sel)
		if err != nil {
			return nil, err
		}
		bk.byPath[lq.Path()] = lq
		bk.paths = append(bk.paths, lq.Path())
	}
	sort.Strings(bk.paths)
	return bk, nil
}

// At looks up the query booked at path.
func (b *LazyBookkeeper[R]) At(path string) (*LazyQuery[R], error) {
	q, ok := b.byPath[path]
	if !ok {
		return nil, cferrors.ErrUnknownSelectionPath.New(path)
	}
	return q, nil
}

// Paths returns every booked selection path, sorted.
func (b *LazyBookkeeper[R]) Paths() []string {
	out := make([]string, len(b.paths))
	copy(out, b.paths)
	return out
}
