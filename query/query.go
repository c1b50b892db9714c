// Package query implements the query node kind (C1): a stateful
// aggregator bound to exactly one selection, optionally fillable with a
// tuple of columns, and the booker/bookkeeper factories that wire queries
// to selections.
package query

import (
	"sort"

	"github.com/colflowdev/colflow/cferrors"
	"github.com/colflowdev/colflow/graph"
)

// Output defines a query's result type R: a per-slot extractor, a merge
// function combining partials from every slot, and a count hook invoked
// on every row that passes the bound selection.
type Output[R any] interface {
	Count(weight float64)
	Result() R
	Merge(partials []R) R
}

// Filler1 is implemented by an Output that additionally accumulates one
// column's value per passing row (a Fillable Query, §4.1). Fill is called
// directly on the Query's own Output instance, so independent selections
// booked from the same booker never share accumulator state.
type Filler1[A any] interface {
	Fill(a A, weight float64)
}

// Filler2 is the two-column form of Filler1.
type Filler2[A, B any] interface {
	Fill(a A, b B, weight float64)
}

// Query is a query node (C1): on each row where its selection passed, it
// fills (if fillable) and then counts the selection's current weight.
type Query[R any] struct {
	Sel    *graph.Selection
	Out    Output[R]
	fillFn func(weight float64) error
}

func (q *Query[R]) Initialize(graph.Range) error { return nil }
func (q *Query[R]) Finalize(graph.Range) error   { return nil }

func (q *Query[R]) Execute(graph.Range, int64) error {
	if !q.Sel.Passed() {
		return nil
	}
	w := q.Sel.WeightValue()
	if q.fillFn != nil {
		if err := q.fillFn(w); err != nil {
			return err
		}
	}
	q.Out.Count(w)
	return nil
}

// Result extracts this slot's (or the model's, once merged) partial or
// final result.
func (q *Query[R]) Result() R { return q.Out.Result() }

// Booker remembers a query's constructor (newOutput) and, if fillable, a
// factory binding the per-row fill closure to a freshly created Output;
// book_selection emits one concrete Query per distinct selection path,
// each with its own independent Output instance.
type Booker[R any] struct {
	newOutput func() Output[R]
	bindFill  func(out Output[R]) (func(weight float64) error, error)
	bk        *Bookkeeper[R]
}

// NewBooker creates a booker for one slot. bindFill may be nil for a
// non-fillable (count-only) query; otherwise it is invoked once per .At
// call with that selection's freshly constructed Output, and must return
// the closure that fills it on every passing row.
func NewBooker[R any](newOutput func() Output[R], bindFill func(out Output[R]) (func(weight float64) error, error)) *Booker[R] {
	return &Booker[R]{newOutput: newOutput, bindFill: bindFill, bk: NewBookkeeper[R]()}
}

// At books one query at sel, keyed by sel.Path(). Booking twice at the
// same path through the same booker is a fatal programmer error (§4.1).
func (b *Booker[R]) At(sel *graph.Selection) (*Query[R], error) {
	path := sel.Path()
	if b.bk.Has(path) {
		return nil, cferrors.ErrDuplicateSelectionPath.New(path)
	}
	out := b.newOutput()
	var fillFn func(weight float64) error
	if b.bindFill != nil {
		var err error
		fillFn, err = b.bindFill(out)
		if err != nil {
			return nil, err
		}
	}
	q := &Query[R]{Sel: sel, Out: out, fillFn: fillFn}
	b.bk.add(path, q)
	return q, nil
}

// AtMany books one query per selection and returns the accumulated
// bookkeeper (selection-path -> query handle map, §4.1).
func (b *Booker[R]) AtMany(sels ...*graph.Selection) (*Bookkeeper[R], error) {
	for _, s := range sels {
		if _, err := b.At(s); err != nil {
			return nil, err
		}
	}
	return b.bk, nil
}

// Bookkeeper returns the booker's running bookkeeper; queries booked via
// At/AtMany are reflected here immediately.
func (b *Booker[R]) Bookkeeper() *Bookkeeper[R] { return b.bk }

// Bookkeeper is a selection-path -> query handle map, with a stable
// sorted path listing for deterministic iteration/result dumping.
type Bookkeeper[R any] struct {
	byPath map[string]*Query[R]
	paths  []string
}

func NewBookkeeper[R any]() *Bookkeeper[R] {
	return &Bookkeeper[R]{byPath: make(map[string]*Query[R])}
}

func (b *Bookkeeper[R]) Has(path string) bool {
	_, ok := b.byPath[path]
	return ok
}

func (b *Bookkeeper[R]) add(path string, q *Query[R]) {
	b.byPath[path] = q
	b.paths = append(b.paths, path)
	sort.Strings(b.paths)
}

// Get looks up the query booked at path, or ErrUnknownSelectionPath.
func (b *Bookkeeper[R]) Get(path string) (*Query[R], error) {
	q, ok := b.byPath[path]
	if !ok {
		return nil, cferrors.ErrUnknownSelectionPath.New(path)
	}
	return q, nil
}

// Paths returns a sorted copy of every booked selection path.
func (b *Bookkeeper[R]) Paths() []string {
	out := make([]string, len(b.paths))
	copy(out, b.paths)
	return out
}
