package colflow

import (
	"github.com/colflowdev/colflow/query"
	"github.com/colflowdev/colflow/variation"
)

// DefineVaried1 broadcasts a one-input column evaluator across every
// universe of a varied input column (§4.5): variation.Broadcast1 applies
// d.Evaluate — which cannot fail, there being no cross-container
// alignment to check for a single input — to the nominal and every named
// alternate.
func DefineVaried1[A, R any](d *DelayedColumn1[A, R], a variation.Varied[*LazyColumn[A]]) variation.Varied[*LazyColumn[R]] {
	return variation.Broadcast1(a, d.Evaluate)
}

// DefineVaried2 broadcasts a two-input column evaluator across the union
// of both inputs' variation names (§4.5, testable property 8).
func DefineVaried2[A, B, R any](d *DelayedColumn2[A, B, R], a variation.Varied[*LazyColumn[A]], b variation.Varied[*LazyColumn[B]]) variation.Varied[*LazyColumn[R]] {
	return variation.Broadcast2(a, b, func(ac *LazyColumn[A], bc *LazyColumn[B]) *LazyColumn[R] {
		out, err := d.Evaluate(ac, bc)
		if err != nil {
			// Two inputs from the same dataflow always share a
			// partition; a mismatch here is an internal invariant
			// violation, not a user-recoverable error.
			panic(err)
		}
		return out
	})
}

// FilterVaried1 broadcasts a Cut/Weight applicator across every universe
// of a varied input column (§4.5): the nominal selection is built from
// the input's nominal, and for every variation name the input carries, a
// sibling selection (same path, different universe) is built from that
// variation's column.
func FilterVaried1[A any](d *DelayedSelection1[A], a variation.Varied[*LazyColumn[A]]) (variation.Varied[*LazySelection], error) {
	nominal, err := d.applyTagged("", a.Nominal)
	if err != nil {
		return variation.Varied[*LazySelection]{}, err
	}
	out := variation.New(nominal)
	for _, name := range a.Names() {
		alt, err := d.applyTagged(name, a.Get(name))
		if err != nil {
			return variation.Varied[*LazySelection]{}, err
		}
		out = out.Vary(name, alt)
	}
	return out, nil
}

// BookVariedAt1 broadcasts a fillable query across every universe of a
// varied selection (§4.5, S6): each universe gets its own booker/query
// pair (a fresh Booker per universe, exactly as the C++ source's Varied
// wrapper holds independent clones per variation), all filled from the
// same (non-varied) column.
func BookVariedAt1[A, R any](df *Dataflow, newOutput func() query.Output[R], fillCol *LazyColumn[A], sels variation.Varied[*LazySelection]) (variation.Varied[*LazyQuery[R]], error) {
	nomQ, err := Book1(df, newOutput, fillCol).At(sels.Nominal)
	if err != nil {
		return variation.Varied[*LazyQuery[R]]{}, err
	}
	out := variation.New(nomQ)
	for _, name := range sels.Names() {
		q, err := Book1(df, newOutput, fillCol).At(sels.Get(name))
		if err != nil {
			return variation.Varied[*LazyQuery[R]]{}, err
		}
		out = out.Vary(name, q)
	}
	return out, nil
}

// BookVariedFill1 is BookVariedAt1's mirror image (§4.5, S4): the
// selection is fixed and the fill column varies. Each universe again
// gets its own fresh Booker/Query pair, filled from that universe's own
// column.
func BookVariedFill1[A, R any](df *Dataflow, newOutput func() query.Output[R], fillCol variation.Varied[*LazyColumn[A]], sel *LazySelection) (variation.Varied[*LazyQuery[R]], error) {
	nomQ, err := Book1(df, newOutput, fillCol.Nominal).At(sel)
	if err != nil {
		return variation.Varied[*LazyQuery[R]]{}, err
	}
	out := variation.New(nomQ)
	for _, name := range fillCol.Names() {
		q, err := Book1(df, newOutput, fillCol.Get(name)).At(sel)
		if err != nil {
			return variation.Varied[*LazyQuery[R]]{}, err
		}
		out = out.Vary(name, q)
	}
	return out, nil
}
