// Package lockstep implements the lockstep model (C2): every logical
// graph node is reified as N physical slot instances plus one model
// instance, and all cross-slot operations are expressed as a handful of
// primitives over that container so the slot bijection is preserved
// through compound operations.
package lockstep

import (
	"context"
	"sync"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"

	"github.com/colflowdev/colflow/cferrors"
)

// Lockstep holds one model instance plus N slot instances of the same
// logical node.
type Lockstep[T any] struct {
	model     T
	hasModel  bool
	slots     []T
}

// New creates an empty lockstep container.
func New[T any]() *Lockstep[T] { return &Lockstep[T]{} }

// SetModel installs the model replica.
func (l *Lockstep[T]) SetModel(v T) { l.model = v; l.hasModel = true }

// Model returns the model replica.
func (l *Lockstep[T]) Model() T { return l.model }

// AddSlot appends one more slot replica.
func (l *Lockstep[T]) AddSlot(v T) { l.slots = append(l.slots, v) }

// ClearSlots drops every slot replica (the model is untouched).
func (l *Lockstep[T]) ClearSlots() { l.slots = nil }

// Slot returns the i-th slot replica.
func (l *Lockstep[T]) Slot(i int) T { return l.slots[i] }

// Slots returns every slot replica, in slot order.
func (l *Lockstep[T]) Slots() []T { return l.slots }

// Concurrency is the number of slot replicas (the model doesn't count).
func (l *Lockstep[T]) Concurrency() int { return len(l.slots) }

// checkAligned enforces the slot/arg alignment invariant (§4.2): every
// lockstep container combined by the same operation must agree on
// concurrency.
func checkAligned(a, b int) error {
	if a != b {
		return cferrors.ErrSlotMismatch.New(a, b)
	}
	return nil
}

// GetConcurrentResult applies fn to the model and each slot in turn,
// producing a new lockstep container whose i-th slot is fn's output on
// the i-th input slot, and whose model is fn's output on the input
// model. This is the fundamental way new node families (e.g. a computed
// column over input columns) are created while preserving the slot
// bijection; it always runs serially (only RunSlots is parallel).
func GetConcurrentResult[T, U any](l *Lockstep[T], fn func(T) U) *Lockstep[U] {
	out := New[U]()
	if l.hasModel {
		out.SetModel(fn(l.model))
	}
	for _, s := range l.slots {
		out.AddSlot(fn(s))
	}
	return out
}

// GetConcurrentResult2 is GetConcurrentResult for a binary fn over two
// aligned lockstep containers (e.g. a computed column over two inputs).
func GetConcurrentResult2[A, B, U any](a *Lockstep[A], b *Lockstep[B], fn func(A, B) U) (*Lockstep[U], error) {
	if err := checkAligned(a.Concurrency(), b.Concurrency()); err != nil {
		return nil, err
	}
	out := New[U]()
	if a.hasModel && b.hasModel {
		out.SetModel(fn(a.model, b.model))
	}
	for i := range a.slots {
		out.AddSlot(fn(a.slots[i], b.slots[i]))
	}
	return out, nil
}

// GetModelValue calls fn on the model, asserts (via a structural hash,
// not a full per-call reflection walk) that every slot's fn output is
// equal to it, and returns the model's value. Used for read-only
// constants like names and paths that must agree across all replicas.
func GetModelValue[T, U any](l *Lockstep[T], label string, fn func(T) U) (U, error) {
	want := fn(l.model)
	wantHash, err := hashstructure.Hash(want, nil)
	if err != nil {
		var zero U
		return zero, errors.Wrapf(err, "hashing model value %q", label)
	}
	for _, s := range l.slots {
		got := fn(s)
		gotHash, err := hashstructure.Hash(got, nil)
		if err != nil {
			var zero U
			return zero, errors.Wrapf(err, "hashing slot value %q", label)
		}
		if gotHash != wantHash {
			var zero U
			return zero, cferrors.ErrModelValueMismatch.New(label)
		}
	}
	return want, nil
}

// CallAll invokes fn on every slot, and on the model if includeModel is
// set, serially, stopping at the first error.
func CallAll[T any](l *Lockstep[T], includeModel bool, fn func(T) error) error {
	if includeModel && l.hasModel {
		if err := fn(l.model); err != nil {
			return err
		}
	}
	for _, s := range l.slots {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

// RunSlots invokes fn on every slot concurrently (the model is never
// included) and joins before returning. It is the only lockstep
// operation that executes in parallel; with a single slot it runs
// in-process without spawning a goroutine.
func RunSlots[T any](ctx context.Context, l *Lockstep[T], fn func(context.Context, T) error) error {
	n := len(l.slots)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return fn(ctx, l.slots[0])
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, s := range l.slots {
		go func(i int, s T) {
			defer wg.Done()
			errs[i] = fn(ctx, s)
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
