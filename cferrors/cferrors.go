// Package cferrors collects the fatal, programmer-contract-violation error
// kinds raised by colflow. They identify the offending name or path in
// their message and are never recovered from by the library itself.
package cferrors

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrDuplicateSelectionPath is raised when a selection is declared
	// with a path that is already in use elsewhere in the graph.
	ErrDuplicateSelectionPath = errors.NewKind("selection path already booked: %s")

	// ErrUnknownSelectionPath is raised when a bookkeeper is indexed with
	// a path that was never booked.
	ErrUnknownSelectionPath = errors.NewKind("no query booked at selection path: %s")

	// ErrSlotMismatch is raised when two lockstep containers combined by
	// the same operation disagree on concurrency.
	ErrSlotMismatch = errors.NewKind("misaligned slot counts: %d vs %d")

	// ErrModelValueMismatch is raised when get_model_value's equality
	// assertion fails across slots for a supposedly constant value.
	ErrModelValueMismatch = errors.NewKind("model value %q is not consistent across slots")

	// ErrNotFillable is raised when a query declared with Book1/Book2 is
	// booked at a selection (At/AtMany) and its output constructor's
	// result does not implement the matching Filler1/Filler2 interface.
	ErrNotFillable = errors.NewKind("query output %T does not implement the required Filler interface")

	// ErrEmptyMerge is raised when a query's merge is attempted with zero
	// per-slot partial results.
	ErrEmptyMerge = errors.NewKind("cannot merge query %q: no slot partials available")

	// ErrNoConcurrency is raised when a dataflow's partition ends up with
	// zero slots (e.g. an empty dataset with no fallback range).
	ErrNoConcurrency = errors.NewKind("partition produced zero slots")
)
