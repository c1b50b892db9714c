package colflow

import (
	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/lockstep"
)

// LazySelection is a handle to a selection node (cut or weight) that has
// been fully specified. Its Path is computed once at construction time
// since the parent/channel topology — unlike the per-row decision — is
// identical across every slot.
type LazySelection struct {
	df   *Dataflow
	sels *lockstep.Lockstep[*graph.Selection]
	path string
}

// Path is this selection's /-joined channel path (§4.3).
func (l *LazySelection) Path() string { return l.path }

func (df *Dataflow) slotParent(parent *LazySelection, slot int) *graph.Selection {
	if parent == nil {
		return nil
	}
	return parent.sels.Slot(slot)
}

// finishSelectionTagged wires a freshly-built per-slot lockstep of
// *graph.Selection into the dataflow: it schedules the nodes, registers
// the path (unique within tag's universe — tag "" is nominal, anything
// else is a named variation sharing the same structural path by design,
// see variation_ops.go), and cross-checks that every slot computed the
// same path via lockstep.GetModelValue, directly exercising that C2
// primitive for a read-only, structurally-constant value.
func (df *Dataflow) finishSelectionTagged(ls *lockstep.Lockstep[*graph.Selection], tag string) (*LazySelection, error) {
	ls.SetModel(ls.Slot(0))
	path, err := lockstep.GetModelValue(ls, "selection.path", func(s *graph.Selection) string {
		return s.Path()
	})
	if err != nil {
		return nil, err
	}
	key := path
	if tag != "" {
		key = path + "\x00" + tag
	}
	if err := df.registerSelectionPath(key); err != nil {
		return nil, err
	}

	nodes := make([]graph.Node, 0, ls.Concurrency())
	for _, s := range ls.Slots() {
		nodes = append(nodes, s)
	}
	df.scheduleSelection(nodes)

	return &LazySelection{df: df, sels: ls, path: path}, nil
}

// DelayedSelection0 is a selection applicator awaiting no input columns
// (e.g. a constant root selection).
type DelayedSelection0 struct {
	df      *Dataflow
	kind    graph.Kind
	channel bool
	name    string
	parent  *LazySelection
	expr    func() float64
}

// Filter0 declares a cut/weight selection whose self-expression takes no
// input columns.
func Filter0(df *Dataflow, kind graph.Kind, name string, parent *LazySelection, expr func() float64) *DelayedSelection0 {
	return &DelayedSelection0{df: df, kind: kind, name: name, parent: parent, expr: expr}
}

// Channel0 is Filter0 additionally marking the selection as a channel,
// so its name contributes a path component to its descendants.
func Channel0(df *Dataflow, kind graph.Kind, name string, parent *LazySelection, expr func() float64) *DelayedSelection0 {
	d := Filter0(df, kind, name, parent, expr)
	d.channel = true
	return d
}

// Apply emits the Lazy selection.
func (d *DelayedSelection0) Apply() (*LazySelection, error) {
	ls := lockstep.New[*graph.Selection]()
	for slot := range d.df.partition {
		parent := d.df.slotParent(d.parent, slot)
		ls.AddSlot(graph.NewSelection(d.name, d.kind, d.channel, parent, func() (float64, error) {
			return d.expr(), nil
		}))
	}
	return d.df.finishSelectionTagged(ls, "")
}

// DelayedSelection1 is a selection applicator awaiting one input column.
type DelayedSelection1[A any] struct {
	df      *Dataflow
	kind    graph.Kind
	channel bool
	name    string
	parent  *LazySelection
	expr    func(A) float64
}

// Filter1 declares a cut/weight selection whose self-expression reads one
// upstream column.
func Filter1[A any](df *Dataflow, kind graph.Kind, name string, parent *LazySelection, expr func(A) float64) *DelayedSelection1[A] {
	return &DelayedSelection1[A]{df: df, kind: kind, name: name, parent: parent, expr: expr}
}

// Channel1 is Filter1, additionally marking the selection as a channel.
func Channel1[A any](df *Dataflow, kind graph.Kind, name string, parent *LazySelection, expr func(A) float64) *DelayedSelection1[A] {
	d := Filter1(df, kind, name, parent, expr)
	d.channel = true
	return d
}

// applyTagged is the variation-aware form used directly by Apply (tag "")
// and by FilterVaried1 (one call per universe, see variation_ops.go). Tag
// "" is the nominal universe; any other tag is a named variation. Nominal
// and named siblings of the same logical selection intentionally share a
// Path() — they are alternate universes of one selection, not distinct
// selections — so the global uniqueness registry is keyed on (path, tag),
// not on path alone.
func (d *DelayedSelection1[A]) applyTagged(tag string, a *LazyColumn[A]) (*LazySelection, error) {
	ls := lockstep.New[*graph.Selection]()
	aSlots := a.cols.Slots()
	for slot := range d.df.partition {
		parent := d.df.slotParent(d.parent, slot)
		ac := aSlots[slot]
		ls.AddSlot(graph.NewSelection(d.name, d.kind, d.channel, parent, func() (float64, error) {
			return d.expr(ac.Value()), nil
		}))
	}
	return d.df.finishSelectionTagged(ls, tag)
}

// Apply binds the applicator to its input column, emitting the nominal
// Lazy selection.
func (d *DelayedSelection1[A]) Apply(a *LazyColumn[A]) (*LazySelection, error) {
	return d.applyTagged("", a)
}
