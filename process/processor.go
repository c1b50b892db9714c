// Package process implements the dataset processor (C4): the per-slot
// driver that owns a row reader, the three node lists scheduled for that
// slot, and runs the per-entry loop.
package process

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/source"
)

// Processor is one slot's execution driver: a row reader, the effective
// weight for this sample, and the columns/selections/queries scheduled
// for this slot, each held in insertion order so that a node's Execute
// always runs before any downstream consumer's (§4.3 edge ordering).
type Processor struct {
	Range      graph.Range
	Reader     source.RowReader
	Weight     float64
	Columns    []graph.Node
	Selections []graph.Node
	Queries    []graph.Node
}

// Process runs initialize/execute-per-row/finalize over rng, in that
// order, for every scheduled node. Per-entry cost is O(live nodes); a
// computed column with no consumer is never reached because nothing
// calls its Value().
func (p *Processor) Process(ctx context.Context, rng graph.Range) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "colflow.process")
	defer span.Finish()
	span.SetTag("slot", rng.Slot)
	span.SetTag("rows", rng.Len())

	if err := p.Reader.Start(rng); err != nil {
		return errors.Wrapf(err, "starting reader for %s", rng)
	}

	for _, lists := range p.nodeLists() {
		for _, n := range lists {
			if err := n.Initialize(rng); err != nil {
				return errors.Wrapf(err, "initializing node for %s", rng)
			}
		}
	}

	for entry := rng.Begin; entry < rng.End; entry++ {
		if err := p.Reader.Read(rng, entry); err != nil {
			return errors.Wrapf(err, "reading entry %d in %s", entry, rng)
		}
		for _, lists := range p.nodeLists() {
			for _, n := range lists {
				if err := n.Execute(rng, entry); err != nil {
					return errors.Wrapf(err, "executing entry %d in %s", entry, rng)
				}
			}
		}
	}

	for _, lists := range p.nodeLists() {
		for _, n := range lists {
			if err := n.Finalize(rng); err != nil {
				return errors.Wrapf(err, "finalizing node for %s", rng)
			}
		}
	}

	return errors.Wrapf(p.Reader.Finish(rng), "finishing reader for %s", rng)
}

// nodeLists returns the three node classes in the fixed execution order:
// columns, then selections, then queries.
func (p *Processor) nodeLists() [][]graph.Node {
	return [][]graph.Node{p.Columns, p.Selections, p.Queries}
}
