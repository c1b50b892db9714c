package colflow

import (
	"context"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"

	"github.com/colflowdev/colflow/cferrors"
	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/lockstep"
	"github.com/colflowdev/colflow/process"
	"github.com/colflowdev/colflow/source"
)

// Dataflow is the user-facing dataflow graph builder (C3): it creates
// typed handles, enforces selection-path uniqueness, and delegates
// materialisation of per-slot nodes to the lockstep model.
type Dataflow struct {
	mu sync.Mutex

	dataset source.Dataset
	cfg     Config
	log     *logrus.Entry

	partition graph.Partition
	weight    float64

	procs   []*process.Processor
	readers []source.RowReader

	selectionPaths map[string]struct{}

	analyzed bool
}

// New plans a partition over dataset according to cfg and opens one row
// reader and processor per slot. No dataset pass runs until a query's
// Result() is requested.
func New(ctx context.Context, dataset source.Dataset, cfg Config) (*Dataflow, error) {
	cfg = cfg.defaulted()

	partition, err := dataset.Parallelize(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parallelizing dataset")
	}
	partition = partition.Truncate(cfg.RowLimit).Merge(cfg.Concurrency)
	if partition.Concurrency() == 0 {
		return nil, cferrors.ErrNoConcurrency.New()
	}

	df := &Dataflow{
		dataset:        dataset,
		cfg:            cfg,
		log:            logrus.WithField("system", "colflow"),
		partition:      partition,
		weight:         cfg.Scale * orOne(dataset.Normalize()),
		selectionPaths: make(map[string]struct{}),
	}

	for _, rng := range partition {
		reader, err := dataset.OpenPlayer(rng)
		if err != nil {
			return nil, errors.Wrapf(err, "opening reader for %s", rng)
		}
		df.readers = append(df.readers, reader)
		df.procs = append(df.procs, &process.Processor{
			Range:  rng,
			Reader: reader,
			Weight: df.weight,
		})
	}

	df.log.WithFields(logrus.Fields{
		"slots":     partition.Concurrency(),
		"row_limit": cfg.RowLimit,
		"scale":     df.weight,
	}).Info("dataflow planned")

	return df, nil
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Concurrency is the number of worker slots this dataflow was planned
// with.
func (df *Dataflow) Concurrency() int { return df.partition.Concurrency() }

// Range returns the i-th slot's row range.
func (df *Dataflow) Range(i int) graph.Range { return df.partition[i] }

// registerSelectionPath enforces the global path-uniqueness invariant
// (§4.3) on a selection's registry key: its path, extended with a
// variation tag for named variations (see finishSelectionTagged), must be
// unique across the whole graph.
func (df *Dataflow) registerSelectionPath(path string) error {
	df.mu.Lock()
	defer df.mu.Unlock()
	if _, ok := df.selectionPaths[path]; ok {
		return cferrors.ErrDuplicateSelectionPath.New(path)
	}
	df.selectionPaths[path] = struct{}{}
	return nil
}

// invalidate marks the dataflow as needing another pass: called whenever
// a new node is booked after a completed Analyze (§4.3 point 4 — "any
// booking after analyze() resets the analysed flag").
func (df *Dataflow) invalidate() {
	df.mu.Lock()
	defer df.mu.Unlock()
	df.analyzed = false
}

// scheduleColumn appends a column node to every slot's processor in
// insertion order (must be called before any selection/query that reads
// it is scheduled).
func (df *Dataflow) scheduleColumn(nodes []graph.Node) {
	df.invalidate()
	for i, n := range nodes {
		df.procs[i].Columns = append(df.procs[i].Columns, n)
	}
}

func (df *Dataflow) scheduleSelection(nodes []graph.Node) {
	df.invalidate()
	for i, n := range nodes {
		df.procs[i].Selections = append(df.procs[i].Selections, n)
	}
}

func (df *Dataflow) scheduleQuery(nodes []graph.Node) {
	df.invalidate()
	for i, n := range nodes {
		df.procs[i].Queries = append(df.procs[i].Queries, n)
	}
}

// Analyze runs the dataset exactly once if (and only if) it hasn't
// already run since the last booking (§4.3 point 4, testable properties
// 1 and 9): dataset.Initialize(), every slot's processor in parallel,
// dataset.Finalize(). It is idempotent between bookings; callers
// normally reach it indirectly via a query handle's Result().
func (df *Dataflow) Analyze(ctx context.Context) error {
	df.mu.Lock()
	if df.analyzed {
		df.mu.Unlock()
		df.log.Debug("analyze: already satisfied by last pass, skipping")
		return nil
	}
	df.mu.Unlock()

	runID := uuid.NewV4().String()
	log := df.log.WithField("run_id", runID)

	span, ctx := opentracing.StartSpanFromContext(ctx, "colflow.analyze")
	defer span.Finish()
	span.SetTag("run_id", runID)
	span.SetTag("slots", df.Concurrency())

	log.WithField("slots", df.Concurrency()).Info("analyze: starting pass")

	if err := df.dataset.Initialize(ctx); err != nil {
		return errors.Wrap(err, "initializing dataset")
	}

	ls := lockstep.New[*process.Processor]()
	for _, p := range df.procs {
		ls.AddSlot(p)
	}
	runErr := lockstep.RunSlots(ctx, ls, func(ctx context.Context, p *process.Processor) error {
		return p.Process(ctx, p.Range)
	})

	if err := df.dataset.Finalize(ctx); err != nil {
		if runErr != nil {
			return errors.Wrapf(runErr, "also failed to finalize dataset: %s", err)
		}
		return errors.Wrap(err, "finalizing dataset")
	}
	if runErr != nil {
		return errors.Wrap(runErr, "running slots")
	}

	df.mu.Lock()
	df.analyzed = true
	// Queries accumulate into their Output across Fill calls and
	// Query.Initialize is a no-op reset, so a query left scheduled past
	// its satisfying pass would double-count on the next one. Columns
	// and selections recompute fresh every row and stay scheduled for
	// whatever future queries still read them (§4.3 point 4).
	for _, p := range df.procs {
		p.Queries = nil
	}
	df.mu.Unlock()

	log.Info("analyze: pass complete")
	return nil
}
