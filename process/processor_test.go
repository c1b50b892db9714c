package process_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/process"
)

type fakeReader struct {
	started, finished bool
	reads             []int64
}

func (r *fakeReader) Start(graph.Range) error { r.started = true; return nil }
func (r *fakeReader) Read(rng graph.Range, entry int64) error {
	r.reads = append(r.reads, entry)
	return nil
}
func (r *fakeReader) Finish(graph.Range) error { r.finished = true; return nil }

type orderRecorder struct {
	graph.NoopNode
	label string
	log   *[]string
}

func (n *orderRecorder) Execute(graph.Range, int64) error {
	*n.log = append(*n.log, n.label)
	return nil
}

func TestProcessRunsNodesInInsertionOrderPerRow(t *testing.T) {
	reader := &fakeReader{}
	var log []string
	p := &process.Processor{
		Reader:     reader,
		Columns:    []graph.Node{&orderRecorder{label: "col", log: &log}},
		Selections: []graph.Node{&orderRecorder{label: "sel", log: &log}},
		Queries:    []graph.Node{&orderRecorder{label: "query", log: &log}},
	}

	rng := graph.Range{Slot: 0, Begin: 0, End: 3}
	require.NoError(t, p.Process(context.Background(), rng))

	require.True(t, reader.started)
	require.True(t, reader.finished)
	require.Equal(t, []int64{0, 1, 2}, reader.reads)
	require.Equal(t, []string{
		"col", "sel", "query",
		"col", "sel", "query",
		"col", "sel", "query",
	}, log)
}

type erroringReader struct{ fakeReader }

func (r *erroringReader) Read(graph.Range, int64) error {
	return errBoom
}

type errStub struct{}

func (errStub) Error() string { return "boom" }

var errBoom = errStub{}

func TestProcessPropagatesReaderError(t *testing.T) {
	p := &process.Processor{Reader: &erroringReader{}}
	rng := graph.Range{Slot: 0, Begin: 0, End: 1}
	err := p.Process(context.Background(), rng)
	require.Error(t, err)
}
