package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/query"
)

func selectionAlwaysPasses(name string, weight float64) *graph.Selection {
	root := graph.NewSelection(name, graph.Cut, false, nil, func() (float64, error) { return 1, nil })
	if weight == 1 {
		return root
	}
	return graph.NewSelection(name+"_w", graph.Weight, false, root, func() (float64, error) { return weight, nil })
}

func TestBookerAtAndDuplicate(t *testing.T) {
	b := query.NewBooker[int64](func() query.Output[int64] { return query.NewCounter() }, nil)
	sel := selectionAlwaysPasses("root", 1)
	require.NoError(t, sel.Execute(graph.Range{}, 0))

	_, err := b.At(sel)
	require.NoError(t, err)

	_, err = b.At(sel)
	require.Error(t, err)
}

func TestCounterQueryCountsPassingRows(t *testing.T) {
	sel := selectionAlwaysPasses("root", 1)
	b := query.NewBooker[int64](func() query.Output[int64] { return query.NewCounter() }, nil)
	q, err := b.At(sel)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, sel.Execute(graph.Range{}, int64(i)))
		require.NoError(t, q.Execute(graph.Range{}, int64(i)))
	}
	require.Equal(t, int64(5), q.Result())
}

func TestSumQueryFillsAndMerges(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	root := graph.NewSelection("root", graph.Cut, false, nil, func() (float64, error) { return 1, nil })

	b := query.NewBooker[float64](
		func() query.Output[float64] { return query.NewSum() },
		func(out query.Output[float64]) (func(weight float64) error, error) {
			filler := out.(query.Filler1[float64])
			i := 0
			return func(w float64) error {
				filler.Fill(xs[i], w)
				i++
				return nil
			}, nil
		},
	)
	q, err := b.At(root)
	require.NoError(t, err)

	for i := range xs {
		require.NoError(t, root.Execute(graph.Range{}, int64(i)))
		require.NoError(t, q.Execute(graph.Range{}, int64(i)))
	}
	require.Equal(t, 10.0, q.Result())

	merged := q.Out.Merge([]float64{10, 7})
	require.Equal(t, 17.0, merged)
}

func TestBookkeeperPathsSorted(t *testing.T) {
	b := query.NewBooker[int64](func() query.Output[int64] { return query.NewCounter() }, nil)
	chB := selectionAlwaysPasses("chB", 1)
	chA := selectionAlwaysPasses("chA", 1)

	bk, err := b.AtMany(chB, chA)
	require.NoError(t, err)
	require.Equal(t, []string{"chA", "chB"}, bk.Paths())

	_, err = bk.Get("chA")
	require.NoError(t, err)

	_, err = bk.Get("missing")
	require.Error(t, err)
}
