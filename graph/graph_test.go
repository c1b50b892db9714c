package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/graph"
)

func TestPartitionTruncate(t *testing.T) {
	p := graph.Partition{
		{Slot: 0, Begin: 0, End: 10},
		{Slot: 1, Begin: 10, End: 20},
	}

	require.Equal(t, p, p.Truncate(-1))

	out := p.Truncate(15)
	require.Len(t, out, 2)
	require.Equal(t, int64(0), out[0].Begin)
	require.Equal(t, int64(10), out[0].End)
	require.Equal(t, int64(10), out[1].Begin)
	require.Equal(t, int64(15), out[1].End)

	out2 := p.Truncate(5)
	require.Len(t, out2, 1)
	require.Equal(t, int64(5), out2[0].End)
}

func TestPartitionMergeEvenSplit(t *testing.T) {
	p := graph.Partition{{Slot: 0, Begin: 0, End: 4}}
	out := p.Merge(4)
	require.Len(t, out, 4)
	for i, r := range out {
		require.Equal(t, i, r.Slot)
		require.Equal(t, int64(1), r.Len())
	}
}

func TestPartitionMergeFewerRowsThanSlots(t *testing.T) {
	p := graph.Partition{{Slot: 0, Begin: 0, End: 2}}
	out := p.Merge(8)
	require.Len(t, out, 2)

	var total int64
	for _, r := range out {
		total += r.Len()
	}
	require.Equal(t, int64(2), total)
}

func TestPartitionMergeAcrossSourceBoundaries(t *testing.T) {
	// Two contiguous source ranges (e.g. two files concatenated in row
	// order) re-cut into a different slot count than they arrived in.
	p := graph.Partition{
		{Slot: 0, Begin: 0, End: 3},
		{Slot: 1, Begin: 3, End: 6},
	}
	out := p.Merge(4)
	require.Len(t, out, 4)

	var total int64
	prevEnd := int64(0)
	for i, r := range out {
		require.Equal(t, i, r.Slot)
		require.Equal(t, prevEnd, r.Begin)
		total += r.Len()
		prevEnd = r.End
	}
	require.Equal(t, int64(6), total)
	require.Equal(t, int64(6), prevEnd)
}

func TestPartitionMergeEmpty(t *testing.T) {
	require.Nil(t, graph.Partition{}.Merge(4))
}
