package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/graph"
)

// TestSelectionCascade exercises testable property 4: for a chain
// root -> A (cut) -> B (weight), B.passed == root.passed && A.self &&
// B.self, and B.weight == root.weight * A.weight_self * B.weight_self.
func TestSelectionCascade(t *testing.T) {
	root := graph.NewSelection("root", graph.Cut, false, nil, func() (float64, error) { return 1, nil })
	a := graph.NewSelection("a", graph.Cut, false, root, func() (float64, error) { return 1, nil })
	b := graph.NewSelection("b", graph.Weight, false, a, func() (float64, error) { return 2.0, nil })

	for _, s := range []*graph.Selection{root, a, b} {
		require.NoError(t, s.Execute(graph.Range{}, 0))
	}

	require.True(t, root.Passed())
	require.True(t, a.Passed())
	require.True(t, b.Passed())
	require.Equal(t, 1.0, root.WeightValue())
	require.Equal(t, 1.0, a.WeightValue())
	require.Equal(t, 2.0, b.WeightValue())
}

func TestSelectionCutFailurePropagates(t *testing.T) {
	root := graph.NewSelection("root", graph.Cut, false, nil, func() (float64, error) { return 0, nil })
	child := graph.NewSelection("child", graph.Cut, false, root, func() (float64, error) { return 1, nil })

	require.NoError(t, root.Execute(graph.Range{}, 0))
	require.NoError(t, child.Execute(graph.Range{}, 0))

	require.False(t, root.Passed())
	require.False(t, child.Passed())
}

func TestSelectionPath(t *testing.T) {
	root := graph.NewSelection("root", graph.Cut, true, nil, func() (float64, error) { return 1, nil })
	chA := graph.NewSelection("chA", graph.Cut, true, root, func() (float64, error) { return 1, nil })
	leaf := graph.NewSelection("cut1", graph.Cut, false, chA, func() (float64, error) { return 1, nil })

	require.Equal(t, "root/chA/cut1", leaf.Path())
}

func TestSelectionPathIgnoresNonChannelAncestors(t *testing.T) {
	root := graph.NewSelection("root", graph.Cut, false, nil, func() (float64, error) { return 1, nil })
	chA := graph.NewSelection("chA", graph.Cut, true, root, func() (float64, error) { return 1, nil })
	leaf := graph.NewSelection("cut1", graph.Cut, false, chA, func() (float64, error) { return 1, nil })

	require.Equal(t, "chA/cut1", leaf.Path())
}
