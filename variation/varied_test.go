package variation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/variation"
)

func TestGetFallsBackToNominal(t *testing.T) {
	v := variation.New(10).Vary("shift", 20)
	require.Equal(t, 20, v.Get("shift"))
	require.Equal(t, 10, v.Get("unknown"))
	require.Equal(t, []string{"shift"}, v.Names())
}

// TestBroadcast1 exercises testable property 7: op(a.vary(v, ...)) has
// nominal == op(a.nominal) and variation v == op(a[v]).
func TestBroadcast1(t *testing.T) {
	a := variation.New(1).Vary("shift", 2)
	out := variation.Broadcast1(a, func(x int) int { return x * 10 })

	require.Equal(t, 10, out.Nominal)
	require.Equal(t, 20, out.Get("shift"))
}

// TestBroadcast2Union exercises testable property 8: given variations
// {v1} on A and {v2} on B, op(A, B).variations == {v1, v2}, with A
// contributing nominal to v2 and B nominal to v1.
func TestBroadcast2Union(t *testing.T) {
	a := variation.New(1).Vary("v1", 100)
	b := variation.New(10).Vary("v2", 1000)

	out := variation.Broadcast2(a, b, func(x, y int) int { return x + y })

	require.Equal(t, []string{"v1", "v2"}, out.Names())
	require.Equal(t, 11, out.Nominal)
	require.Equal(t, 110, out.Get("v1"))  // a's v1 + b's nominal
	require.Equal(t, 1001, out.Get("v2")) // a's nominal + b's v2
}

func TestBroadcast3(t *testing.T) {
	a := variation.New(1).Vary("v1", 2)
	b := variation.New(10)
	c := variation.New(100)

	out := variation.Broadcast3(a, b, c, func(x, y, z int) int { return x + y + z })
	require.Equal(t, 111, out.Nominal)
	require.Equal(t, 112, out.Get("v1"))
}
