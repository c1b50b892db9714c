package lockstep_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/lockstep"
)

func TestGetConcurrentResult(t *testing.T) {
	l := lockstep.New[int]()
	l.SetModel(0)
	l.AddSlot(1)
	l.AddSlot(2)
	l.AddSlot(3)

	out := lockstep.GetConcurrentResult(l, func(v int) int { return v * 10 })
	require.Equal(t, 0, out.Model())
	require.Equal(t, []int{10, 20, 30}, out.Slots())
}

func TestGetConcurrentResult2MismatchedSlots(t *testing.T) {
	a := lockstep.New[int]()
	a.AddSlot(1)
	a.AddSlot(2)

	b := lockstep.New[int]()
	b.AddSlot(1)

	_, err := lockstep.GetConcurrentResult2(a, b, func(x, y int) int { return x + y })
	require.Error(t, err)
}

func TestGetModelValueAgreement(t *testing.T) {
	l := lockstep.New[string]()
	l.SetModel("path/a")
	l.AddSlot("path/a")
	l.AddSlot("path/a")

	v, err := lockstep.GetModelValue(l, "path", func(s string) string { return s })
	require.NoError(t, err)
	require.Equal(t, "path/a", v)
}

func TestGetModelValueDisagreement(t *testing.T) {
	l := lockstep.New[string]()
	l.SetModel("path/a")
	l.AddSlot("path/a")
	l.AddSlot("path/b")

	_, err := lockstep.GetModelValue(l, "path", func(s string) string { return s })
	require.Error(t, err)
}

func TestCallAll(t *testing.T) {
	l := lockstep.New[int]()
	l.SetModel(0)
	l.AddSlot(1)
	l.AddSlot(2)

	var sum int64
	err := lockstep.CallAll(l, true, func(v int) error {
		atomic.AddInt64(&sum, int64(v))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), sum)
}

func TestRunSlotsJoinsAllSlots(t *testing.T) {
	l := lockstep.New[int]()
	for i := 0; i < 8; i++ {
		l.AddSlot(i)
	}

	var sum int64
	err := lockstep.RunSlots(context.Background(), l, func(ctx context.Context, v int) error {
		atomic.AddInt64(&sum, int64(v))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(28), sum)
}

func TestRunSlotsSingleSlotRunsInline(t *testing.T) {
	l := lockstep.New[int]()
	l.AddSlot(5)

	var gid int
	err := lockstep.RunSlots(context.Background(), l, func(ctx context.Context, v int) error {
		gid = v
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, gid)
}

func TestRunSlotsPropagatesError(t *testing.T) {
	l := lockstep.New[int]()
	l.AddSlot(1)
	l.AddSlot(2)

	err := lockstep.RunSlots(context.Background(), l, func(ctx context.Context, v int) error {
		if v == 2 {
			return errBoom
		}
		return nil
	})
	require.Error(t, err)
}

type errStub struct{}

func (errStub) Error() string { return "boom" }

var errBoom = errStub{}
