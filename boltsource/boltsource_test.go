package boltsource_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/stretchr/testify/require"

	"github.com/colflowdev/colflow/boltsource"
)

func openRawDB(t *testing.T, path string) *bolt.DB {
	t.Helper()
	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	return db
}

func TestParallelizeOverSeededRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.bolt")
	db := openRawDB(t, path)

	rows := []map[string]interface{}{
		{"x": int64(1)}, {"x": int64(2)}, {"x": int64(3)}, {"x": int64(4)},
	}
	require.NoError(t, boltsource.PutRows(db, "rows", rows))
	require.NoError(t, db.Close())

	ds, err := boltsource.Open(path, "rows", 2)
	require.NoError(t, err)
	defer ds.Close()

	part, err := ds.Parallelize(context.Background())
	require.NoError(t, err)

	var total int64
	for _, r := range part {
		total += r.Len()
	}
	require.Equal(t, int64(4), total)
}

func TestReadColumnValuesFromBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.bolt")
	db := openRawDB(t, path)

	rows := []map[string]interface{}{
		{"x": int64(10)}, {"x": int64(20)},
	}
	require.NoError(t, boltsource.PutRows(db, "rows", rows))
	require.NoError(t, db.Close())

	ds, err := boltsource.Open(path, "rows", 1)
	require.NoError(t, err)
	defer ds.Close()

	part, err := ds.Parallelize(context.Background())
	require.NoError(t, err)
	require.Len(t, part, 1)
	rng := part[0]

	reader, err := ds.OpenPlayer(rng)
	require.NoError(t, err)
	require.NoError(t, reader.Start(rng))
	defer reader.Finish(rng)

	cell, err := ds.OpenColumnReader(rng, reader, "x")
	require.NoError(t, err)

	var got []int64
	for entry := rng.Begin; entry < rng.End; entry++ {
		require.NoError(t, reader.Read(rng, entry))
		got = append(got, cell.Value().(int64))
	}
	require.Equal(t, []int64{10, 20}, got)
}
