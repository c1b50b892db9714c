// Package boltsource is a second reference source.Dataset, backed by
// github.com/boltdb/bolt instead of in-process slices (memsource). Rows
// are msgpack-encoded maps stored under sequential big-endian keys in one
// bucket; Parallelize partitions the bucket's key range. It exists to
// demonstrate the dataset boundary against a real embedded store, not as
// a general-purpose storage layer.
package boltsource

import (
	"context"
	"encoding/binary"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	msgpack "gopkg.in/vmihailenco/msgpack.v2"

	"github.com/colflowdev/colflow/graph"
	"github.com/colflowdev/colflow/source"
)

// Dataset reads rows out of one bucket of a BoltDB file, one
// msgpack-encoded map[string]interface{} per key.
type Dataset struct {
	db       *bolt.DB
	bucket   []byte
	weight   float64
	numSlots int
	rowCount int64
}

// Open opens (creating if absent) the BoltDB file at path and returns a
// Dataset reading bucket, partitioned into slots slots.
func Open(path string, bucket string, slots int) (*Dataset, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt database %s", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "creating bucket %q", bucket)
	}
	return New(db, bucket, slots)
}

// New wraps an already-open *bolt.DB, reading the row count once up
// front from the bucket's key statistics.
func New(db *bolt.DB, bucket string, slots int) (*Dataset, error) {
	if slots < 1 {
		slots = 1
	}
	d := &Dataset{db: db, bucket: []byte(bucket), numSlots: slots}
	if err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(d.bucket)
		if b == nil {
			return errors.Errorf("bucket %q does not exist", bucket)
		}
		d.rowCount = int64(b.Stats().KeyN)
		return nil
	}); err != nil {
		return nil, err
	}
	return d, nil
}

// SetWeight overrides the dataset's Normalize() scalar (default 1.0).
func (d *Dataset) SetWeight(w float64) { d.weight = w }

// Close closes the underlying BoltDB file.
func (d *Dataset) Close() error { return d.db.Close() }

// PutRows seeds the bucket with rows, encoding each as msgpack under the
// next sequential big-endian uint64 key. It is a test/setup helper, not
// part of source.Dataset.
func PutRows(db *bolt.DB, bucket string, rows []map[string]interface{}) error {
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		for _, row := range rows {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			enc, err := msgpack.Marshal(row)
			if err != nil {
				return errors.Wrap(err, "encoding row")
			}
			if err := b.Put(keyFor(seq-1), enc); err != nil {
				return err
			}
		}
		return nil
	})
}

func keyFor(i uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, i)
	return key
}

// Parallelize splits [0, rowCount) into numSlots contiguous ranges over
// the bucket's key sequence.
func (d *Dataset) Parallelize(ctx context.Context) (graph.Partition, error) {
	if d.rowCount == 0 {
		return graph.Partition{}, nil
	}
	whole := graph.Partition{{Slot: 0, Begin: 0, End: d.rowCount}}
	return whole.Merge(d.numSlots), nil
}

// Normalize reports the dataset's sample-weight scalar.
func (d *Dataset) Normalize() float64 {
	if d.weight == 0 {
		return 1
	}
	return d.weight
}

// Initialize and Finalize bracket the whole pass; the bolt handle is
// already open by the time a Dataset exists, so both are no-ops.
func (d *Dataset) Initialize(ctx context.Context) error { return nil }
func (d *Dataset) Finalize(ctx context.Context) error   { return nil }

// rowCursor is the RowReader boltsource hands out: a read-only
// transaction opened fresh on every Start and rolled back on every
// Finish, so the same cursor can be driven across more than one dataset
// pass (§4.3 point 4's booking-invalidation re-run).
type rowCursor struct {
	db      *bolt.DB
	bucket  []byte
	tx      *bolt.Tx
	b       *bolt.Bucket
	current map[string]interface{}
}

func (d *Dataset) OpenPlayer(rng graph.Range) (source.RowReader, error) {
	return &rowCursor{db: d.db, bucket: d.bucket}, nil
}

func (c *rowCursor) Start(graph.Range) error {
	tx, err := c.db.Begin(false)
	if err != nil {
		return errors.Wrap(err, "beginning bolt transaction")
	}
	b := tx.Bucket(c.bucket)
	if b == nil {
		tx.Rollback()
		return errors.Errorf("bucket %q vanished mid-pass", c.bucket)
	}
	c.tx = tx
	c.b = b
	return nil
}

func (c *rowCursor) Read(rng graph.Range, entry int64) error {
	v := c.b.Get(keyFor(uint64(entry)))
	if v == nil {
		return errors.Errorf("no row at entry %d in %s", entry, rng)
	}
	row := make(map[string]interface{})
	if err := msgpack.Unmarshal(v, &row); err != nil {
		return errors.Wrapf(err, "decoding row %d", entry)
	}
	c.current = row
	return nil
}

func (c *rowCursor) Finish(graph.Range) error {
	return c.tx.Rollback()
}

// boltCell adapts one named field of the cursor's current row into a
// graph.Cell.
type boltCell struct {
	graph.NoopNode
	name   string
	cursor *rowCursor
}

func (c *boltCell) Execute(graph.Range, int64) error { return nil }
func (c *boltCell) Value() any                       { return c.cursor.current[c.name] }

// OpenColumnReader opens a type-erased reader for name bound to reader
// (the RowReader this rng's OpenPlayer returned).
func (d *Dataset) OpenColumnReader(rng graph.Range, reader source.RowReader, name string) (graph.Cell, error) {
	cursor, ok := reader.(*rowCursor)
	if !ok {
		return nil, errors.Errorf("boltsource: reader for %s is not a bolt cursor", rng)
	}
	return &boltCell{name: name, cursor: cursor}, nil
}
