package colflow

import (
	"github.com/pkg/errors"
	msgpack "gopkg.in/vmihailenco/msgpack.v2"
)

// SnapshotResults msgpack-encodes a path -> merged result map for
// caller-side storage, pairing with boltsource's msgpack-encoded rows
// (§5). This persists a pass's *output*; the graph itself is never
// serialized.
func SnapshotResults(results map[string]interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(results)
	if err != nil {
		return nil, errors.Wrap(err, "encoding results snapshot")
	}
	return b, nil
}

// LoadSnapshot decodes a snapshot previously produced by SnapshotResults.
func LoadSnapshot(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrap(err, "decoding results snapshot")
	}
	return out, nil
}
