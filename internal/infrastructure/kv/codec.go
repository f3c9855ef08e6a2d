package kv

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotVersion is the current on-disk snapshot format.
const SnapshotVersion = 1

var ErrIncompatibleSnapshot = errors.New("incompatible snapshot version")

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Marshal wraps v in a versioned envelope so the persisted format can
// evolve without silently misreading old snapshots.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SnapshotVersion, Data: data})
}

// Unmarshal decodes a versioned snapshot into v.
func Unmarshal(raw []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	if env.Version != SnapshotVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrIncompatibleSnapshot, env.Version, SnapshotVersion)
	}
	return json.Unmarshal(env.Data, v)
}
