package kv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	raw, err := Marshal(payload{Name: "panel", Count: 3})
	require.NoError(t, err)

	var got payload
	require.NoError(t, Unmarshal(raw, &got))
	assert.Equal(t, payload{Name: "panel", Count: 3}, got)
}

func TestCodec_EnvelopeCarriesVersion(t *testing.T) {
	raw, err := Marshal([]string{"a"})
	require.NoError(t, err)

	var env struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, SnapshotVersion, env.Version)
}

func TestCodec_RejectsWrongVersion(t *testing.T) {
	raw := []byte(`{"version":99,"data":[]}`)

	var got []string
	err := Unmarshal(raw, &got)

	assert.ErrorIs(t, err, ErrIncompatibleSnapshot)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	var got []string
	assert.Error(t, Unmarshal([]byte("not json"), &got))
}
