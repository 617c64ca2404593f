package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryShape(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter("api", &buf)

	lg.Error("db_query_failed", errors.New("boom"), map[string]any{"request_id": "r-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "error", entry["level"])
	require.Equal(t, "api", entry["service"])
	require.Equal(t, "db_query_failed", entry["action"])
	require.Equal(t, "r-1", entry["request_id"])
	require.Equal(t, "boom", entry["error"])
	require.Contains(t, entry, "timestamp")
	require.Contains(t, entry, "hostname")
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter("api", &buf)
	lg.SetLevel("info")

	lg.Debug("noise", nil)
	require.Zero(t, buf.Len())

	lg.Info("order_placed", map[string]any{"order_id": 4})
	require.NotZero(t, buf.Len())
}
