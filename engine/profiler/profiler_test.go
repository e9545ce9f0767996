package profiler

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	var out bytes.Buffer
	p := NewProfiler(zerolog.New(&out))

	clock := time.Unix(1000, 0)
	p.lastTime = clock
	p.now = func() time.Time { return clock }

	for range 29 {
		clock = clock.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Zero(t, out.Len())

	clock = clock.Add(710 * time.Millisecond)
	require.True(t, p.Tick())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "profiler", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.InDelta(t, 30.0, entry["fps"], 0.01)
	assert.Contains(t, entry, "heap_mb")

	// counters reset after a report
	clock = clock.Add(10 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(zerolog.Nop())
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
}
