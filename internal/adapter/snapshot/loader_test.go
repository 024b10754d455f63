package snapshot

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brhas/safety-metrics-service/internal/observability"
)

const vehicleFeedJSON = `{
	"fetched_at": "2026-02-14T06:00:00Z",
	"events": [
		{"driver_performance_event": {
			"type": "speeding",
			"start_time": "2026-02-10T14:03:00Z",
			"vehicle": {"id": 101, "number": "12C-04"}
		}}
	]
}`

func newTestLoader(t *testing.T, ttl time.Duration, clock clockwork.Clock) *Loader {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(t.TempDir(), ttl, clock, logger, observability.NewMetricsForTesting())
}

func writeSnapshot(t *testing.T, l *Loader, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(l.dir, name), []byte(content), 0o644))
}

func TestLoader_Load(t *testing.T) {
	l := newTestLoader(t, time.Minute, clockwork.NewFakeClock())
	writeSnapshot(t, l, VehicleEventsFile, vehicleFeedJSON)
	writeSnapshot(t, l, IncidentsFile, `{"fetched_at": "2026-02-14T06:05:00Z", "incidents": [{"Service Line": "Casing"}]}`)
	writeSnapshot(t, l, ObservationsFile, `{"observations": [{"Report": "Rig Audit Checklist"}, {"Report": "BBS Card"}]}`)

	snap := l.Load()

	require.Len(t, snap.Vehicle.Events, 1)
	assert.Equal(t, "speeding", snap.Vehicle.Events[0].DriverPerformanceEvent.Type)
	require.Len(t, snap.Incidents.Incidents, 1)
	assert.Len(t, snap.Observations.Observations, 2)
	assert.Equal(t, "2026-02-14T06:00:00Z", snap.FetchedAt())
}

func TestLoader_MissingFilesAreEmptyFeeds(t *testing.T) {
	l := newTestLoader(t, time.Minute, clockwork.NewFakeClock())

	snap := l.Load()
	assert.Empty(t, snap.Vehicle.Events)
	assert.Empty(t, snap.Incidents.Incidents)
	assert.Empty(t, snap.Observations.Observations)
	assert.Empty(t, snap.FetchedAt())
}

func TestLoader_MalformedFileDegradesToEmpty(t *testing.T) {
	l := newTestLoader(t, time.Minute, clockwork.NewFakeClock())
	writeSnapshot(t, l, VehicleEventsFile, `{"events": [{"type":`)
	writeSnapshot(t, l, IncidentsFile, `{"incidents": [{"Service Line": "Casing"}]}`)

	snap := l.Load()
	assert.Empty(t, snap.Vehicle.Events, "malformed file decodes to the zero feed")
	assert.Len(t, snap.Incidents.Incidents, 1, "other feeds are unaffected")
}

func TestLoader_CacheRespectsTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newTestLoader(t, 5*time.Minute, clock)
	writeSnapshot(t, l, IncidentsFile, `{"incidents": [{}]}`)

	first := l.Load()
	require.Len(t, first.Incidents.Incidents, 1)

	// The file changes on disk but the cached copy is still fresh.
	writeSnapshot(t, l, IncidentsFile, `{"incidents": [{}, {}]}`)
	clock.Advance(time.Minute)
	assert.Len(t, l.Load().Incidents.Incidents, 1)

	clock.Advance(5 * time.Minute)
	assert.Len(t, l.Load().Incidents.Incidents, 2)
}

func TestLoader_InvalidateForcesReload(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := newTestLoader(t, time.Hour, clock)
	writeSnapshot(t, l, ObservationsFile, `{"observations": [{}]}`)

	require.Len(t, l.Load().Observations.Observations, 1)

	writeSnapshot(t, l, ObservationsFile, `{"observations": [{}, {}, {}]}`)
	l.Invalidate()
	assert.Len(t, l.Load().Observations.Observations, 3)
}

func TestSnapshot_FetchedAtFallsBack(t *testing.T) {
	snap := Snapshot{}
	snap.Incidents.FetchedAt = "2026-02-14T06:05:00Z"
	snap.Observations.FetchedAt = "2026-02-14T06:10:00Z"
	assert.Equal(t, "2026-02-14T06:05:00Z", snap.FetchedAt())
}
