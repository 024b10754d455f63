// Package snapshot reads the JSON feed snapshots dropped by the fetch jobs
// and caches the decoded result for a configurable TTL.
package snapshot

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/brhas/safety-metrics-service/internal/domain"
	"github.com/brhas/safety-metrics-service/internal/observability"
)

// Snapshot file names as written by the fetch jobs.
const (
	VehicleEventsFile = "motive_events.json"
	IncidentsFile     = "kpa_incidents.json"
	ObservationsFile  = "kpa_observations.json"
)

// Snapshot holds the decoded contents of one load of the data directory.
type Snapshot struct {
	Vehicle      domain.VehicleFeed
	Incidents    domain.EHSFeed
	Observations domain.EHSFeed
}

// FetchedAt returns the first non-empty fetch timestamp across the feeds,
// preferring the vehicle feed.
func (s Snapshot) FetchedAt() string {
	if s.Vehicle.FetchedAt != "" {
		return s.Vehicle.FetchedAt
	}
	if s.Incidents.FetchedAt != "" {
		return s.Incidents.FetchedAt
	}
	return s.Observations.FetchedAt
}

// Loader reads snapshot files from a directory with a TTL cache in front.
// A missing or malformed file degrades to an empty feed rather than failing
// the whole load.
type Loader struct {
	dir     string
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	cached   *Snapshot
	loadedAt time.Time
}

// NewLoader creates a snapshot loader for the given data directory.
func NewLoader(dir string, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		dir:     dir,
		ttl:     ttl,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the current snapshot, re-reading the directory when the cached
// copy is older than the TTL.
func (l *Loader) Load() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.cached != nil && now.Sub(l.loadedAt) < l.ttl {
		l.metrics.SnapshotLoads.WithLabelValues("hit").Inc()
		l.metrics.SnapshotAgeSeconds.Set(now.Sub(l.loadedAt).Seconds())
		return *l.cached
	}

	snap := l.read()
	l.cached = &snap
	l.loadedAt = now
	l.metrics.SnapshotLoads.WithLabelValues("miss").Inc()
	l.metrics.SnapshotAgeSeconds.Set(0)
	return snap
}

// Invalidate drops the cached snapshot so the next Load re-reads the directory.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

func (l *Loader) read() Snapshot {
	return Snapshot{
		Vehicle:      decodeFile[domain.VehicleFeed](l, VehicleEventsFile),
		Incidents:    decodeFile[domain.EHSFeed](l, IncidentsFile),
		Observations: decodeFile[domain.EHSFeed](l, ObservationsFile),
	}
}

// decodeFile returns the zero feed on any failure so a bad file never
// poisons the rest of the snapshot.
func decodeFile[T any](l *Loader, name string) T {
	var zero T
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("snapshot file missing", "file", name)
		} else {
			l.logger.Warn("failed to read snapshot file", "file", name, "error", err)
		}
		return zero
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		l.logger.Warn("failed to decode snapshot file", "file", name, "error", err)
		l.metrics.SnapshotDecodeErrors.WithLabelValues(name).Inc()
		return zero
	}
	return decoded
}
