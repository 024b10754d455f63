// Package report assembles the division safety report from the feed
// snapshots: normalize, filter to the requested view, aggregate, and attach
// trend alerts and checklist audits.
package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/brhas/safety-metrics-service/internal/adapter/snapshot"
	"github.com/brhas/safety-metrics-service/internal/domain"
	"github.com/brhas/safety-metrics-service/internal/observability"
)

// SnapshotSource provides the current feed snapshot.
type SnapshotSource interface {
	Load() snapshot.Snapshot
}

// Params narrows a report to a display window and/or a single yard. A window
// needs both endpoints; trends always cover the full data regardless.
type Params struct {
	Start *time.Time
	End   *time.Time
	Yard  string
}

// Window echoes the applied display window back to the caller.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// VehicleSummary is the telematics side of the report.
type VehicleSummary struct {
	Total             int               `json:"total"`
	TotalBeforeFilter int               `json:"total_before_filter"`
	Aggregates        domain.Aggregates `json:"aggregates"`
}

// EHSSummary covers one KPA feed in the current view.
type EHSSummary struct {
	Total             int               `json:"total"`
	TotalBeforeFilter int               `json:"total_before_filter"`
	ByDistrict        []domain.KeyCount `json:"by_district"`
	ByDay             []domain.KeyCount `json:"by_day"`
}

// ObservationSummary extends EHSSummary with observation-only rollups.
type ObservationSummary struct {
	EHSSummary
	ByType              []domain.KeyCount            `json:"by_type"`
	ObserversByDistrict map[string][]domain.KeyCount `json:"observers_by_district,omitempty"`
}

// RepeatOffender flags a driver with multiple events in the current view.
type RepeatOffender struct {
	Driver       string `json:"driver"`
	Events       int    `json:"events"`
	TopViolation string `json:"top_violation"`
	Status       string `json:"status"`
}

// Report is the full assembled payload served to clients.
type Report struct {
	GeneratedAt     time.Time                    `json:"generated_at"`
	FetchedAt       string                       `json:"fetched_at,omitempty"`
	Window          *Window                      `json:"window,omitempty"`
	Yard            string                       `json:"yard,omitempty"`
	Vehicle         VehicleSummary               `json:"vehicle"`
	Incidents       EHSSummary                   `json:"incidents"`
	Observations    ObservationSummary           `json:"observations"`
	Audits          []domain.ChecklistAudit      `json:"audits"`
	Trends          map[string]domain.TrendAlert `json:"trends"`
	RepeatOffenders []RepeatOffender             `json:"repeat_offenders"`
	KPITargets      []domain.KPITarget           `json:"kpi_targets"`
	YardBaselines   []domain.YardBaseline        `json:"yard_baselines"`
}

// Builder turns snapshots into reports. Safe for concurrent use; each Build
// re-derives everything from the snapshot.
type Builder struct {
	source  SnapshotSource
	rules   domain.Rules
	schema  domain.ChecklistSchema
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ready   atomic.Bool
}

// NewBuilder creates a report builder over the given snapshot source.
func NewBuilder(source SnapshotSource, rules domain.Rules, schema domain.ChecklistSchema, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Builder {
	return &Builder{
		source:  source,
		rules:   rules,
		schema:  schema,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Build assembles a report for the given view parameters.
func (b *Builder) Build(p Params) Report {
	started := b.clock.Now()
	snap := b.source.Load()

	events := domain.NormalizeVehicleEvents(snap.Vehicle, b.rules)
	incidents := domain.NormalizeEHSItems(snap.Incidents, "incidents", b.rules)
	observations := domain.NormalizeEHSItems(snap.Observations, "observations", b.rules)

	b.countFeed("vehicle", len(snap.Vehicle.Events), len(events))
	b.countFeed("incidents", len(snap.Incidents.Incidents), len(incidents))
	b.countFeed("observations", len(snap.Observations.Observations), len(observations))

	// Trends always run over the unfiltered division data so a narrow display
	// window cannot suppress an alert.
	trends := domain.CalculateTrendAlerts(events, incidents, b.rules, started)

	viewEvents, viewIncidents, viewObservations := events, incidents, observations
	var window *Window
	if p.Start != nil && p.End != nil {
		viewEvents = domain.FilterByWindow(viewEvents, domain.EventDate, *p.Start, *p.End)
		viewIncidents = domain.FilterByWindow(viewIncidents, domain.ItemDate, *p.Start, *p.End)
		viewObservations = domain.FilterByWindow(viewObservations, domain.ItemDate, *p.Start, *p.End)
		window = &Window{
			Start: p.Start.Format("2006-01-02"),
			End:   p.End.Format("2006-01-02"),
		}
	}
	if p.Yard != "" {
		viewEvents = filterEventsByYard(viewEvents, p.Yard)
		viewIncidents = b.filterItemsByYard(viewIncidents, p.Yard)
		viewObservations = b.filterItemsByYard(viewObservations, p.Yard)
	}

	audits := domain.ExtractChecklistAudits(viewObservations, b.schema)
	b.metrics.ChecklistAudits.Add(float64(len(audits)))

	report := Report{
		GeneratedAt: started,
		FetchedAt:   snap.FetchedAt(),
		Window:      window,
		Yard:        p.Yard,
		Vehicle: VehicleSummary{
			Total:             len(viewEvents),
			TotalBeforeFilter: len(snap.Vehicle.Events),
			Aggregates:        domain.AggregateCounts(viewEvents),
		},
		Incidents: EHSSummary{
			Total:             len(viewIncidents),
			TotalBeforeFilter: len(snap.Incidents.Incidents),
			ByDistrict:        domain.CountEHSBy(viewIncidents, districtOf),
			ByDay:             domain.CountEHSByDay(viewIncidents),
		},
		Observations: ObservationSummary{
			EHSSummary: EHSSummary{
				Total:             len(viewObservations),
				TotalBeforeFilter: len(snap.Observations.Observations),
				ByDistrict:        domain.CountEHSBy(viewObservations, districtOf),
				ByDay:             domain.CountEHSByDay(viewObservations),
			},
			ByType:              domain.CountEHSBy(viewObservations, observationType),
			ObserversByDistrict: observersByDistrict(viewObservations),
		},
		Audits:          audits,
		Trends:          trends,
		RepeatOffenders: repeatOffenders(viewEvents),
		KPITargets:      domain.DefaultKPITargets(),
		YardBaselines:   domain.DefaultYardBaselines(),
	}

	b.metrics.ReportBuilds.Inc()
	b.metrics.ReportBuildDuration.Observe(b.clock.Now().Sub(started).Seconds())
	b.ready.Store(true)

	b.logger.Debug("report built",
		"vehicle_events", report.Vehicle.Total,
		"incidents", report.Incidents.Total,
		"observations", report.Observations.Total,
		"audits", len(report.Audits),
	)
	return report
}

// CheckReadiness reports ready once the first report has been assembled.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("no report built yet")
	}
	return nil
}

func (b *Builder) countFeed(feed string, seen, kept int) {
	b.metrics.RecordsSeen.WithLabelValues(feed).Add(float64(seen))
	b.metrics.RecordsKept.WithLabelValues(feed).Add(float64(kept))
}

func filterEventsByYard(events []domain.NormalizedEvent, yard string) []domain.NormalizedEvent {
	var out []domain.NormalizedEvent
	for _, e := range events {
		if e.Yard == yard {
			out = append(out, e)
		}
	}
	return out
}

func (b *Builder) filterItemsByYard(items []domain.EHSItem, yard string) []domain.EHSItem {
	var out []domain.EHSItem
	for _, it := range items {
		if b.rules.IncidentYard(it) == yard {
			out = append(out, it)
		}
	}
	return out
}

func districtOf(i domain.EHSItem) string { return i.District }

func observationType(i domain.EHSItem) string {
	return i.Raw.String("Type of Observation")
}

func observersByDistrict(items []domain.EHSItem) map[string][]domain.KeyCount {
	grouped := make(map[string][]domain.EHSItem)
	for _, it := range items {
		if it.District == "" {
			continue
		}
		grouped[it.District] = append(grouped[it.District], it)
	}

	out := make(map[string][]domain.KeyCount, len(grouped))
	for district, group := range grouped {
		counts := domain.CountEHSBy(group, func(i domain.EHSItem) string {
			return i.Raw.String("Observer")
		})
		if len(counts) > 0 {
			out[district] = counts
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Escalation bands for drivers with repeated events.
const (
	coachingThreshold = 3
	monitorThreshold  = 2
)

func repeatOffenders(events []domain.NormalizedEvent) []RepeatOffender {
	byDriver := domain.AggregateCounts(events).ByDriver

	typeCounts := make(map[string]map[string]int)
	typeOrder := make(map[string][]string)
	for _, e := range events {
		if e.Driver == "" {
			continue
		}
		if typeCounts[e.Driver] == nil {
			typeCounts[e.Driver] = make(map[string]int)
		}
		if _, seen := typeCounts[e.Driver][e.Type]; !seen {
			typeOrder[e.Driver] = append(typeOrder[e.Driver], e.Type)
		}
		typeCounts[e.Driver][e.Type]++
	}

	var out []RepeatOffender
	for _, kc := range byDriver {
		if kc.Count < monitorThreshold {
			break // ranked descending, nothing below qualifies
		}
		out = append(out, RepeatOffender{
			Driver:       kc.Key,
			Events:       kc.Count,
			TopViolation: humanizeEventType(topType(typeCounts[kc.Key], typeOrder[kc.Key])),
			Status:       offenderStatus(kc.Count),
		})
	}
	return out
}

func topType(counts map[string]int, order []string) string {
	var best string
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}

func offenderStatus(events int) string {
	switch {
	case events >= coachingThreshold:
		return "coaching needed"
	case events >= monitorThreshold:
		return "monitor"
	default:
		return "low risk"
	}
}

// humanizeEventType turns a feed event type like "hard_brake" into the
// display form "Hard Brake".
func humanizeEventType(t string) string {
	words := strings.Split(strings.ReplaceAll(t, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
