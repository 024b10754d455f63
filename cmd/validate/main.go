// Command validate performs end-to-end integrity checks over a snapshot
// directory: it re-runs the normalization and aggregation over the raw feeds
// and verifies that the derived numbers are internally consistent. It is the
// check run after regenerating fixtures or changing the classification rules.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/brhas/safety-metrics-service/internal/adapter/snapshot"
	"github.com/brhas/safety-metrics-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory containing snapshot JSON files")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Division Safety Data Integrity Validation ===")
	fmt.Println()

	vehicle, err := loadJSON[domain.VehicleFeed](filepath.Join(dataDir, snapshot.VehicleEventsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load vehicle events: %v\n", err)
		return 1
	}
	incidents, err := loadJSON[domain.EHSFeed](filepath.Join(dataDir, snapshot.IncidentsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load incidents: %v\n", err)
		return 1
	}
	observations, err := loadJSON[domain.EHSFeed](filepath.Join(dataDir, snapshot.ObservationsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load observations: %v\n", err)
		return 1
	}

	rules := domain.DefaultRules()
	events := domain.NormalizeVehicleEvents(vehicle, rules)
	incItems := domain.NormalizeEHSItems(incidents, "incidents", rules)
	obsItems := domain.NormalizeEHSItems(observations, "observations", rules)

	phases := []*phase{
		validateDivisionFilter(rules, vehicle, events, incItems, obsItems),
		validateAggregates(rules, events),
		validateTrends(rules, events, incItems),
		validateChecklists(obsItems),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d vehicle events (%d in division), %d incidents (%d), %d observations (%d)\n",
		len(vehicle.Events), len(events),
		len(incidents.Incidents), len(incItems),
		len(observations.Observations), len(obsItems))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

// ── Phase 1: Division Filter ──
// Every record surviving normalization must actually belong to the division,
// and the filter must never grow the data.

func validateDivisionFilter(rules domain.Rules, vehicle domain.VehicleFeed, events []domain.NormalizedEvent, incItems, obsItems []domain.EHSItem) *phase {
	p := &phase{name: "Phase 1: Division Filter"}

	if len(events) > len(vehicle.Events) {
		p.errorf("normalized events (%d) exceed raw events (%d)", len(events), len(vehicle.Events))
	}
	for _, e := range events {
		if !rules.IsDivisionVehicle(e.VehicleNumber) {
			p.errorf("event %s: vehicle %q is not a division unit", e.ID, e.VehicleNumber)
		}
		if e.Type == "" {
			p.errorf("event %s: empty type after normalization", e.ID)
		}
		if e.ID == "" {
			p.errorf("event with vehicle %q has no ID", e.VehicleNumber)
		}
	}

	for _, it := range incItems {
		if !rules.IsDivisionServiceLine(it.ServiceLine) {
			p.errorf("incident in %q kept with service line %q", it.District, it.ServiceLine)
		}
	}
	for _, it := range obsItems {
		if !rules.IsDivisionServiceLine(it.ServiceLine) {
			p.errorf("observation in %q kept with service line %q", it.District, it.ServiceLine)
		}
	}
	return p
}

// ── Phase 2: Aggregates ──
// Yard and day rollups must reconcile with the event list they came from.

func validateAggregates(rules domain.Rules, events []domain.NormalizedEvent) *phase {
	p := &phase{name: "Phase 2: Aggregate Reconciliation"}

	agg := domain.AggregateCounts(events)

	yardTotal := 0
	for _, kc := range agg.ByYard {
		if !rules.IsYard(kc.Key) {
			p.errorf("unknown yard %q in rollup", kc.Key)
		}
		yardTotal += kc.Count
	}
	if yardTotal > len(events) {
		p.errorf("yard rollup total %d exceeds event count %d", yardTotal, len(events))
	}

	typeTotal := 0
	for _, kc := range agg.ByType {
		typeTotal += kc.Count
	}
	if typeTotal != len(events) {
		p.errorf("type rollup total %d does not match event count %d", typeTotal, len(events))
	}

	dated := 0
	for _, e := range events {
		if e.Date != nil {
			dated++
		}
	}
	dayTotal := 0
	for _, kc := range agg.ByDay {
		dayTotal += kc.Count
	}
	if dayTotal != dated {
		p.errorf("daily rollup total %d does not match dated event count %d", dayTotal, dated)
	}
	return p
}

// ── Phase 3: Trend Re-derivation ──
// The published trend numbers must be re-derivable from their own components.

func validateTrends(rules domain.Rules, events []domain.NormalizedEvent, incidents []domain.EHSItem) *phase {
	p := &phase{name: "Phase 3: Trend Re-derivation"}

	alerts := domain.CalculateTrendAlerts(events, incidents, rules, time.Time{})
	if len(alerts) != len(rules.YardNames()) {
		p.errorf("expected %d yard alerts, got %d", len(rules.YardNames()), len(alerts))
	}

	for yard, a := range alerts {
		var expected float64
		switch {
		case a.Previous > 0:
			expected = float64(a.Current-a.Previous) / float64(a.Previous) * 100
		case a.Current > 0:
			expected = 100
		}
		if math.Abs(a.TrendPct-expected) > 1e-9 {
			p.errorf("%s: trend %.2f%% does not re-derive from current=%d previous=%d", yard, a.TrendPct, a.Current, a.Previous)
		}
		if a.Confidence < 0 || a.Confidence > 95 {
			p.errorf("%s: confidence %d outside [0,95]", yard, a.Confidence)
		}
		if a.Projected < a.Current {
			p.errorf("%s: projected %d below month-to-date count %d", yard, a.Projected, a.Current)
		}
	}
	return p
}

// ── Phase 4: Checklist Scoring ──
// Scores must stay in range and agree with their pass/fail counts.

func validateChecklists(observations []domain.EHSItem) *phase {
	p := &phase{name: "Phase 4: Checklist Scoring"}

	audits := domain.ExtractChecklistAudits(observations, domain.DefaultChecklistSchema())
	for i, a := range audits {
		if a.Score < 0 || a.Score > 100 {
			p.errorf("audit %d: score %d outside [0,100]", i, a.Score)
		}
		if a.Failed != len(a.FailedItems) {
			p.errorf("audit %d: failed count %d does not match %d failed items", i, a.Failed, len(a.FailedItems))
		}
		if total := a.Passed + a.Failed; total > 0 {
			expected := int(math.Round(float64(a.Passed) / float64(total) * 100))
			if a.Score != expected {
				p.errorf("audit %d: score %d does not re-derive from %d/%d", i, a.Score, a.Passed, total)
			}
		} else if a.Score != 0 {
			p.errorf("audit %d: score %d with nothing evaluable", i, a.Score)
		}
	}
	return p
}
