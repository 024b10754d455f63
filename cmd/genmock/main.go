// Command genmock writes deterministic snapshot fixtures for local runs and
// integration testing. It uses the actual domain package to print the
// division-filtered stats for the generated data, so the fixture output can
// be checked against real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brhas/safety-metrics-service/internal/adapter/snapshot"
	"github.com/brhas/safety-metrics-service/internal/domain"
)

// All fixture dates hang off this reference so re-running genmock always
// produces byte-identical files.
var fetchTime = time.Date(2026, time.February, 14, 6, 0, 0, 0, time.UTC)

type eventDef struct {
	daysAgo  int
	evType   string
	location string
	vehicle  string
	first    string
	last     string
}

var eventDefs = []eventDef{
	{2, "speeding", "Odessa, TX", "12C-04", "Ray", "Koslowski"},
	{2, "hard_brake", "Midland, TX", "12C-04", "Ray", "Koslowski"},
	{3, "speeding", "Big Spring, TX", "7C", "Ray", "Koslowski"},
	{4, "distracted_driving", "Hobbs, NM", "TRK-RAT-02", "Dana", "Pruitt"},
	{5, "speeding", "Lovington, NM", "TRK-RAT-02", "Dana", "Pruitt"},
	{6, "hard_brake", "Kilgore, TX", "31C-1", "Marcus", "Bell"},
	{8, "speeding", "Pleasanton, TX", "9C", "Luis", "Serna"},
	{10, "seat_belt_violation", "Lubbock, TX", "22C", "", ""},
	{12, "speeding", "Pecos, TX", "5C-07", "Tom", "Avery"},
	{15, "hard_brake", "Bryan, TX", "18C", "Cole", "Whitaker"},
	{34, "speeding", "Odessa, TX", "12C-04", "Ray", "Koslowski"},
	{36, "hard_brake", "Hobbs, NM", "TRK-RAT-02", "Dana", "Pruitt"},
	// Non-division units, dropped by the filter.
	{3, "speeding", "Lubbock, TX", "44F", "Pat", "Ngo"},
	{5, "hard_brake", "Amarillo, TX", "CEM-12", "Gus", "Harmon"},
}

type incidentDef struct {
	daysAgo     int
	serviceLine string
	district    string
	incType     string
}

var incidentDefs = []incidentDef{
	{1, "Casing", "Midland", "First Aid"},
	{4, "Casing", "Midland Yukon", "Near Miss"},
	{7, "Casing", "Hobbs", "Property Damage"},
	{11, "Casing", "Levelland", "Near Miss"},
	{33, "Casing", "Midland", "Recordable"},
	{38, "Casing", "Jourdanton", "First Aid"},
	// Other service lines, dropped by the filter.
	{2, "Cementing", "Midland", "Near Miss"},
	{6, "Wireline", "Kilgore", "First Aid"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for snapshot fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	vehicle := buildVehicleFeed()
	incidents := buildIncidentFeed()
	observations := buildObservationFeed()

	files := map[string]any{
		snapshot.VehicleEventsFile: vehicle,
		snapshot.IncidentsFile:     incidents,
		snapshot.ObservationsFile:  observations,
	}
	for name, feed := range files {
		path := filepath.Join(*out, name)
		if err := writeJSON(path, feed); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s", path)
	}

	printStats(vehicle, incidents, observations)
	return nil
}

func dayStamp(daysAgo int) string {
	return fetchTime.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func buildVehicleFeed() domain.VehicleFeed {
	feed := domain.VehicleFeed{FetchedAt: fetchTime.Format(time.RFC3339)}
	for _, d := range eventDefs {
		evt := domain.RawVehicleEvent{
			Type:       d.evType,
			StartTime:  dayStamp(d.daysAgo),
			Location:   d.location,
			StartSpeed: 68,
			EndSpeed:   61,
			Vehicle:    &domain.RawVehicle{ID: int64(100 + len(feed.Events)), Number: d.vehicle},
		}
		if d.first != "" {
			evt.Driver = &domain.RawDriver{FirstName: d.first, LastName: d.last}
		}
		feed.Events = append(feed.Events, domain.VehicleEventEnvelope{DriverPerformanceEvent: &evt})
	}
	return feed
}

func buildIncidentFeed() domain.EHSFeed {
	feed := domain.EHSFeed{FetchedAt: fetchTime.Add(5 * time.Minute).Format(time.RFC3339)}
	for _, d := range incidentDefs {
		feed.Incidents = append(feed.Incidents, domain.EHSRecord{
			"Service Line":     d.serviceLine,
			"District":         d.district,
			"Type of Incident": d.incType,
			"Date":             fetchTime.AddDate(0, 0, -d.daysAgo).Format("2006-01-02"),
		})
	}
	return feed
}

func buildObservationFeed() domain.EHSFeed {
	feed := domain.EHSFeed{FetchedAt: fetchTime.Add(10 * time.Minute).Format(time.RFC3339)}

	// Behavior-based cards.
	cards := []struct {
		daysAgo  int
		district string
		obsType  string
		observer string
	}{
		{1, "Midland", "Safe", "K. Rhodes"},
		{2, "Midland", "At-Risk", "K. Rhodes"},
		{3, "Hobbs", "Safe", "M. Ortega"},
		{5, "Hobbs", "Safe", "M. Ortega"},
		{6, "Levelland", "At-Risk", "J. Fenwick"},
		{9, "Bryan", "Safe", "T. Calloway"},
	}
	for _, c := range cards {
		feed.Observations = append(feed.Observations, domain.EHSRecord{
			"Service Line":        "Casing",
			"District":            c.district,
			"Report":              "BBS Card",
			"Type of Observation": c.obsType,
			"Observer":            c.observer,
			"Date":                fetchTime.AddDate(0, 0, -c.daysAgo).Format("2006-01-02"),
		})
	}

	// Checklist audits, one clean and one with findings. The answer columns
	// match the declared rig audit schema.
	schema := domain.DefaultChecklistSchema()
	clean := domain.EHSRecord{
		"Service Line": "Casing",
		"District":     "Midland",
		"Report":       schema.Form,
		"Observer":     "K. Rhodes",
		"Date":         fetchTime.AddDate(0, 0, -4).Format("2006-01-02"),
	}
	for _, q := range schema.Questions {
		clean[q] = "Yes"
	}
	findings := domain.EHSRecord{
		"Service Line": "Casing",
		"District":     "Hobbs",
		"Report":       schema.Form,
		"Observer":     "M. Ortega",
		"Date":         fetchTime.AddDate(0, 0, -7).Format("2006-01-02"),
	}
	for i, q := range schema.Questions {
		switch i {
		case 3, 10:
			findings[q] = "No"
		case 5:
			findings[q] = "N/A"
		default:
			findings[q] = "Yes"
		}
	}
	feed.Observations = append(feed.Observations, clean, findings)

	// A record from another service line, dropped by the filter.
	feed.Observations = append(feed.Observations, domain.EHSRecord{
		"Service Line": "Coiled Tubing",
		"District":     "Midland",
		"Report":       "BBS Card",
		"Date":         fetchTime.AddDate(0, 0, -2).Format("2006-01-02"),
	})

	return feed
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printStats(vehicle domain.VehicleFeed, incidents, observations domain.EHSFeed) {
	rules := domain.DefaultRules()

	events := domain.NormalizeVehicleEvents(vehicle, rules)
	incItems := domain.NormalizeEHSItems(incidents, "incidents", rules)
	obsItems := domain.NormalizeEHSItems(observations, "observations", rules)
	audits := domain.ExtractChecklistAudits(obsItems, domain.DefaultChecklistSchema())

	log.Printf("vehicle events: %d of %d in division", len(events), len(vehicle.Events))
	log.Printf("incidents: %d of %d in division", len(incItems), len(incidents.Incidents))
	log.Printf("observations: %d of %d in division", len(obsItems), len(observations.Observations))
	log.Printf("checklist audits: %d", len(audits))

	agg := domain.AggregateCounts(events)
	for _, kc := range agg.ByYard {
		log.Printf("  yard %-12s %d events", kc.Key, kc.Count)
	}
	for _, a := range audits {
		log.Printf("  audit %-12s score %d (%d passed, %d failed)", a.District, a.Score, a.Passed, a.Failed)
	}
}
