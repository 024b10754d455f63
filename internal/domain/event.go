package domain

import (
	"strings"
	"time"
)

// VehicleFeed is the decoded motive_events.json snapshot.
type VehicleFeed struct {
	Events    []VehicleEventEnvelope `json:"events"`
	FetchedAt string                 `json:"fetched_at"`
}

// VehicleEventEnvelope is one entry in the snapshot's events array. The v2
// Motive endpoint wraps each event in a named layer; the v1 fallback returns
// the event fields directly. Declaring both lets a single unmarshal accept
// either shape.
type VehicleEventEnvelope struct {
	DriverPerformanceEvent *RawVehicleEvent `json:"driver_performance_event"`
	RawVehicleEvent
}

// UnwrapVehicleEvent resolves the optional envelope into the one canonical
// event shape. All consumers go through this; nothing downstream knows the
// envelope exists.
func UnwrapVehicleEvent(entry VehicleEventEnvelope) RawVehicleEvent {
	if entry.DriverPerformanceEvent != nil {
		return *entry.DriverPerformanceEvent
	}
	return entry.RawVehicleEvent
}

// RawVehicleEvent is one telematics safety event as fetched.
type RawVehicleEvent struct {
	Type       string      `json:"type"`
	StartTime  string      `json:"start_time"`
	EndTime    string      `json:"end_time"`
	Location   string      `json:"location"`
	StartSpeed float64     `json:"start_speed"`
	EndSpeed   float64     `json:"end_speed"`
	Vehicle    *RawVehicle `json:"vehicle"`
	Driver     *RawDriver  `json:"driver"`
}

// RawVehicle carries the fleet unit number used for division classification.
type RawVehicle struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// RawDriver holds the split name fields from the feed.
type RawDriver struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// EHSRecord is one KPA flat-response record: an open set of human-labeled
// fields. Records are kept as maps because checklist forms carry arbitrary
// question columns alongside the fixed metadata.
type EHSRecord map[string]any

// String returns the record field as a trimmed string, or "" when the field
// is absent or not a string.
func (r EHSRecord) String(key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// EpochMillis returns the record field as epoch milliseconds, or 0 when the
// field is absent or not numeric. JSON numbers decode as float64.
func (r EHSRecord) EpochMillis(key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

// EHSFeed is a decoded kpa_*.json snapshot. Records live under a
// kind-specific key.
type EHSFeed struct {
	Incidents    []EHSRecord `json:"incidents"`
	Observations []EHSRecord `json:"observations"`
	FetchedAt    string      `json:"fetched_at"`
}

// RecordsFor returns the record list for the given snapshot key
// ("incidents" or "observations"); unknown keys yield nil.
func (f EHSFeed) RecordsFor(key string) []EHSRecord {
	switch key {
	case "incidents":
		return f.Incidents
	case "observations":
		return f.Observations
	}
	return nil
}

// NormalizedEvent is the division-filtered, yard-resolved view of a raw
// vehicle event. Only constructed for vehicles classified as Casing.
type NormalizedEvent struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Date          *time.Time `json:"date"`     // UTC day, nil when unparsable
	RawDate       string     `json:"raw_date"` // start_time as fetched
	Location      string     `json:"location"`
	Yard          string     `json:"yard,omitempty"`   // "" when unresolved
	Driver        string     `json:"driver,omitempty"` // "" when no first name
	VehicleNumber string     `json:"vehicle_number"`
	StartSpeed    float64    `json:"start_speed,omitempty"`
	EndSpeed      float64    `json:"end_speed,omitempty"`
}

// DayKey returns the YYYY-MM-DD bucket for daily series, or "" when the
// event date is unresolved.
func (e NormalizedEvent) DayKey() string {
	if e.Date == nil {
		return ""
	}
	return e.Date.Format("2006-01-02")
}

// EHSItem is the division-filtered view of an EHS record. The raw map stays
// attached so display fields remain accessible under their original labels.
type EHSItem struct {
	Raw         EHSRecord  `json:"raw"`
	ServiceLine string     `json:"service_line"`
	District    string     `json:"district"` // alias-normalized
	Date        *time.Time `json:"date"`     // UTC day, nil when unparsable
}

// ChecklistAudit is a scored rig-inspection record extracted from the
// observation feed.
type ChecklistAudit struct {
	Report      string     `json:"report"`
	Date        *time.Time `json:"date"`
	District    string     `json:"district"`
	Observer    string     `json:"observer"`
	Score       int        `json:"score"` // 0–100; 0 when nothing evaluable
	Passed      int        `json:"passed"`
	Failed      int        `json:"failed"`
	FailedItems []string   `json:"failed_items"`
}

// TrendAlert is the per-yard month-over-month summary. Lifetime is a single
// report generation; everything is re-derived from the raw snapshots.
type TrendAlert struct {
	Yard       string  `json:"yard"`
	Current    int     `json:"current"`   // events+incidents this month to date
	Previous   int     `json:"previous"`  // full previous calendar month
	TrendPct   float64 `json:"trend_pct"`
	Projected  int     `json:"projected"`  // straight-line month-end estimate
	Confidence int     `json:"confidence"` // capped at 95
	Severity   string  `json:"severity"`   // critical, warning, stable, improving
}

// KeyCount is one ranked bucket in an aggregate view. Slices of KeyCount
// preserve ranking order, which maps cannot.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
