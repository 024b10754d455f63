package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// eventDateLayouts are tried in order against feed timestamps. Motive sends
// RFC 3339 (with Z or a numeric offset); some exports drop the zone.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseEventDate resolves a feed timestamp string to a UTC day. Returns nil
// when the string cannot be parsed; callers keep the record and exclude it
// from windowed views only.
func ParseEventDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dayOf(t)
		}
	}
	// Bare YYYY-MM-DD prefix.
	if len(raw) >= 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return dayOf(t)
		}
	}
	return nil
}

func dayOf(t time.Time) *time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// ehsRecordDate resolves an EHS record's date. The labeled "Date" field is
// authoritative; records missing it fall back to the epoch-millisecond
// created / Updated Time columns the flat export always carries.
func ehsRecordDate(rec EHSRecord) *time.Time {
	if d := ParseEventDate(rec.String("Date")); d != nil {
		return d
	}
	for _, key := range []string{"created", "Updated Time"} {
		if ms := rec.EpochMillis(key); ms > 0 {
			return dayOf(time.UnixMilli(ms))
		}
	}
	return nil
}

// generateEventID produces a deterministic short ID from an event's key
// fields, so re-normalizing the same snapshot yields the same IDs.
func generateEventID(eventType, vehicle, startTime string) string {
	input := fmt.Sprintf("%s|%s|%s", eventType, vehicle, startTime)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if eventType == "" {
		return short
	}
	return eventType + "-" + short
}

// NormalizeVehicleEvents flattens a telematics snapshot into normalized,
// division-filtered events. Non-division vehicles are skipped entirely;
// everything else is kept, in input order, even when the date or yard cannot
// be resolved.
func NormalizeVehicleEvents(feed VehicleFeed, rules Rules) []NormalizedEvent {
	events := make([]NormalizedEvent, 0, len(feed.Events))
	for _, entry := range feed.Events {
		evt := UnwrapVehicleEvent(entry)

		var number string
		if evt.Vehicle != nil {
			number = evt.Vehicle.Number
		}
		if !rules.IsDivisionVehicle(number) {
			continue
		}

		eventType := evt.Type
		if eventType == "" {
			eventType = "unknown"
		}

		var driver string
		if evt.Driver != nil && strings.TrimSpace(evt.Driver.FirstName) != "" {
			driver = strings.TrimSpace(strings.TrimSpace(evt.Driver.FirstName) + " " + strings.TrimSpace(evt.Driver.LastName))
		}

		events = append(events, NormalizedEvent{
			ID:            generateEventID(eventType, number, evt.StartTime),
			Type:          eventType,
			Date:          ParseEventDate(evt.StartTime),
			RawDate:       evt.StartTime,
			Location:      evt.Location,
			Yard:          rules.LocationToYard(evt.Location),
			Driver:        driver,
			VehicleNumber: strings.TrimSpace(number),
			StartSpeed:    evt.StartSpeed,
			EndSpeed:      evt.EndSpeed,
		})
	}
	return events
}

// NormalizeEHSItems filters the records under the given snapshot key to the
// division and attaches the derived date and normalized district. The raw
// record is carried along untouched so display fields stay accessible under
// their original labels.
func NormalizeEHSItems(feed EHSFeed, key string, rules Rules) []EHSItem {
	records := feed.RecordsFor(key)
	items := make([]EHSItem, 0, len(records))
	for _, rec := range records {
		sl := ServiceLineOf(rec)
		if !rules.IsDivisionServiceLine(sl) {
			continue
		}
		items = append(items, EHSItem{
			Raw:         rec,
			ServiceLine: sl,
			District:    rules.NormalizeDistrict(rec.String("District")),
			Date:        ehsRecordDate(rec),
		})
	}
	return items
}
