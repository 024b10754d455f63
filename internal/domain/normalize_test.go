package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *time.Time
	}{
		{"rfc3339 zulu", "2026-02-14T08:30:00Z", day(2026, 2, 14)},
		{"rfc3339 offset", "2026-02-14T22:30:00-06:00", day(2026, 2, 15)},
		{"no zone", "2026-02-14T08:30:00", day(2026, 2, 14)},
		{"bare date", "2026-02-14", day(2026, 2, 14)},
		{"date prefix with junk", "2026-02-14 08:30 CST", day(2026, 2, 14)},
		{"padded", "  2026-02-14T08:30:00Z ", day(2026, 2, 14)},
		{"garbage", "last tuesday", nil},
		{"too short", "2026-02", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEventDate(tt.raw)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestUnwrapVehicleEvent(t *testing.T) {
	t.Run("wrapped and flat decode identically", func(t *testing.T) {
		flat := []byte(`{"type":"speeding","start_time":"2026-02-14T08:30:00Z","location":"Midland, TX","vehicle":{"number":"12C"}}`)
		wrapped := []byte(`{"driver_performance_event":` + string(flat) + `}`)

		var flatEntry, wrappedEntry VehicleEventEnvelope
		require.NoError(t, json.Unmarshal(flat, &flatEntry))
		require.NoError(t, json.Unmarshal(wrapped, &wrappedEntry))

		assert.Empty(t, cmp.Diff(UnwrapVehicleEvent(flatEntry), UnwrapVehicleEvent(wrappedEntry)))
	})

	t.Run("envelope wins when both present", func(t *testing.T) {
		data := []byte(`{"type":"outer","driver_performance_event":{"type":"inner"}}`)
		var entry VehicleEventEnvelope
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, "inner", UnwrapVehicleEvent(entry).Type)
	})
}

func TestNormalizeVehicleEvents(t *testing.T) {
	rules := DefaultRules()

	feedJSON := []byte(`{
		"events": [
			{"driver_performance_event": {
				"type": "speeding",
				"start_time": "2026-02-10T14:05:00Z",
				"location": "Odessa, TX",
				"start_speed": 78, "end_speed": 62,
				"vehicle": {"number": "12C"},
				"driver": {"first_name": "Ray", "last_name": "Koslowski"}
			}},
			{"type": "hard_brake",
			 "start_time": "2026-02-11T09:00:00Z",
			 "location": "Stanton, TX",
			 "vehicle": {"number": "7C-02"}},
			{"type": "speeding",
			 "start_time": "not a timestamp",
			 "location": "somewhere on I-20",
			 "vehicle": {"number": "TRK-RAT-03"},
			 "driver": {"first_name": "Dana"}},
			{"type": "speeding",
			 "start_time": "2026-02-11T10:00:00Z",
			 "location": "Midland, TX",
			 "vehicle": {"number": "44F"}}
		],
		"fetched_at": "2026-02-14T06:30:00"
	}`)

	var feed VehicleFeed
	require.NoError(t, json.Unmarshal(feedJSON, &feed))

	events := NormalizeVehicleEvents(feed, rules)
	require.Len(t, events, 3, "the 44F truck is not Casing and must be absent")

	t.Run("input order preserved", func(t *testing.T) {
		assert.Equal(t, "12C", events[0].VehicleNumber)
		assert.Equal(t, "7C-02", events[1].VehicleNumber)
		assert.Equal(t, "TRK-RAT-03", events[2].VehicleNumber)
	})

	t.Run("fields resolved", func(t *testing.T) {
		first := events[0]
		assert.Equal(t, "speeding", first.Type)
		require.NotNil(t, first.Date)
		assert.Equal(t, *day(2026, 2, 10), *first.Date)
		assert.Equal(t, "2026-02-10T14:05:00Z", first.RawDate)
		assert.Equal(t, "Midland", first.Yard)
		assert.Equal(t, "Ray Koslowski", first.Driver)
		assert.Equal(t, 78.0, first.StartSpeed)
		assert.Equal(t, 62.0, first.EndSpeed)
		assert.True(t, strings.HasPrefix(first.ID, "speeding-"))
	})

	t.Run("unparsable date kept with nil date", func(t *testing.T) {
		assert.Nil(t, events[2].Date)
		assert.Equal(t, "not a timestamp", events[2].RawDate)
		assert.Equal(t, "", events[2].Yard)
		assert.Equal(t, "Dana", events[2].Driver, "missing last name still yields a driver")
	})

	t.Run("missing first name yields no driver", func(t *testing.T) {
		assert.Equal(t, "", events[1].Driver)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		again := NormalizeVehicleEvents(feed, rules)
		assert.Empty(t, cmp.Diff(events, again))
	})
}

func TestNormalizeVehicleEvents_EmptyFeed(t *testing.T) {
	events := NormalizeVehicleEvents(VehicleFeed{}, DefaultRules())
	assert.Empty(t, events)
}

func TestNormalizeEHSItems(t *testing.T) {
	rules := DefaultRules()

	feed := EHSFeed{
		Incidents: []EHSRecord{
			{"Service Line": "Casing", "District": "Midland Yukon", "Date": "2026-02-03", "Incident Type": "Vehicle"},
			{"service_line": "casing", "District": " Hobbs ", "created": float64(1770681600000)},
			{"Service Line": "Wireline", "District": "Midland", "Date": "2026-02-04"},
			{"District": "Bryan", "Date": "2026-02-05"},
		},
		FetchedAt: "2026-02-14T06:30:00",
	}

	items := NormalizeEHSItems(feed, "incidents", rules)
	require.Len(t, items, 2)

	t.Run("district alias applied", func(t *testing.T) {
		assert.Equal(t, "Midland", items[0].District)
		require.NotNil(t, items[0].Date)
		assert.Equal(t, *day(2026, 2, 3), *items[0].Date)
	})

	t.Run("original fields stay accessible", func(t *testing.T) {
		assert.Equal(t, "Midland Yukon", items[0].Raw.String("District"))
		assert.Equal(t, "Vehicle", items[0].Raw.String("Incident Type"))
	})

	t.Run("epoch fallback date", func(t *testing.T) {
		assert.Equal(t, "Hobbs", items[1].District)
		require.NotNil(t, items[1].Date)
		assert.Equal(t, time.UnixMilli(1770681600000).UTC().Format("2006-01-02"), items[1].Date.Format("2006-01-02"))
	})

	t.Run("unknown key yields nothing", func(t *testing.T) {
		assert.Empty(t, NormalizeEHSItems(feed, "audits", rules))
	})
}
