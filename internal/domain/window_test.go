package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterByWindow(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)

	events := []NormalizedEvent{
		{ID: "before", Date: day(2026, 1, 31)},
		{ID: "on-start", Date: day(2026, 2, 1)},
		{ID: "inside", Date: day(2026, 2, 4)},
		{ID: "on-end", Date: day(2026, 2, 7)},
		{ID: "after", Date: day(2026, 2, 8)},
		{ID: "no-date", Date: nil},
	}

	got := FilterByWindow(events, EventDate, start, end)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"on-start", "inside", "on-end"}, ids)
}

func TestFilterByWindow_EHSItems(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	items := []EHSItem{
		{District: "Midland", Date: day(2026, 2, 10)},
		{District: "Hobbs", Date: nil},
		{District: "Bryan", Date: day(2026, 3, 1)},
	}

	got := FilterByWindow(items, ItemDate, start, end)
	assert.Len(t, got, 1)
	assert.Equal(t, "Midland", got[0].District)
}

func TestFilterByWindow_Empty(t *testing.T) {
	got := FilterByWindow(nil, EventDate, time.Time{}, time.Time{})
	assert.Empty(t, got)
}
