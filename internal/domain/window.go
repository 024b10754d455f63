package domain

import "time"

// FilterByWindow keeps records whose resolved date falls within [start, end]
// inclusive. Records with a nil date are dropped from windowed views; they
// still count toward unfiltered totals elsewhere. This is the system's
// policy for bad dates: exclude, never impute, never fail.
func FilterByWindow[T any](records []T, dateOf func(T) *time.Time, start, end time.Time) []T {
	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		d := dateOf(rec)
		if d == nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// EventDate is the date accessor for NormalizedEvent windows.
func EventDate(e NormalizedEvent) *time.Time { return e.Date }

// ItemDate is the date accessor for EHSItem windows.
func ItemDate(i EHSItem) *time.Time { return i.Date }
