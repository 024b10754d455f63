package domain

import (
	"math"
	"time"
)

// Trend severity thresholds, checked in priority order against the
// month-over-month percentage change.
const (
	trendCritical = 30.0
	trendWarning  = 10.0
	trendStable   = -10.0
)

// CalculateTrendAlerts builds the per-yard month-over-month summary from the
// full, unwindowed dataset: whatever slice the report is displaying, the
// trend always answers "how is this month tracking against last month".
// Vehicle events and EHS incidents count together. A zero reference date
// means "now" on the package clock.
func CalculateTrendAlerts(events []NormalizedEvent, incidents []EHSItem, rules Rules, reference time.Time) map[string]TrendAlert {
	if reference.IsZero() {
		reference = clock.Now()
	}
	reference = reference.UTC()

	monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	prevMonthEnd := monthStart.AddDate(0, 0, -1)
	refDay := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	daysElapsed := reference.Day()
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	current := map[string]int{}
	previous := map[string]int{}

	tally := func(yard string, date *time.Time) {
		if yard == "" || date == nil {
			return
		}
		switch {
		case !date.Before(monthStart) && !date.After(refDay):
			current[yard]++
		case !date.Before(prevMonthStart) && !date.After(prevMonthEnd):
			previous[yard]++
		}
	}

	for _, e := range events {
		tally(e.Yard, e.Date)
	}
	for _, inc := range incidents {
		tally(rules.IncidentYard(inc), inc.Date)
	}

	alerts := make(map[string]TrendAlert, len(rules.Yards))
	for _, yard := range rules.Yards {
		cur := current[yard.Name]
		prev := previous[yard.Name]

		var trend float64
		switch {
		case prev > 0:
			trend = float64(cur-prev) / float64(prev) * 100
		case cur > 0:
			trend = 100
		}

		dailyAvg := float64(cur) / float64(max(daysElapsed, 1))
		projected := int(math.Round(dailyAvg * float64(daysInMonth)))
		confidence := min(95, int(math.Round(float64(daysElapsed)/float64(daysInMonth)*100)))

		alerts[yard.Name] = TrendAlert{
			Yard:       yard.Name,
			Current:    cur,
			Previous:   prev,
			TrendPct:   trend,
			Projected:  projected,
			Confidence: confidence,
			Severity:   trendSeverity(trend),
		}
	}
	return alerts
}

// trendSeverity maps a month-over-month percentage change to its alert band.
func trendSeverity(trend float64) string {
	switch {
	case trend >= trendCritical:
		return "critical"
	case trend >= trendWarning:
		return "warning"
	case trend >= trendStable:
		return "stable"
	default:
		return "improving"
	}
}

// IncidentYard resolves an EHS item's yard: a district that is itself a yard
// name wins, otherwise the district text goes through keyword resolution.
func (r Rules) IncidentYard(item EHSItem) string {
	if r.IsYard(item.District) {
		return item.District
	}
	return r.LocationToYard(item.District)
}
