// Package domain models Casing Division safety data from the two upstream
// feeds and implements the filtering, normalization, and aggregation rules
// the report is built from.
//
// # Data Sources
//
// Vehicle safety events come from the Motive telematics API. The fetch
// script snapshots them to motive_events.json. Depending on which API
// version answered, an entry in the "events" array is either a flat event or
// the same event wrapped in a "driver_performance_event" envelope; both
// shapes are accepted and unwrapped once at the ingestion boundary by
// [UnwrapVehicleEvent].
//
// EHS records (incidents, observations, checklist audits) come from the KPA
// EHS API's flat-response endpoint, snapshotted to kpa_incidents.json and
// kpa_observations.json. Each record is an open set of human-labeled fields
// ("Service Line", "District", "Date", "Observer", ...), so records are kept
// as maps and accessed tolerantly.
//
// # Division Classification
//
// A vehicle belongs to the Casing division when its unit number contains the
// "-RAT-" marker or matches the numeric-prefix pattern: digits followed by a
// capital C and then end-of-string, whitespace, or a hyphen ("12C",
// "12C-04"; not "12CX"). Both checks are case-sensitive: the C suffix is
// the only thing separating casing trucks from the rest of the fleet. EHS
// records are in-division when their
// service line is "casing" (trimmed, lower-cased, exact).
//
// # Yard Resolution
//
// Free-text locations resolve to one of seven fixed yards via keyword
// substring matching in declared order; the first yard with a matching
// keyword wins. EHS "District" values pass through a small alias table that
// folds sub-districts into their parent yard.
//
// # Date Handling
//
// Feed timestamps arrive as RFC 3339 strings or bare YYYY-MM-DD prefixes.
// Resolved dates are truncated to the UTC day. Records whose date cannot be
// parsed keep a nil date: they still count toward unfiltered totals but are
// excluded from any date-windowed view. Nothing in this package raises on
// malformed input; a bad field degrades to a zero value so a report can
// always be rendered.
package domain
