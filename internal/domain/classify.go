package domain

import (
	"regexp"
	"strings"
)

// casingVehicleRe matches unit numbers of the form "<digits>C" followed by
// end-of-string, whitespace, or a hyphen: "12C", "12C-04", "12C 2" qualify;
// "12CX" does not. The capital C is the division suffix; the match is
// case-sensitive.
var casingVehicleRe = regexp.MustCompile(`^\d+C(\s|$|-)`)

// Rules is the immutable rule set the normalizers run against: division
// markers, service-line membership, yard keyword tables, and district
// aliases. Built once at startup by DefaultRules and passed in explicitly.
type Rules struct {
	// VehicleMarker is a substring that marks a unit as in-division
	// regardless of its number pattern (rental/RAT units).
	VehicleMarker string

	vehiclePattern *regexp.Regexp

	// ServiceLines holds the lower-cased service-line tags that belong to
	// the division.
	ServiceLines map[string]bool

	// Yards in declared order; first keyword match wins.
	Yards []YardDef

	// DistrictAliases folds sub-district names (lower-cased keys) into
	// their parent yard name.
	DistrictAliases map[string]string
}

// DefaultRules returns the Casing Division rule set.
func DefaultRules() Rules {
	return Rules{
		VehicleMarker:  "-RAT-",
		vehiclePattern: casingVehicleRe,
		ServiceLines:   map[string]bool{"casing": true},
		Yards:          casingYards,
		DistrictAliases: map[string]string{
			"midland yukon": "Midland",
		},
	}
}

// IsDivisionVehicle reports whether a fleet unit number belongs to the
// division. Empty or missing numbers classify as not-in-division: exclusion
// is the safe default.
func (r Rules) IsDivisionVehicle(number string) bool {
	number = strings.TrimSpace(number)
	if number == "" {
		return false
	}
	if r.VehicleMarker != "" && strings.Contains(number, r.VehicleMarker) {
		return true
	}
	return r.vehiclePattern != nil && r.vehiclePattern.MatchString(number)
}

// IsDivisionServiceLine reports whether a raw service-line tag is in the
// division set. Matching is trimmed and lower-cased, exact.
func (r Rules) IsDivisionServiceLine(raw string) bool {
	return r.ServiceLines[strings.ToLower(strings.TrimSpace(raw))]
}

// ServiceLineOf reads the service-line field from an EHS record, tolerating
// both key spellings the KPA export has used.
func ServiceLineOf(rec EHSRecord) string {
	if sl := rec.String("Service Line"); sl != "" {
		return sl
	}
	return rec.String("service_line")
}

// IsDivisionEHSRecord reports whether an EHS record belongs to the division
// by its service-line tag. Records without one are excluded.
func (r Rules) IsDivisionEHSRecord(rec EHSRecord) bool {
	return r.IsDivisionServiceLine(ServiceLineOf(rec))
}
