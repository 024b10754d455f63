package domain

import "strings"

// YardDef names an operating yard and the location keywords that resolve to
// it. Keywords are lower-case substrings matched anywhere in a location.
type YardDef struct {
	Name     string
	Keywords []string
}

// casingYards is the fixed set of seven Casing yards. Declared order is the
// disambiguation order: a location matching keywords from two yards resolves
// to the yard listed first.
var casingYards = []YardDef{
	{Name: "Midland", Keywords: []string{
		"midland", "yukon", "odessa", "west odessa", "stanton", "big spring",
		"garden city", "crane", "rankin", "mccamey",
	}},
	{Name: "Bryan", Keywords: []string{
		"bryan", "college station", "palestine", "madisonville",
		"hearne", "navasota", "huntsville",
	}},
	{Name: "Kilgore", Keywords: []string{
		"kilgore", "tyler", "longview", "henderson", "marshall",
		"jacksonville", "carthage", "lufkin", "nacogdoches",
	}},
	{Name: "Hobbs", Keywords: []string{
		"hobbs", "seminole", "lovington", "carlsbad", "artesia",
		"eunice", "jal", "tatum",
	}},
	{Name: "Jourdanton", Keywords: []string{
		"jourdanton", "pleasanton", "floresville", "poteet",
		"kenedy", "karnes city", "falls city", "laredo", "edinburg",
	}},
	{Name: "Levelland", Keywords: []string{
		"levelland", "lubbock", "brownfield", "post", "lamesa",
		"snyder", "tahoka", "slaton", "wolfforth", "littlefield",
	}},
	{Name: "Barstow", Keywords: []string{
		"barstow", "pecos", "kermit", "monahans", "fort stockton",
		"wink", "mentone", "toyah",
	}},
}

// LocationToYard maps a free-text location to a yard name, or "" when no
// yard keyword matches. Matching is case-insensitive; declared yard order
// breaks ties.
func (r Rules) LocationToYard(location string) string {
	if location == "" {
		return ""
	}
	low := strings.ToLower(location)
	for _, yard := range r.Yards {
		for _, kw := range yard.Keywords {
			if strings.Contains(low, kw) {
				return yard.Name
			}
		}
	}
	return ""
}

// NormalizeDistrict applies the district alias table after trimming.
// Unmapped input is returned trimmed and otherwise unchanged; empty input is
// returned as-is.
func (r Rules) NormalizeDistrict(raw string) string {
	if raw == "" {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if name, ok := r.DistrictAliases[strings.ToLower(trimmed)]; ok {
		return name
	}
	return trimmed
}

// YardNames returns the yard names in declared order.
func (r Rules) YardNames() []string {
	names := make([]string, len(r.Yards))
	for i, y := range r.Yards {
		names[i] = y.Name
	}
	return names
}

// IsYard reports whether name is one of the declared yards.
func (r Rules) IsYard(name string) bool {
	for _, y := range r.Yards {
		if y.Name == name {
			return true
		}
	}
	return false
}
