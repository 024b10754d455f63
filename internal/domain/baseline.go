package domain

// KPITarget is a manually maintained KPI overlay shown alongside the live
// data. Manual is always true for these; the safety team updates the values
// monthly from the corporate scorecard.
type KPITarget struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Target   float64 `json:"target"`
	Industry float64 `json:"industry"`
	// HigherIsBetter flips the target comparison (driver score vs. TRIR).
	HigherIsBetter bool `json:"higher_is_better"`
	Manual         bool `json:"manual"`
}

// OnTarget reports whether the current value meets the target.
func (k KPITarget) OnTarget() bool {
	if k.HigherIsBetter {
		return k.Value >= k.Target
	}
	return k.Value <= k.Target
}

// YardBaseline is the curated per-yard scorecard the live counts are shown
// against.
type YardBaseline struct {
	Yard        string  `json:"yard"`
	DriverScore int     `json:"driver_score"`
	TRIR        float64 `json:"trir"`
	LTIR        float64 `json:"ltir"`
	Incidents   int     `json:"incidents"`
	Observation int     `json:"observations"`
	Manual      bool    `json:"manual"`
}

// DefaultKPITargets returns the division scorecard overlay.
func DefaultKPITargets() []KPITarget {
	return []KPITarget{
		{Name: "TRIR", Value: 2.3, Target: 2.0, Industry: 3.5, Manual: true},
		{Name: "LTIR", Value: 0.8, Target: 0.5, Industry: 1.2, Manual: true},
		{Name: "Driver Score", Value: 78, Target: 85, Industry: 72, HigherIsBetter: true, Manual: true},
	}
}

// DefaultYardBaselines returns the curated per-yard scorecard, keyed in
// declared yard order.
func DefaultYardBaselines() []YardBaseline {
	return []YardBaseline{
		{Yard: "Midland", DriverScore: 74, TRIR: 2.8, LTIR: 1.0, Incidents: 5, Observation: 16, Manual: true},
		{Yard: "Bryan", DriverScore: 82, TRIR: 1.9, LTIR: 0.4, Incidents: 3, Observation: 6, Manual: true},
		{Yard: "Kilgore", DriverScore: 80, TRIR: 2.0, LTIR: 0.5, Incidents: 2, Observation: 3, Manual: true},
		{Yard: "Hobbs", DriverScore: 76, TRIR: 2.5, LTIR: 0.7, Incidents: 1, Observation: 2, Manual: true},
		{Yard: "Jourdanton", DriverScore: 83, TRIR: 1.7, LTIR: 0.3, Incidents: 1, Observation: 1, Manual: true},
		{Yard: "Levelland", DriverScore: 77, TRIR: 2.4, LTIR: 0.6, Incidents: 1, Observation: 0, Manual: true},
		{Yard: "Barstow", DriverScore: 79, TRIR: 2.1, LTIR: 0.5, Incidents: 1, Observation: 0, Manual: true},
	}
}
