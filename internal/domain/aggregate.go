package domain

import "sort"

// counter tallies keys while remembering first-encountered order, so ranked
// output breaks count ties the way the records arrived.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns buckets sorted by descending count, ties in insertion order.
func (c *counter) ranked() []KeyCount {
	out := make([]KeyCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, KeyCount{Key: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// byKey returns buckets sorted ascending by key (daily series).
func (c *counter) byKey() []KeyCount {
	out := make([]KeyCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, KeyCount{Key: k, Count: c.counts[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Aggregates is the set of grouped views the report sections draw from.
type Aggregates struct {
	ByType     []KeyCount `json:"by_type"`     // descending count
	ByDay      []KeyCount `json:"by_day"`      // ascending date
	ByYard     []KeyCount `json:"by_yard"`     // descending count
	ByDriver   []KeyCount `json:"by_driver"`   // descending count
	ByLocation []KeyCount `json:"by_location"` // descending count, top 10

	// DriversByYard ranks flagged drivers within each yard.
	DriversByYard map[string][]KeyCount `json:"drivers_by_yard,omitempty"`
}

const topLocations = 10

// AggregateCounts buckets normalized events by type, day, yard, driver, and
// location. Events with an unresolved day, yard, or driver are skipped in
// that one view and counted everywhere else.
func AggregateCounts(events []NormalizedEvent) Aggregates {
	byType := newCounter()
	byDay := newCounter()
	byYard := newCounter()
	byDriver := newCounter()
	byLocation := newCounter()
	driversByYard := map[string]*counter{}

	for _, e := range events {
		byType.add(e.Type)
		if day := e.DayKey(); day != "" {
			byDay.add(day)
		}
		if e.Location != "" {
			byLocation.add(e.Location)
		}
		if e.Yard != "" {
			byYard.add(e.Yard)
		}
		if e.Driver != "" {
			byDriver.add(e.Driver)
		}
		if e.Yard != "" && e.Driver != "" {
			c, ok := driversByYard[e.Yard]
			if !ok {
				c = newCounter()
				driversByYard[e.Yard] = c
			}
			c.add(e.Driver)
		}
	}

	locations := byLocation.ranked()
	if len(locations) > topLocations {
		locations = locations[:topLocations]
	}

	agg := Aggregates{
		ByType:     byType.ranked(),
		ByDay:      byDay.byKey(),
		ByYard:     byYard.ranked(),
		ByDriver:   byDriver.ranked(),
		ByLocation: locations,
	}
	if len(driversByYard) > 0 {
		agg.DriversByYard = make(map[string][]KeyCount, len(driversByYard))
		for yard, c := range driversByYard {
			agg.DriversByYard[yard] = c.ranked()
		}
	}
	return agg
}

// CountEHSBy tallies items by an arbitrary derived key, descending by count.
// Items yielding "" are skipped.
func CountEHSBy(items []EHSItem, keyOf func(EHSItem) string) []KeyCount {
	c := newCounter()
	for _, item := range items {
		if k := keyOf(item); k != "" {
			c.add(k)
		}
	}
	return c.ranked()
}

// CountEHSByDay buckets items into an ascending daily series, skipping items
// without a resolved date.
func CountEHSByDay(items []EHSItem) []KeyCount {
	c := newCounter()
	for _, item := range items {
		if item.Date != nil {
			c.add(item.Date.Format("2006-01-02"))
		}
	}
	return c.byKey()
}
