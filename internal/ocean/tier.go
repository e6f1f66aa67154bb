package ocean

import (
	"fmt"
	"strings"
	"time"
)

// Tier ranks how worthwhile a route is
type Tier int

const (
	Best Tier = iota
	VeryGood
	Good
	Bad
)

// Tiers lists every tier from best to worst
var Tiers = []Tier{Best, VeryGood, Good, Bad}

var tierRoutes = map[Tier][]Route{
	Best:     {BloodbrineDay, RothlytDay, RhotanoDay, RhotanoNight},
	VeryGood: {RothlytSunset, MerlthorSunset, RothlytNight, MerlthorNight},
	Good:     {BloodbrineNight},
	Bad:      {MerlthorDay, BloodbrineSunset, RhotanoSunset},
}

// DefaultNotifyTiers are the tiers worth an alert
var DefaultNotifyTiers = []Tier{Best, Good}

func (t Tier) String() string {
	switch t {
	case Best:
		return "BEST"
	case VeryGood:
		return "VERY_GOOD"
	case Good:
		return "GOOD"
	case Bad:
		return "BAD"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ParseTier accepts tier names case-insensitively, with "-" or " " for "_"
func ParseTier(s string) (Tier, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
	for _, t := range Tiers {
		if t.String() == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q (want BEST, VERY_GOOD, GOOD or BAD)", s)
}

// ParseTiers splits a comma separated tier list. Empty input yields nil.
func ParseTiers(s string) ([]Tier, error) {
	var out []Tier
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTier(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Routes returns the routes in the tier
func (t Tier) Routes() []Route {
	return append([]Route(nil), tierRoutes[t]...)
}

// InTier reports whether the route belongs to t
func (r Route) InTier(t Tier) bool {
	for _, m := range tierRoutes[t] {
		if m == r {
			return true
		}
	}
	return false
}

// InAny reports whether the route belongs to any of tiers
func (r Route) InAny(tiers ...Tier) bool {
	for _, t := range tiers {
		if r.InTier(t) {
			return true
		}
	}
	return false
}

// Tiers returns every tier the route belongs to. Routes with no tier return nil.
func (r Route) Tiers() []Tier {
	var out []Tier
	for _, t := range Tiers {
		if r.InTier(t) {
			out = append(out, t)
		}
	}
	return out
}

// Voyage is a scheduled departure
type Voyage struct {
	Departure time.Time
	Route     Route
}

// Schedule lists n consecutive voyages, starting with the first departure at or after from
func Schedule(from time.Time, n int) []Voyage {
	dep := Departure(from)
	if dep.Before(from) {
		dep = dep.Add(VoyageInterval)
	}

	out := make([]Voyage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Voyage{Departure: dep, Route: RouteAt(dep)})
		dep = dep.Add(VoyageInterval)
	}
	return out
}

// ScheduleOf lists the next n departures of route at or after from
func ScheduleOf(from time.Time, route Route, n int) []Voyage {
	out := make([]Voyage, 0, n)
	if !route.valid() {
		return out
	}
	// Every route sails at least once per period
	for _, v := range Schedule(from, n*Period) {
		if v.Route == route {
			out = append(out, v)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// NextInTiers returns the first voyage at or after from whose route is in
// one of tiers. Reports false if no route in the pattern qualifies.
func NextInTiers(from time.Time, tiers ...Tier) (Voyage, bool) {
	for _, v := range Schedule(from, Period) {
		if v.Route.InAny(tiers...) {
			return v, true
		}
	}
	return Voyage{}, false
}
