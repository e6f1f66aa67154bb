package status

import (
	"fmt"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

// FindNext steps one weather cycle at a time from the cycle containing
// start (inclusive) until pred holds, and returns that cycle's start.
// The scan stops with an error wrapping eorzea.ErrOutOfRange if it leaves
// the range the weather roll is defined for.
func FindNext(zone *weather.Zone, start eorzea.Instant, dir Direction, pred Predicate) (eorzea.Instant, error) {
	t := start.Cycle()
	for {
		ok, err := holds(zone, t, pred)
		if err != nil {
			return eorzea.Instant{}, err
		}
		if ok {
			return t, nil
		}
		t = t.AddCycles(dir.step())
	}
}

func holds(zone *weather.Zone, t eorzea.Instant, pred Predicate) (bool, error) {
	w, err := zone.WeatherAt(t)
	if err != nil {
		return false, err
	}
	return pred(w), nil
}

// Searcher runs status searches for one condition in its zone.
// Safe for concurrent use.
type Searcher struct {
	zone *weather.Zone
	cond Condition
}

// NewSearcher checks that the zone's rate table can produce a weather
// matching cond, so a scan inside the generator's range has something to find.
func NewSearcher(zone *weather.Zone, cond Condition) (*Searcher, error) {
	reachable := false
	for roll := eorzea.WeatherRate(0); roll < 100; roll++ {
		w, err := zone.WeatherFor(roll)
		if err != nil {
			return nil, err
		}
		if cond.Matches(w) {
			reachable = true
		}
	}
	if !reachable {
		return nil, &weather.ConfigurationError{
			Zone:   zone.Name(),
			Reason: fmt.Sprintf("no weather in the rate table satisfies %s", cond.Key),
		}
	}
	return &Searcher{zone: zone, cond: cond}, nil
}

// Condition returns the condition being searched for
func (s *Searcher) Condition() Condition {
	return s.cond
}

// Zone returns the zone the condition is evaluated in
func (s *Searcher) Zone() *weather.Zone {
	return s.zone
}

// Matches reports whether the condition holds during the cycle containing t
func (s *Searcher) Matches(t eorzea.Instant) (bool, error) {
	return holds(s.zone, t.Cycle(), s.cond.Matches)
}

// Status finds the condition relative to start.
//
// Future skips the streak start is in (if any) and returns the first
// cycle of the next streak, always strictly after start. Past returns the
// most recent matching cycle at or before start, so a condition that is
// active now reports the current cycle.
func (s *Searcher) Status(start eorzea.Instant, dir Direction) (eorzea.Instant, error) {
	t := start.Cycle()
	if dir == Future {
		for {
			ok, err := s.Matches(t)
			if err != nil {
				return eorzea.Instant{}, err
			}
			if !ok {
				break
			}
			t = t.AddCycles(1)
		}
	}
	return FindNext(s.zone, t, dir, s.cond.Matches)
}

// Run finds the first streak of at least two matching cycles that begins
// strictly after start, returning its first cycle and its length.
// Single-cycle occurrences are skipped.
func (s *Searcher) Run(start eorzea.Instant) (eorzea.Instant, int, error) {
	t := start.Cycle().AddCycles(1)
	prev, err := s.Matches(start)
	if err != nil {
		return eorzea.Instant{}, 0, err
	}

	for {
		cur, err := s.Matches(t)
		if err != nil {
			return eorzea.Instant{}, 0, err
		}
		if cur && !prev {
			n, err := s.streak(t)
			if err != nil {
				return eorzea.Instant{}, 0, err
			}
			if n > 1 {
				return t, n, nil
			}
		}
		prev = cur
		t = t.AddCycles(1)
	}
}

// streak counts consecutive matching cycles starting at t
func (s *Searcher) streak(t eorzea.Instant) (int, error) {
	n := 0
	for {
		ok, err := s.Matches(t)
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
		t = t.AddCycles(1)
	}
}
