package status

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

// ReportZones are the zones whose weather is listed in every report
var ReportZones = []string{weather.Pagos, weather.Pyros, weather.Hydatos}

// ZoneForecast is the current and following weather of one zone
type ZoneForecast struct {
	Zone         string
	Current      weather.Weather
	CurrentStart eorzea.Instant
	Next         weather.Weather
	NextStart    eorzea.Instant
}

// Occurrence is where a single-cycle condition sits relative to a report
type Occurrence struct {
	Condition Condition
	Next      eorzea.Instant
	Previous  eorzea.Instant
	// Active is set when the condition holds in the report's cycle
	Active bool
	// Upcoming is set when Next is the cycle after the report's
	Upcoming bool
}

// RunOccurrence is the next multi-cycle streak of a run condition
type RunOccurrence struct {
	Condition Condition
	Start     eorzea.Instant
	Length    int
	Upcoming  bool
}

// Report is a snapshot of every condition at one cycle
type Report struct {
	At         eorzea.Instant
	Zones      []ZoneForecast
	Conditions []Occurrence
	Runs       []RunOccurrence
}

// AnyActive reports whether some single-cycle condition holds now
func (r *Report) AnyActive() bool {
	for _, c := range r.Conditions {
		if c.Active {
			return true
		}
	}
	return false
}

// AnyUpcoming reports whether some condition or run starts next cycle
func (r *Report) AnyUpcoming() bool {
	for _, c := range r.Conditions {
		if c.Upcoming {
			return true
		}
	}
	for _, run := range r.Runs {
		if run.Upcoming {
			return true
		}
	}
	return false
}

// Upcoming returns the single-cycle conditions starting next cycle
func (r *Report) Upcoming() []Occurrence {
	var out []Occurrence
	for _, c := range r.Conditions {
		if c.Upcoming {
			out = append(out, c)
		}
	}
	return out
}

// Reporter builds Reports from searchers resolved once up front
type Reporter struct {
	zones     []*weather.Zone
	searchers []*Searcher
	logger    *zap.Logger
}

// NewReporter resolves the report zones and every built-in condition
func NewReporter(resolver *weather.Resolver, logger *zap.Logger) (*Reporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reporter{logger: logger}
	for _, name := range ReportZones {
		zone, err := resolver.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve report zone: %w", err)
		}
		r.zones = append(r.zones, zone)
	}

	names := resolver.Tables().Names
	for _, cond := range Conditions() {
		for _, w := range cond.Weathers {
			if _, ok := names.FindByName(w); !ok {
				return nil, &weather.ConfigurationError{
					Zone:   cond.Zone,
					Reason: fmt.Sprintf("condition %s names unknown weather %q", cond.Key, w),
				}
			}
		}
		zone, err := resolver.Resolve(cond.Zone)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve zone for %s: %w", cond.Key, err)
		}
		s, err := NewSearcher(zone, cond)
		if err != nil {
			return nil, fmt.Errorf("failed to build searcher for %s: %w", cond.Key, err)
		}
		r.searchers = append(r.searchers, s)
	}
	return r, nil
}

// Searcher returns the searcher for a condition key
func (r *Reporter) Searcher(key string) (*Searcher, bool) {
	for _, s := range r.searchers {
		if s.cond.Key == key {
			return s, true
		}
	}
	return nil, false
}

// Build computes the report for the cycle containing at
func (r *Reporter) Build(at eorzea.Instant) (*Report, error) {
	now := at.Cycle()
	future := now.AddCycles(1)
	report := &Report{At: now}

	for _, zone := range r.zones {
		current, err := zone.WeatherAt(now)
		if err != nil {
			return nil, err
		}
		next, err := zone.WeatherAt(future)
		if err != nil {
			return nil, err
		}
		report.Zones = append(report.Zones, ZoneForecast{
			Zone:         zone.Name(),
			Current:      current,
			CurrentStart: now,
			Next:         next,
			NextStart:    future,
		})
	}

	for _, s := range r.searchers {
		if s.cond.Run {
			start, length, err := s.Run(now)
			if err != nil {
				return nil, err
			}
			report.Runs = append(report.Runs, RunOccurrence{
				Condition: s.cond,
				Start:     start,
				Length:    length,
				Upcoming:  start == future,
			})
			continue
		}

		next, err := s.Status(now, Future)
		if err != nil {
			return nil, err
		}
		prev, err := s.Status(now, Past)
		if err != nil {
			return nil, err
		}
		report.Conditions = append(report.Conditions, Occurrence{
			Condition: s.cond,
			Next:      next,
			Previous:  prev,
			Active:    prev == now,
			Upcoming:  next == future,
		})
	}

	r.logger.Debug("built status report",
		zap.Int64("cycle", now.Timestamp()),
		zap.Bool("active", report.AnyActive()),
		zap.Bool("upcoming", report.AnyUpcoming()))
	return report, nil
}
