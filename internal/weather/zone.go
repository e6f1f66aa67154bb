package weather

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/fuzzy"
	"github.com/thebluefish/eureka-notify/internal/static"
)

// Zone names used by the Eureka forecasts
const (
	Anemos  = "Eureka Anemos"
	Pagos   = "Eureka Pagos"
	Pyros   = "Eureka Pyros"
	Hydatos = "Eureka Hydatos"
)

// Weather is a zone-resolved weather condition
type Weather struct {
	ID   int
	Name string
}

func (w Weather) String() string {
	return w.Name
}

// Zone is a map resolved against the rate and name tables.
// Immutable after construction.
type Zone struct {
	name  string
	id    int
	rates []static.RateEntry
	names *static.WeatherNameTable
}

// Name returns the zone's display name
func (z *Zone) Name() string {
	return z.name
}

// ID returns the zone's map ID
func (z *Zone) ID() int {
	return z.id
}

// Rates returns a copy of the zone's cumulative rate entries
func (z *Zone) Rates() []static.RateEntry {
	return append([]static.RateEntry(nil), z.rates...)
}

// Weathers lists the distinct weathers the zone's table can produce, in table order
func (z *Zone) Weathers() ([]Weather, error) {
	seen := make(map[int]bool, len(z.rates))
	out := make([]Weather, 0, len(z.rates))
	for _, e := range z.rates {
		if seen[e.WeatherID] {
			continue
		}
		seen[e.WeatherID] = true
		w, err := z.lookup(e.WeatherID)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// WeatherAt returns the zone's weather during the cycle containing at.
// An empty or incomplete rate table is a ConfigurationError; an instant
// outside the generator's range wraps eorzea.ErrOutOfRange.
func (z *Zone) WeatherAt(at eorzea.Instant) (Weather, error) {
	if !at.InRange() {
		return Weather{}, fmt.Errorf("weather in %s at %s: %w", z.name, at, eorzea.ErrOutOfRange)
	}
	return z.WeatherFor(at.WeatherRate())
}

// WeatherFor maps a weather roll onto this zone's table
func (z *Zone) WeatherFor(rate eorzea.WeatherRate) (Weather, error) {
	if len(z.rates) == 0 {
		return Weather{}, &ConfigurationError{Zone: z.name, Reason: "zone has no weather rates"}
	}
	for _, e := range z.rates {
		if int(rate) < e.Rate {
			return z.lookup(e.WeatherID)
		}
	}
	return Weather{}, &ConfigurationError{
		Zone:   z.name,
		Reason: fmt.Sprintf("no rate threshold exceeds roll %d", rate),
	}
}

func (z *Zone) lookup(id int) (Weather, error) {
	n, ok := z.names.Get(id)
	if !ok {
		return Weather{}, &ConfigurationError{
			Zone:   z.name,
			Reason: fmt.Sprintf("missing weather name for id %d", id),
		}
	}
	return Weather{ID: id, Name: n.EN}, nil
}

// Resolver joins map info, rate groups and weather names into Zones
type Resolver struct {
	tables *static.Tables
	logger *zap.Logger
}

// NewResolver creates a resolver over loaded reference tables
func NewResolver(tables *static.Tables, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{tables: tables, logger: logger}
}

// Tables returns the reference tables behind the resolver
func (r *Resolver) Tables() *static.Tables {
	return r.tables
}

// Resolve looks a zone up by its exact name. A map without a rate group
// yields a Zone with an empty table, which fails on WeatherAt.
func (r *Resolver) Resolve(name string) (*Zone, error) {
	info, ok := r.tables.Maps.FindByName(name)
	if !ok {
		return nil, r.notFound(name)
	}

	rates, ok := r.tables.Rates.Get(info.WeatherRate)
	if !ok {
		r.logger.Debug("failed to get rate map for zone",
			zap.String("zone", name),
			zap.Int("weather_rate", info.WeatherRate))
	}

	r.logger.Debug("resolved zone", zap.String("zone", info.Name), zap.Int("id", info.ID))
	return &Zone{
		name:  info.Name,
		id:    info.ID,
		rates: rates,
		names: r.tables.Names,
	}, nil
}

// Find resolves a loosely typed zone name ("pagos", "eureka pyros")
func (r *Resolver) Find(query string) (*Zone, error) {
	if name, ok := fuzzy.Lookup(query, r.tables.Maps.Names()); ok {
		return r.Resolve(name)
	}
	return nil, r.notFound(query)
}

func (r *Resolver) notFound(name string) error {
	suggestion, _ := fuzzy.Match(name, r.tables.Maps.Names())
	return &NotFoundError{Name: name, Suggestion: suggestion}
}
