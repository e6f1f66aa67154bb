package static

import (
	"fmt"
	"sort"
)

// WeatherName holds a weather's display name and its translations
type WeatherName struct {
	EN string `json:"en" yaml:"en"`
	JA string `json:"ja" yaml:"ja"`
	DE string `json:"de" yaml:"de"`
	FR string `json:"fr" yaml:"fr"`
}

// String returns the primary (English) name
func (n WeatherName) String() string {
	return n.EN
}

// WeatherNameTable maps weather ID to display names
type WeatherNameTable struct {
	names map[int]WeatherName
}

// NewWeatherNameTable builds a table from an ID -> name mapping
func NewWeatherNameTable(names map[int]WeatherName) *WeatherNameTable {
	t := &WeatherNameTable{names: make(map[int]WeatherName, len(names))}
	for id, n := range names {
		t.names[id] = n
	}
	return t
}

// Get returns the name for a weather ID
func (t *WeatherNameTable) Get(id int) (WeatherName, bool) {
	n, ok := t.names[id]
	return n, ok
}

// FindByName returns the weather ID with the given English name
func (t *WeatherNameTable) FindByName(en string) (int, bool) {
	for id, n := range t.names {
		if n.EN == en {
			return id, true
		}
	}
	return 0, false
}

// Count returns the number of loaded weather names
func (t *WeatherNameTable) Count() int {
	return len(t.names)
}

// RateEntry is one step of a cumulative weather rate table.
// A weather roll selects the first entry whose Rate exceeds it.
type RateEntry struct {
	Rate      int `json:"rate" yaml:"rate"`
	WeatherID int `json:"weatherId" yaml:"weatherId"`
}

// WeatherRateTable maps a weather-rate group ID to its ordered cumulative entries
type WeatherRateTable struct {
	rates map[int][]RateEntry
}

// NewWeatherRateTable builds a table from a group ID -> entries mapping
func NewWeatherRateTable(rates map[int][]RateEntry) *WeatherRateTable {
	t := &WeatherRateTable{rates: make(map[int][]RateEntry, len(rates))}
	for id, entries := range rates {
		t.rates[id] = append([]RateEntry(nil), entries...)
	}
	return t
}

// Get returns a copy of the entries for a rate group
func (t *WeatherRateTable) Get(group int) ([]RateEntry, bool) {
	entries, ok := t.rates[group]
	if !ok {
		return nil, false
	}
	return append([]RateEntry(nil), entries...), true
}

// Count returns the number of rate groups
func (t *WeatherRateTable) Count() int {
	return len(t.rates)
}

// Validate checks every group is strictly increasing and covers rolls 0-99
func (t *WeatherRateTable) Validate() error {
	groups := make([]int, 0, len(t.rates))
	for id := range t.rates {
		groups = append(groups, id)
	}
	sort.Ints(groups)

	for _, id := range groups {
		entries := t.rates[id]
		if len(entries) == 0 {
			return fmt.Errorf("weather rate group %d is empty", id)
		}
		prev := 0
		for i, e := range entries {
			if i > 0 && e.Rate <= prev {
				return fmt.Errorf("weather rate group %d: threshold %d at position %d is not increasing", id, e.Rate, i)
			}
			prev = e.Rate
		}
		if prev < 100 {
			return fmt.Errorf("weather rate group %d: last threshold %d does not cover 100", id, prev)
		}
	}
	return nil
}

// MapInfo describes a map and the weather-rate group it uses
type MapInfo struct {
	Name        string `json:"name" yaml:"name"`
	ID          int    `json:"id" yaml:"id"`
	Zone        int    `json:"zone" yaml:"zone"`
	Territory   int    `json:"territory" yaml:"territory"`
	Scale       int    `json:"scale" yaml:"scale"`
	WeatherRate int    `json:"weatherRate" yaml:"weatherRate"`
}

// MapInfoTable lists known maps in file order
type MapInfoTable struct {
	maps []MapInfo
}

// NewMapInfoTable builds a table from a list of maps
func NewMapInfoTable(maps []MapInfo) *MapInfoTable {
	return &MapInfoTable{maps: append([]MapInfo(nil), maps...)}
}

// FindByName returns the first map with the exact given name
func (t *MapInfoTable) FindByName(name string) (MapInfo, bool) {
	for _, m := range t.maps {
		if m.Name == name {
			return m, true
		}
	}
	return MapInfo{}, false
}

// Names returns all map names in file order
func (t *MapInfoTable) Names() []string {
	names := make([]string, 0, len(t.maps))
	for _, m := range t.maps {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Count returns the number of maps
func (t *MapInfoTable) Count() int {
	return len(t.maps)
}

// Tables bundles the reference data needed to resolve zone weather.
// Built once at startup and never modified.
type Tables struct {
	Names *WeatherNameTable
	Rates *WeatherRateTable
	Maps  *MapInfoTable
}
