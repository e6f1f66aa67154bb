// Package status finds when the Eureka farming conditions happen next,
// or when they last happened, by stepping through weather cycles.
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thebluefish/eureka-notify/internal/fuzzy"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

// Direction selects which way a search steps through cycles
type Direction int

const (
	Future Direction = iota
	Past
)

func (d Direction) String() string {
	switch d {
	case Future:
		return "future"
	case Past:
		return "past"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// step returns +1 or -1 cycles
func (d Direction) step() int {
	if d == Past {
		return -1
	}
	return 1
}

// ParseDirection accepts "future"/"next" and "past"/"prev"/"previous"
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "future", "next":
		return Future, nil
	case "past", "prev", "previous":
		return Past, nil
	}
	return Future, fmt.Errorf("invalid direction %q (want future or past)", s)
}

// Predicate reports whether a cycle's weather satisfies a condition
type Predicate func(weather.Weather) bool

// WeatherIn matches any of the named weathers
func WeatherIn(names ...string) Predicate {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(w weather.Weather) bool {
		return set[w.Name]
	}
}

// Condition is a named weather target in one zone
type Condition struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Zone     string   `json:"zone"`
	Weathers []string `json:"weathers"`
	// Run conditions only count multi-cycle streaks
	Run     bool     `json:"run"`
	Aliases []string `json:"aliases,omitempty"`
}

// Matches reports whether w is one of the condition's weathers
func (c Condition) Matches(w weather.Weather) bool {
	for _, n := range c.Weathers {
		if n == w.Name {
			return true
		}
	}
	return false
}

// Predicate returns Matches as a Predicate
func (c Condition) Predicate() Predicate {
	return c.Matches
}

// Condition keys
const (
	Crab      = "crab"
	Cassie    = "cassie"
	Skoll     = "skoll"
	Hotbox    = "hotbox"
	Offensive = "offensive"
)

var builtin = []Condition{
	{Key: Crab, Name: "Crab", Zone: weather.Pagos, Weathers: []string{"Fog"}, Aliases: []string{"speed belt"}},
	{Key: Cassie, Name: "Cassie", Zone: weather.Pagos, Weathers: []string{"Blizzards"}, Aliases: []string{"cassie's earring", "cassie earring"}},
	{Key: Skoll, Name: "Skoll", Zone: weather.Pyros, Weathers: []string{"Blizzards"}, Aliases: []string{"skoll's claw", "skoll claw"}},
	{Key: Hotbox, Name: "Hotbox", Zone: weather.Pyros, Weathers: []string{"Snow", "Blizzards", "Umbral Wind"}, Run: true},
	{Key: Offensive, Name: "Offensive", Zone: weather.Hydatos, Weathers: []string{"Snow"}, Run: true},
}

// Conditions returns the built-in conditions in display order
func Conditions() []Condition {
	out := make([]Condition, len(builtin))
	for i, c := range builtin {
		c.Weathers = append([]string(nil), c.Weathers...)
		c.Aliases = append([]string(nil), c.Aliases...)
		out[i] = c
	}
	return out
}

// ErrUnknownCondition is returned by LookupCondition for unrecognised names
var ErrUnknownCondition = errors.New("unknown condition")

// UnknownConditionError wraps ErrUnknownCondition with the closest known name
type UnknownConditionError struct {
	Name       string
	Suggestion string
}

func (e *UnknownConditionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrUnknownCondition, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrUnknownCondition, e.Name)
}

func (e *UnknownConditionError) Unwrap() error {
	return ErrUnknownCondition
}

// LookupCondition finds a built-in condition by key, display name or alias
func LookupCondition(name string) (Condition, error) {
	byName := make(map[string]string)
	names := make([]string, 0, len(builtin)*3)
	for _, c := range builtin {
		for _, n := range append([]string{c.Key, c.Name}, c.Aliases...) {
			byName[n] = c.Key
			names = append(names, n)
		}
	}

	if match, ok := fuzzy.Lookup(name, names); ok {
		for _, c := range Conditions() {
			if c.Key == byName[match] {
				return c, nil
			}
		}
	}

	suggestion, _ := fuzzy.Match(name, names)
	return Condition{}, &UnknownConditionError{Name: name, Suggestion: byName[suggestion]}
}
