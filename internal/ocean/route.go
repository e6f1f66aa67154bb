// Package ocean maps real time onto the 2-hour ocean fishing voyage schedule.
package ocean

import (
	"fmt"
	"strings"
	"time"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
)

// Route is one of the twelve voyage destinations and times of day
type Route int

const (
	BloodbrineDay Route = iota
	RothlytDay
	MerlthorDay
	RhotanoDay
	BloodbrineSunset
	RothlytSunset
	MerlthorSunset
	RhotanoSunset
	BloodbrineNight
	RothlytNight
	MerlthorNight
	RhotanoNight
)

// Routes lists every route in declaration order
var Routes = []Route{
	BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay,
	BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset,
	BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight,
}

var routeKeys = [...]string{
	BloodbrineDay:    "BloodbrineDay",
	RothlytDay:       "RothlytDay",
	MerlthorDay:      "MerlthorDay",
	RhotanoDay:       "RhotanoDay",
	BloodbrineSunset: "BloodbrineSunset",
	RothlytSunset:    "RothlytSunset",
	MerlthorSunset:   "MerlthorSunset",
	RhotanoSunset:    "RhotanoSunset",
	BloodbrineNight:  "BloodbrineNight",
	RothlytNight:     "RothlytNight",
	MerlthorNight:    "MerlthorNight",
	RhotanoNight:     "RhotanoNight",
}

var routeNames = [...]string{
	BloodbrineDay:    "Crab / Seafaring Toad",
	RothlytDay:       "Fugu / Mantas",
	MerlthorDay:      "Sothis / Elasmosaurus",
	RhotanoDay:       "Shark / Coral Manta",
	BloodbrineSunset: "Hafgufa / Elasmosaurus",
	RothlytSunset:    "Hafgufa / Placodus",
	MerlthorSunset:   "Seadragons / Coral Manta",
	RhotanoSunset:    "Sothis / Stonescale",
	BloodbrineNight:  "Mantas",
	RothlytNight:     "Fugu / Stonescale",
	MerlthorNight:    "Octopodes",
	RhotanoNight:     "Jellyfish",
}

func (r Route) valid() bool {
	return r >= BloodbrineDay && r <= RhotanoNight
}

// String returns the route's identifier, e.g. "RhotanoNight"
func (r Route) String() string {
	if !r.valid() {
		return fmt.Sprintf("Route(%d)", int(r))
	}
	return routeKeys[r]
}

// Name returns the route's display name: the fish worth catching on it
func (r Route) Name() string {
	if !r.valid() {
		return r.String()
	}
	return routeNames[r]
}

// ParseRoute accepts a route identifier, ignoring case
func ParseRoute(s string) (Route, error) {
	for _, r := range Routes {
		if strings.EqualFold(routeKeys[r], strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown route %q", s)
}

// VoyageInterval is the time between departures
const VoyageInterval = 2 * time.Hour

// Period is the number of voyages before the schedule repeats (12 days)
const Period = 144

// phase aligns the Unix epoch with the schedule
const phase = 88

// pattern is the fixed voyage rotation
var pattern = [Period]Route{
	BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight,
	RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay,
	MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay,
	RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay,
	BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay,
	RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset,
	MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset,
	RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset,
	BloodbrineNight, RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset,
	RothlytNight, MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight,
	MerlthorNight, RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight,
	RhotanoNight, BloodbrineDay, RothlytDay, MerlthorDay, RhotanoDay, BloodbrineSunset, RothlytSunset, MerlthorSunset, RhotanoSunset, BloodbrineNight, RothlytNight, MerlthorNight,
}

// Departure returns the start of the voyage window containing t
func Departure(t time.Time) time.Time {
	return eorzea.TruncateReal(t, VoyageInterval)
}

// Slot returns t's position in the repeating pattern, in [0, Period)
func Slot(t time.Time) int {
	voyage := phase + Departure(t).Unix()/int64(VoyageInterval/time.Second)
	slot := voyage % Period
	if slot < 0 {
		slot += Period
	}
	return int(slot)
}

// RouteAt returns the route of the voyage window containing t
func RouteAt(t time.Time) Route {
	return pattern[Slot(t)]
}
