package models

import "time"

// WeatherWindow is one weather cycle of a zone
type WeatherWindow struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Weather string    `json:"weather"`
	// EorzeaStart is the cycle start in Eorzean seconds
	EorzeaStart int64 `json:"eorzeaStart"`
}

// ZoneForecast is the weather forecast for a single zone. Weathers lists
// every weather the zone can produce, in rate table order.
type ZoneForecast struct {
	Zone     string          `json:"zone"`
	ID       int             `json:"id"`
	Weathers []string        `json:"weathers"`
	Windows  []WeatherWindow `json:"windows"`
}

// ZoneWeather is a zone's current and next weather within a status report
type ZoneWeather struct {
	Zone      string    `json:"zone"`
	Current   string    `json:"current"`
	Next      string    `json:"next"`
	NextStart time.Time `json:"nextStart"`
}

// ConditionStatus is where a single-cycle condition sits relative to a report
type ConditionStatus struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Zone     string    `json:"zone"`
	Weathers []string  `json:"weathers"`
	Next     time.Time `json:"next"`
	Previous time.Time `json:"previous"`
	Active   bool      `json:"active"`
	Upcoming bool      `json:"upcoming"`
}

// RunStatus is the next multi-cycle streak of a run condition
type RunStatus struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Zone     string    `json:"zone"`
	Start    time.Time `json:"start"`
	Length   int       `json:"length"`
	Upcoming bool      `json:"upcoming"`
}

// StatusReport is the full snapshot served by GET /api/status.
// EorzeaTime is the Eorzean clock at the query time, as HH:MM.
type StatusReport struct {
	At         time.Time         `json:"at"`
	EorzeaTime string            `json:"eorzeaTime"`
	Zones      []ZoneWeather     `json:"zones"`
	Conditions []ConditionStatus `json:"conditions"`
	Runs       []RunStatus       `json:"runs"`
}

// ConditionSearch is the answer to a single condition query
type ConditionSearch struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Zone      string    `json:"zone"`
	Direction string    `json:"direction"`
	From      time.Time `json:"from"`
	At        time.Time `json:"at"`
	// Length is set for run conditions
	Length int `json:"length,omitempty"`
}

// Voyage is one ocean fishing departure
type Voyage struct {
	Departure time.Time `json:"departure"`
	Route     string    `json:"route"`
	Name      string    `json:"name"`
	Tiers     []string  `json:"tiers"`
}
