package eorzea

import (
	"time"
)

// TimeRatio is how many Eorzean seconds elapse per real second.
// One Eorzean hour lasts 175 real seconds.
const TimeRatio float64 = 3600.0 / 175.0

// Eorzean calendar units, in virtual seconds
const (
	Hour Seconds = 60 * 60
	Day  Seconds = 24 * Hour

	// WeatherCycle is the length of one weather window (8 Eorzean hours, ~23 real minutes)
	WeatherCycle Seconds = 8 * Hour
)

// Seconds is a length of Eorzean (virtual) time
type Seconds int64

// Instant is a point in Eorzean time, counted in whole virtual seconds
// since the Unix epoch scaled by TimeRatio.
type Instant struct {
	secs int64
}

// FromTimestamp wraps a raw virtual-seconds value
func FromTimestamp(secs int64) Instant {
	return Instant{secs: secs}
}

// Now samples the real-time clock and converts it to Eorzean time
func Now() Instant {
	return FromReal(time.Now())
}

// FromReal converts a real instant to Eorzean time, truncated to whole virtual seconds
func FromReal(t time.Time) Instant {
	return Instant{secs: int64(float64(t.Unix()) * TimeRatio)}
}

// Timestamp returns the raw virtual-seconds value
func (i Instant) Timestamp() int64 {
	return i.secs
}

// ToReal converts back to real UTC time, truncated to whole real seconds.
// The conversion is lossy in both directions; a round trip may drift by one second.
func (i Instant) ToReal() time.Time {
	return time.Unix(int64(float64(i.secs)/TimeRatio), 0).UTC()
}

// Add shifts the instant by a length of virtual time
func (i Instant) Add(d Seconds) Instant {
	return Instant{secs: i.secs + int64(d)}
}

// Sub returns the virtual time elapsed between o and i
func (i Instant) Sub(o Instant) Seconds {
	return Seconds(i.secs - o.secs)
}

// AddCycles moves forward n weather cycles
func (i Instant) AddCycles(n int) Instant {
	return i.Add(Seconds(n) * WeatherCycle)
}

// SubtractCycles moves backward n weather cycles
func (i Instant) SubtractCycles(n int) Instant {
	return i.Add(-Seconds(n) * WeatherCycle)
}

// Before reports whether i is earlier than o
func (i Instant) Before(o Instant) bool {
	return i.secs < o.secs
}

// After reports whether i is later than o
func (i Instant) After(o Instant) bool {
	return i.secs > o.secs
}

// Truncate rounds the instant down to the most recent multiple of cycle.
// Panics if cycle is not positive.
func (i Instant) Truncate(cycle Seconds) Instant {
	return Instant{secs: truncate(i.secs, int64(cycle))}
}

// Cycle returns the start of the weather window containing i
func (i Instant) Cycle() Instant {
	return i.Truncate(WeatherCycle)
}

// Hour returns the Eorzean hour of day (0-23)
func (i Instant) Hour() int {
	return int(floorMod(i.secs, int64(Day)) / int64(Hour))
}

// Minute returns the Eorzean minute of the hour (0-59)
func (i Instant) Minute() int {
	return int(floorMod(i.secs, int64(Hour)) / 60)
}

// String formats the instant as an Eorzean clock reading
func (i Instant) String() string {
	return time.Unix(i.secs, 0).UTC().Format("2006-01-02 15:04:05 ET")
}

// TruncateReal rounds a real instant down to the most recent multiple of
// d, measured in Unix seconds on the UTC clock. Panics if d is shorter than a second.
func TruncateReal(t time.Time, d time.Duration) time.Time {
	secs := int64(d / time.Second)
	return time.Unix(truncate(t.Unix(), secs), 0).UTC()
}

func truncate(value, cycle int64) int64 {
	if cycle <= 0 {
		panic("eorzea: truncate cycle must be positive")
	}
	return value - floorMod(value, cycle)
}

// floorMod is a modulo whose result always has the sign of m
func floorMod(v, m int64) int64 {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
