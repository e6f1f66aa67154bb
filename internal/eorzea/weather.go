package eorzea

import (
	"errors"
	"math"
	"time"
)

// ErrOutOfRange is returned for instants the weather roll is not defined
// for: before the epoch every cycle clamps to the same seed, and past
// MaxInstant the hour count no longer fits the 32-bit seed.
var ErrOutOfRange = errors.New("instant outside the weather generator's range")

// MaxInstant is the first instant past the weather roll's range
var MaxInstant = Instant{secs: math.MaxUint32 * int64(Hour)}

// InRange reports whether the weather roll varies normally at i
func (i Instant) InRange() bool {
	return i.secs >= 0 && i.secs < MaxInstant.secs
}

// RealInRange reports whether real time t converts to an instant in range
func RealInRange(t time.Time) bool {
	secs := t.Unix()
	return secs >= 0 && secs < MaxInstant.ToReal().Unix()
}

// WeatherRate is the zone-independent weather roll for an instant, in [0, 100).
// Zones map it onto a concrete weather through their cumulative rate tables.
type WeatherRate int

// WeatherRate computes the weather roll for the 8-hour window containing i.
//
// The seed is a base-10 value shaped like DDDDHH, where HH is the hour the
// window ends at (8, 16 or 0), mixed with one XorShift round. All arithmetic
// is 32-bit unsigned and wraps. Instants before the epoch clamp to day 0.
func (i Instant) WeatherRate() WeatherRate {
	days := clampUint32(floorDiv(i.secs, int64(Day)))
	hours := clampUint32(floorDiv(i.secs, int64(Hour)))

	// Align to the 8-hour boundary, expressed as hour of day
	offset := (hours + 8 - (hours % 8)) % 24

	calc := days*100 + offset
	calc ^= calc << 11
	calc ^= calc >> 8

	return WeatherRate(calc % 100)
}

func floorDiv(v, d int64) int64 {
	q := v / d
	if (v%d != 0) && ((v < 0) != (d < 0)) {
		q--
	}
	return q
}

// clampUint32 saturates like a float-to-u32 cast does
func clampUint32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
