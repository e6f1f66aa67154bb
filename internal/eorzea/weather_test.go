package eorzea

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeatherRateGolden(t *testing.T) {
	// days=0 hours=0: offset 8, seed 8
	// 8 ^ (8<<11) = 16392; 16392 ^ (16392>>8) = 16456; 16456 % 100 = 56
	tests := []struct {
		secs int64
		want WeatherRate
	}{
		{0, 56},
		{3600, 56},
		{28799, 56},
		{28800, 12},
		{57600, 0},
		{86400, 64},
		{115200, 48},
		{123456789, 5},
		{28_800_000_000, 36},
		{36_000_000_000, 28},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FromTimestamp(tc.secs).WeatherRate(), "secs=%d", tc.secs)
	}
}

func TestWeatherRateStableWithinCycle(t *testing.T) {
	start := FromTimestamp(1_000_000 * int64(WeatherCycle))
	want := start.WeatherRate()
	for offset := Seconds(0); offset < WeatherCycle; offset += 997 {
		assert.Equal(t, want, start.Add(offset).WeatherRate())
	}
}

func TestWeatherRateRange(t *testing.T) {
	start := FromTimestamp(1_700_000_000 * 20)
	for n := 0; n < 5000; n++ {
		rate := start.AddCycles(n).WeatherRate()
		assert.GreaterOrEqual(t, int(rate), 0)
		assert.Less(t, int(rate), 100)
		assert.Equal(t, rate, start.AddCycles(n).WeatherRate(), "deterministic")
	}
}

func TestWeatherRateBeforeEpochClamps(t *testing.T) {
	// Negative days and hours saturate to zero
	assert.Equal(t, WeatherRate(56), FromTimestamp(-5).WeatherRate())
}

func TestWeatherRateWrapsUint32(t *testing.T) {
	// Far-future days overflow days*100; must not panic and stays in range
	huge := FromTimestamp(int64(Day) * 50_000_000)
	rate := huge.WeatherRate()
	assert.GreaterOrEqual(t, int(rate), 0)
	assert.Less(t, int(rate), 100)
}

func TestInRange(t *testing.T) {
	assert.True(t, FromTimestamp(0).InRange())
	assert.False(t, FromTimestamp(-1).InRange())
	assert.True(t, MaxInstant.Add(-1).InRange())
	assert.False(t, MaxInstant.InRange())

	assert.True(t, RealInRange(time.Unix(0, 0)))
	assert.False(t, RealInRange(time.Unix(-1, 0)))
	assert.True(t, RealInRange(time.Unix(1_000_000_000_000/2, 0)))
	assert.False(t, RealInRange(time.Unix(1_000_000_000_000, 0)))

	// The last accepted real second still converts to an instant in range
	last := MaxInstant.ToReal().Add(-time.Second)
	assert.True(t, RealInRange(last))
	assert.True(t, FromReal(last).InRange())
	assert.False(t, RealInRange(MaxInstant.ToReal()))
}
