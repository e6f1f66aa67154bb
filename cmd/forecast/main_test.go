package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/static"
	"github.com/thebluefish/eureka-notify/internal/status"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

func TestPrintVoyages(t *testing.T) {
	var buf bytes.Buffer
	printVoyages(&buf, time.Unix(1791936000, 0), 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "*"))
	assert.Contains(t, lines[0], "RhotanoDay")
	assert.Contains(t, lines[0], "Shark / Coral Manta")
	assert.Contains(t, lines[0], "BEST")
	assert.True(t, strings.HasPrefix(lines[1], " "))
	assert.Contains(t, lines[1], "BloodbrineSunset")
	assert.Contains(t, lines[2], "RothlytSunset")
}

func TestPrintReport(t *testing.T) {
	tables, err := static.Default()
	require.NoError(t, err)
	reporter, err := status.NewReporter(weather.NewResolver(tables, nil), nil)
	require.NoError(t, err)

	at := eorzea.FromTimestamp(1_000_000 * int64(eorzea.WeatherCycle))
	report, err := reporter.Build(at)
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, report, at.ToReal())
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "ET 00:00 "), out)
	assert.Contains(t, out, "Pagos")
	assert.Contains(t, out, "Heat Waves")
	assert.Contains(t, out, "Hotbox     x3")
	assert.NotContains(t, out, "[ACTIVE]")
}

func TestReportTime(t *testing.T) {
	now := time.Unix(1791936000, 0)

	got, err := reportTime(0, now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = reportTime(1400000000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1400000000), got.Unix())

	for _, at := range []int64{-1, -86400, eorzea.MaxInstant.ToReal().Unix(), 1_000_000_000_000} {
		_, err = reportTime(at, now)
		assert.Error(t, err, "at %d", at)
	}

	_, err = reportTime(0, time.Unix(-5, 0))
	assert.Error(t, err)
}
