package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebluefish/eureka-notify/internal/static"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

func reporter(t *testing.T) *Reporter {
	t.Helper()
	r, err := NewReporter(resolver(t), nil)
	require.NoError(t, err)
	return r
}

func occurrence(t *testing.T, r *Report, key string) Occurrence {
	t.Helper()
	for _, c := range r.Conditions {
		if c.Condition.Key == key {
			return c
		}
	}
	t.Fatalf("condition %s missing from report", key)
	return Occurrence{}
}

func TestReportAtBase(t *testing.T) {
	report, err := reporter(t).Build(base.Add(90 * 60))
	require.NoError(t, err)
	assert.Equal(t, base, report.At)

	require.Len(t, report.Zones, 3)
	assert.Equal(t, "Eureka Pagos", report.Zones[0].Zone)
	assert.Equal(t, "Heat Waves", report.Zones[0].Current.Name)
	assert.Equal(t, "Thunder", report.Zones[0].Next.Name)
	assert.Equal(t, base.AddCycles(1), report.Zones[0].NextStart)
	assert.Equal(t, "Umbral Wind", report.Zones[1].Next.Name)
	assert.Equal(t, "Gloom", report.Zones[2].Current.Name)

	require.Len(t, report.Conditions, 3)
	crab := occurrence(t, report, Crab)
	assert.Equal(t, base.AddCycles(4), crab.Next)
	assert.Equal(t, base.SubtractCycles(2), crab.Previous)
	assert.False(t, crab.Active)
	assert.False(t, crab.Upcoming)
	assert.False(t, report.AnyActive())

	require.Len(t, report.Runs, 2)
	assert.Equal(t, Hotbox, report.Runs[0].Condition.Key)
	assert.Equal(t, base.AddCycles(1), report.Runs[0].Start)
	assert.Equal(t, 3, report.Runs[0].Length)
	assert.True(t, report.Runs[0].Upcoming)
	assert.False(t, report.Runs[1].Upcoming)

	assert.True(t, report.AnyUpcoming(), "hotbox starts next cycle")
	assert.Empty(t, report.Upcoming())
}

func TestReportUpcomingAndActive(t *testing.T) {
	r := reporter(t)

	before, err := r.Build(base.AddCycles(3))
	require.NoError(t, err)
	assert.True(t, occurrence(t, before, Crab).Upcoming)
	require.Len(t, before.Upcoming(), 1)
	assert.Equal(t, Crab, before.Upcoming()[0].Condition.Key)

	during, err := r.Build(base.AddCycles(4))
	require.NoError(t, err)
	crab := occurrence(t, during, Crab)
	assert.True(t, crab.Active)
	assert.False(t, crab.Upcoming)
	assert.Equal(t, base.AddCycles(7), crab.Next)
	assert.True(t, during.AnyActive())
}

func TestReporterSearcher(t *testing.T) {
	r := reporter(t)

	s, ok := r.Searcher(Skoll)
	require.True(t, ok)
	assert.Equal(t, "Eureka Pyros", s.Zone().Name())

	_, ok = r.Searcher("tristitia")
	assert.False(t, ok)
}

func TestNewReporterRejectsUnknownWeatherName(t *testing.T) {
	def, err := static.Default()
	require.NoError(t, err)
	tables := &static.Tables{
		Names: static.NewWeatherNameTable(map[int]static.WeatherName{}),
		Rates: def.Rates,
		Maps:  def.Maps,
	}

	_, err = NewReporter(weather.NewResolver(tables, nil), nil)
	var cfgErr *weather.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), err)
	assert.Equal(t, weather.Pagos, cfgErr.Zone)
	assert.Contains(t, cfgErr.Reason, `"Fog"`)
}
