package weather

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/static"
)

// base is a cycle boundary far enough from the epoch to look like real data
var base = eorzea.FromTimestamp(1_000_000 * int64(eorzea.WeatherCycle))

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	tables, err := static.Default()
	require.NoError(t, err)
	return NewResolver(tables, nil)
}

func syntheticTables(rates map[int][]static.RateEntry, maps []static.MapInfo) *static.Tables {
	return &static.Tables{
		Names: static.NewWeatherNameTable(map[int]static.WeatherName{
			1: {EN: "Clear Skies"},
			2: {EN: "Fair Skies"},
			3: {EN: "Clouds"},
		}),
		Rates: static.NewWeatherRateTable(rates),
		Maps:  static.NewMapInfoTable(maps),
	}
}

func TestWeatherAtGolden(t *testing.T) {
	r := defaultResolver(t)

	tests := []struct {
		zone string
		want []string
	}{
		{Anemos, []string{"Gales", "Showers", "Showers", "Showers", "Fair Skies", "Fair Skies"}},
		{Pagos, []string{"Heat Waves", "Thunder", "Thunder", "Thunder", "Fog", "Fair Skies"}},
		{Pyros, []string{"Thunder", "Umbral Wind", "Umbral Wind", "Umbral Wind", "Heat Waves", "Fair Skies"}},
		{Hydatos, []string{"Gloom", "Thunderstorms", "Thunderstorms", "Thunderstorms", "Showers", "Fair Skies"}},
	}

	for _, tc := range tests {
		t.Run(tc.zone, func(t *testing.T) {
			zone, err := r.Resolve(tc.zone)
			require.NoError(t, err)

			got := make([]string, 0, len(tc.want))
			for n := range tc.want {
				w, err := zone.WeatherAt(base.AddCycles(n))
				require.NoError(t, err)
				got = append(got, w.Name)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWeatherAtMidCycleMatchesBoundary(t *testing.T) {
	zone, err := defaultResolver(t).Resolve(Pagos)
	require.NoError(t, err)

	atStart, err := zone.WeatherAt(base)
	require.NoError(t, err)
	atMiddle, err := zone.WeatherAt(base.Add(4 * eorzea.Hour))
	require.NoError(t, err)
	assert.Equal(t, atStart, atMiddle)
}

func TestResolve(t *testing.T) {
	r := defaultResolver(t)

	zone, err := r.Resolve(Pyros)
	require.NoError(t, err)
	assert.Equal(t, Pyros, zone.Name())
	assert.Equal(t, 484, zone.ID())
	assert.Len(t, zone.Rates(), 6)

	weathers, err := zone.Weathers()
	require.NoError(t, err)
	names := make([]string, 0, len(weathers))
	for _, w := range weathers {
		names = append(names, w.String())
	}
	assert.Equal(t, []string{"Fair Skies", "Heat Waves", "Thunder", "Blizzards", "Umbral Wind", "Snow"}, names)
}

func TestResolveNotFound(t *testing.T) {
	_, err := defaultResolver(t).Resolve("Eureka Pyro")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZoneNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, Pyros, nf.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "Eureka Pyros"`)
}

func TestFind(t *testing.T) {
	r := defaultResolver(t)

	for query, want := range map[string]string{
		"pagos":         Pagos,
		"HYDATOS":       Hydatos,
		"eureka anemos": Anemos,
		"Eureka Pyros":  Pyros,
	} {
		zone, err := r.Find(query)
		require.NoError(t, err, query)
		assert.Equal(t, want, zone.Name(), query)
	}

	_, err := r.Find("pagso")
	assert.True(t, errors.Is(err, ErrZoneNotFound))
}

func TestEmptyRateSequenceFails(t *testing.T) {
	tables := syntheticTables(nil, []static.MapInfo{{Name: "Nowhere", ID: 9, WeatherRate: 77}})
	zone, err := NewResolver(tables, nil).Resolve("Nowhere")
	require.NoError(t, err, "resolving a zone without rates is allowed")
	assert.Empty(t, zone.Rates())

	_, err = zone.WeatherAt(base)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Nowhere", cfgErr.Zone)
	assert.Contains(t, cfgErr.Error(), "no weather rates")
}

func TestBundledZoneWithoutRatesFails(t *testing.T) {
	zone, err := defaultResolver(t).Resolve("The Diadem")
	require.NoError(t, err)

	_, err = zone.WeatherAt(base)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestIncompleteRateTableFails(t *testing.T) {
	tables := syntheticTables(
		map[int][]static.RateEntry{5: {{Rate: 20, WeatherID: 1}, {Rate: 40, WeatherID: 2}}},
		[]static.MapInfo{{Name: "Partial", WeatherRate: 5}},
	)
	zone, err := NewResolver(tables, nil).Resolve("Partial")
	require.NoError(t, err)

	w, err := zone.WeatherFor(10)
	require.NoError(t, err)
	assert.Equal(t, "Clear Skies", w.Name)

	w, err = zone.WeatherFor(20)
	require.NoError(t, err)
	assert.Equal(t, "Fair Skies", w.Name)

	_, err = zone.WeatherFor(40)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "roll 40")
}

func TestMissingWeatherNameFails(t *testing.T) {
	tables := syntheticTables(
		map[int][]static.RateEntry{5: {{Rate: 100, WeatherID: 42}}},
		[]static.MapInfo{{Name: "Unnamed", WeatherRate: 5}},
	)
	zone, err := NewResolver(tables, nil).Resolve("Unnamed")
	require.NoError(t, err)

	_, err = zone.WeatherFor(0)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "id 42")
}

func TestWeatherAtOutOfRange(t *testing.T) {
	zone, err := defaultResolver(t).Resolve(Pagos)
	require.NoError(t, err)

	for _, at := range []eorzea.Instant{eorzea.FromTimestamp(-1), eorzea.MaxInstant} {
		_, err := zone.WeatherAt(at)
		assert.ErrorIs(t, err, eorzea.ErrOutOfRange)
		var cfg *ConfigurationError
		assert.False(t, errors.As(err, &cfg), "range errors are not data errors")
	}

	w, err := zone.WeatherAt(eorzea.FromTimestamp(0))
	require.NoError(t, err)
	assert.Equal(t, "Snow", w.Name)
}

func TestMissingRateGroupLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tables := syntheticTables(nil, []static.MapInfo{{Name: "Nowhere", ID: 9, WeatherRate: 77}})

	_, err := NewResolver(tables, zap.New(core)).Resolve("Nowhere")
	require.NoError(t, err)

	missing := logs.FilterMessage("failed to get rate map for zone").All()
	require.Len(t, missing, 1)
	assert.Equal(t, zap.DebugLevel, missing[0].Level)
	assert.Zero(t, logs.FilterLevelExact(zap.InfoLevel).Len())
}
