package static

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	pagos, ok := tables.Maps.FindByName("Eureka Pagos")
	require.True(t, ok)
	assert.Equal(t, 467, pagos.ID)
	assert.Equal(t, 94, pagos.WeatherRate)

	rates, ok := tables.Rates.Get(pagos.WeatherRate)
	require.True(t, ok)
	require.Len(t, rates, 6)
	assert.Equal(t, RateEntry{Rate: 28, WeatherID: 4}, rates[1])

	fog, ok := tables.Names.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Fog", fog.String())
	assert.Equal(t, "霧", fog.JA)

	id, ok := tables.Names.FindByName("Umbral Wind")
	require.True(t, ok)
	assert.Equal(t, 49, id)
}

func TestDefaultTables_NullWeatherRate(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	diadem, ok := tables.Maps.FindByName("The Diadem")
	require.True(t, ok)
	assert.Equal(t, 0, diadem.WeatherRate)

	_, ok = tables.Rates.Get(diadem.WeatherRate)
	assert.False(t, ok)
}

func TestLoad_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"weathers.yaml": {Data: []byte(`
1:
  name: {en: Clear Skies, ja: 快晴, de: Klar, fr: Temps clair}
4:
  name: {en: Fog, ja: 霧, de: Neblig, fr: Brouillard}
`)},
		"weather-index.yml": {Data: []byte(`
7:
  - {rate: 50, weatherId: 1}
  - {rate: 100, weatherId: 4}
`)},
		"map-ids.yaml": {Data: []byte(`
- {name: Test Zone, id: 1, zone: 2, territory: 3, scale: 100, weatherRate: 7}
`)},
	}

	tables, err := Load(fsys)
	require.NoError(t, err)

	assert.Equal(t, 2, tables.Names.Count())
	rates, ok := tables.Rates.Get(7)
	require.True(t, ok)
	assert.Equal(t, []RateEntry{{50, 1}, {100, 4}}, rates)
	assert.Equal(t, []string{"Test Zone"}, tables.Maps.Names())
}

func TestLoad_PrefersJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"weathers.json":      {Data: []byte(`{"1": {"name": {"en": "From JSON"}}}`)},
		"weathers.yaml":      {Data: []byte("1:\n  name: {en: From YAML}\n")},
		"weather-index.json": {Data: []byte(`{"1": [{"rate": 100, "weatherId": 1}]}`)},
		"map-ids.json":       {Data: []byte(`[]`)},
	}

	tables, err := Load(fsys)
	require.NoError(t, err)
	n, _ := tables.Names.Get(1)
	assert.Equal(t, "From JSON", n.EN)
}

func TestLoad_Failures(t *testing.T) {
	valid := fstest.MapFS{
		"weathers.json":      {Data: []byte(`{"1": {"name": {"en": "Clear"}}}`)},
		"weather-index.json": {Data: []byte(`{"1": [{"rate": 100, "weatherId": 1}]}`)},
		"map-ids.json":       {Data: []byte(`[]`)},
	}

	tests := []struct {
		name    string
		file    string
		data    string
		missing bool
		errText string
	}{
		{name: "missing names", file: "weathers.json", missing: true, errText: "failed to find weathers"},
		{name: "missing maps", file: "map-ids.json", missing: true, errText: "failed to find map-ids"},
		{name: "malformed rates", file: "weather-index.json", data: `{"1": [`, errText: "failed to parse weather-index.json"},
		{name: "non increasing", file: "weather-index.json", data: `{"1": [{"rate": 50, "weatherId": 1}, {"rate": 50, "weatherId": 1}]}`, errText: "not increasing"},
		{name: "does not cover 100", file: "weather-index.json", data: `{"1": [{"rate": 60, "weatherId": 1}]}`, errText: "does not cover 100"},
		{name: "empty group", file: "weather-index.json", data: `{"1": []}`, errText: "is empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{}
			for k, v := range valid {
				fsys[k] = v
			}
			if tc.missing {
				delete(fsys, tc.file)
			} else {
				fsys[tc.file] = &fstest.MapFile{Data: []byte(tc.data)}
			}

			_, err := Load(fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestTablesAreCopies(t *testing.T) {
	entries := []RateEntry{{100, 1}}
	table := NewWeatherRateTable(map[int][]RateEntry{1: entries})
	entries[0].WeatherID = 99

	got, _ := table.Get(1)
	assert.Equal(t, 1, got[0].WeatherID)

	got[0].WeatherID = 42
	again, _ := table.Get(1)
	assert.Equal(t, 1, again[0].WeatherID)
}
