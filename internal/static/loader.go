package static

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reference data file names, without extension
const (
	WeatherNamesFile = "weathers"
	WeatherRatesFile = "weather-index"
	MapInfoFile      = "map-ids"
)

// extensions tried in order when looking for a table file
var extensions = []string{".json", ".yaml", ".yml"}

//go:embed data/*.json
var defaultData embed.FS

// --- file shapes ---

type weatherNameEntry struct {
	Name WeatherName `json:"name" yaml:"name"`
}

// Default loads the reference data bundled with the binary
func Default() (*Tables, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled data: %w", err)
	}
	return Load(sub)
}

// LoadDir loads reference data from a directory on disk
func LoadDir(dir string) (*Tables, error) {
	return Load(os.DirFS(dir))
}

// Load reads all three reference tables from fsys.
// Each table may be stored as JSON or YAML.
func Load(fsys fs.FS) (*Tables, error) {
	names, err := LoadWeatherNames(fsys)
	if err != nil {
		return nil, err
	}
	rates, err := LoadWeatherRates(fsys)
	if err != nil {
		return nil, err
	}
	maps, err := LoadMapInfo(fsys)
	if err != nil {
		return nil, err
	}

	return &Tables{Names: names, Rates: rates, Maps: maps}, nil
}

// LoadWeatherNames reads the weather ID -> name table
func LoadWeatherNames(fsys fs.FS) (*WeatherNameTable, error) {
	var raw map[int]weatherNameEntry
	if err := decodeTable(fsys, WeatherNamesFile, &raw); err != nil {
		return nil, err
	}

	names := make(map[int]WeatherName, len(raw))
	for id, e := range raw {
		names[id] = e.Name
	}
	return NewWeatherNameTable(names), nil
}

// LoadWeatherRates reads and validates the weather-rate group table
func LoadWeatherRates(fsys fs.FS) (*WeatherRateTable, error) {
	var raw map[int][]RateEntry
	if err := decodeTable(fsys, WeatherRatesFile, &raw); err != nil {
		return nil, err
	}

	t := NewWeatherRateTable(raw)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", WeatherRatesFile, err)
	}
	return t, nil
}

// LoadMapInfo reads the map info table
func LoadMapInfo(fsys fs.FS) (*MapInfoTable, error) {
	var raw []MapInfo
	if err := decodeTable(fsys, MapInfoFile, &raw); err != nil {
		return nil, err
	}
	return NewMapInfoTable(raw), nil
}

// decodeTable finds base.{json,yaml,yml} in fsys and decodes it into v
func decodeTable(fsys fs.FS, base string, v interface{}) error {
	for _, ext := range extensions {
		name := base + ext
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := decode(name, data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("failed to find %s (tried %s)", base, strings.Join(extensions, ", "))
}

func decode(name string, data []byte, v interface{}) error {
	switch path.Ext(name) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// defaultFiles lists the bundled files, used when seeding a data directory
func defaultFiles() ([]string, error) {
	entries, err := fs.ReadDir(defaultData, "data")
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
