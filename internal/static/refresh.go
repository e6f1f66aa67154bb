package static

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DataVersion identifies the bundled reference data set
const DataVersion = "6.58-eureka"

// Manifest represents the manifest.json written next to the data files
type Manifest struct {
	UpdatedAt   string `json:"updated_at"`
	GeneratedAt string `json:"generated_at,omitempty"` // legacy
	Version     string `json:"version"`
}

// EnsureData makes sure dir holds reference data. The bundled tables are
// written when the manifest is missing, older than maxAgeDays, or from a
// different data version. Returns true if files were written.
func EnsureData(dir string, maxAgeDays int, logger *zap.Logger) (bool, error) {
	manifestPath := filepath.Join(dir, "manifest.json")

	stale := isStaleOrMissing(manifestPath, maxAgeDays)
	version := getStoredVersion(manifestPath)
	if !stale && version == DataVersion {
		logger.Debug("reference data is fresh, skipping refresh", zap.String("dir", dir))
		return false, nil
	}

	logger.Info("refreshing reference data",
		zap.String("dir", dir),
		zap.Bool("stale", stale),
		zap.String("stored_version", version),
		zap.String("bundled_version", DataVersion))

	if err := writeDefaults(dir); err != nil {
		return false, err
	}
	return true, nil
}

func writeDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	files, err := defaultFiles()
	if err != nil {
		return fmt.Errorf("failed to list bundled data: %w", err)
	}
	for _, name := range files {
		data, err := defaultData.ReadFile("data/" + name)
		if err != nil {
			return fmt.Errorf("failed to read bundled %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	manifest := Manifest{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Version:   DataVersion,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0644)
}

func readManifest(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func isStaleOrMissing(manifestPath string, maxAgeDays int) bool {
	manifest, err := readManifest(manifestPath)
	if err != nil {
		return true
	}

	stamp := manifest.UpdatedAt
	if stamp == "" {
		stamp = manifest.GeneratedAt
	}
	updatedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return true
	}

	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
	return time.Since(updatedAt) > maxAge
}

func getStoredVersion(manifestPath string) string {
	manifest, err := readManifest(manifestPath)
	if err != nil {
		return ""
	}
	return manifest.Version
}
