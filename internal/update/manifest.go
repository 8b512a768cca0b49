// internal/update/manifest.go

package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	apperrors "customTools/internal/error"
	"customTools/internal/models"
)

// LoadManifest reads a versions.json. A missing file is an empty manifest.
func LoadManifest(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewManifest(), nil
	}
	if err != nil {
		return models.NewManifest(), apperrors.New(apperrors.FileError, fmt.Sprintf("error reading %s", path), err)
	}

	m := models.NewManifest()
	if err := json.Unmarshal(data, m); err != nil {
		return models.NewManifest(), apperrors.New(apperrors.FileError, fmt.Sprintf("error parsing %s", path), err)
	}
	if m.Tools == nil {
		m.Tools = make(map[string]string)
	}
	return m, nil
}

func SaveManifest(path string, m *models.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling versions: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return apperrors.New(apperrors.FileError, fmt.Sprintf("error saving %s", path), err)
	}
	return nil
}

// LoadCache returns the cached remote manifest when it is younger than ttl.
// Any read or parse problem counts as a cache miss.
func LoadCache(path string, ttl time.Duration, now time.Time) (*models.Manifest, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var cache models.VersionCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.Versions == nil {
		return nil, false
	}

	stamp := time.Unix(0, int64(cache.Timestamp*float64(time.Second)))
	if now.Sub(stamp) >= ttl {
		return nil, false
	}
	return cache.Versions, true
}

// SaveCache stores m with the current time as epoch seconds.
func SaveCache(path string, m *models.Manifest, now time.Time) error {
	cache := models.VersionCache{
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Versions:  m,
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling versions cache: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
