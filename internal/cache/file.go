package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/geo"
)

const (
	entryFile    = "%s.json"
	geoCacheFile = "geolocation.json"
	geoTTL       = 24 * time.Hour
)

// File stores entries as JSON files in a directory.
type File struct {
	dir string
	now func() time.Time
}

type fileEntry struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Data      json.RawMessage `json:"data"`
}

// GeoEntry stores a detected location with a timestamp.
type GeoEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// NewFile creates a File store rooted at dir.
// If dir is empty, it defaults to ~/.cache/ramadan-live/.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &File{dir: dir, now: time.Now}, nil
}

// DefaultDir is ~/.cache/ramadan-live.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "ramadan-live"), nil
}

// Dir returns the cache directory.
func (f *File) Dir() string { return f.dir }

// Load implements Store. Unreadable or corrupt files are misses.
func (f *File) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, nil
	}
	if !f.now().Before(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Save implements Store.
func (f *File) Save(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{ExpiresAt: f.now().Add(ttl), Data: data}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(f.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// LoadGeo returns the cached location, or nil if missing or older than 24h.
func (f *File) LoadGeo() *geo.Location {
	data, err := os.ReadFile(filepath.Join(f.dir, geoCacheFile))
	if err != nil {
		return nil
	}

	var entry GeoEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if f.now().Sub(entry.CachedAt) > geoTTL {
		return nil
	}
	return &entry.Location
}

// SaveGeo writes a detected location to the cache.
func (f *File) SaveGeo(loc *geo.Location) error {
	data, err := json.Marshal(GeoEntry{Location: *loc, CachedAt: f.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, geoCacheFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, fmt.Sprintf(entryFile, key))
}
