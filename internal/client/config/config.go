package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Position is a fixed geographic point.
type Position struct {
	Lat float64
	Lng float64
}

// Config holds runtime settings for the placemark client.
//
// Fields:
//   - ServerURL: base URL of the REST API (no trailing slash needed).
//   - MapsAPIKey: map-provider key, read from the environment only.
//   - DBPath: SQLite file holding the auth token slot and the catalog snapshot.
//   - RequestTimeout: upper bound for one HTTP exchange, including token refresh.
//   - GeolocationTimeout: upper bound for one device position lookup.
//   - Home: position reported by the fixed geolocator; nil means no geolocation.
//   - LogLevel: slog level name.
type Config struct {
	ServerURL          string
	MapsAPIKey         string
	DBPath             string
	RequestTimeout     time.Duration
	GeolocationTimeout time.Duration
	Home               *Position
	LogLevel           string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.DBPath = "data/placemark.db"
	c.RequestTimeout = 30 * time.Second
	c.GeolocationTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment and flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

var ErrInvalidPosition = errors.New("position must be lat,lng")

// ParsePosition parses "lat,lng" into a Position, checking coordinate ranges.
func ParsePosition(s string) (*Position, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: %q out of range", ErrInvalidPosition, s)
	}
	return &Position{Lat: lat, Lng: lng}, nil
}
