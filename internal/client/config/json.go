package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/placemark/internal/flagx"
	"github.com/dmitrijs2005/placemark/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so both "30s" and integer nanoseconds are accepted.
// Empty fields leave the corresponding Config value untouched.
type JsonConfig struct {
	ServerURL          string          `json:"server_url"`
	DBPath             string          `json:"db_path"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	GeolocationTimeout *timex.Duration `json:"geolocation_timeout"`
	Home               string          `json:"home"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// It panics on read, unmarshal or position errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.GeolocationTimeout != nil {
		cfg.GeolocationTimeout = jc.GeolocationTimeout.Duration
	}
	if jc.Home != "" {
		home, err := ParsePosition(jc.Home)
		if err != nil {
			panic(err)
		}
		cfg.Home = home
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
