package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvServerURL  = "PLACEMARK_SERVER_URL"
	EnvDBPath     = "PLACEMARK_DB_PATH"
	EnvLogLevel   = "PLACEMARK_LOG_LEVEL"
	EnvMapsAPIKey = "GOOGLE_MAPS_API_KEY"
)

// parseEnv loads the given dotenv files (default ".env"; missing files are
// ignored) and overlays Config with the environment. Variables already set in
// the process environment win over dotenv values.
func parseEnv(cfg *Config, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.MapsAPIKey = os.Getenv(EnvMapsAPIKey)
}
