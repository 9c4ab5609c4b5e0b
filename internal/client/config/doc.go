// Package config loads runtime configuration for the placemark client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: a .env file in the working directory (joho/godotenv, never
//     overriding variables already set), then PLACEMARK_SERVER_URL,
//     PLACEMARK_DB_PATH, PLACEMARK_LOG_LEVEL and GOOGLE_MAPS_API_KEY.
//  4. Command-line flags, which override everything before them.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   path of the local SQLite database
//	-t int      per-request network timeout (seconds)
//	-g int      geolocation timeout (seconds)
//	-home lat,lng  fixed device position used by "locate"
//	-l string   log level (debug, info, warn, error)
//
// A home position with a negative latitude must use the joined form,
// e.g. -home=-33.92,18.42.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "db_path": "data/placemark.db",
//	  "request_timeout": "30s",
//	  "geolocation_timeout": "10s",
//	  "home": "52.52,13.40",
//	  "log_level": "info"
//	}
package config
