package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/placemark/internal/flagx"
)

// parseFlags populates Config from the command-line flags listed in the
// package documentation. Unknown arguments are filtered out first with
// flagx.FilterArgs so other loaders' flags do not break parsing.
// It panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-g", "-home", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the REST API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	geoTimeout := fs.Int("g", int(cfg.GeolocationTimeout.Seconds()), "geolocation timeout (in seconds)")
	home := fs.String("home", "", "fixed device position as lat,lng")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.GeolocationTimeout = time.Duration(*geoTimeout) * time.Second

	if *home != "" {
		pos, err := ParsePosition(*home)
		if err != nil {
			panic(err)
		}
		cfg.Home = pos
	}
}
