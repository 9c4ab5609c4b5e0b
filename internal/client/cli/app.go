package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/placemark/internal/client/catalog"
	"github.com/dmitrijs2005/placemark/internal/client/client"
	"github.com/dmitrijs2005/placemark/internal/client/config"
	"github.com/dmitrijs2005/placemark/internal/client/flow"
	"github.com/dmitrijs2005/placemark/internal/client/session"
	"github.com/dmitrijs2005/placemark/internal/client/token"
	"github.com/dmitrijs2005/placemark/internal/client/viewport"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

// Size of the simulated map container, in pixels.
const (
	mapWidth  = 800
	mapHeight = 600
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	guard    *session.Guard
	catalog  *catalog.Catalog
	viewport *viewport.Viewport
	mapView  *viewport.MemoryMap
	flow     *flow.Flow
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local database and wires the session, map and catalog
// components around an HTTP client for c.ServerURL.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}
	repos := client.NewRepositories(db)

	if c.MapsAPIKey == "" {
		log.Warn(ctx, "map provider key not set, tiles will not be available", "env", config.EnvMapsAPIKey)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	guard := session.NewGuard(token.NewStore(repos.Metadata), api, log, c.RequestTimeout)
	cat := catalog.New(api, guard, repos.Locations, log)
	guard.OnChange(cat.OnCredentialChange)

	var geo viewport.Geolocator
	if c.Home != nil {
		geo = viewport.FixedGeolocator{Lat: c.Home.Lat, Lng: c.Home.Lng}
	}
	vp := viewport.New(geo, c.GeolocationTimeout, log)
	mv := viewport.NewMemoryMap(mapWidth, mapHeight)
	vp.Attach(mv)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		guard:    guard,
		catalog:  cat,
		viewport: vp,
		mapView:  mv,
		flow:     flow.New(guard, api, cat, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run shows the last known locations, refreshes them, and then serves the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.bind(ctx)

	if err := a.catalog.Restore(ctx); err != nil {
		a.log.Warn(ctx, "failed to restore catalog snapshot", "error", err)
	}
	if _, err := a.catalog.Fetch(ctx); err != nil {
		printWarning("Could not load locations, showing the last known list (%d)", a.catalog.Len())
	}

	printlnFn(titleStyle.Render("Welcome to placemark (type 'help' for commands)"))
	runREPL(ctx, a, a.status, a.reader)
}

// bind routes map clicks into the creation flow.
func (a *App) bind(ctx context.Context) {
	a.viewport.OnSelect(func(lat, lng float64) { a.selectPoint(ctx, lat, lng) })
}

func (a *App) Close() {
	a.viewport.Detach()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close database", "error", err)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.guard.Authenticated(ctx)
}

func (a *App) status(ctx context.Context) string {
	who := "guest"
	if a.isLoggedIn(ctx) {
		who = "signed in"
	}
	return fmt.Sprintf("(%s, %s)", who, a.flow.State())
}
