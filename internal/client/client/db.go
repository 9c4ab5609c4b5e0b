package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/placemark/internal/client/migrations"
	"github.com/dmitrijs2005/placemark/internal/client/repositories/locations"
	"github.com/dmitrijs2005/placemark/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/placemark/internal/filex"

	_ "modernc.org/sqlite"
)

// Repositories groups the local stores backed by the client database.
type Repositories struct {
	Metadata  metadata.Repository
	Locations locations.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata:  metadata.NewSQLiteRepository(db),
		Locations: locations.NewSQLiteRepository(db),
	}
}

// RunMigrations applies the embedded schema. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at path and
// migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", abs, err)
	}

	return db, nil
}
