package locations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const upsertQuery = `
	INSERT INTO locations (id, position, name, address, working_hours_start, working_hours_end,
		average_check, latitude, longitude, owner_info, website, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		address = excluded.address,
		working_hours_start = excluded.working_hours_start,
		working_hours_end = excluded.working_hours_end,
		average_check = excluded.average_check,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		owner_info = excluded.owner_info,
		website = excluded.website,
		created_at = excluded.created_at
`

func upsert(ctx context.Context, db dbx.DBTX, position int, l models.Location) error {
	_, err := db.ExecContext(ctx, upsertQuery,
		string(l.ID), position, l.Name, l.Address, l.WorkingHoursStart, l.WorkingHoursEnd,
		l.AverageCheck, l.Latitude, l.Longitude, nullString(l.OwnerInfo), nullString(l.Website),
		l.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert location %s: %w", l.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Location) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
			return fmt.Errorf("failed to clear locations: %w", err)
		}
		for i, l := range items {
			if err := upsert(ctx, tx, i, l); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Put(ctx context.Context, item models.Location) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var next int
		err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM locations`).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}
		return upsert(ctx, tx, next, item)
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, id models.ID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("failed to delete location %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, address, working_hours_start, working_hours_end, average_check,
			latitude, longitude, owner_info, website, created_at
		FROM locations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select locations: %w", err)
	}
	defer rows.Close()

	result := make([]models.Location, 0)
	for rows.Next() {
		var (
			l         models.Location
			id        string
			ownerInfo sql.NullString
			website   sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&id, &l.Name, &l.Address, &l.WorkingHoursStart, &l.WorkingHoursEnd,
			&l.AverageCheck, &l.Latitude, &l.Longitude, &ownerInfo, &website, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		l.ID = models.ID(id)
		l.OwnerInfo = stringPtr(ownerInfo)
		l.Website = stringPtr(website)
		l.CreatedAt = models.Timestamp{Time: createdAt.UTC()}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location rows: %w", err)
	}
	return result, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
