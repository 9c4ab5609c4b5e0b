package locations

import (
	"context"

	"github.com/dmitrijs2005/placemark/internal/client/models"
)

type Repository interface {
	// GetAll returns the snapshot in catalog order.
	GetAll(ctx context.Context) ([]models.Location, error)

	// ReplaceAll atomically replaces the snapshot with items.
	ReplaceAll(ctx context.Context, items []models.Location) error

	// Put inserts item at the end of the snapshot or updates it in place.
	Put(ctx context.Context, item models.Location) error

	// Delete removes the record with the given id; missing ids are ignored.
	Delete(ctx context.Context, id models.ID) error
}
