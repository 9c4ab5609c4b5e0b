// Package catalog holds the client-side copy of the location list.
//
// The list is replaced wholesale on every successful fetch, grows by one
// record after a successful creation, and is mirrored to the local database
// so the last known list is available before the first fetch completes.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/client/repositories/locations"
	"github.com/dmitrijs2005/placemark/internal/client/session"
	"github.com/dmitrijs2005/placemark/internal/client/token"
	"github.com/dmitrijs2005/placemark/internal/logging"
)

// Lister fetches the full location list. raw may be empty.
type Lister interface {
	ListLocations(ctx context.Context, raw string) ([]models.Location, error)
}

// Freshener yields a usable credential. *session.Guard satisfies it.
type Freshener interface {
	EnsureFresh(ctx context.Context) (token.Credential, error)
}

// FetchError is a failed list fetch. The cached list is left as it was.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch locations: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// Catalog is safe for concurrent use. Network calls are made without
// holding any lock.
type Catalog struct {
	api   Lister
	guard Freshener
	repo  locations.Repository
	log   logging.Logger

	// writeMu orders in-memory mutations with their database mirror.
	writeMu sync.Mutex

	mu    sync.Mutex
	items []models.Location
	gen   uint64
	// inserted remembers the generation at which each local insert
	// happened, so a fetch that started earlier does not drop it.
	inserted map[models.ID]uint64

	// seq numbers fetches in start order. pending maps an in-flight fetch
	// to the generation it started at; committed is the seq of the newest
	// fetch whose result was applied.
	seq       uint64
	committed uint64
	pending   map[uint64]uint64
}

// New returns an empty catalog. repo may be nil to disable the snapshot.
func New(api Lister, guard Freshener, repo locations.Repository, log logging.Logger) *Catalog {
	return &Catalog{
		api:      api,
		guard:    guard,
		repo:     repo,
		log:      log.With("component", "catalog"),
		items:    []models.Location{},
		inserted: make(map[models.ID]uint64),
		pending:  make(map[uint64]uint64),
	}
}

// All returns a copy of the cached list in display order.
func (c *Catalog) All() []models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Fetch reloads the list. A fresh credential is attached when one can be
// obtained; otherwise the request is sent anonymously. If obtaining it
// changed the credential, the refetch that change triggered is reused.
func (c *Catalog) Fetch(ctx context.Context) ([]models.Location, error) {
	c.mu.Lock()
	mark := c.seq
	c.mu.Unlock()

	raw := ""
	cred, err := c.guard.EnsureFresh(ctx)
	switch {
	case err == nil:
		raw = cred.Raw
	case isAuthError(err):
		c.log.Debug(ctx, "fetching anonymously", "reason", err)
	default:
		c.log.Error(ctx, "fetch failed", "error", err)
		return nil, &FetchError{Err: err}
	}

	c.mu.Lock()
	refetched := c.committed > mark
	current := slices.Clone(c.items)
	c.mu.Unlock()
	if refetched {
		c.log.Debug(ctx, "list already refetched after credential change")
		return current, nil
	}
	return c.fetch(ctx, raw)
}

// OnCredentialChange refetches with the new credential. It is registered
// with the session guard and must not call back into it.
func (c *Catalog) OnCredentialChange(ctx context.Context, cred *token.Credential) {
	raw := ""
	if cred != nil {
		raw = cred.Raw
	}
	_, _ = c.fetch(ctx, raw)
}

func (c *Catalog) fetch(ctx context.Context, raw string) ([]models.Location, error) {
	c.mu.Lock()
	c.seq++
	mine, started := c.seq, c.gen
	c.pending[mine] = started
	c.mu.Unlock()

	items, err := c.api.ListLocations(ctx, raw)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	delete(c.pending, mine)
	if err != nil {
		c.pruneInserted()
		c.mu.Unlock()
		c.log.Error(ctx, "fetch failed, keeping cached list", "error", err)
		return nil, &FetchError{Err: err}
	}
	if committed := c.committed; mine < committed {
		c.pruneInserted()
		current := slices.Clone(c.items)
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding outdated list", "fetch", mine, "committed", committed)
		return current, nil
	}

	next := slices.Clone(items)
	for _, l := range c.items {
		at, ok := c.inserted[l.ID]
		if ok && at > started && !containsID(next, l.ID) {
			next = append(next, l)
		}
	}
	c.items = next
	c.gen++
	c.committed = mine
	c.pruneInserted()
	snapshot := slices.Clone(next)
	c.mu.Unlock()

	c.log.Info(ctx, "catalog refreshed", "count", len(snapshot), "authenticated", raw != "")

	if c.repo != nil {
		if err := c.repo.ReplaceAll(ctx, snapshot); err != nil {
			c.log.Warn(ctx, "failed to store catalog snapshot", "error", err)
		}
	}
	return slices.Clone(snapshot), nil
}

// pruneInserted forgets inserts that no in-flight fetch predates.
// Callers hold c.mu.
func (c *Catalog) pruneInserted() {
	for id, at := range c.inserted {
		keep := false
		for _, started := range c.pending {
			if started < at {
				keep = true
				break
			}
		}
		if !keep {
			delete(c.inserted, id)
		}
	}
}

// Insert adds rec, or replaces the record with the same ID in place.
func (c *Catalog) Insert(ctx context.Context, rec models.Location) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if i := indexOf(c.items, rec.ID); i >= 0 {
		c.items[i] = rec
	} else {
		c.items = append(c.items, rec)
	}
	c.gen++
	c.inserted[rec.ID] = c.gen
	c.mu.Unlock()

	if c.repo != nil {
		if err := c.repo.Put(ctx, rec); err != nil {
			c.log.Warn(ctx, "failed to store inserted location", "id", rec.ID, "error", err)
		}
	}
}

// Rollback removes the record with the given ID and reports whether it
// was present.
func (c *Catalog) Rollback(ctx context.Context, id models.ID) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	i := indexOf(c.items, id)
	if i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
		c.gen++
		delete(c.inserted, id)
	}
	c.mu.Unlock()

	if i < 0 {
		return false
	}
	if c.repo != nil {
		if err := c.repo.Delete(ctx, id); err != nil {
			c.log.Warn(ctx, "failed to remove location from snapshot", "id", id, "error", err)
		}
	}
	return true
}

// Restore loads the stored snapshot. It does nothing once the list has been
// populated by a fetch or an insert.
func (c *Catalog) Restore(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != 0 {
		return nil
	}
	c.items = items
	c.log.Debug(ctx, "restored catalog snapshot", "count", len(items))
	return nil
}

func indexOf(items []models.Location, id models.ID) int {
	return slices.IndexFunc(items, func(l models.Location) bool { return l.ID == id })
}

func containsID(items []models.Location, id models.ID) bool {
	return indexOf(items, id) >= 0
}

func isAuthError(err error) bool {
	var ae *session.AuthError
	return errors.As(err, &ae)
}
