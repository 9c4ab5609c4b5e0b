package token

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/placemark/internal/client/repositories/metadata"
)

// StorageKey is the metadata key of the persistent token slot.
const StorageKey = "authToken"

// Store is the single persistent token slot. It survives restarts because
// it lives in the client database.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the raw token, or "" when the slot is empty.
func (s *Store) Get(ctx context.Context) (string, error) {
	raw, ok, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok {
		return "", nil
	}
	return raw, nil
}

func (s *Store) Set(ctx context.Context, raw string) error {
	if err := s.repo.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
