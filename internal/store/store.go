package store

import (
	"context"

	"github.com/nhle/notifyprefs/internal/model"
)

// Store is the persistence contract for the local notification type cache.
type Store interface {
	// UpsertTypes inserts or replaces a batch of notification types.
	UpsertTypes(ctx context.Context, types []model.NotificationType) error

	// GetTypes retrieves all cached notification types ordered by key,
	// matching the ordering the backend uses.
	GetTypes(ctx context.Context) ([]model.NotificationType, error)

	// Close releases the underlying database handle.
	Close() error
}
