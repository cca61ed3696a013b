// Package store persists saved comparisons. Two drivers implement the same
// interface: SQLite for the default local setup and Postgres for shared
// deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// MaxComparisons caps the comparison list. Saving beyond the cap evicts the
// oldest entries.
const MaxComparisons = 6

// ErrComparisonNotFound is returned when an id does not match a saved entry.
var ErrComparisonNotFound = eris.New("comparison not found")

// Store defines the persistence interface for the comparison list.
type Store interface {
	// SaveComparison inserts a comparison, replacing any existing entry with
	// the same (plate, method) pair, then prunes the list to MaxComparisons
	// newest entries.
	SaveComparison(ctx context.Context, c *model.Comparison) error

	// ListComparisons returns all saved entries ordered by net monthly cost,
	// cheapest first.
	ListComparisons(ctx context.Context) ([]model.Comparison, error)

	// GetComparison fetches one entry by id. Returns ErrComparisonNotFound
	// when the id is unknown.
	GetComparison(ctx context.Context, id string) (*model.Comparison, error)

	// RemoveComparison deletes one entry by id. Returns ErrComparisonNotFound
	// when the id is unknown.
	RemoveComparison(ctx context.Context, id string) error

	// ClearComparisons deletes every entry and returns how many were removed.
	ClearComparisons(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
