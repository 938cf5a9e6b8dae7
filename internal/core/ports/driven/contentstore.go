package driven

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// ContentStore persists extracted content for an external indexer.
// The extraction core never calls it; driving adapters such as the CLI do.
type ContentStore interface {
	// Save stores or replaces extracted content keyed by its ID.
	Save(ctx context.Context, content *domain.ExtractedContent) error

	// Get retrieves extracted content by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.ExtractedContent, error)

	// List returns all stored content ordered by filename.
	List(ctx context.Context) ([]domain.ExtractedContent, error)

	// Delete removes extracted content by ID.
	Delete(ctx context.Context, id string) error
}
