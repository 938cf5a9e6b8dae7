package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
type ContentStore struct {
	mu       sync.RWMutex
	contents map[string]domain.ExtractedContent
}

// NewContentStore creates a new in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		contents: make(map[string]domain.ExtractedContent),
	}
}

// Save stores or replaces extracted content.
func (s *ContentStore) Save(_ context.Context, content *domain.ExtractedContent) error {
	if content == nil || content.ID == "" {
		return fmt.Errorf("%w: content without id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *content
	stored.Metadata = maps.Clone(content.Metadata)
	s.contents[content.ID] = stored
	return nil
}

// Get retrieves extracted content by ID.
func (s *ContentStore) Get(_ context.Context, id string) (*domain.ExtractedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &content, nil
}

// List returns all stored content ordered by filename.
func (s *ContentStore) List(_ context.Context) ([]domain.ExtractedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ExtractedContent, 0, len(s.contents))
	for _, content := range s.contents {
		result = append(result, content)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Filename != result[j].Filename {
			return result[i].Filename < result[j].Filename
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes extracted content by ID.
func (s *ContentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contents, id)
	return nil
}
