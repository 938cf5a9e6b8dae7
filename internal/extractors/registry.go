// Package extractors holds the explicit content-type to extractor table and
// the registration of the built-in format extractors.
package extractors

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps content types to extractors.
// Registration normally happens once at start-up; lookups are safe for
// concurrent use with each other and with Register.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string][]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]driven.Extractor),
	}
}

// Register adds an extractor under each of its supported content types.
// Extractors registered for the same type are kept ordered by priority,
// highest first; equal priorities keep registration order.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ct := range extractor.SupportedMIMETypes() {
		ct = strings.ToLower(ct)
		list := append(r.extractors[ct], extractor)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.extractors[ct] = list
	}
}

// Lookup returns the preferred extractor for a content type.
// An exact registration wins over a family wildcard such as "text/*".
func (r *Registry) Lookup(contentType string) (driven.Extractor, bool) {
	ct := domain.BaseMIMEType(contentType)
	if ct == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if list := r.extractors[ct]; len(list) > 0 {
		return list[0], true
	}
	if i := strings.IndexByte(ct, '/'); i > 0 {
		if list := r.extractors[ct[:i]+"/*"]; len(list) > 0 {
			return list[0], true
		}
	}
	return nil, false
}

// SupportedMIMETypes returns all registered content types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for ct := range r.extractors {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}
