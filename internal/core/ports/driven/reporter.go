package driven

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// FailureReporter receives soft failures absorbed by the dispatcher.
// Implementations log or count them; they must not block.
type FailureReporter interface {
	Report(ctx context.Context, event domain.FailureEvent)
}
