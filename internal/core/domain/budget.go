package domain

import "fmt"

// Budget is the resource counter passed down through recursive extraction.
//
// All budgets descended from the same root share one arena, so byte and
// entry counts are cumulative across the whole extraction while depth is
// tracked per level. A Budget is owned by a single extraction and is not
// safe for concurrent use.
type Budget struct {
	limits Limits
	depth  int
	arena  *arena
}

type arena struct {
	expanded int64
	entries  int
}

// NewBudget creates a root budget for one extraction.
// Zero or negative limits fall back to the defaults.
func NewBudget(limits Limits) *Budget {
	def := DefaultLimits()
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = def.MaxDepth
	}
	if limits.MaxInputBytes <= 0 {
		limits.MaxInputBytes = def.MaxInputBytes
	}
	if limits.MaxExpandedBytes <= 0 {
		limits.MaxExpandedBytes = def.MaxExpandedBytes
	}
	if limits.MaxEntries <= 0 {
		limits.MaxEntries = def.MaxEntries
	}
	return &Budget{limits: limits, arena: &arena{}}
}

// Limits returns the limits this budget enforces.
func (b *Budget) Limits() Limits {
	return b.limits
}

// Depth returns the nesting depth, zero for a top-level attachment.
func (b *Budget) Depth() int {
	return b.depth
}

// Descend returns the budget for a member one level deeper.
func (b *Budget) Descend() (*Budget, error) {
	if b.depth+1 > b.limits.MaxDepth {
		return nil, fmt.Errorf("%w: nesting depth %d (max %d)",
			ErrResourceLimitExceeded, b.depth+1, b.limits.MaxDepth)
	}
	return &Budget{limits: b.limits, depth: b.depth + 1, arena: b.arena}, nil
}

// ChargeEntry counts one archive member.
func (b *Budget) ChargeEntry() error {
	b.arena.entries++
	if b.arena.entries > b.limits.MaxEntries {
		return fmt.Errorf("%w: %d archive entries (max %d)",
			ErrResourceLimitExceeded, b.arena.entries, b.limits.MaxEntries)
	}
	return nil
}

// ChargeBytes counts n decompressed bytes.
func (b *Budget) ChargeBytes(n int64) error {
	b.arena.expanded += n
	if b.arena.expanded > b.limits.MaxExpandedBytes {
		return fmt.Errorf("%w: %d expanded bytes (max %d)",
			ErrResourceLimitExceeded, b.arena.expanded, b.limits.MaxExpandedBytes)
	}
	return nil
}

// RemainingBytes returns how many more bytes may be decompressed.
func (b *Budget) RemainingBytes() int64 {
	left := b.limits.MaxExpandedBytes - b.arena.expanded
	if left < 0 {
		return 0
	}
	return left
}
