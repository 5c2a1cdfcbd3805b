// Package registry derives the next sequential registry number for a given
// year and flow direction.
package registry

import (
	"context"
	"fmt"

	"urudzbenik/internal/model"
)

// YearCounter is the narrow slice of the repository the allocator needs.
type YearCounter interface {
	CountByYear(ctx context.Context, year int) (int, error)
}

// Allocator suggests the next free registry number for a direction and year.
type Allocator interface {
	Next(ctx context.Context, direction model.FlowDirection, year int) (string, error)
}

// countingAllocator recomputes the suggestion from the live row count on
// every call instead of maintaining a counter table. The suggestion is not
// reserved: two concurrent creations can receive the same number, and the
// UNIQUE constraint on registry_number rejects the second insert.
type countingAllocator struct {
	counter YearCounter
}

// NewAllocator builds an Allocator backed by the given counter.
func NewAllocator(counter YearCounter) Allocator {
	return &countingAllocator{counter: counter}
}

// Next counts all documents of either direction dated in the target year and
// proposes sequence count+1. A year with no documents yields sequence 01.
func (a *countingAllocator) Next(ctx context.Context, direction model.FlowDirection, year int) (string, error) {
	count, err := a.counter.CountByYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("count documents for %d: %w", year, err)
	}
	return Format(direction.NumberPrefix(), count+1, year), nil
}

// Format composes "<prefix>/<seq>-<year>" with the sequence zero-padded to at
// least two digits.
func Format(prefix string, seq, year int) string {
	return fmt.Sprintf("%s/%02d-%d", prefix, seq, year)
}
