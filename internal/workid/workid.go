// Package workid carries the identifier of a scheduled work item in a
// context.
package workid

import (
	"context"

	"github.com/google/uuid"
)

// key is the context key for the work ID.
type key struct{}

// NewContext returns a copy of parent carrying a new random work ID. It also
// returns the generated ID.
func NewContext(parent context.Context) (context.Context, uuid.UUID) {
	id := uuid.New()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the work ID from ctx.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(key{}).(uuid.UUID)
	return id, ok
}
