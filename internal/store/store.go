// Package store abstracts where session records live. The controller and the
// HTTP handlers depend only on the Store contract, never on a concrete
// backend.
package store

import (
	"context"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// Store is the session persistence capability. Implementations must make Put
// an idempotent upsert and Delete a no-op for unknown ids; a missing record on
// Get is a normal outcome reported through the bool, not an error.
type Store interface {
	// List returns summaries ordered most-recent-first. An empty store
	// yields an empty slice, never an error.
	List(ctx context.Context) ([]chat.SessionSummary, error)
	// Get fetches a record by id. The bool reports whether it exists.
	Get(ctx context.Context, id string) (chat.SessionRecord, bool, error)
	// Put inserts or fully replaces the record with the same id.
	Put(ctx context.Context, record chat.SessionRecord) error
	// Delete removes the record if present.
	Delete(ctx context.Context, id string) error
}
