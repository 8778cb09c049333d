package todo

import (
	"context"
	"time"
)

// Todo is the single persisted entity: one task on the list.
type Todo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the set of storage primitives the handlers need. Implemented
// by the MySQL store and by MemStore.
type Store interface {
	// All returns every todo ordered by created_at descending, ties
	// broken by id descending.
	All(ctx context.Context) ([]Todo, error)
	// Get returns the todo with the given id or ErrNotFound.
	Get(ctx context.Context, id int64) (Todo, error)
	// Create inserts a new incomplete todo and returns the persisted
	// record with its assigned id and created_at.
	Create(ctx context.Context, title string) (Todo, error)
	// UpdateTitle replaces the title of an existing todo and returns
	// the updated record, or ErrNotFound.
	UpdateTitle(ctx context.Context, id int64, title string) (Todo, error)
	// SetCompleted sets the completion flag of an existing todo and
	// returns the updated record, or ErrNotFound.
	SetCompleted(ctx context.Context, id int64, completed bool) (Todo, error)
	// Delete removes the todo with the given id. Deleting a missing id
	// is not an error.
	Delete(ctx context.Context, id int64) error
}
