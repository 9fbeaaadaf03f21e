// Package store is the record-store boundary. Repositories talk to collections
// through the Store interface; column allow-lists are enforced here so every
// collection drops unknown fields the same way.
package store

import (
	"context"
	"errors"
)

// Record is one row of a collection keyed by column name.
type Record map[string]interface{}

// Filter matches rows by column equality. A nil value matches only NULL.
type Filter map[string]interface{}

// Store is the storage interface the repositories depend on.
type Store interface {
	// Get returns the row with the given id or nil when absent.
	Get(ctx context.Context, collection, id string) (Record, error)
	// Find returns rows matching every filter entry in insertion order.
	Find(ctx context.Context, collection string, filter Filter) ([]Record, error)
	// Insert writes a new row. id and timestamps are generated when missing.
	Insert(ctx context.Context, collection string, rec Record) (Record, error)
	// Update applies partial to every matching row. Zero matches is not an error.
	Update(ctx context.Context, collection string, filter Filter, partial Record) ([]Record, error)
	// Upsert inserts rec or, on a conflictKeys match, updates only the supplied columns.
	Upsert(ctx context.Context, collection string, rec Record, conflictKeys ...string) (Record, error)
	// Delete removes matching rows and reports whether any existed.
	Delete(ctx context.Context, collection string, filter Filter) (bool, error)
	// CallProcedure invokes a named server-side routine.
	CallProcedure(ctx context.Context, name string, args Record) (interface{}, error)
}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownProcedure  = errors.New("unknown procedure")
	ErrReadOnly          = errors.New("collection is read-only")
	ErrEmptyFilter       = errors.New("filter must not be empty")
)

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
