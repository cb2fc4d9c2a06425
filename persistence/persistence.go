/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/suparena/recordstore/storagemodels"
)

// Identifiable is the record contract: a value carrying a unique string id.
// WithID returns a copy of the record with the id set, keeping records
// value-typed and the store free of reflection. The id is immutable once a
// record has been created in a store.
type Identifiable[T any] interface {
	GetID() string
	WithID(id string) T
}

// NewID generates a fresh unique record id.
func NewID() string {
	return uuid.NewString()
}

// Store is the uniform persistence contract for identifiable records.
// Backends answer every operation from a single consistent view of the
// collection; reads return value copies, never shared references into
// internal state. Record types should be value-copy-safe (no shared pointers
// mutated by callers).
//
// Absence on plain reads is an expected outcome and is reported as a nil
// record, not an error. Mutations against a missing id fail with
// errors.ErrNotFound; creating a record with a colliding explicit id fails
// with errors.ErrDuplicateKey.
type Store[T Identifiable[T]] interface {
	// Open prepares the store, loading persisted state when the backend has
	// any. Opening a store with no persisted state is not an error.
	Open(ctx context.Context) error

	// IsOpen reports whether the store has been opened.
	IsOpen() bool

	// Close flushes persisted state and shuts the store down. A closed store
	// rejects every further operation with errors.ErrClosedStore.
	Close(ctx context.Context) error

	// Create inserts a record. An empty id is replaced with a generated one
	// on a copy of the record; the stored record is returned.
	Create(ctx context.Context, item T) (T, error)

	// GetOneByID returns a copy of the record with the given id, or nil when
	// no such record exists.
	GetOneByID(ctx context.Context, id string) (*T, error)

	// GetListByIDs returns the records for the given ids in input order,
	// silently skipping missing ids.
	GetListByIDs(ctx context.Context, ids []string) ([]T, error)

	// GetPageByFilter answers a paged query: filter, stable sort, optional
	// total count and skip/take window, all over one consistent snapshot.
	GetPageByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T], paging *storagemodels.PagingParams) (storagemodels.DataPage[T], error)

	// GetListByFilter returns every matching record, sorted.
	GetListByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T]) ([]T, error)

	// GetCountByFilter returns the number of matching records.
	GetCountByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error)

	// GetOneRandom returns a uniformly random matching record, or nil when
	// nothing matches.
	GetOneRandom(ctx context.Context, filter storagemodels.Filter[T]) (*T, error)

	// Update replaces the stored record carrying the same id and returns the
	// updated record.
	Update(ctx context.Context, item T) (T, error)

	// UpdatePartially applies a caller-supplied transformation to the stored
	// record with the given id and stores the result. The id is reasserted
	// after the transformation; apply cannot change it.
	UpdatePartially(ctx context.Context, id string, apply func(T) T) (*T, error)

	// DeleteByID removes a record and returns the deleted value.
	DeleteByID(ctx context.Context, id string) (*T, error)

	// DeleteByIDs removes the records with the given ids, skipping missing
	// ones.
	DeleteByIDs(ctx context.Context, ids []string) error

	// DeleteByFilter removes every matching record and reports how many were
	// removed. Victim selection is a full scan completed before any removal.
	DeleteByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error)

	// Clear unconditionally empties the collection.
	Clear(ctx context.Context) error
}

// Loader loads the full record collection from an external source.
type Loader[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

// Saver persists the full record collection to an external sink.
type Saver[T any] interface {
	Save(ctx context.Context, items []T) error
}
