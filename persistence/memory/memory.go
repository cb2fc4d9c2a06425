/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/persistence"
	"github.com/suparena/recordstore/storagemodels"
)

// DefaultMaxPageSize bounds the number of records returned in a single page
// when paging parameters leave the take unset.
const DefaultMaxPageSize = 100

// Store is the in-memory indexed engine behind RecordStore. It keeps the
// authoritative keyed collection (id → record) together with the insertion
// order, guarded as one unit by a single reader/writer lock.
//
// A plain Store is usable from construction. When a Loader or Saver is
// configured, mutations are rejected until Open has loaded the persisted
// collection, so a fresh store can never overwrite a snapshot it has not
// read. After Open, every mutation is followed by a full snapshot save
// while the exclusive lock is still held, so no reader ever observes
// in-memory state whose durable counterpart has not been written and no
// two writers interleave their mutate+save sequences.
type Store[T persistence.Identifiable[T]] struct {
	mu          sync.RWMutex
	items       map[string]T
	order       []string
	loader      persistence.Loader[T]
	saver       persistence.Saver[T]
	opened      bool
	closed      bool
	maxPageSize int64
}

// Option configures a Store.
type Option[T persistence.Identifiable[T]] func(*Store[T])

// WithLoader sets the loader used by Open to populate the collection.
func WithLoader[T persistence.Identifiable[T]](l persistence.Loader[T]) Option[T] {
	return func(s *Store[T]) {
		s.loader = l
	}
}

// WithSaver sets the saver invoked after every mutating operation.
func WithSaver[T persistence.Identifiable[T]](sv persistence.Saver[T]) Option[T] {
	return func(s *Store[T]) {
		s.saver = sv
	}
}

// WithMaxPageSize overrides the default page size bound.
func WithMaxPageSize[T persistence.Identifiable[T]](max int64) Option[T] {
	return func(s *Store[T]) {
		if max > 0 {
			s.maxPageSize = max
		}
	}
}

// New creates an in-memory store.
func New[T persistence.Identifiable[T]](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		items:       make(map[string]T),
		order:       make([]string, 0),
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func recordType[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Open loads the collection through the configured loader, replacing any
// current contents. Without a loader it only marks the store opened.
func (s *Store[T]) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.NewClosedStoreError("open")
	}

	if s.loader != nil {
		loaded, err := s.loader.Load(ctx)
		if err != nil {
			return err
		}
		s.items = make(map[string]T, len(loaded))
		s.order = make([]string, 0, len(loaded))
		for _, item := range loaded {
			id := item.GetID()
			if _, seen := s.items[id]; !seen {
				s.order = append(s.order, id)
			}
			s.items[id] = item
		}
	}

	s.opened = true
	return nil
}

// IsOpen reports whether Open has completed on this store.
func (s *Store[T]) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opened && !s.closed
}

// Close flushes a final snapshot and shuts the store down. Further
// operations fail with errors.ErrClosedStore. A store that was never
// opened closes without flushing, leaving any persisted snapshot intact.
func (s *Store[T]) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.NewClosedStoreError("close")
	}

	var err error
	if s.opened {
		err = s.saveLocked(ctx)
	}
	s.closed = true
	s.opened = false
	return err
}

// snapshotLocked copies the collection in insertion order. Callers must hold
// at least the read lock.
func (s *Store[T]) snapshotLocked() []T {
	snapshot := make([]T, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.items[id])
	}
	return snapshot
}

// guardWriteLocked rejects mutations on closed stores, and on stores with
// persistence hooks that have not been opened. Callers must hold the
// exclusive lock.
func (s *Store[T]) guardWriteLocked(op string) error {
	if s.closed {
		return errors.NewClosedStoreError(op)
	}
	if !s.opened && (s.loader != nil || s.saver != nil) {
		return errors.NewNotOpenError(op)
	}
	return nil
}

// saveLocked persists the full collection through the configured saver.
// Callers must hold the exclusive lock.
func (s *Store[T]) saveLocked(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Save(ctx, s.snapshotLocked())
}

// Create inserts a record, generating a fresh unique id when the supplied
// one is empty. A colliding explicit id fails with errors.ErrDuplicateKey.
// On a snapshot save failure the record remains stored in memory and is
// returned together with the persistence error.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if err := s.guardWriteLocked("create"); err != nil {
		return zero, err
	}

	id := item.GetID()
	if id == "" {
		for {
			id = persistence.NewID()
			if _, exists := s.items[id]; !exists {
				break
			}
		}
		item = item.WithID(id)
	} else if _, exists := s.items[id]; exists {
		return zero, errors.NewDuplicateKeyError(recordType[T](), id)
	}

	s.items[id] = item
	s.order = append(s.order, id)

	if err := s.saveLocked(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// GetOneByID returns a copy of the record with the given id, or nil when it
// does not exist.
func (s *Store[T]) GetOneByID(ctx context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.NewClosedStoreError("getOneByID")
	}

	if item, exists := s.items[id]; exists {
		return &item, nil
	}
	return nil, nil
}

// GetListByIDs returns records in the order of the input ids, skipping
// missing ones.
func (s *Store[T]) GetListByIDs(ctx context.Context, ids []string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.NewClosedStoreError("getListByIDs")
	}

	result := make([]T, 0, len(ids))
	for _, id := range ids {
		if item, exists := s.items[id]; exists {
			result = append(result, item)
		}
	}
	return result, nil
}

// GetPageByFilter answers a paged query over one consistent snapshot of the
// collection: filter in insertion order, stable sort, optional total count,
// then the [skip, skip+take) slice. The whole pipeline runs under a single
// shared-lock acquisition.
func (s *Store[T]) GetPageByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T], paging *storagemodels.PagingParams) (storagemodels.DataPage[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storagemodels.DataPage[T]{}, errors.NewClosedStoreError("getPageByFilter")
	}

	return storagemodels.Page(s.snapshotLocked(), filter, sort, paging, s.maxPageSize), nil
}

// GetListByFilter returns every matching record, sorted.
func (s *Store[T]) GetListByFilter(ctx context.Context, filter storagemodels.Filter[T], sort storagemodels.SortParams[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.NewClosedStoreError("getListByFilter")
	}

	return storagemodels.List(s.snapshotLocked(), filter, sort), nil
}

// GetCountByFilter returns the number of matching records.
func (s *Store[T]) GetCountByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, errors.NewClosedStoreError("getCountByFilter")
	}

	if filter == nil {
		return int64(len(s.order)), nil
	}

	var count int64
	for _, id := range s.order {
		if filter(s.items[id]) {
			count++
		}
	}
	return count, nil
}

// GetOneRandom returns a uniformly random matching record, or nil when
// nothing matches.
func (s *Store[T]) GetOneRandom(ctx context.Context, filter storagemodels.Filter[T]) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.NewClosedStoreError("getOneRandom")
	}

	matched := storagemodels.List(s.snapshotLocked(), filter, nil)
	if len(matched) == 0 {
		return nil, nil
	}
	item := matched[rand.Intn(len(matched))]
	return &item, nil
}

// Update replaces the stored record with the same id. The id itself never
// changes; a missing id fails with errors.ErrNotFound.
func (s *Store[T]) Update(ctx context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if err := s.guardWriteLocked("update"); err != nil {
		return zero, err
	}

	id := item.GetID()
	if _, exists := s.items[id]; !exists {
		return zero, errors.NewNotFoundError(recordType[T](), id)
	}

	s.items[id] = item

	if err := s.saveLocked(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// UpdatePartially applies a transformation to the stored record and stores
// the result. The id is reasserted afterwards so apply cannot change it.
func (s *Store[T]) UpdatePartially(ctx context.Context, id string, apply func(T) T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardWriteLocked("updatePartially"); err != nil {
		return nil, err
	}
	if apply == nil {
		return nil, errors.NewValidationError("apply", "transformation must not be nil")
	}

	current, exists := s.items[id]
	if !exists {
		return nil, errors.NewNotFoundError(recordType[T](), id)
	}

	updated := apply(current).WithID(id)
	s.items[id] = updated

	if err := s.saveLocked(ctx); err != nil {
		return &updated, err
	}
	return &updated, nil
}

// DeleteByID removes a record from both the index and the insertion order
// and returns the deleted value. A missing id fails with errors.ErrNotFound
// and leaves the collection untouched.
func (s *Store[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardWriteLocked("deleteByID"); err != nil {
		return nil, err
	}

	item, exists := s.items[id]
	if !exists {
		return nil, errors.NewNotFoundError(recordType[T](), id)
	}

	s.removeLocked(id)

	if err := s.saveLocked(ctx); err != nil {
		return &item, err
	}
	return &item, nil
}

// DeleteByIDs removes the records with the given ids, skipping missing ones.
// The snapshot is saved once, and only when something was removed.
func (s *Store[T]) DeleteByIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardWriteLocked("deleteByIDs"); err != nil {
		return err
	}

	removed := 0
	for _, id := range ids {
		if _, exists := s.items[id]; exists {
			s.removeLocked(id)
			removed++
		}
	}

	if removed == 0 {
		return nil
	}
	return s.saveLocked(ctx)
}

// DeleteByFilter removes every matching record and reports how many were
// removed. Victims are selected by a full scan completed before any removal,
// so the filter never observes a half-mutated collection.
func (s *Store[T]) DeleteByFilter(ctx context.Context, filter storagemodels.Filter[T]) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardWriteLocked("deleteByFilter"); err != nil {
		return 0, err
	}

	victims := make([]string, 0)
	for _, id := range s.order {
		if filter == nil || filter(s.items[id]) {
			victims = append(victims, id)
		}
	}

	for _, id := range victims {
		s.removeLocked(id)
	}

	count := int64(len(victims))
	if count == 0 {
		return 0, nil
	}
	return count, s.saveLocked(ctx)
}

// Clear unconditionally empties the collection.
func (s *Store[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardWriteLocked("clear"); err != nil {
		return err
	}

	s.items = make(map[string]T)
	s.order = s.order[:0]

	return s.saveLocked(ctx)
}

// removeLocked drops a record from the index and the insertion order.
// Callers must hold the exclusive lock.
func (s *Store[T]) removeLocked(id string) {
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

var _ persistence.Store[noopRecord] = (*Store[noopRecord])(nil)

// noopRecord exists only for the compile-time interface assertion above.
type noopRecord struct{ ID string }

func (r noopRecord) GetID() string               { return r.ID }
func (r noopRecord) WithID(id string) noopRecord { r.ID = id; return r }
