/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package file

import (
	"github.com/suparena/recordstore/persistence"
	"github.com/suparena/recordstore/persistence/memory"
)

// Store is the file-backed variant of the in-memory store: the same engine
// with a snapshot persister wired in as loader and saver. Open loads the
// full collection from the snapshot file; every mutating operation rewrites
// the file while the exclusive lock is held. Read operations never touch
// the file. Mutations before Open fail with errors.ErrNotOpen, so an
// existing snapshot is never overwritten without having been loaded.
//
// A failed save surfaces as errors.ErrPersistence and is not rolled back:
// the in-memory state stays authoritative and the durable copy lags until
// the next successful save.
type Store[T persistence.Identifiable[T]] struct {
	*memory.Store[T]
	persister *Persister[T]
}

type config struct {
	codec       Codec
	maxPageSize int64
}

// Option configures a file-backed Store.
type Option func(*config)

// WithCodec overrides the default JSON snapshot codec.
func WithCodec(c Codec) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.codec = c
		}
	}
}

// WithMaxPageSize overrides the default page size bound.
func WithMaxPageSize(max int64) Option {
	return func(cfg *config) {
		cfg.maxPageSize = max
	}
}

// New creates a file-backed store persisting to path. Call Open before use;
// a missing snapshot file opens as an empty collection.
func New[T persistence.Identifiable[T]](path string, opts ...Option) *Store[T] {
	cfg := config{
		codec:       JSONCodec{},
		maxPageSize: memory.DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	persister := NewPersister[T](path, cfg.codec)
	engine := memory.New(
		memory.WithLoader[T](persister),
		memory.WithSaver[T](persister),
		memory.WithMaxPageSize[T](cfg.maxPageSize),
	)

	return &Store[T]{
		Store:     engine,
		persister: persister,
	}
}

// Path returns the snapshot file path.
func (s *Store[T]) Path() string {
	return s.persister.Path()
}
