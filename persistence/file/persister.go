/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/persistence"
)

// Persister loads and saves a full record collection as a single snapshot
// file. Saves are atomic: the snapshot is written to a temporary file in the
// target directory and renamed over the previous one, so the file at rest is
// always a complete snapshot as of the last successful save.
type Persister[T persistence.Identifiable[T]] struct {
	path  string
	codec Codec
}

// NewPersister creates a snapshot persister for the given path and codec.
func NewPersister[T persistence.Identifiable[T]](path string, codec Codec) *Persister[T] {
	return &Persister[T]{path: path, codec: codec}
}

// NewJSONPersister creates a snapshot persister using the JSON codec.
func NewJSONPersister[T persistence.Identifiable[T]](path string) *Persister[T] {
	return NewPersister[T](path, JSONCodec{})
}

// Path returns the snapshot file path.
func (p *Persister[T]) Path() string {
	return p.path
}

// Load reads and decodes the snapshot file. A missing file yields an empty
// collection without error; undecodable contents, and snapshots carrying
// the same record id twice, fail with errors.ErrCorruptState and are never
// repaired or truncated.
func (p *Persister[T]) Load(_ context.Context) ([]T, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewPersistenceError("load", p.path, err)
	}

	var items []T
	if err := p.codec.Unmarshal(data, &items); err != nil {
		return nil, errors.NewCorruptStateError(p.path, err)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.GetID()
		if _, dup := seen[id]; dup {
			return nil, errors.NewCorruptStateError(p.path, fmt.Errorf("duplicate record id %q", id))
		}
		seen[id] = struct{}{}
	}
	return items, nil
}

// Save encodes the full collection and atomically overwrites the snapshot
// file. Any failure surfaces as errors.ErrPersistence.
func (p *Persister[T]) Save(_ context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := p.codec.Marshal(items)
	if err != nil {
		return errors.NewPersistenceError("save", p.path, err)
	}

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.NewPersistenceError("save", p.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistenceError("save", p.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistenceError("save", p.path, err)
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistenceError("save", p.path, err)
	}
	return nil
}
