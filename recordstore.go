/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/recordstore/persistence"
)

// TypedStorage holds the stores registered for a specific record type T.
// It exists so collaborators receive explicit store handles at construction
// time instead of reaching for process-wide singletons.
type TypedStorage[T persistence.Identifiable[T]] struct {
	mu     sync.RWMutex
	stores map[string]persistence.Store[T]
}

// NewTypedStorage creates a new TypedStorage for type T
func NewTypedStorage[T persistence.Identifiable[T]]() *TypedStorage[T] {
	return &TypedStorage[T]{
		stores: make(map[string]persistence.Store[T]),
	}
}

// Register adds a store with the given key
func (ts *TypedStorage[T]) Register(key string, store persistence.Store[T]) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; exists {
		return fmt.Errorf("store with key %q already registered", key)
	}

	ts.stores[key] = store
	return nil
}

// Get retrieves a store by key
func (ts *TypedStorage[T]) Get(key string) (persistence.Store[T], error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	store, exists := ts.stores[key]
	if !exists {
		return nil, fmt.Errorf("store with key %q not found", key)
	}

	return store, nil
}

// Remove deletes a store by key
func (ts *TypedStorage[T]) Remove(key string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.stores[key]; !exists {
		return fmt.Errorf("store with key %q not found", key)
	}

	delete(ts.stores, key)
	return nil
}

// List returns all registered store keys
func (ts *TypedStorage[T]) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	keys := make([]string, 0, len(ts.stores))
	for k := range ts.stores {
		keys = append(keys, k)
	}
	return keys
}

// MultiTypeStorage manages TypedStorage instances for different record types
type MultiTypeStorage struct {
	mu       sync.RWMutex
	storages map[reflect.Type]interface{}
}

// NewMultiTypeStorage creates a new MultiTypeStorage
func NewMultiTypeStorage() *MultiTypeStorage {
	return &MultiTypeStorage{
		storages: make(map[reflect.Type]interface{}),
	}
}

// GetTypedStorage returns a TypedStorage for the specified type, creating it if necessary
func GetTypedStorage[T persistence.Identifiable[T]](mts *MultiTypeStorage) *TypedStorage[T] {
	mts.mu.Lock()
	defer mts.mu.Unlock()

	var zero T
	typ := reflect.TypeOf(zero)

	if storage, exists := mts.storages[typ]; exists {
		return storage.(*TypedStorage[T])
	}

	newStorage := NewTypedStorage[T]()
	mts.storages[typ] = newStorage
	return newStorage
}

// RegisterStore is a convenience function to register a store for type T
func RegisterStore[T persistence.Identifiable[T]](mts *MultiTypeStorage, key string, store persistence.Store[T]) error {
	storage := GetTypedStorage[T](mts)
	return storage.Register(key, store)
}

// GetStore is a convenience function to get a store for type T
func GetStore[T persistence.Identifiable[T]](mts *MultiTypeStorage, key string) (persistence.Store[T], error) {
	storage := GetTypedStorage[T](mts)
	return storage.Get(key)
}

// RemoveStore is a convenience function to remove a store for type T
func RemoveStore[T persistence.Identifiable[T]](mts *MultiTypeStorage, key string) error {
	storage := GetTypedStorage[T](mts)
	return storage.Remove(key)
}

// ListStores is a convenience function to list all stores for type T
func ListStores[T persistence.Identifiable[T]](mts *MultiTypeStorage) []string {
	storage := GetTypedStorage[T](mts)
	return storage.List()
}
