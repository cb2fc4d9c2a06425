/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when creating a record whose id already exists
	ErrDuplicateKey = errors.New("duplicate record key")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptState is returned when a persisted snapshot cannot be decoded
	ErrCorruptState = errors.New("corrupt store state")

	// ErrPersistence is returned when writing a snapshot to storage fails
	ErrPersistence = errors.New("persistence failure")

	// ErrClosedStore is returned when operating on a closed store
	ErrClosedStore = errors.New("store is closed")

	// ErrNotOpen is returned when mutating a store that requires Open first
	ErrNotOpen = errors.New("store is not open")

	// ErrConditionFailed is returned when a conditional update fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no index map is found for a type
	ErrNoIndexMap = errors.New("no index map found for type")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateKeyError represents an error when a record with the same id already exists
type DuplicateKeyError struct {
	Type string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CorruptStateError represents an undecodable persisted snapshot.
// It is fatal for the store instance that hit it; the snapshot is never
// repaired or truncated automatically.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt store state in %q: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Is(target error) bool {
	return target == ErrCorruptState
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a failed snapshot write. The in-memory state
// remains authoritative and is ahead of the durable copy.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ClosedStoreError represents an operation attempted after Close
type ClosedStoreError struct {
	Op string
}

func (e *ClosedStoreError) Error() string {
	return fmt.Sprintf("%s on closed store", e.Op)
}

func (e *ClosedStoreError) Is(target error) bool {
	return target == ErrClosedStore
}

// NotOpenError represents a mutation attempted before Open on a store with
// persisted state. Mutating such a store would overwrite its snapshot
// without ever loading it.
type NotOpenError struct {
	Op string
}

func (e *NotOpenError) Error() string {
	return fmt.Sprintf("%s on store that has not been opened", e.Op)
}

func (e *NotOpenError) Is(target error) bool {
	return target == ErrNotOpen
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(recordType, key string) error {
	return &DuplicateKeyError{Type: recordType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewCorruptStateError creates a new CorruptStateError
func NewCorruptStateError(path string, err error) error {
	return &CorruptStateError{Path: path, Err: err}
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}

// NewClosedStoreError creates a new ClosedStoreError
func NewClosedStoreError(op string) error {
	return &ClosedStoreError{Op: op}
}

// NewNotOpenError creates a new NotOpenError
func NewNotOpenError(op string) error {
	return &NotOpenError{Op: op}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey checks if an error is a duplicate key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCorruptState checks if an error is a corrupt state error
func IsCorruptState(err error) bool {
	return errors.Is(err, ErrCorruptState)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsClosedStore checks if an error is a closed store error
func IsClosedStore(err error) bool {
	return errors.Is(err, ErrClosedStore)
}

// IsNotOpen checks if an error is a not open error
func IsNotOpen(err error) bool {
	return errors.Is(err, ErrNotOpen)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}
