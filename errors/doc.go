/*
Package errors provides semantic error types for the RecordStore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("record not found")
	    ErrDuplicateKey    = errors.New("duplicate record key")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrCorruptState    = errors.New("corrupt store state")
	    ErrPersistence     = errors.New("persistence failure")
	    ErrClosedStore     = errors.New("store is closed")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrNoIndexMap      = errors.New("no index map found for type")
	)

Usage:

	// Check error type
	player, err := store.Update(ctx, changed)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("player %s does not exist", changed.ID)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Player", "123")
	err := errors.NewDuplicateKeyError("Player", "123")
	err := errors.NewPersistenceError("save", "/var/data/players.json", cause)

Absence on a plain read is not an error in this library: GetOneByID returns a
nil record for missing ids. The error types here cover the cases where a
failure genuinely needs to be surfaced — mutations against missing records,
duplicate creates, undecodable snapshots, failed snapshot writes, and use of a
closed store.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
