/*
Package ddb provides a DynamoDB implementation of the RecordStore
persistence contract.

The Store supports:
  - Single-table design patterns
  - Macro-based key expansion (e.g., "PLAYER#{Id}") via the registry package
  - Conditional writes mapping DynamoDB condition failures onto the library
    error taxonomy (duplicate create, update of a missing record)
  - Field-level updates with UpdateFields for optimistic-locking scenarios

Key layout:
Each record type registers an index map whose macros are expanded from
record fields:

	registry.RegisterIndexMap[Player](map[string]string{
	    "PK": "PLAYER#{Id}",
	    "SK": "PLAYER#{Id}",
	})

Every persisted item additionally carries an EntityType attribute so scans
can separate record kinds sharing one table.

Filtered queries (GetPageByFilter, GetListByFilter, GetCountByFilter,
DeleteByFilter) scan the record set and run the shared storagemodels
pipeline client-side, because filters are arbitrary Go predicates. That
keeps the query semantics byte-for-byte identical to the memory and file
backends at the cost of a table scan, the same tradeoff the filter contract
already implies.

For end-to-end usage, see the integration tests (build tag "integration").
*/
package ddb
