/*
Package registry maps record types to their DynamoDB index layouts.

The ddb backend needs to know how a record's id translates into the table's
partition and sort keys. Each record type registers an index map once, at
package init time, with macros expanded from record fields:

	registry.RegisterIndexMap[Player](map[string]string{
	    "PK": "PLAYER#{Id}",
	    "SK": "PLAYER#{Id}",
	})

Registration is process-wide and safe for concurrent use. The memory and
file backends do not consult the registry.
*/
package registry
