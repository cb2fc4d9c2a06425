/*
Package memory provides the in-memory implementation of the RecordStore
persistence contract.

The Store keeps records in an id-keyed map alongside an insertion-order
sequence, both guarded by one reader/writer lock. Concurrent reads proceed in
parallel; every mutation takes the exclusive lock for its full duration,
including the snapshot save when a Saver is configured. That makes the memory
engine the foundation for durable variants: the file backend is exactly this
store with a snapshot persister wired in as Loader and Saver.

Paged queries run the shared filter → sort → count → slice pipeline from
package storagemodels against a snapshot taken under a single lock
acquisition, so a query never observes interleaved mutations.
*/
package memory
