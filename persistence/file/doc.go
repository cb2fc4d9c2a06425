/*
Package file provides snapshot-file durability for the RecordStore memory
engine.

The Store composes the in-memory engine with a Persister that serializes the
entire collection to a single file. Durability is synchronous and eager:
every mutation rewrites the full snapshot before the exclusive lock is
released, and the write itself is atomic (temp file + rename), so the file
at rest is always one complete, self-consistent snapshot.

The snapshot format is a codec choice. JSON (an array of records) is the
default; a YAML codec is available for configuration-style datasets:

	store := file.New[Player]("players.yaml", file.WithCodec(file.YAMLCodec{}))
	if err := store.Open(ctx); err != nil { ... }
	defer store.Close(ctx)

Full-file rewrite on every mutation trades write throughput for simplicity
and crash-safety-by-overwrite. That is the right tradeoff for
development/test-tier persistence and small-to-moderate datasets, not for
high-write-volume production use.
*/
package file
