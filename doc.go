/*
Package recordstore provides a storage-agnostic persistence core for
identifiable records: entities addressed by a unique key, queryable by
filter, sortable, and retrievable in pages.

The library centers on one contract, persistence.Store[T], implemented by
three backends that share identical semantics:

  - memory: an in-memory indexed store for early development and testing
  - file: the memory engine with snapshot-file durability (JSON or YAML)
  - ddb: DynamoDB for single-table designs

Basic Usage:

	store := file.New[Player]("players.json")
	if err := store.Open(ctx); err != nil {
	    log.Fatal(err)
	}
	defer store.Close(ctx)

	alice, err := store.Create(ctx, Player{Name: "Alice", Rating: 1520})

	page, err := store.GetPageByFilter(ctx,
	    func(p Player) bool { return p.Rating >= 1500 },
	    storagemodels.SortParams[Player]{storagemodels.Ascending(byName)},
	    storagemodels.NewPagingParams(0, 25, true))

Higher-level, entity-specific data access is built by composing a Store:
typed wrappers translate domain queries into filters and call
GetPageByFilter. The MultiTypeStorage registry in this package hands those
collaborators their store instances at construction time, keeping the wiring
explicit:

	mts := recordstore.NewMultiTypeStorage()
	recordstore.RegisterStore(mts, "players", store)

	playerStore, _ := recordstore.GetStore[Player](mts, "players")

Record types opt in through the persistence.Identifiable contract: a GetID
accessor plus a WithID copy-constructor, keeping the core free of
reflection.
*/
package recordstore
