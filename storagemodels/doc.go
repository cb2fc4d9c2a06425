/*
Package storagemodels defines the query descriptors shared by every
RecordStore backend.

Three independent value objects describe a query:

  - Filter[T]: a pure predicate over records; nil matches everything.
  - SortParams[T]: an ordered list of (comparator, direction) fields applied
    with a stable sort.
  - PagingParams: a skip/take window plus an opt-in total-count request.

DataPage[T] is the result envelope: the page of records and, when requested,
the total matching count.

The package also holds the snapshot pipeline (Page, List) that backends use
to answer filtered queries identically: scan a consistent snapshot in
insertion order, filter, stable-sort, capture the optional total, then slice
[skip, skip+take).

Example:

	adults := storagemodels.Filter[Player](func(p Player) bool { return p.Age >= 18 })
	byRating := storagemodels.SortParams[Player]{
	    storagemodels.Descending(func(a, b Player) int { return a.Rating - b.Rating }),
	}
	page, err := store.GetPageByFilter(ctx, adults, byRating,
	    storagemodels.NewPagingParams(0, 25, true))
*/
package storagemodels
