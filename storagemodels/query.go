/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "sort"

// Filter is a pure predicate over records of type T. A nil Filter matches
// every record.
type Filter[T any] func(T) bool

// And combines filters so a record must match all of them.
// Nil filters are treated as match-all.
func And[T any](filters ...Filter[T]) Filter[T] {
	return func(item T) bool {
		for _, f := range filters {
			if f != nil && !f(item) {
				return false
			}
		}
		return true
	}
}

// Or combines filters so a record must match at least one of them.
func Or[T any](filters ...Filter[T]) Filter[T] {
	return func(item T) bool {
		for _, f := range filters {
			if f == nil || f(item) {
				return true
			}
		}
		return false
	}
}

// Not inverts a filter. Not(nil) matches nothing.
func Not[T any](filter Filter[T]) Filter[T] {
	return func(item T) bool {
		if filter == nil {
			return false
		}
		return !filter(item)
	}
}

// SortField describes one field-level ordering: a three-way comparison over
// the field plus a direction. Comparators keep sorting free of reflection;
// record types expose their fields as explicit compare functions.
type SortField[T any] struct {
	// Compare returns a negative number when a's field orders before b's,
	// zero when equal, positive otherwise.
	Compare func(a, b T) int
	// Descending reverses the ordering of this field.
	Descending bool
}

// Ascending builds an ascending SortField from a comparator.
func Ascending[T any](compare func(a, b T) int) SortField[T] {
	return SortField[T]{Compare: compare}
}

// Descending builds a descending SortField from a comparator.
func Descending[T any](compare func(a, b T) int) SortField[T] {
	return SortField[T]{Compare: compare, Descending: true}
}

// SortParams is an ordered list of sort fields. Earlier fields dominate;
// records equal under every field keep their insertion order (stable sort).
type SortParams[T any] []SortField[T]

// Apply sorts items in place according to the sort parameters.
// An empty SortParams leaves the slice untouched.
func (s SortParams[T]) Apply(items []T) {
	if len(s) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, field := range s {
			c := field.Compare(items[i], items[j])
			if field.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// PagingParams describes a skip/take window over a filtered, sorted result
// set. Total requests the post-filter count, which forces a full scan and is
// therefore opt-in.
type PagingParams struct {
	Skip  int64 `json:"skip"`
	Take  int64 `json:"take"`
	Total bool  `json:"total"`
}

// NewPagingParams creates paging parameters. A non-positive take means
// "default page size"; the store substitutes its configured maximum. There is
// no unlimited take.
func NewPagingParams(skip, take int64, total bool) *PagingParams {
	return &PagingParams{Skip: skip, Take: take, Total: total}
}

// GetSkip returns the number of records to skip, never negative.
// A nil receiver skips nothing.
func (p *PagingParams) GetSkip() int64 {
	if p == nil || p.Skip < 0 {
		return 0
	}
	return p.Skip
}

// GetTake returns the page size bound, capped at max. A nil receiver or a
// non-positive take yields max.
func (p *PagingParams) GetTake(max int64) int64 {
	if p == nil || p.Take <= 0 {
		return max
	}
	if p.Take > max {
		return max
	}
	return p.Take
}

// HasTotal reports whether the caller asked for the total matching count.
func (p *PagingParams) HasTotal() bool {
	return p != nil && p.Total
}

// DataPage is the result envelope for paged queries: an ordered slice of
// records plus the total matching count when it was requested.
type DataPage[T any] struct {
	Items []T    `json:"items"`
	Total *int64 `json:"total,omitempty"`
}

// NewDataPage creates a data page from items and an optional total.
func NewDataPage[T any](items []T, total *int64) DataPage[T] {
	if items == nil {
		items = []T{}
	}
	return DataPage[T]{Items: items, Total: total}
}

// Page runs the filter → sort → count → slice pipeline over one consistent
// snapshot of records and builds the result page. Callers are responsible for
// the snapshot: the slice must not be mutated concurrently. maxTake caps the
// page size when paging leaves it unset.
func Page[T any](snapshot []T, filter Filter[T], sort SortParams[T], paging *PagingParams, maxTake int64) DataPage[T] {
	matched := make([]T, 0, len(snapshot))
	for _, item := range snapshot {
		if filter == nil || filter(item) {
			matched = append(matched, item)
		}
	}

	sort.Apply(matched)

	var total *int64
	if paging.HasTotal() {
		n := int64(len(matched))
		total = &n
	}

	skip := paging.GetSkip()
	take := paging.GetTake(maxTake)

	if skip >= int64(len(matched)) {
		return NewDataPage([]T{}, total)
	}
	matched = matched[skip:]
	if take < int64(len(matched)) {
		matched = matched[:take]
	}

	items := make([]T, len(matched))
	copy(items, matched)
	return NewDataPage(items, total)
}

// List runs the filter → sort pipeline over one consistent snapshot of
// records and returns every match.
func List[T any](snapshot []T, filter Filter[T], sort SortParams[T]) []T {
	matched := make([]T, 0, len(snapshot))
	for _, item := range snapshot {
		if filter == nil || filter(item) {
			matched = append(matched, item)
		}
	}
	sort.Apply(matched)
	return matched
}
