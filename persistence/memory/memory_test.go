/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/persistence/testmodels"
	"github.com/suparena/recordstore/storagemodels"
)

var (
	player1 = testmodels.Player{Name: "Alice", Rating: 1520}
	player2 = testmodels.Player{Name: "Bob", Rating: 1480}
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	created, err := store.Create(ctx, player1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create should assign a non-empty id")
	}
	if created.Name != player1.Name || created.Rating != player1.Rating {
		t.Errorf("Created record lost fields: %+v", created)
	}

	got, err := store.GetOneByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOneByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if *got != created {
		t.Errorf("Round trip mismatch: created %+v, got %+v", created, *got)
	}
}

func TestCreateWithExplicitID(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	created, err := store.Create(ctx, testmodels.Player{ID: "x", Name: "Alice"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "x" {
		t.Errorf("Explicit id should be kept, got %q", created.ID)
	}

	// A colliding explicit id must fail and leave the collection untouched.
	_, err = store.Create(ctx, testmodels.Player{ID: "x", Name: "Bob"})
	if !errors.IsDuplicateKey(err) {
		t.Fatalf("Expected duplicate key error, got %v", err)
	}

	got, err := store.GetOneByID(ctx, "x")
	if err != nil {
		t.Fatalf("GetOneByID failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("Store should still contain the first record, got %+v", got)
	}
	count, _ := store.GetCountByFilter(ctx, nil)
	if count != 1 {
		t.Errorf("Expected 1 record, got %d", count)
	}
}

func TestConcurrentCreatesYieldUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	idCh := make(chan string, goroutines*perGoroutine)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				created, err := store.Create(ctx, testmodels.Player{Name: fmt.Sprintf("p-%d-%d", g, i)})
				if err != nil {
					t.Errorf("Create failed: %v", err)
					return
				}
				idCh <- created.ID
			}
		}(g)
	}
	wg.Wait()
	close(idCh)

	seen := make(map[string]bool)
	for id := range idCh {
		if id == "" {
			t.Error("Generated id must be non-empty")
		}
		if seen[id] {
			t.Errorf("Duplicate generated id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != goroutines*perGoroutine {
		t.Errorf("Expected %d unique ids, got %d", goroutines*perGoroutine, len(seen))
	}
}

func TestGetOneByIDMissing(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	got, err := store.GetOneByID(ctx, "missing")
	if err != nil {
		t.Fatalf("Absence should not be an error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing id, got %+v", got)
	}
}

func TestGetListByIDs(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	a, _ := store.Create(ctx, player1)
	b, _ := store.Create(ctx, player2)

	// Input order preserved, missing ids skipped.
	list, err := store.GetListByIDs(ctx, []string{b.ID, "missing", a.ID})
	if err != nil {
		t.Fatalf("GetListByIDs failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Errorf("Expected input id order, got %v", list)
	}
}

func TestGetPageByFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("SortedPageWithTotal", func(t *testing.T) {
		store := New[testmodels.Player]()
		store.Create(ctx, testmodels.Player{ID: "1", Name: "a"})
		store.Create(ctx, testmodels.Player{ID: "2", Name: "b"})

		page, err := store.GetPageByFilter(ctx, nil,
			storagemodels.SortParams[testmodels.Player]{storagemodels.Ascending(testmodels.ByName)},
			storagemodels.NewPagingParams(0, 1, true))
		if err != nil {
			t.Fatalf("GetPageByFilter failed: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "1" || page.Items[0].Name != "a" {
			t.Errorf("Unexpected page contents: %+v", page.Items)
		}
		if page.Total == nil || *page.Total != 2 {
			t.Errorf("Expected total 2, got %v", page.Total)
		}
	})

	t.Run("InsertionOrderWithoutSort", func(t *testing.T) {
		store := New[testmodels.Player]()
		for i := 0; i < 5; i++ {
			store.Create(ctx, testmodels.Player{ID: fmt.Sprintf("%d", i)})
		}

		page, err := store.GetPageByFilter(ctx, nil, nil, storagemodels.NewPagingParams(0, 3, true))
		if err != nil {
			t.Fatalf("GetPageByFilter failed: %v", err)
		}
		for i, item := range page.Items {
			if item.ID != fmt.Sprintf("%d", i) {
				t.Errorf("Position %d: expected id %d, got %q", i, i, item.ID)
			}
		}
		if page.Total == nil || *page.Total != 5 {
			t.Errorf("Expected total 5, got %v", page.Total)
		}
	})

	t.Run("FilterApplied", func(t *testing.T) {
		store := New[testmodels.Player]()
		store.Create(ctx, testmodels.Player{ID: "1", Rating: 1600})
		store.Create(ctx, testmodels.Player{ID: "2", Rating: 1400})
		store.Create(ctx, testmodels.Player{ID: "3", Rating: 1700})

		strong := storagemodels.Filter[testmodels.Player](func(p testmodels.Player) bool {
			return p.Rating >= 1500
		})
		page, err := store.GetPageByFilter(ctx, strong, nil, storagemodels.NewPagingParams(0, 10, true))
		if err != nil {
			t.Fatalf("GetPageByFilter failed: %v", err)
		}
		if len(page.Items) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(page.Items))
		}
		if page.Total == nil || *page.Total != 2 {
			t.Errorf("Expected total 2, got %v", page.Total)
		}
	})

	t.Run("MaxPageSizeCapsTake", func(t *testing.T) {
		store := New(WithMaxPageSize[testmodels.Player](2))
		for i := 0; i < 5; i++ {
			store.Create(ctx, testmodels.Player{})
		}

		page, err := store.GetPageByFilter(ctx, nil, nil, storagemodels.NewPagingParams(0, 100, false))
		if err != nil {
			t.Fatalf("GetPageByFilter failed: %v", err)
		}
		if len(page.Items) != 2 {
			t.Errorf("Expected page capped at 2, got %d", len(page.Items))
		}
	})
}

func TestGetListAndCountByFilter(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()
	store.Create(ctx, testmodels.Player{ID: "1", Name: "c", Rating: 1600})
	store.Create(ctx, testmodels.Player{ID: "2", Name: "a", Rating: 1400})
	store.Create(ctx, testmodels.Player{ID: "3", Name: "b", Rating: 1650})

	strong := storagemodels.Filter[testmodels.Player](func(p testmodels.Player) bool {
		return p.Rating >= 1500
	})

	list, err := store.GetListByFilter(ctx, strong,
		storagemodels.SortParams[testmodels.Player]{storagemodels.Ascending(testmodels.ByName)})
	if err != nil {
		t.Fatalf("GetListByFilter failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "b" || list[1].Name != "c" {
		t.Errorf("Unexpected filtered list: %v", list)
	}

	count, err := store.GetCountByFilter(ctx, strong)
	if err != nil {
		t.Fatalf("GetCountByFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}

	total, err := store.GetCountByFilter(ctx, nil)
	if err != nil {
		t.Fatalf("GetCountByFilter(nil) failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
}

func TestGetOneRandom(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	got, err := store.GetOneRandom(ctx, nil)
	if err != nil {
		t.Fatalf("GetOneRandom on empty store failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil from empty store, got %+v", got)
	}

	store.Create(ctx, testmodels.Player{ID: "1", Rating: 1600})
	store.Create(ctx, testmodels.Player{ID: "2", Rating: 1400})

	strong := storagemodels.Filter[testmodels.Player](func(p testmodels.Player) bool {
		return p.Rating >= 1500
	})
	got, err = store.GetOneRandom(ctx, strong)
	if err != nil {
		t.Fatalf("GetOneRandom failed: %v", err)
	}
	if got == nil || got.ID != "1" {
		t.Errorf("Expected the only matching record, got %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	created, _ := store.Create(ctx, player1)

	changed := created
	changed.Rating = 1555
	updated, err := store.Update(ctx, changed)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Update must never change the id: %q vs %q", updated.ID, created.ID)
	}

	got, _ := store.GetOneByID(ctx, created.ID)
	if got.Rating != 1555 {
		t.Errorf("Expected updated rating 1555, got %d", got.Rating)
	}

	// Updating an unknown id fails.
	_, err = store.Update(ctx, testmodels.Player{ID: "missing"})
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not found error, got %v", err)
	}
}

func TestUpdatePartially(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	created, _ := store.Create(ctx, player1)

	updated, err := store.UpdatePartially(ctx, created.ID, func(p testmodels.Player) testmodels.Player {
		p.Rating = 1601
		p.ID = "hijacked"
		return p
	})
	if err != nil {
		t.Fatalf("UpdatePartially failed: %v", err)
	}
	if updated.Rating != 1601 {
		t.Errorf("Expected rating 1601, got %d", updated.Rating)
	}
	if updated.ID != created.ID {
		t.Errorf("Id must be reasserted after the transformation, got %q", updated.ID)
	}

	_, err = store.UpdatePartially(ctx, "missing", func(p testmodels.Player) testmodels.Player { return p })
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not found error, got %v", err)
	}

	_, err = store.UpdatePartially(ctx, created.ID, nil)
	if !errors.IsValidationError(err) {
		t.Fatalf("Expected validation error for nil transformation, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	created, _ := store.Create(ctx, player1)

	deleted, err := store.DeleteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if deleted == nil || deleted.ID != created.ID {
		t.Errorf("Expected deleted record back, got %+v", deleted)
	}

	got, _ := store.GetOneByID(ctx, created.ID)
	if got != nil {
		t.Errorf("Record should be gone, got %+v", got)
	}

	// Deleting an absent id fails and leaves the size unchanged.
	before, _ := store.GetCountByFilter(ctx, nil)
	_, err = store.DeleteByID(ctx, created.ID)
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not found error, got %v", err)
	}
	after, _ := store.GetCountByFilter(ctx, nil)
	if before != after {
		t.Errorf("Size changed on failed delete: %d vs %d", before, after)
	}
}

func TestDeleteByIDs(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()

	a, _ := store.Create(ctx, player1)
	b, _ := store.Create(ctx, player2)

	if err := store.DeleteByIDs(ctx, []string{a.ID, "missing", b.ID}); err != nil {
		t.Fatalf("DeleteByIDs failed: %v", err)
	}

	count, _ := store.GetCountByFilter(ctx, nil)
	if count != 0 {
		t.Errorf("Expected empty store, got %d records", count)
	}
}

func TestDeleteByFilter(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()
	store.Create(ctx, testmodels.Player{ID: "1", Rating: 1600})
	store.Create(ctx, testmodels.Player{ID: "2", Rating: 1400})
	store.Create(ctx, testmodels.Player{ID: "3", Rating: 1700})

	strong := storagemodels.Filter[testmodels.Player](func(p testmodels.Player) bool {
		return p.Rating >= 1500
	})
	count, err := store.DeleteByFilter(ctx, strong)
	if err != nil {
		t.Fatalf("DeleteByFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 deleted, got %d", count)
	}

	remaining, _ := store.GetListByFilter(ctx, nil, nil)
	if len(remaining) != 1 || remaining[0].ID != "2" {
		t.Errorf("Unexpected survivors: %v", remaining)
	}

	// No matches: zero count, no error.
	count, err = store.DeleteByFilter(ctx, strong)
	if err != nil || count != 0 {
		t.Errorf("Expected (0, nil), got (%d, %v)", count, err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()
	store.Create(ctx, player1)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("First Clear failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Second Clear failed: %v", err)
	}

	count, _ := store.GetCountByFilter(ctx, nil)
	if count != 0 {
		t.Errorf("Expected empty store, got %d records", count)
	}
}

// failingSaver simulates a snapshot write failure.
type failingSaver struct{ err error }

func (f *failingSaver) Save(ctx context.Context, items []testmodels.Player) error {
	return f.err
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	saveErr := errors.NewPersistenceError("save", "/nope/players.json", fmt.Errorf("disk full"))
	store := New(WithSaver[testmodels.Player](&failingSaver{err: saveErr}))
	if err := store.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	created, err := store.Create(ctx, player1)
	if !errors.IsPersistence(err) {
		t.Fatalf("Expected persistence error, got %v", err)
	}
	if created.ID == "" {
		t.Fatal("Created record should be returned alongside the save error")
	}

	// The in-memory mutation is not rolled back.
	got, getErr := store.GetOneByID(ctx, created.ID)
	if getErr != nil {
		t.Fatalf("GetOneByID failed: %v", getErr)
	}
	if got == nil {
		t.Error("Record should remain in memory after a failed save")
	}
}

type captureSaver struct {
	mu    sync.Mutex
	saves [][]testmodels.Player
}

func (c *captureSaver) Save(ctx context.Context, items []testmodels.Player) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]testmodels.Player, len(items))
	copy(snapshot, items)
	c.saves = append(c.saves, snapshot)
	return nil
}

func TestEveryMutationSaves(t *testing.T) {
	ctx := context.Background()
	saver := &captureSaver{}
	store := New(WithSaver[testmodels.Player](saver))
	if err := store.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	created, _ := store.Create(ctx, player1)
	store.Update(ctx, created)
	store.DeleteByID(ctx, created.ID)
	store.Clear(ctx)

	if len(saver.saves) != 4 {
		t.Fatalf("Expected 4 snapshot saves, got %d", len(saver.saves))
	}
	if len(saver.saves[0]) != 1 || len(saver.saves[3]) != 0 {
		t.Errorf("Snapshots should reflect state after each mutation: %v", saver.saves)
	}

	// Reads never save.
	store2 := New(WithSaver[testmodels.Player](saver))
	before := len(saver.saves)
	store2.GetOneByID(ctx, "x")
	store2.GetListByFilter(ctx, nil, nil)
	if len(saver.saves) != before {
		t.Error("Read operations must not trigger saves")
	}
}

func TestMutationsBeforeOpenRejectedWithSaver(t *testing.T) {
	ctx := context.Background()
	saver := &captureSaver{}
	store := New(WithSaver[testmodels.Player](saver))

	if _, err := store.Create(ctx, player1); !errors.IsNotOpen(err) {
		t.Fatalf("Create before Open: expected not open error, got %v", err)
	}
	if err := store.Clear(ctx); !errors.IsNotOpen(err) {
		t.Errorf("Clear before Open: expected not open error, got %v", err)
	}
	if len(saver.saves) != 0 {
		t.Errorf("No snapshot may be written before Open, got %d saves", len(saver.saves))
	}

	// Closing a never-opened store must not flush either.
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(saver.saves) != 0 {
		t.Errorf("Close before Open must not flush, got %d saves", len(saver.saves))
	}
}

type sliceLoader struct{ items []testmodels.Player }

func (l *sliceLoader) Load(ctx context.Context) ([]testmodels.Player, error) {
	return l.items, nil
}

func TestOpenLoadsCollection(t *testing.T) {
	ctx := context.Background()
	loader := &sliceLoader{items: []testmodels.Player{
		{ID: "1", Name: "a"},
		{ID: "2", Name: "b"},
	}}
	store := New(WithLoader[testmodels.Player](loader))

	if store.IsOpen() {
		t.Error("Store should not report open before Open")
	}
	if err := store.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !store.IsOpen() {
		t.Error("Store should report open after Open")
	}

	page, _ := store.GetPageByFilter(ctx, nil, nil, storagemodels.NewPagingParams(0, 10, true))
	if len(page.Items) != 2 || page.Items[0].ID != "1" {
		t.Errorf("Loaded collection mismatch: %v", page.Items)
	}
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	ctx := context.Background()
	store := New[testmodels.Player]()
	created, _ := store.Create(ctx, player1)

	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if store.IsOpen() {
		t.Error("Closed store should not report open")
	}

	if _, err := store.Create(ctx, player2); !errors.IsClosedStore(err) {
		t.Errorf("Create after Close: expected closed store error, got %v", err)
	}
	if _, err := store.GetOneByID(ctx, created.ID); !errors.IsClosedStore(err) {
		t.Errorf("GetOneByID after Close: expected closed store error, got %v", err)
	}
	if _, err := store.DeleteByID(ctx, created.ID); !errors.IsClosedStore(err) {
		t.Errorf("DeleteByID after Close: expected closed store error, got %v", err)
	}
	if err := store.Clear(ctx); !errors.IsClosedStore(err) {
		t.Errorf("Clear after Close: expected closed store error, got %v", err)
	}
	if err := store.Close(ctx); !errors.IsClosedStore(err) {
		t.Errorf("Second Close: expected closed store error, got %v", err)
	}
}
