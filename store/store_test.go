package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/khanehapp/khaneh/types"
)

func newTestStore(t *testing.T) (ItemStore, *MockFileSystem) {
	t.Helper()
	mockFS := NewMockFileSystem()
	s, err := NewWithOptions("items.json",
		WithFileSystem(mockFS),
		WithFileLockFactory(NewMockFileLockFactory()),
	)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mockFS
}

func testItem(name string, status types.ItemStatus, price, qty int) types.Item {
	return types.Item{
		ID:        name + "-id",
		Name:      name,
		Category:  "Groceries",
		Quantity:  qty,
		Unit:      "pc",
		Price:     price,
		Status:    status,
		DateAdded: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetOnEmptyStore(t *testing.T) {
	s, mockFS := newTestStore(t)

	items, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("get on empty store: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(items))
	}
	if mockFS.FileExists("items.json") {
		t.Error("get must not create the backing file")
	}
}

func TestPutThenGetRoundTrip(t *testing.T) {
	s, mockFS := newTestStore(t)
	ctx := context.Background()

	want := []types.Item{
		testItem("milk", types.StatusBought, 450, 2),
		testItem("bread", types.StatusPending, 120, 1),
	}
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Price != want[i].Price {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	// The file holds an envelope, not a bare array
	content, ok := mockFS.GetFileContent("items.json")
	if !ok {
		t.Fatal("backing file missing after put")
	}
	var data StoreData
	if err := json.Unmarshal(content, &data); err != nil {
		t.Fatalf("envelope parse: %v", err)
	}
	if data.Metadata.Version == "" {
		t.Error("envelope metadata version not set")
	}
}

func TestPutReplacesWhole(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, []types.Item{testItem("a", types.StatusPending, 1, 1)}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := s.Put(ctx, []types.Item{testItem("b", types.StatusPending, 2, 1)}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Name != "b" {
		t.Errorf("put must replace wholesale, got %+v", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, []types.Item{testItem("a", types.StatusPending, 1, 1)}); err != nil {
		t.Fatalf("put: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Clear(ctx); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
		got, err := s.Get(ctx)
		if err != nil {
			t.Fatalf("get after clear #%d: %v", i+1, err)
		}
		if len(got) != 0 {
			t.Errorf("clear #%d left %d items", i+1, len(got))
		}
	}
}

func TestWriteFailureSurfaces(t *testing.T) {
	mockFS := NewMockFileSystem()
	s, err := NewWithOptions("items.json",
		WithFileSystem(mockFS),
		WithFileLockFactory(NewMockFileLockFactory()),
	)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	mockFS.WriteFileError = errors.New("disk full")
	if err := s.Put(context.Background(), []types.Item{testItem("a", types.StatusPending, 1, 1)}); err == nil {
		t.Fatal("expected put to surface the write failure")
	}
}

func TestCorruptFileSurfaces(t *testing.T) {
	mockFS := NewMockFileSystem()
	if err := mockFS.WriteFile("items.json", []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewWithOptions("items.json",
		WithFileSystem(mockFS),
		WithFileLockFactory(NewMockFileLockFactory()),
	)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if _, err := s.Get(context.Background()); err == nil {
		t.Fatal("expected get to surface the parse failure")
	}

	// a replace must still go through so the store can recover
	if err := s.Put(context.Background(), []types.Item{testItem("a", types.StatusPending, 1, 1)}); err != nil {
		t.Fatalf("put over corrupt file: %v", err)
	}
	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("get after recovery: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("expected recovered collection, got %+v", got)
	}
}

func TestFailedRenameCleansUpTemp(t *testing.T) {
	mockFS := NewMockFileSystem()
	s, err := NewWithOptions("items.json",
		WithFileSystem(mockFS),
		WithFileLockFactory(NewMockFileLockFactory()),
	)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	mockFS.RenameError = errors.New("rename blocked")
	if err := s.Put(context.Background(), []types.Item{testItem("a", types.StatusPending, 1, 1)}); err == nil {
		t.Fatal("expected put to fail")
	}
	if mockFS.FileExists("items.json.tmp") {
		t.Error("temp file left behind after failed rename")
	}
	if mockFS.FileExists("items.json") {
		t.Error("target file must not exist after failed first commit")
	}
}

func TestSetTimeFuncControlsMetadata(t *testing.T) {
	mockFS := NewMockFileSystem()
	fixed := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)
	s, err := NewWithOptions("items.json",
		WithFileSystem(mockFS),
		WithFileLockFactory(NewMockFileLockFactory()),
		WithTimeFunc(func() time.Time { return fixed }),
	)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := s.Put(context.Background(), nil); err != nil {
		t.Fatalf("put: %v", err)
	}

	content, _ := mockFS.GetFileContent("items.json")
	var data StoreData
	if err := json.Unmarshal(content, &data); err != nil {
		t.Fatal(err)
	}
	if !data.Metadata.UpdatedAt.Equal(fixed) {
		t.Errorf("updated_at = %v, want %v", data.Metadata.UpdatedAt, fixed)
	}
}
