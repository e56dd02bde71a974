package kv

import (
	"testing"

	"github.com/khanehapp/khaneh/store"
)

func newTestKV(t *testing.T) *Store {
	t.Helper()
	s, err := New("data", WithFileSystem(store.NewMockFileSystem()))
	if err != nil {
		t.Fatalf("failed to open kv store: %v", err)
	}
	return s
}

func TestGetAbsentKey(t *testing.T) {
	s := newTestKV(t)

	val, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || val != nil {
		t.Errorf("absent key should report (nil, false), got (%q, %v)", val, ok)
	}
}

func TestSetGetDelete(t *testing.T) {
	s := newTestKV(t)

	if err := s.Set(KeyIncomes, []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, ok, err := s.Get(KeyIncomes)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if string(val) != `[{"id":"x"}]` {
		t.Errorf("unexpected value %q", val)
	}

	if err := s.Delete(KeyIncomes); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(KeyIncomes); ok {
		t.Error("key still present after delete")
	}

	// Deleting again is a no-op
	if err := s.Delete(KeyIncomes); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestKV(t)

	if err := s.Set(KeyTasks, []byte("[1]")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyTasks, []byte("[2]")); err != nil {
		t.Fatal(err)
	}
	val, _, _ := s.Get(KeyTasks)
	if string(val) != "[2]" {
		t.Errorf("expected last write to win, got %q", val)
	}
}

func TestHasAndKeys(t *testing.T) {
	s := newTestKV(t)

	if ok, _ := s.Has(KeyMealPlan); ok {
		t.Error("has reported a key that was never set")
	}
	if err := s.Set(KeyMealPlan, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyTasks, []byte("[]")); err != nil {
		t.Fatal(err)
	}

	if ok, _ := s.Has(KeyMealPlan); !ok {
		t.Error("has missed a stored key")
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %v", keys)
	}
}
