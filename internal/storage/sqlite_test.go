package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteKV(t *testing.T) {
	kv, err := OpenSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("k"); ok {
		t.Fatal("Get on empty table reported a value")
	}
	if err := kv.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := kv.Get("k"); !ok || v != "v1" {
		t.Fatalf("Get = (%q, %v), want (v1, true)", v, ok)
	}
	if err := kv.Set("k", "v2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if v, _ := kv.Get("k"); v != "v2" {
		t.Fatalf("upsert value = %q, want v2", v)
	}
	if err := kv.Remove("k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := kv.Get("k"); ok {
		t.Fatal("value survived Remove")
	}
	// Removing a missing key is not an error.
	if err := kv.Remove("absent"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
