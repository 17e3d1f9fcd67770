package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/gametable/internal/cache"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Put(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestPutReplacesExistingValue(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Put(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("put second: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestGetAbsentKeyReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClearRemovesAllKeys(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Put(ctx, key, []byte("v")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, cache.ErrNotFound) {
			t.Fatalf("expected %s cleared, got %v", key, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("durable")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != "durable" {
		t.Fatalf("expected durable value, got %q", got)
	}
}
