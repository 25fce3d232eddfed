package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCache_PutGet(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	key := Key("Merhaba!", "Kore")
	value := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 2048)

	if err := dc.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if !bytes.Equal(got, value) {
		t.Error("retrieved value mismatch")
	}

	s := dc.Stats()
	if s.Hits != 1 || s.ItemCount != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.Size >= s.RawSize {
		t.Errorf("expected compression: size %d raw %d", s.Size, s.RawSize)
	}

	if _, ok := dc.Get("missing"); ok {
		t.Error("Get returned a missing key")
	}
	if dc.Stats().Misses != 1 {
		t.Errorf("misses = %d", dc.Stats().Misses)
	}
}

func TestDiskCache_Persists(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	_ = dc.Put("a", []byte("first"))
	if err := dc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close() //nolint:errcheck

	got, ok := reopened.Get("a")
	if !ok || string(got) != "first" {
		t.Errorf("after reopen got %q, %v", got, ok)
	}
}

func TestDiskCache_CorruptEntryDropped(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("k", []byte("payload"))
	if err := os.WriteFile(filepath.Join(dir, "k.zst"), []byte("not zstd"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := dc.Get("k"); ok {
		t.Fatal("corrupt entry returned")
	}
	if dc.Contains("k") {
		t.Error("corrupt entry kept in index")
	}
}

func TestDiskCache_EvictsOldest(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1<<20, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("old", []byte("a"))
	oneSize := dc.Stats().Size
	dc.capacity = oneSize * 2

	time.Sleep(2 * time.Millisecond)
	_ = dc.Put("mid", []byte("b"))
	time.Sleep(2 * time.Millisecond)
	_, _ = dc.Get("old")
	time.Sleep(2 * time.Millisecond)
	_ = dc.Put("new", []byte("c"))

	if dc.Contains("mid") {
		t.Error("least recently used entry survived")
	}
	if !dc.Contains("old") || !dc.Contains("new") {
		t.Error("recently used entries evicted")
	}
	if dc.Stats().Evictions != 1 {
		t.Errorf("evictions = %d", dc.Stats().Evictions)
	}
}

func TestDiskCache_Errors(t *testing.T) {
	if _, err := NewDiskCache(t.TempDir(), 0, 3); err == nil {
		t.Error("expected error for zero capacity")
	}

	dc, err := NewDiskCache(t.TempDir(), 1, 3)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	if err := dc.Put("k", []byte("too big for one byte")); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}
	_ = dc.Close()
	if err := dc.Put("k", nil); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

func TestKeyDependsOnVoice(t *testing.T) {
	if Key("Merhaba", "Kore") == Key("Merhaba", "Puck") {
		t.Error("keys collide across voices")
	}
	if len(Key("x", "y")) != 32 {
		t.Errorf("key length = %d", len(Key("x", "y")))
	}
}
