package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"plinth/internal/project"
)

func TestSequenceCacheRoundTrip(t *testing.T) {
	cache, err := OpenSequenceCache(t.TempDir(), "plinth")
	if err != nil {
		t.Fatalf("OpenSequenceCache: %v", err)
	}
	set := diamond()

	if _, ok := cache.Lookup(set); ok {
		t.Fatalf("empty cache reported a hit")
	}
	entry := CacheEntry{Sequence: set.Names(), Waves: [][]string{set.Names()}}
	if err := cache.Store(set, entry); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok := cache.Lookup(diamond())
	if !ok {
		t.Fatalf("stored entry not found")
	}
	if got.Schema != cacheSchemaVersion || !slices.Equal(got.Sequence, entry.Sequence) || len(got.Waves) != 1 {
		t.Fatalf("entry = %+v", got)
	}

	other := moduleSet(parsedModule("solo", project.ModuleKindLib, nil))
	if _, ok := cache.Lookup(other); ok {
		t.Fatalf("different module set hit the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok := cache.Lookup(set); ok {
		t.Fatalf("entry survived DropAll")
	}
}

func TestSequenceCacheIgnoresCorruptEntries(t *testing.T) {
	cache, err := OpenSequenceCache(t.TempDir(), "plinth")
	if err != nil {
		t.Fatalf("OpenSequenceCache: %v", err)
	}
	set := diamond()
	p := cache.pathFor(set.Digest())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte{0xc1, 0xc1}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := cache.Lookup(set); ok {
		t.Fatalf("corrupt entry reported as a hit")
	}
}

func TestNilSequenceCache(t *testing.T) {
	var cache *SequenceCache
	if _, ok := cache.Lookup(diamond()); ok {
		t.Fatalf("nil cache hit")
	}
	if err := cache.Store(diamond(), CacheEntry{}); err != nil {
		t.Fatalf("Store on nil cache: %v", err)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	cache, err := OpenSequenceCache(t.TempDir(), "plinth")
	if err != nil {
		t.Fatalf("OpenSequenceCache: %v", err)
	}
	first, err := Analyze(context.Background(), diamond(), &recordingChecker{}, Options{Jobs: 2, Cache: cache})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	entry, ok := cache.Lookup(diamond())
	if !ok || !slices.Equal(entry.Sequence, first.Sequence) || len(entry.Waves) != len(first.Waves) {
		t.Fatalf("cache entry = %+v, %v", entry, ok)
	}

	second, err := Analyze(context.Background(), diamond(), &recordingChecker{}, Options{Jobs: 1, Cache: cache})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !slices.Equal(first.Sequence, second.Sequence) {
		t.Fatalf("cached sequence differs")
	}
}
