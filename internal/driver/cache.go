package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"plinth/internal/project"
)

// Current schema version - increment when CacheEntry format changes
const cacheSchemaVersion uint16 = 1

// SequenceCache хранит порядок модулей на диске, ключ - Digest набора модулей.
// A nil *SequenceCache is valid and caches nothing. Thread-safe.
type SequenceCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is what SequenceCache stores for one module set.
type CacheEntry struct {
	Schema   uint16
	Sequence []string
	Waves    [][]string
}

// OpenSequenceCache opens the cache under dir, or under the user cache
// directory ($XDG_CACHE_HOME/app or ~/.cache/app) when dir is empty.
func OpenSequenceCache(dir, app string) (*SequenceCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SequenceCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *SequenceCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *SequenceCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "order", hex.EncodeToString(key[:])+".mp")
}

// Lookup returns the entry stored for modules. Unreadable or outdated
// entries count as misses.
func (c *SequenceCache) Lookup(modules *project.ParsedModules) (CacheEntry, bool) {
	if c == nil {
		return CacheEntry{}, false
	}
	entry, ok, err := c.Get(modules.Digest())
	if err != nil || !ok || entry.Schema != cacheSchemaVersion || len(entry.Sequence) != modules.Len() {
		return CacheEntry{}, false
	}
	return entry, true
}

// Store records entry for modules.
func (c *SequenceCache) Store(modules *project.ParsedModules, entry CacheEntry) error {
	if c == nil {
		return nil
	}
	entry.Schema = cacheSchemaVersion
	return c.Put(modules.Digest(), &entry)
}

// Put serializes and writes an entry to the disk cache.
func (c *SequenceCache) Put(key project.Digest, entry *CacheEntry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes an entry from the disk cache.
func (c *SequenceCache) Get(key project.Digest) (CacheEntry, bool, error) {
	if c == nil {
		return CacheEntry{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CacheEntry{}, false, nil
		}
		return CacheEntry{}, false, err
	}
	var entry CacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return CacheEntry{}, false, err
	}
	return entry, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *SequenceCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
