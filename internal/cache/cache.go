package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/fileutil"
)

// DiskCache is the response cache: an in-memory index backed by a
// content-addressed data+metadata file pair per key, with a singleflight
// group serializing concurrent builds for the same key.
//
// Storage layout under dir: "<key>.data" holds the raw content, "<key>.json"
// holds the diskEntry sidecar. Entries past expiry are treated as a miss
// and evicted (memory and disk) on next access rather than on a timer.
type DiskCache struct {
	mu   sync.RWMutex
	data map[string]Entry

	dir          string
	ttl          time.Duration
	metadataSink metadata.MetadataSink

	flight singleflight.Group
}

// NewDiskCache constructs a cache rooted at dir, with entries minted with
// expiresAt = createdAt + ttl. A zero dir disables disk persistence; the
// cache then behaves as memory-only for the lifetime of the process.
func NewDiskCache(dir string, ttl time.Duration, metadataSink metadata.MetadataSink) *DiskCache {
	return &DiskCache{
		data:         make(map[string]Entry),
		dir:          dir,
		ttl:          ttl,
		metadataSink: metadataSink,
	}
}

func (c *DiskCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		if entry.Expired(time.Now()) {
			c.evict(key)
			return Entry{}, false
		}
		return entry, true
	}

	diskEntry, ok := c.loadFromDisk(key)
	if !ok {
		return Entry{}, false
	}
	if diskEntry.Expired(time.Now()) {
		c.evict(key)
		return Entry{}, false
	}

	c.mu.Lock()
	c.data[key] = diskEntry
	c.mu.Unlock()
	return diskEntry, true
}

// GetOrBuild guarantees build runs at most once per key across concurrent
// callers: singleflight.Group collapses every in-flight caller for the same
// key onto a single execution and fans its result out to all of them. A
// failed build is never cached, matching the contract that the promise is
// dropped on error.
func (c *DiskCache) GetOrBuild(ctx context.Context, key string, build BuildFunc) (Entry, failure.ClassifiedError) {
	if entry, ok := c.Get(key); ok {
		return entry, nil
	}

	result, err, _ := c.flight.Do(key, func() (any, error) {
		entry, buildErr := build(ctx)
		if buildErr != nil {
			return nil, buildErr
		}
		entry.CreatedAt = time.Now()
		if c.ttl > 0 {
			entry.ExpiresAt = entry.CreatedAt.Add(c.ttl)
		}
		c.store(key, entry)
		return entry, nil
	})
	if err != nil {
		var classified failure.ClassifiedError
		if ce, ok := err.(failure.ClassifiedError); ok {
			classified = ce
		} else {
			classified = &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseBuildFailed, Key: key}
		}
		return Entry{}, classified
	}
	return result.(Entry), nil
}

// Invalidate removes every entry whose recorded source URL equals url.
func (c *DiskCache) Invalidate(url string) {
	c.mu.Lock()
	var keys []string
	for key, entry := range c.data {
		if entry.SourceURL == url {
			keys = append(keys, key)
		}
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.evict(key)
	}

	if names, ok := c.listDiskKeys(); ok {
		for _, key := range names {
			if c.hasKeyInMemory(key) {
				continue
			}
			diskEntry, ok := c.loadFromDisk(key)
			if ok && diskEntry.SourceURL == url {
				c.evict(key)
			}
		}
	}
}

// Clear empties the in-memory index and the on-disk store.
func (c *DiskCache) Clear() {
	c.mu.Lock()
	c.data = make(map[string]Entry)
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		_ = os.Remove(filepath.Join(c.dir, entry.Name()))
	}
}

func (c *DiskCache) hasKeyInMemory(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.data[key]
	return ok
}

func (c *DiskCache) store(key string, entry Entry) {
	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	if err := fileutil.EnsureDir(c.dir); err != nil {
		c.recordError(ErrCauseWriteFailure, key, err.Error())
		return
	}

	dataPath := filepath.Join(c.dir, key+".data")
	if err := os.WriteFile(dataPath, entry.Content, 0644); err != nil {
		c.recordError(ErrCauseWriteFailure, key, err.Error())
		return
	}

	meta := diskEntry{
		ContentType: entry.ContentType,
		SourceURL:   entry.SourceURL,
		CreatedAt:   entry.CreatedAt,
		ExpiresAt:   entry.ExpiresAt,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		c.recordError(ErrCauseWriteFailure, key, err.Error())
		return
	}
	metaPath := filepath.Join(c.dir, key+".json")
	if err := os.WriteFile(metaPath, metaBytes, 0644); err != nil {
		c.recordError(ErrCauseWriteFailure, key, err.Error())
	}
}

func (c *DiskCache) loadFromDisk(key string) (Entry, bool) {
	if c.dir == "" {
		return Entry{}, false
	}

	metaPath := filepath.Join(c.dir, key+".json")
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return Entry{}, false
	}
	var meta diskEntry
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		c.recordError(ErrCauseReadFailure, key, err.Error())
		return Entry{}, false
	}

	dataPath := filepath.Join(c.dir, key+".data")
	content, err := os.ReadFile(dataPath)
	if err != nil {
		c.recordError(ErrCauseReadFailure, key, err.Error())
		return Entry{}, false
	}

	return Entry{
		Content:     content,
		ContentType: meta.ContentType,
		SourceURL:   meta.SourceURL,
		CreatedAt:   meta.CreatedAt,
		ExpiresAt:   meta.ExpiresAt,
	}, true
}

func (c *DiskCache) listDiskKeys() ([]string, bool) {
	if c.dir == "" {
		return nil, false
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, false
	}
	seen := make(map[string]bool)
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".data" {
			continue
		}
		key := name[:len(name)-len(ext)]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, true
}

func (c *DiskCache) evict(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	_ = os.Remove(filepath.Join(c.dir, key+".data"))
	_ = os.Remove(filepath.Join(c.dir, key+".json"))
}

func (c *DiskCache) recordError(cause CacheErrorCause, key string, message string) {
	if c.metadataSink == nil {
		return
	}
	cacheErr := &CacheError{Message: message, Retryable: false, Cause: cause, Key: key}
	c.metadataSink.RecordError(
		time.Now(),
		"cache",
		"DiskCache",
		mapCacheErrorToMetadataCause(cacheErr),
		cacheErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrField, key),
		},
	)
}
