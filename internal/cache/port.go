package cache

import (
	"context"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

/*
Responsibilities
- Hold a cleaned-document result keyed by (URL, option subset)
- Guarantee at-most-one concurrent build per key
- Expire entries past TTL and treat them as a miss
- Persist content-addressed data+metadata file pairs to survive restarts

Cache-control options (skip-cache, TTL) never participate in the key; only
options that affect the *output* do (see FingerprintKey).
*/

// BuildFunc produces the entry to cache on a miss. It is invoked at most
// once per key even when many callers race on the same miss.
type BuildFunc func(ctx context.Context) (Entry, failure.ClassifiedError)

// Cache is the response-cache port. Implementations are free to back it
// with memory only, or memory plus a content-addressed file store.
type Cache interface {
	// Get returns the cached entry for key, or ok=false on a miss or an
	// expired entry (expired entries are evicted as a side effect).
	Get(key string) (entry Entry, ok bool)

	// GetOrBuild returns the cached entry for key if present and fresh;
	// otherwise it calls build exactly once, even under concurrent callers
	// racing on the same key, and caches the result unless build failed.
	GetOrBuild(ctx context.Context, key string, build BuildFunc) (Entry, failure.ClassifiedError)

	// Invalidate removes every entry whose recorded source URL equals url.
	Invalidate(url string)

	// Clear empties the cache.
	Clear()
}
