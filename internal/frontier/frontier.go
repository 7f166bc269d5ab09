package frontier

import (
	"container/heap"
	"net/url"
	"sync"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain traversal ordering (BFS, DFS, or BEST_FIRST, per the crawl's strategy)
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.

Admission into this type is restricted to the scheduler: CrawlAdmissionCandidate
and CrawlToken are the only vocabulary the frontier understands, and Submit is
the only write path. By the time a candidate reaches Submit, the scheduler has
already run robots.txt and scope checks; the frontier's own job is ordering,
deduplication, and the two numeric limits (MaxDepth, MaxPages) that are about
traversal shape rather than admission policy.
*/

const (
	StrategyBFS       = "bfs"
	StrategyDFS       = "dfs"
	StrategyBestFirst = "best_first"
)

// CrawlFrontier dispatches Submit/Dequeue to one of three traversal orders,
// selected by the crawl's strategy tag:
//   - bfs (default/empty): a per-depth queue guarantees strict BFS ordering
//     (every depth-N token dequeues before any depth-N+1 token).
//   - dfs: a single LIFO stack.
//   - best_first: a priority queue ordered by bestFirstScore.
//
// Identity for dedup/visited/locked is the URL's similarity class, not just
// its canonical form, so that e.g. a trailing-slash or www./bare-host
// variant of an already-admitted page is recognized as the same page.
type CrawlFrontier struct {
	mu sync.Mutex

	strategy string
	maxDepth int
	maxPages int

	queuesByDepth map[int]*FIFOQueue[CrawlToken]
	stack         []CrawlToken
	pq            bestFirstQueue
	seq           int

	visited      Set[string]
	visitedCount int
	locked       Set[string]
}

// NewCrawlFrontier constructs a zero-value frontier; callers must call Init
// before Submit/Dequeue are meaningful.
func NewCrawlFrontier() CrawlFrontier {
	return CrawlFrontier{
		strategy:      StrategyBFS,
		queuesByDepth: make(map[int]*FIFOQueue[CrawlToken]),
		visited:       NewSet[string](),
		locked:        NewSet[string](),
	}
}

// NewFrontier is an alias of NewCrawlFrontier kept for callers that construct
// the frontier generically alongside the rest of the scheduler's dependencies.
func NewFrontier() CrawlFrontier {
	return NewCrawlFrontier()
}

// Init resets the frontier to an empty state and applies the crawl's scope
// limits (MaxDepth, MaxPages) and traversal strategy. It must be called once
// per crawl, before the seed URL is submitted.
func (f *CrawlFrontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategy = cfg.Strategy()
	if f.strategy == "" {
		f.strategy = StrategyBFS
	}
	f.maxDepth = cfg.MaxDepth()
	f.maxPages = cfg.MaxPages()
	f.queuesByDepth = make(map[int]*FIFOQueue[CrawlToken])
	f.stack = nil
	f.pq = nil
	f.seq = 0
	f.visited = NewSet[string]()
	f.visitedCount = 0
	f.locked = NewSet[string]()
}

// similarityKeys returns the stringified similarity class of u: every
// spelling that must be treated as the same identity for dedup purposes.
func similarityKeys(u url.URL) []string {
	variants := urlutil.SimilarityClass(urlutil.Canonicalize(u))
	keys := make([]string, len(variants))
	for i, v := range variants {
		keys[i] = v.String()
	}
	return keys
}

// Lock claims exclusive admission rights over u's similarity class so that
// two concurrent discoveries of equivalent URLs don't both perform the
// scheduler's admission work. It reports false if u (under any spelling in
// its similarity class) is already visited or already locked by a prior
// caller; true means the caller now holds the lock and must eventually
// either Submit the candidate (which releases the lock) or call Unlock.
func (f *CrawlFrontier) Lock(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := similarityKeys(u)
	for _, key := range keys {
		if f.visited.Contains(key) || f.locked.Contains(key) {
			return false
		}
	}
	for _, key := range keys {
		f.locked.Add(key)
	}
	return true
}

// Unlock releases a lock acquired via Lock without marking u visited, for
// callers that abandon admission after locking (e.g. a later check in the
// same admission predicate rejects the URL).
func (f *CrawlFrontier) Unlock(u url.URL) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range similarityKeys(u) {
		f.locked.Remove(key)
	}
}

// MarkVisited records u (and, when a redirect moved it, finalURL) as visited
// without enqueueing anything. This is how a redirect's target URL becomes
// recognized as already-crawled: a later discovery of finalURL by a
// different path is then rejected by Submit's own dedup check rather than
// being fetched a second time. Any lock held for either URL is released.
func (f *CrawlFrontier) MarkVisited(u url.URL, finalURL *url.URL) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markVisitedLocked(u)
	if finalURL != nil {
		f.markVisitedLocked(*finalURL)
	}
}

func (f *CrawlFrontier) markVisitedLocked(u url.URL) {
	keys := similarityKeys(u)

	alreadyVisited := false
	for _, key := range keys {
		if f.visited.Contains(key) {
			alreadyVisited = true
			break
		}
	}

	for _, key := range keys {
		f.visited.Add(key)
		f.locked.Remove(key)
	}
	if !alreadyVisited {
		f.visitedCount++
	}
}

// Submit admits an already-scheduler-approved candidate into the frontier.
// It is a no-op if the candidate's URL (under any spelling in its
// similarity class) was already visited, if MaxDepth is exceeded, or if
// MaxPages has already been reached. Any lock held for the URL is released
// either way.
func (f *CrawlFrontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	targetURL := candidate.TargetURL()
	depth := candidate.DiscoveryMetadata().Depth()
	keys := similarityKeys(targetURL)
	defer func() {
		for _, key := range keys {
			f.locked.Remove(key)
		}
	}()

	if f.maxDepth > 0 && depth > f.maxDepth {
		return
	}

	for _, key := range keys {
		if f.visited.Contains(key) {
			return
		}
	}
	if f.maxPages > 0 && f.visitedCount >= f.maxPages {
		return
	}

	for _, key := range keys {
		f.visited.Add(key)
	}
	f.visitedCount++

	token := NewCrawlToken(targetURL, depth)
	switch f.strategy {
	case StrategyDFS:
		f.stack = append(f.stack, token)
	case StrategyBestFirst:
		heap.Push(&f.pq, &bestFirstItem{token: token, score: bestFirstScore(targetURL), seq: f.seq})
		f.seq++
	default:
		if f.queuesByDepth == nil {
			f.queuesByDepth = make(map[int]*FIFOQueue[CrawlToken])
		}
		queue, ok := f.queuesByDepth[depth]
		if !ok {
			queue = NewFIFOQueue[CrawlToken]()
			f.queuesByDepth[depth] = queue
		}
		queue.Enqueue(token)
	}
}

// Dequeue returns the next token per the frontier's strategy: lowest pending
// depth for bfs, most-recently-submitted for dfs, highest bestFirstScore for
// best_first. Returns false once nothing is pending.
func (f *CrawlFrontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.strategy {
	case StrategyDFS:
		n := len(f.stack)
		if n == 0 {
			return CrawlToken{}, false
		}
		token := f.stack[n-1]
		f.stack = f.stack[:n-1]
		return token, true
	case StrategyBestFirst:
		if f.pq.Len() == 0 {
			return CrawlToken{}, false
		}
		item := heap.Pop(&f.pq).(*bestFirstItem)
		return item.token, true
	default:
		depth, ok := f.minPendingDepthLocked()
		if !ok {
			return CrawlToken{}, false
		}
		token, _ := f.queuesByDepth[depth].Dequeue()
		return token, true
	}
}

// Pending reports whether at least one token is waiting to be dequeued,
// under whichever strategy is active. Used by callers that need to decide
// whether there is a next page before committing to one (e.g. creating a
// job-queue record for it), without consuming the token the way Dequeue
// would.
func (f *CrawlFrontier) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.strategy {
	case StrategyDFS:
		return len(f.stack) > 0
	case StrategyBestFirst:
		return f.pq.Len() > 0
	default:
		_, ok := f.minPendingDepthLocked()
		return ok
	}
}

// minPendingDepthLocked returns the lowest depth with a non-empty queue.
// Caller must hold f.mu. Only meaningful for the bfs strategy.
func (f *CrawlFrontier) minPendingDepthLocked() (int, bool) {
	min := -1
	for d, queue := range f.queuesByDepth {
		if queue.Size() == 0 {
			continue
		}
		if min == -1 || d < min {
			min = d
		}
	}
	if min == -1 {
		return 0, false
	}
	return min, true
}

// IsDepthExhausted reports whether depth has no pending tokens left. A depth
// that was never populated counts as exhausted, as does a negative depth.
// Only meaningful for the bfs strategy; dfs/best_first frontiers report
// every depth exhausted since they don't bucket by depth.
func (f *CrawlFrontier) IsDepthExhausted(depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if depth < 0 {
		return true
	}
	queue, ok := f.queuesByDepth[depth]
	if !ok {
		return true
	}
	return queue.Size() == 0
}

// CurrentMinDepth returns the lowest depth with a pending token, or -1 if the
// frontier is empty. Used by callers that want to observe BFS-level
// progress; not meaningful for dfs/best_first.
func (f *CrawlFrontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth, ok := f.minPendingDepthLocked()
	if !ok {
		return -1
	}
	return depth
}

// VisitedCount returns the number of distinct pages ever admitted (by
// similarity class), regardless of whether they have since been dequeued.
// The visited set is append-only.
func (f *CrawlFrontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visitedCount
}
