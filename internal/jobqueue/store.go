package jobqueue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

/*
Responsibilities
- Durable job enqueue/dequeue with at-least-once delivery to workers
- Per-job state (pending/running/completed/failed)
- Per-crawl descriptor (cancel flag, finished flag, exported files)
- Paging of completed jobs by crawl

Guarantees
- Priorities are advisory: Dequeue always prefers a pending kickoff job
  over a pending page job, mirroring the controller's "prefer kickoff
  over page jobs" worker contract. Within a kind, delivery is FIFO.
- Cancellation is orthogonal to queue state: SetCancelled never removes
  or mutates already-enqueued jobs; controller workers poll
  GetCrawl(id).Cancelled at job entry.
*/

// Store is the job queue contract. Dequeue blocks until a job is
// available or ctx is done, matching internal/pool.Pool.WithTab's own
// blocking-acquire idiom.
type Store interface {
	Enqueue(spec JobSpec, priority int) string
	Dequeue(ctx context.Context) (Job, bool)
	Start(jobID string) failure.ClassifiedError
	Complete(jobID string, result string) failure.ClassifiedError
	Fail(jobID string, errMessage string) failure.ClassifiedError
	State(jobID string) (Job, bool)
	ListByCrawl(crawlID string, skip int, limit int) []Job
	FinishedCount(crawlID string) int
	IsFinished(crawlID string) bool
	SaveCrawl(descriptor CrawlDescriptor)
	GetCrawl(crawlID string) (CrawlDescriptor, bool)
	SetCancelled(crawlID string)
	SetFinished(crawlID string)
	AddExportedFile(crawlID string, path string)
	ExportedFiles(crawlID string) []string
}

type entry struct {
	job      Job
	priority int
}

// InMemoryStore is the process-local job queue implementation. It is the
// only Store the core ships: a `crawl:{id}`, `job:{id}`, … key-value
// layout describes the shape callers may persist to, not a mandated
// backend, and no KV/queue client (redis, bolt, …) appears anywhere in
// the retrieved pack to ground one on (see DESIGN.md). Durability
// across process restarts is out of scope, not a gap in this Store.
type InMemoryStore struct {
	mu      sync.Mutex
	notify  chan struct{}
	jobs    map[string]*entry
	crawls  map[string]*CrawlDescriptor
	pending []string // job IDs, insertion order; kind/priority resolved at Dequeue time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		notify: make(chan struct{}, 1),
		jobs:   make(map[string]*entry),
		crawls: make(map[string]*CrawlDescriptor),
	}
}

func (s *InMemoryStore) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *InMemoryStore) Enqueue(spec JobSpec, priority int) string {
	s.mu.Lock()
	id := NewID()
	s.jobs[id] = &entry{
		job: Job{
			ID:        id,
			CrawlID:   spec.CrawlID,
			Kind:      spec.Kind,
			URL:       spec.URL,
			Depth:     spec.Depth,
			Priority:  priority,
			State:     JobPending,
			CreatedAt: time.Now(),
		},
		priority: priority,
	}
	s.pending = append(s.pending, id)
	s.mu.Unlock()
	s.wake()
	return id
}

// Dequeue blocks until a pending job is available or ctx is cancelled.
// Kickoff jobs are always preferred over page jobs; ties within a kind
// resolve FIFO by enqueue order.
func (s *InMemoryStore) Dequeue(ctx context.Context) (Job, bool) {
	for {
		if job, ok := s.tryDequeue(); ok {
			return job, true
		}
		select {
		case <-ctx.Done():
			return Job{}, false
		case <-s.notify:
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (s *InMemoryStore) tryDequeue() (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := -1
	for i, id := range s.pending {
		e, ok := s.jobs[id]
		if !ok || e.job.State != JobPending {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		bestEntry := s.jobs[s.pending[best]]
		if e.job.Kind == JobKindKickoff && bestEntry.job.Kind != JobKindKickoff {
			best = i
		}
	}
	if best == -1 {
		return Job{}, false
	}

	id := s.pending[best]
	s.pending = append(s.pending[:best], s.pending[best+1:]...)
	e := s.jobs[id]
	e.job.State = JobRunning
	return e.job, true
}

// Start transitions jobID from pending to running without going through the
// shared Dequeue pool. It exists for callers that enqueue and run a job
// themselves in the same goroutine (C10's kickoff worker, driving its own
// per-page jobs one at a time) rather than handing it to Dequeue's
// kickoff-preferred, cross-crawl FIFO. The job is removed from the pending
// list so a concurrent Dequeue can never also pick it up.
func (s *InMemoryStore) Start(jobID string) failure.ClassifiedError {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return &JobQueueError{Message: jobID, Retryable: false, Cause: ErrCauseJobNotFound}
	}
	if e.job.State != JobPending {
		return &JobQueueError{Message: jobID, Retryable: false, Cause: ErrCauseJobNotFound}
	}
	for i, id := range s.pending {
		if id == jobID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	e.job.State = JobRunning
	return nil
}

func (s *InMemoryStore) Complete(jobID string, result string) failure.ClassifiedError {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return &JobQueueError{Message: jobID, Retryable: false, Cause: ErrCauseJobNotFound}
	}
	e.job.State = JobCompleted
	e.job.Result = result
	e.job.CompletedAt = time.Now()
	return nil
}

func (s *InMemoryStore) Fail(jobID string, errMessage string) failure.ClassifiedError {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return &JobQueueError{Message: jobID, Retryable: false, Cause: ErrCauseJobNotFound}
	}
	e.job.State = JobFailed
	e.job.Error = errMessage
	e.job.CompletedAt = time.Now()
	return nil
}

func (s *InMemoryStore) State(jobID string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return e.job, true
}

// ListByCrawl returns completed-or-failed jobs for crawlID, ordered by
// completion time, paged by skip/limit.
func (s *InMemoryStore) ListByCrawl(crawlID string, skip int, limit int) []Job {
	s.mu.Lock()
	matched := make([]Job, 0)
	for _, e := range s.jobs {
		if e.job.CrawlID != crawlID {
			continue
		}
		if e.job.State != JobCompleted && e.job.State != JobFailed {
			continue
		}
		matched = append(matched, e.job)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CompletedAt.Before(matched[j].CompletedAt)
	})

	if skip >= len(matched) {
		return []Job{}
	}
	end := skip + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end]
}

func (s *InMemoryStore) FinishedCount(crawlID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.jobs {
		if e.job.CrawlID == crawlID && (e.job.State == JobCompleted || e.job.State == JobFailed) {
			count++
		}
	}
	return count
}

// IsFinished reports whether every job enqueued so far for crawlID has
// reached a terminal state. It does not by itself mean the crawl is
// finished (the descriptor's Finished flag is the source of truth for
// that, set once the kickoff worker stops admitting new page jobs).
func (s *InMemoryStore) IsFinished(crawlID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.jobs {
		if e.job.CrawlID == crawlID && e.job.State != JobCompleted && e.job.State != JobFailed {
			return false
		}
	}
	return true
}

func (s *InMemoryStore) SaveCrawl(descriptor CrawlDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := descriptor
	s.crawls[descriptor.ID] = &d
}

func (s *InMemoryStore) GetCrawl(crawlID string) (CrawlDescriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.crawls[crawlID]
	if !ok {
		return CrawlDescriptor{}, false
	}
	return *d, true
}

func (s *InMemoryStore) SetCancelled(crawlID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.crawls[crawlID]; ok {
		d.Cancelled = true
	}
}

func (s *InMemoryStore) SetFinished(crawlID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.crawls[crawlID]; ok {
		d.Finished = true
	}
}

func (s *InMemoryStore) AddExportedFile(crawlID string, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.crawls[crawlID]; ok {
		d.ExportPaths = append(d.ExportPaths, path)
	}
}

func (s *InMemoryStore) ExportedFiles(crawlID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.crawls[crawlID]
	if !ok {
		return nil
	}
	out := make([]string, len(d.ExportPaths))
	copy(out, d.ExportPaths)
	return out
}
