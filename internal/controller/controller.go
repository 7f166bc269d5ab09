package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/jobqueue"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/scheduler"
	"github.com/rohmanhakim/docs-crawler/internal/storage"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

// pageStepper is the minimal surface runPages needs to drive one page at a
// time; *scheduler.Scheduler satisfies it. Kept as an interface so the
// job-queue/cancel wiring in runPages can be exercised against a fake in
// tests, independent of a real crawl pipeline.
type pageStepper interface {
	StepPage() (storage.WriteResult, bool, failure.ClassifiedError)
	HasPendingWork() bool
}

/*
Controller (C10) is the job-level orchestrator in front of the scheduler.

Responsibilities:
- start(request): allocate a crawl id, persist its descriptor, enqueue a
  single kickoff job.
- A fixed pool of worker goroutines dequeues jobs from the C11 store
  (jobqueue.Store) and runs the kickoff job.
- status(crawlId): compute overall status from stored job/crawl state.
- cancel(crawlId): set the cancel flag. The kickoff worker polls it before
  every page job transitions from pending to running (jobqueue.Store.Start),
  so cancellation takes effect at page granularity: whatever page is
  already in flight finishes, but no further page job is ever started.

A kickoff job owns its crawl's whole page fan-out: it drives
scheduler.Scheduler one page at a time (PrepareCrawl once, then StepPage
per page), wrapping each page in a real jobqueue.Job that goes
pending -> running -> completed|failed, so listByCrawl/exportedFiles/
finishedCount reflect genuine per-page state rather than a summary
recorded after the fact.
*/

type Controller struct {
	store        jobqueue.Store
	metadataSink metadata.MetadataSink
	httpClient   *http.Client

	mu       sync.Mutex
	requests map[string]CrawlRequest

	workers int
	wg      sync.WaitGroup
}

func NewController(store jobqueue.Store, metadataSink metadata.MetadataSink, workers int) *Controller {
	if workers <= 0 {
		workers = 1
	}
	return &Controller{
		store:        store,
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		requests:     make(map[string]CrawlRequest),
		workers:      workers,
	}
}

// Run starts the fixed worker pool that dequeues jobs from the job
// queue concurrently, and blocks until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	c.wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go c.runWorker(ctx)
	}
	<-ctx.Done()
	c.wg.Wait()
}

func (c *Controller) runWorker(ctx context.Context) {
	defer c.wg.Done()
	for {
		job, ok := c.store.Dequeue(ctx)
		if !ok {
			return
		}
		if job.Kind != jobqueue.JobKindKickoff {
			// Page jobs are started in-place by the kickoff worker that
			// owns their crawl (jobqueue.Store.Start), not by this pool's
			// Dequeue; one reaching here would mean a page job sat pending
			// past its crawl's kickoff completing, which should not happen.
			_ = c.store.Complete(job.ID, "")
			continue
		}
		c.runKickoff(ctx, job)
	}
}

// Start allocates a crawl id, persists its descriptor, and enqueues the
// kickoff job. It returns immediately; the crawl itself runs on the
// worker pool.
func (c *Controller) Start(req CrawlRequest) (string, error) {
	if req.URL == "" {
		return "", fmt.Errorf("url is required")
	}
	if _, err := url.Parse(req.URL); err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	id := jobqueue.NewID()
	c.mu.Lock()
	c.requests[id] = req
	c.mu.Unlock()

	c.store.SaveCrawl(jobqueue.CrawlDescriptor{
		ID:        id,
		SeedURL:   req.URL,
		Webhook:   req.Webhook,
		CreatedAt: time.Now(),
		Limit:     req.Limit,
	})
	c.store.Enqueue(jobqueue.JobSpec{CrawlID: id, Kind: jobqueue.JobKindKickoff}, 10)
	return id, nil
}

// Status computes the crawl's overall status and a bounded page of
// completed results.
func (c *Controller) Status(crawlID string, skip int, limit int) (CrawlSnapshot, error) {
	descriptor, ok := c.store.GetCrawl(crawlID)
	if !ok {
		return CrawlSnapshot{}, fmt.Errorf("crawl not found: %s", crawlID)
	}

	status := StatusScraping
	switch {
	case descriptor.Cancelled:
		status = StatusCancelled
	case descriptor.Finished && c.store.IsFinished(crawlID):
		status = StatusCompleted
	}

	jobs := c.store.ListByCrawl(crawlID, skip, limit)
	data := make([]PageResult, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, PageResult{
			URL:     j.URL,
			Path:    j.Result,
			Error:   j.Error,
			Success: j.State == jobqueue.JobCompleted,
		})
	}

	return CrawlSnapshot{
		ID:        crawlID,
		Status:    status,
		Total:     len(c.store.ExportedFiles(crawlID)),
		Completed: c.store.FinishedCount(crawlID),
		Data:      data,
	}, nil
}

// Cancel sets the crawl's cancel flag. A page job already running is
// allowed to finish; runPages observes the flag before starting the
// next one.
func (c *Controller) Cancel(crawlID string) error {
	if _, ok := c.store.GetCrawl(crawlID); !ok {
		return fmt.Errorf("crawl not found: %s", crawlID)
	}
	c.store.SetCancelled(crawlID)
	return nil
}

func (c *Controller) runKickoff(ctx context.Context, job jobqueue.Job) {
	descriptor, ok := c.store.GetCrawl(job.CrawlID)
	if !ok {
		_ = c.store.Fail(job.ID, "crawl descriptor missing")
		return
	}
	if descriptor.Cancelled {
		_ = c.store.Fail(job.ID, "cancelled before start")
		c.store.SetFinished(job.CrawlID)
		return
	}

	c.mu.Lock()
	req := c.requests[job.CrawlID]
	c.mu.Unlock()

	cfg, err := buildConfig(req)
	if err != nil {
		c.failKickoff(job, req, err)
		return
	}

	sched := scheduler.NewScheduler()
	if prepErr := sched.PrepareCrawl(cfg); prepErr != nil {
		c.failKickoff(job, req, prepErr)
		return
	}

	pagesWritten := c.runPages(ctx, job, &sched)
	sched.FinishCrawl()

	_ = c.store.Complete(job.ID, fmt.Sprintf("%d pages written", pagesWritten))
	c.store.SetFinished(job.CrawlID)
}

// runPages drives sched's frontier one page at a time. Each page is wrapped
// in its own jobqueue.Job: enqueued pending, then immediately re-checked
// against the crawl's cancel flag and transitioned to running via
// jobqueue.Store.Start only if still uncancelled — so no page job ever
// reaches in-flight after Cancel has been called, while a page already
// running is left to finish. It returns the count of pages successfully
// written.
func (c *Controller) runPages(ctx context.Context, job jobqueue.Job, sched pageStepper) int {
	pagesWritten := 0
	for {
		select {
		case <-ctx.Done():
			return pagesWritten
		default:
		}

		if descriptor, ok := c.store.GetCrawl(job.CrawlID); ok && descriptor.Cancelled {
			return pagesWritten
		}

		if !sched.HasPendingWork() {
			return pagesWritten
		}

		pageID := c.store.Enqueue(jobqueue.JobSpec{CrawlID: job.CrawlID, Kind: jobqueue.JobKindPage}, 0)

		// Re-check right at job entry: a cancel that arrived between the
		// loop-top check above and this point must still stop the job
		// before it starts running.
		if descriptor, ok := c.store.GetCrawl(job.CrawlID); ok && descriptor.Cancelled {
			_ = c.store.Fail(pageID, "cancelled before page job could start")
			return pagesWritten
		}
		if startErr := c.store.Start(pageID); startErr != nil {
			_ = c.store.Fail(pageID, startErr.Error())
			continue
		}

		result, hasWork, stepErr := sched.StepPage()
		if !hasWork {
			// Shouldn't happen given the HasPendingWork check above, but
			// don't leave the job stuck running if it does.
			_ = c.store.Complete(pageID, "")
			return pagesWritten
		}
		if stepErr != nil {
			_ = c.store.Fail(pageID, stepErr.Error())
			if stepErr.Severity() == failure.SeverityFatal {
				return pagesWritten
			}
			continue
		}

		_ = c.store.Complete(pageID, result.Path())
		c.store.AddExportedFile(job.CrawlID, result.Path())
		pagesWritten++
	}
}

func (c *Controller) failKickoff(job jobqueue.Job, req CrawlRequest, err error) {
	_ = c.store.Fail(job.ID, err.Error())
	c.store.SetFinished(job.CrawlID)
	if c.metadataSink != nil {
		c.metadataSink.RecordError(
			time.Now(),
			"controller",
			"runKickoff",
			metadata.CauseInvariantViolation,
			err.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, req.URL)},
		)
	}
	c.notifyWebhook(req, err)
}

// notifyWebhook posts a failure notification to req.Webhook, if set, on
// kickoff failure only — per-page webhooks are not sent. Best-effort: a
// delivery failure is logged, never propagated to the caller.
func (c *Controller) notifyWebhook(req CrawlRequest, causeErr error) {
	if req.Webhook == "" {
		return
	}
	payload, marshalErr := json.Marshal(map[string]string{
		"url":   req.URL,
		"error": causeErr.Error(),
	})
	if marshalErr != nil {
		return
	}
	httpReq, newReqErr := http.NewRequest(http.MethodPost, req.Webhook, bytes.NewReader(payload))
	if newReqErr != nil {
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, doErr := c.httpClient.Do(httpReq)
	if doErr != nil {
		if c.metadataSink != nil {
			c.metadataSink.RecordError(
				time.Now(),
				"controller",
				"notifyWebhook",
				metadata.CauseNetworkFailure,
				doErr.Error(),
				[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, req.Webhook)},
			)
		}
		return
	}
	resp.Body.Close()
}

// buildConfig assembles a config.Config from a CrawlRequest the same way
// internal/cli assembles one from flags: config.WithDefault(...).With*(...).
func buildConfig(req CrawlRequest) (config.Config, error) {
	seed, err := url.Parse(req.URL)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid url: %w", err)
	}

	builder := config.WithDefault([]url.URL{*seed})

	if req.Limit > 0 {
		builder = builder.WithMaxPages(req.Limit)
	}
	if req.MaxDepth > 0 {
		builder = builder.WithMaxDepth(req.MaxDepth)
	}
	builder = builder.
		WithAllowBackward(req.AllowBackwardCrawling).
		WithAllowExternal(req.AllowExternalContentLinks).
		WithAllowSubdomains(req.AllowSubdomains).
		WithIgnoreRobots(req.IgnoreRobotsTxt).
		WithRegexOnFullURL(req.RegexOnFullURL)
	if req.Strategy != "" {
		builder = builder.WithStrategy(req.Strategy)
	}
	if len(req.IncludePaths) > 0 {
		builder = builder.WithIncludePaths(req.IncludePaths)
	}
	if len(req.ExcludePaths) > 0 {
		builder = builder.WithExcludePaths(req.ExcludePaths)
	}

	opts := req.ScrapeOptions
	if opts.UserAgent != "" {
		builder = builder.WithUserAgent(opts.UserAgent)
	}
	if opts.Timeout > 0 {
		builder = builder.WithTimeout(opts.Timeout)
	}
	if opts.MaxRetries > 0 {
		builder = builder.WithMaxAttempt(opts.MaxRetries)
	}
	if opts.BackoffFactor > 0 {
		builder = builder.WithBackoffMultiplier(opts.BackoffFactor)
	}
	if opts.MinDelay > 0 {
		builder = builder.WithBaseDelay(opts.MinDelay)
	}
	if opts.MaxDelay > 0 {
		builder = builder.WithBackoffMaxDuration(opts.MaxDelay)
	}
	if len(opts.ProxyList) > 0 {
		builder = builder.WithProxies(opts.ProxyList)
	} else if opts.Proxy != "" {
		builder = builder.WithProxies([]string{opts.Proxy})
	}

	builder = builder.
		WithUseBrowser(req.UseBrowser || opts.UseBrowser).
		WithStealthMode(opts.StealthMode).
		WithBlockResources(opts.BlockResources)
	if opts.MaxScrolls > 0 {
		builder = builder.WithMaxScrolls(opts.MaxScrolls)
	}

	builder = builder.WithCacheEnabled(!opts.SkipCache)
	if opts.CacheTTL > 0 {
		builder = builder.WithCacheTTL(opts.CacheTTL)
	}

	return builder.Build()
}
