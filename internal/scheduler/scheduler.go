package scheduler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/assets"
	"github.com/rohmanhakim/docs-crawler/internal/browser"
	"github.com/rohmanhakim/docs-crawler/internal/build"
	"github.com/rohmanhakim/docs-crawler/internal/cache"
	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/frontier"
	"github.com/rohmanhakim/docs-crawler/internal/mdconvert"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/internal/pool"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/sanitizer"
	"github.com/rohmanhakim/docs-crawler/internal/storage"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
 Scheduler is the sole control-plane authority of the crawl.

 Determinism and admission guarantees:
 - Scheduler is the ONLY component allowed to decide whether a URL
   may enter the crawl frontier.
 - All semantic admission checks (robots.txt, scope, depth, limits)
   MUST be completed before submitting a URL to the frontier.
 - No other component may enqueue, reject, or reorder URLs.
 - The frontier should only accept already-admitted URLs.
 - Pipeline stages may detect and classify failure, but must never decide retry, continuation, or abortion.

 The scheduler coordinates pipeline execution but does not delegate
 control-flow decisions to downstream stages.

 Metadata emission is observational only and MUST NOT influence
 scheduling, retries, or crawl termination.

 Scheduler Responsibilities:
 - Coordinate crawl lifecycle
 - Enforce global limits (pages, depth)
 - Manage graceful shutdown
 - Aggregate crawl statistics
 - Decide whether a robots outcome proceeds to the frontier.
 - The sole authority on:
	- retry
	- continue
	- abort
 TODO:
	- Introduce worker-scoped recorders when concurrency exists
*/

type Scheduler struct {
	ctx                    context.Context
	metadataSink           metadata.MetadataSink
	crawlFinalizer         metadata.CrawlFinalizer
	robot                  robots.Robot
	frontier               *frontier.CrawlFrontier
	htmlFetcher            fetcher.Fetcher
	domExtractor           extractor.Extractor
	htmlSanitizer          sanitizer.Sanitizer
	markdownConversionRule mdconvert.ConvertRule
	assetResolver          assets.Resolver
	markdownConstraint     normalize.MarkdownConstraint
	storageSink            storage.Sink
	writeResults           []storage.WriteResult
	currentHost            string
	rateLimiter            limiter.RateLimiter
	sleeper                timeutil.Sleeper
	responseCache          cache.Cache
	browserPool            *pool.Pool
	browserFetcher         fetcher.Fetcher
	uaRotator              rotation.Rotator

	cfg            config.Config
	seedPath       string
	seedScheme     string
	includeRegexes []*regexp.Regexp
	excludeRegexes []*regexp.Regexp

	cancel         context.CancelFunc
	crawlStartTime time.Time
	totalErrors    int
	totalAssets    int
}

func NewScheduler() Scheduler {
	recorder := metadata.NewRecorder("sample-single-sync-worker")
	cachedRobot := robots.NewCachedRobot(&recorder)
	frontier := frontier.NewFrontier()
	fetcher := fetcher.NewHtmlFetcher(&recorder)
	ext := extractor.NewDomExtractor(&recorder)
	sanitizer := sanitizer.NewHTMLSanitizer(&recorder)
	conversionRule := mdconvert.NewRule(&recorder)
	resolver := assets.NewLocalResolver(&recorder, &http.Client{}, "docs-crawler/1.0")
	markdownConstraint := normalize.NewMarkdownConstraint(&recorder)
	storageSink := storage.NewLocalSink(&recorder)
	rateLimiter := limiter.NewConcurrentRateLimiter()
	sleeper := timeutil.NewRealSleeper()
	return Scheduler{
		metadataSink:           &recorder,
		crawlFinalizer:         &recorder,
		robot:                  &cachedRobot,
		frontier:               &frontier,
		htmlFetcher:            &fetcher,
		domExtractor:           &ext,
		htmlSanitizer:          &sanitizer,
		markdownConversionRule: conversionRule,
		assetResolver:          &resolver,
		markdownConstraint:     markdownConstraint,
		storageSink:            &storageSink,
		rateLimiter:            rateLimiter,
		sleeper:                &sleeper,
	}
}

// NewSchedulerWithDeps creates a Scheduler with injected dependencies for testing.
// This constructor allows tests to provide mock implementations of metadata interfaces
// to verify behavior without relying on real infrastructure.
func NewSchedulerWithDeps(
	ctx context.Context,
	crawlFinalizer metadata.CrawlFinalizer,
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	fetcher fetcher.Fetcher,
	robot robots.Robot,
	domExtractor extractor.Extractor,
	sanitizer sanitizer.Sanitizer,
	rule mdconvert.ConvertRule,
	resolver assets.Resolver,
	sleeper timeutil.Sleeper,
) Scheduler {
	markdownConstraint := normalize.NewMarkdownConstraint(metadataSink)
	storageSink := storage.NewLocalSink(metadataSink)
	frontier := frontier.NewFrontier()
	return Scheduler{
		ctx:                    ctx,
		metadataSink:           metadataSink,
		crawlFinalizer:         crawlFinalizer,
		robot:                  robot,
		frontier:               &frontier,
		htmlFetcher:            fetcher,
		domExtractor:           domExtractor,
		htmlSanitizer:          sanitizer,
		markdownConversionRule: rule,
		assetResolver:          resolver,
		markdownConstraint:     markdownConstraint,
		storageSink:            &storageSink,
		rateLimiter:            rateLimiter,
		sleeper:                sleeper,
	}
}

// SubmitUrlForAdmission performs all semantic checks required for a URL
// to enter the crawl frontier.
//
// This function is the single admission choke point for the system.
// A non-nil return is an infrastructure failure (robots fetch). A URL that
// fails any admission check is dropped and the function still returns nil.
//
// No other code path may call Frontier.Submit.
// - Only the scheduler imports frontier
// - Only the scheduler constructs CrawlAdmissionCandidate
// - Pipeline stages never see frontier types
func (s *Scheduler) SubmitUrlForAdmission(
	url url.URL,
	sourceContext frontier.SourceContext,
	depth int,
) failure.ClassifiedError {
	// Cheapest checks first: depth, include/exclude, scope, backward-crawl,
	// then the networked/stateful checks (robots), then the binary-extension
	// filter and finally the frontier's own visited/locked test.
	if s.cfg.MaxDepth() > 0 && depth > s.cfg.MaxDepth() {
		return nil
	}

	if !matchesIncludeExclude(url, s.includeRegexes, s.excludeRegexes, s.cfg.RegexOnFullURL()) {
		return nil
	}

	if !isInScope(url.Host, s.cfg.AllowedHosts(), s.cfg.AllowExternal(), s.cfg.AllowSubdomains()) {
		return nil
	}

	if !s.cfg.AllowBackward() && !isPathDescendant(s.seedPath, url.Path) {
		return nil
	}

	if !s.cfg.IgnoreRobots() {
		robotsDecision, robotsError := s.robot.Decide(url)
		// Robots infrastructure failure → scheduler-level error
		if robotsError != nil {
			return robotsError
		}

		// Reset backoff after successful robots request
		if s.rateLimiter != nil {
			s.rateLimiter.ResetBackoff(url.Host)
		}

		if robotsDecision.CrawlDelay > 0 && s.rateLimiter != nil {
			s.rateLimiter.SetCrawlDelay(s.currentHost, robotsDecision.CrawlDelay)
		}

		// Robots explicitly disallowed → normal, terminal outcome
		if !robotsDecision.Allowed {
			// Important:
			// - robots records no metadata for a disallow
			// - NO retry
			// - NO abort
			// - NO frontier submission
			// TODO: record to metadataSink that robots explcitly disallowed the URL
			return nil
		}
		url = robotsDecision.Url
	}

	if hasBinaryExtension(url.Path) {
		return nil
	}

	// Final gate: similarity-class visited/locked test. A failed Lock means
	// an equivalent URL is already visited or is being admitted elsewhere
	// concurrently; either way this candidate is not submitted again.
	if !s.frontier.Lock(url) {
		return nil
	}

	candidate := frontier.NewCrawlAdmissionCandidate(
		url,
		sourceContext,
		frontier.NewDiscoveryMetadata(depth, nil),
	)

	// Submit Allowed URL for Admission by Frontier
	s.frontier.Submit(candidate)
	return nil
}

// Current implementation uses a single recorder and single execution path.
// This does not imply a global ordering guarantee.
// TODO: In the future consider implementing global ordering guarantee
func (s *Scheduler) ExecuteCrawling(configPath string) (CrawlingExecution, error) {
	// 1. Prepare config File
	cfg, err := config.WithConfigFile(configPath)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config.WithConfigFile",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrField, fmt.Sprintf("field: %v", "theFieldError")),
			},
		)
		return CrawlingExecution{}, err
	}

	return s.ExecuteCrawlingWithConfig(cfg)
}

// ExecuteCrawlingWithConfig runs a crawl from an already-built Config to
// completion in one call, by driving PrepareCrawl/StepPage/FinishCrawl in a
// tight loop. Callers that need per-page granularity — internal/controller,
// to drive each page through its own job-queue lifecycle with a cancel
// check between pages — call those three methods directly instead.
func (s *Scheduler) ExecuteCrawlingWithConfig(cfg config.Config) (CrawlingExecution, error) {
	if err := s.PrepareCrawl(cfg); err != nil {
		s.FinishCrawl()
		return CrawlingExecution{}, err
	}

	for {
		_, hasWork, stepErr := s.StepPage()
		if !hasWork {
			break
		}
		if stepErr != nil && stepErr.Severity() == failure.SeverityFatal {
			s.FinishCrawl()
			return CrawlingExecution{}, stepErr
		}
	}

	return s.FinishCrawl(), nil
}

// PrepareCrawl performs every one-time setup step for a crawl: the
// user-agent/proxy rotator, response cache, browser pool, rate limiter,
// robots.txt and frontier initialization, the admission config snapshot
// (C9's scope flags, seed path, compiled include/exclude regexes), DOM
// extractor parameters, and the seed URL's own admission. Call StepPage
// repeatedly afterward until it reports no more work, then FinishCrawl to
// collect the final CrawlingExecution and release the crawl's resources.
func (s *Scheduler) PrepareCrawl(cfg config.Config) error {
	s.crawlStartTime = time.Now()
	s.totalErrors = 0
	s.totalAssets = 0
	s.writeResults = nil

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	s.cancel = cancel
	if s.ctx == nil {
		s.ctx = ctx
	}

	// Validate that at least one seed URL exists
	if len(cfg.SeedURLs()) == 0 {
		err := fmt.Errorf("no seed URLs configured")
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"config validation",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{},
		)
		return err
	}

	// 0.9 Initialize the user-agent/proxy rotator (C7). An empty
	// UserAgents list degenerates to always returning cfg.UserAgent().
	s.uaRotator = rotation.NewRoundRobinRotator(cfg.UserAgents(), cfg.Proxies(), cfg.UserAgent())

	// 1.0 Initialize response cache (front of the fetch step, C5/C6)
	if cfg.CacheEnabled() {
		s.responseCache = cache.NewDiskCache(cfg.CacheDir(), cfg.CacheTTL(), s.metadataSink)
	} else {
		s.responseCache = nil
	}

	// 1.0.1 Initialize the browser fetcher (C6/C8) when the crawl requires
	// a rendered DOM instead of the raw HTTP response. The pool is owned by
	// the scheduler and closed by FinishCrawl.
	if cfg.UseBrowser() {
		browserPool := pool.NewPool(pool.Param{
			MaxInstances:       cfg.MaxBrowserInstance(),
			MaxTabsPerInstance: cfg.MaxTabsPerInstance(),
			IdleTimeout:        cfg.BrowserIdleTimeout(),
			AcquireTimeout:     cfg.Timeout(),
			Stealth:            cfg.StealthMode(),
			BlockResources:     cfg.BlockResources(),
			UserAgent:          cfg.UserAgent(),
		}, s.metadataSink)
		s.browserPool = browserPool
		browserFetcher := browser.NewBrowserFetcher(s.metadataSink, browserPool, cfg.BlockResources(), cfg.MaxScrolls())
		s.browserFetcher = &browserFetcher
	} else {
		s.browserPool = nil
		s.browserFetcher = nil
	}

	// 1.1 Initialize rate limiter
	s.rateLimiter.SetBaseDelay(cfg.BaseDelay())
	s.rateLimiter.SetJitter(cfg.Jitter())
	s.rateLimiter.SetRandomSeed(cfg.RandomSeed())

	// 1.2 Initialize Robots and Frontier
	s.robot.Init(cfg.UserAgent())
	s.frontier.Init(cfg)

	// 1.2.1 Snapshot the admission-relevant config (C9): the scope/strategy
	// flags SubmitUrlForAdmission consults, the seed path the backward-crawl
	// check is relative to, and the compiled include/exclude regex sets.
	s.cfg = cfg
	s.seedPath = cfg.SeedURLs()[0].Path
	var skippedIncludes, skippedExcludes []string
	s.includeRegexes, skippedIncludes = compileAdmissionRegexes(cfg.IncludePaths())
	s.excludeRegexes, skippedExcludes = compileAdmissionRegexes(cfg.ExcludePaths())
	for _, pattern := range append(skippedIncludes, skippedExcludes...) {
		s.metadataSink.RecordError(
			time.Now(),
			"config",
			"compileAdmissionRegexes",
			metadata.CauseContentInvalid,
			fmt.Sprintf("invalid include/exclude pattern, skipped: %s", pattern),
			[]metadata.Attribute{},
		)
	}

	// 1.3 Configure DOM Extractor with extraction parameters from config
	extractParam := extractor.ExtractParam{
		BodySpecificityBias:  cfg.BodySpecificityBias(),
		LinkDensityThreshold: cfg.LinkDensityThreshold(),
		ScoreMultiplier: extractor.ContentScoreMultiplier{
			NonWhitespaceDivisor: cfg.ScoreMultiplierNonWhitespaceDivisor(),
			Paragraphs:           cfg.ScoreMultiplierParagraphs(),
			Headings:             cfg.ScoreMultiplierHeadings(),
			CodeBlocks:           cfg.ScoreMultiplierCodeBlocks(),
			ListItems:            cfg.ScoreMultiplierListItems(),
		},
		Threshold: extractor.MeaningfulThreshold{
			MinNonWhitespace:    cfg.ThresholdMinNonWhitespace(),
			MinHeadings:         cfg.ThresholdMinHeadings(),
			MinParagraphsOrCode: cfg.ThresholdMinParagraphsOrCode(),
			MaxLinkDensity:      cfg.ThresholdMaxLinkDensity(),
		},
	}
	s.domExtractor.SetExtractParam(extractParam)

	// 2. Fetch robots.txt & decide the crawling policy for this hostname based on that
	s.currentHost = cfg.SeedURLs()[0].Host
	s.seedScheme = cfg.SeedURLs()[0].Scheme
	admissionErr := s.SubmitUrlForAdmission(cfg.SeedURLs()[0], frontier.SourceSeed, 0)
	if admissionErr != nil {
		// Check if this is a robots error that requires backoff
		if robotsErr, ok := admissionErr.(*robots.RobotsError); ok {
			s.recordRobotsErrorAndBackoff(robotsErr, cfg.SeedURLs()[0])
		}
		return admissionErr
	}

	// Apply rate limiting delay after successful robots check
	delay := s.rateLimiter.ResolveDelay(s.currentHost)
	s.sleeper.Sleep(delay)

	return nil
}

// HasPendingWork reports whether the frontier has at least one token
// waiting, without consuming it. Callers that want to commit to a page
// before doing anything observable (e.g. internal/controller recording a
// jobqueue.Job for it) check this before calling StepPage.
func (s *Scheduler) HasPendingWork() bool {
	if s.frontier == nil {
		return false
	}
	return s.frontier.Pending()
}

// StepPage dequeues and fully processes the next pending frontier token, if
// any: fetch, DOM extraction, sanitization, discovered-link admission,
// markdown conversion, asset resolution, normalization, and the storage
// write. hasWork is false once the frontier is drained, in which case
// result and stepErr are always zero. A non-nil stepErr with hasWork true
// means this one page failed; check stepErr.Severity() == SeverityFatal to
// tell a whole-crawl-aborting failure apart from a single skipped page.
func (s *Scheduler) StepPage() (result storage.WriteResult, hasWork bool, stepErr failure.ClassifiedError) {
	nextCrawlToken, ok := s.frontier.Dequeue()
	if !ok {
		return storage.WriteResult{}, false, nil
	}

	cfg := s.cfg

	// 3. Fetch Page URL, through the response cache when enabled. The
	// cache key only depends on output-affecting options (C3 contract):
	// cache-control knobs (enabled, TTL) never enter the fingerprint.
	// Each page fetch draws its own user agent from the rotator (C7); a
	// single-entry or empty list degenerates to cfg.UserAgent() always.
	fetchParam := fetcher.NewFetchParam(
		nextCrawlToken.URL(),
		s.uaRotator.NextUserAgent(),
	)
	fetchResult, err := s.fetchThroughCache(nextCrawlToken, fetchParam, cfg)
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}

	// 3.1 Alias the fetch's final URL (post-redirect) into the visited
	// set, so a later discovery of the same final URL via a different
	// in-page reference is recognized as already-crawled.
	finalURL := fetchResult.URL()
	s.frontier.MarkVisited(nextCrawlToken.URL(), &finalURL)

	// 4. Extract HTML DOM
	extractionResult, err := s.domExtractor.Extract(fetchResult.URL(), fetchResult.Body())
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}

	// 5. Sanitize extracted HTML
	sanitizedHtml, err := s.htmlSanitizer.Sanitize(extractionResult.ContentNode)
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}

	// 5.2 Resolve relative URLs to absolute form, filling in whatever
	// scheme/host an in-page reference omitted. Scope (same-origin,
	// subdomains, external) is not decided here: SubmitUrlForAdmission
	// is the single choke point for that, below.
	discoveredURLs := sanitizedHtml.GetDiscoveredURLs()

	resolvedURLs := make([]url.URL, 0, len(discoveredURLs))
	for _, u := range discoveredURLs {
		resolved := urlutil.ResolveRelative(u, s.seedScheme, s.currentHost)
		resolvedURLs = append(resolvedURLs, resolved)
	}

	// 5.3 submit all discovered links through the full admission predicate
	for _, discoveredurl := range resolvedURLs {
		submissionErr := s.SubmitUrlForAdmission(discoveredurl, frontier.SourceCrawl, nextCrawlToken.Depth()+1)
		if submissionErr != nil {
			// Check if this is a robots error that requires backoff
			if robotsErr, ok := submissionErr.(*robots.RobotsError); ok {
				s.recordRobotsErrorAndBackoff(robotsErr, discoveredurl)
			}
			// Submission errors are scheduler-level errors, count them
			s.totalErrors++
			// Continue processing other URLs, don't abort this page
		}
	}

	// 6. HTML → Markdown Conversion
	markdownDoc, err := s.markdownConversionRule.Convert(sanitizedHtml)
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}

	// 7. Assets Resolution
	resolveParam := assets.NewResolveParam(cfg.OutputDir(), cfg.MaxAssetSize())
	assetfulMarkdown, err := s.assetResolver.Resolve(
		s.ctx,
		fetchResult.URL(),
		markdownDoc,
		resolveParam,
		RetryParam(cfg),
	)
	if err != nil {
		s.totalErrors++
		if err.Severity() == failure.SeverityFatal {
			return storage.WriteResult{}, true, err
		}
		// Continue to process the markdown even if asset resolution had errors
	}
	// Count assets processed - use the actual count of successfully resolved local assets
	s.totalAssets += len(assetfulMarkdown.LocalAssets())

	// 8. Markdown Normalization
	normalizeParam := normalize.NewNormalizeParam(
		build.FullVersion(),
		fetchResult.FetchedAt(),
		cfg.HashAlgo(),
		nextCrawlToken.Depth(),
		cfg.AllowedPathPrefix(),
	)
	normalizedMarkdown, err := s.markdownConstraint.Normalize(fetchResult.URL(), assetfulMarkdown, normalizeParam)
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}

	// 9. Write Artifact
	writeResult, err := s.storageSink.Write(cfg.OutputDir(), normalizedMarkdown, cfg.HashAlgo())
	if err != nil {
		s.totalErrors++
		return storage.WriteResult{}, true, err
	}
	s.writeResults = append(s.writeResults, writeResult)

	// Apply rate limiting delay after processing this page
	delay := s.rateLimiter.ResolveDelay(s.currentHost)
	s.sleeper.Sleep(delay)

	return writeResult, true, nil
}

// FinishCrawl records final crawl statistics, releases the browser pool (if
// one was started) and the crawl's timeout context, and returns the
// accumulated CrawlingExecution. Call once after StepPage reports no more
// work, or after a fatal stepErr aborts the crawl early.
func (s *Scheduler) FinishCrawl() CrawlingExecution {
	crawlDuration := time.Since(s.crawlStartTime)
	totalPages := s.frontier.VisitedCount()
	s.crawlFinalizer.RecordFinalCrawlStats(
		totalPages,
		s.totalErrors,
		s.totalAssets,
		crawlDuration,
	)
	if s.browserPool != nil {
		s.browserPool.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	return CrawlingExecution{
		WriteResults: s.writeResults,
	}
}

// fetchThroughCache performs the page fetch, consulting the response cache
// first when one is configured. The fingerprint only covers options that
// affect the fetched output (here, the fixed "html" target format and
// whether the browser fetcher is in use); a fetch
// miss serializes concurrent callers for the same URL onto a single
// in-flight Fetch call via the cache's singleflight guarantee.
func (s *Scheduler) fetchThroughCache(
	token frontier.CrawlToken,
	fetchParam fetcher.FetchParam,
	cfg config.Config,
) (fetcher.FetchResult, failure.ClassifiedError) {
	activeFetcher := s.htmlFetcher
	if s.browserFetcher != nil {
		activeFetcher = s.browserFetcher
	}

	if s.responseCache == nil {
		return activeFetcher.Fetch(s.ctx, token.Depth(), fetchParam, RetryParam(cfg))
	}

	key := cache.FingerprintKey(token.URL().String(), cache.KeyOptions{Format: "html", ForceBrowser: s.browserFetcher != nil})
	entry, err := s.responseCache.GetOrBuild(s.ctx, key, func(ctx context.Context) (cache.Entry, failure.ClassifiedError) {
		result, fetchErr := activeFetcher.Fetch(ctx, token.Depth(), fetchParam, RetryParam(cfg))
		if fetchErr != nil {
			return cache.Entry{}, fetchErr
		}
		return cache.Entry{
			Content:     result.Body(),
			ContentType: "text/html",
			SourceURL:   result.URL().String(),
		}, nil
	})
	if err != nil {
		return fetcher.FetchResult{}, err
	}

	return fetcher.NewFetchResultForTest(token.URL(), entry.Content, 200, entry.ContentType, nil, entry.CreatedAt), nil
}

// recordRobotsErrorAndBackoff records a robots error using metadataSink and
// triggers exponential backoff on the rate limiter if the error cause warrants it.
// This method handles ErrCauseHttpTooManyRequests (429) and ErrCauseHttpServerError (5xx)
// by recording the error and applying backoff to the target URL's host.
func (s *Scheduler) recordRobotsErrorAndBackoff(robotsErr *robots.RobotsError, targetURL url.URL) {
	// Only record and backoff for specific HTTP error causes
	if robotsErr.Cause == robots.ErrCauseHttpTooManyRequests ||
		robotsErr.Cause == robots.ErrCauseHttpServerError {
		s.metadataSink.RecordError(
			time.Now(),
			"scheduler",
			"SubmitUrlForAdmission",
			metadata.CauseNetworkFailure,
			robotsErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, targetURL.String()),
				metadata.NewAttr(metadata.AttrHost, targetURL.Host),
				metadata.NewAttr(metadata.AttrPath, targetURL.Path),
			},
		)
		if s.rateLimiter != nil {
			s.rateLimiter.Backoff(targetURL.Host)
		}
	}
}

func RetryParam(cfg config.Config) retry.RetryParam {
	return retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
}

// ---------------------------------------------------------------------------
// Test Helper Methods
// These methods are exported to enable testing of SubmitUrlForAdmission()
// and other scheduler internals. They are not part of the public API.
// ---------------------------------------------------------------------------

// InitWith initializes the dependencies with the given data.
// This is a test helper method.
func (s *Scheduler) InitWith(userAgent string, baseDelay time.Duration, jitter time.Duration, randomSeed int64) {
	s.robot.Init(userAgent)
	s.rateLimiter.SetBaseDelay(baseDelay)
	s.rateLimiter.SetJitter(jitter)
	s.rateLimiter.SetRandomSeed(randomSeed)
}

// SetCurrentHost sets the current host.
// This is a test helper method to simulate the host context.
func (s *Scheduler) SetCurrentHost(host string) {
	s.currentHost = host
	// s.rateLimiter.RegisterHost(host)
}

// FrontierVisitedCount returns the number of URLs in the frontier's visited set.
// This is a test helper method to verify frontier state.
func (s *Scheduler) FrontierVisitedCount() int {
	if s.frontier == nil {
		return 0
	}
	return s.frontier.VisitedCount()
}

// DequeueFromFrontier dequeues a token from the frontier.
// This is a test helper method to verify frontier contents.
func (s *Scheduler) DequeueFromFrontier() (frontier.CrawlToken, bool) {
	if s.frontier == nil {
		return frontier.CrawlToken{}, false
	}
	return s.frontier.Dequeue()
}

// SetConvertRule sets the markdown conversion rule for testing.
// This is a test helper method to inject mock conversion rules.
func (s *Scheduler) SetConvertRule(rule mdconvert.ConvertRule) {
	s.markdownConversionRule = rule
}
