// Package httpapi is the HTTP surface: a stdlib net/http server exposing
// the synchronous single-URL scrape path (/scrape, /extract-schema,
// /summarize) alongside the crawl-job endpoints backed by
// internal/controller and the cache-admin endpoint backed by
// internal/cache.
//
// The single-URL path deliberately bypasses the frontier/controller/job
// queue stack: it drives fetch/extract -> convert directly, with the
// response cache in front, mirroring the per-page steps of
// internal/scheduler.Scheduler's crawl loop but without a frontier, a
// job queue, or per-crawl output directory.
package httpapi

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/assets"
	"github.com/rohmanhakim/docs-crawler/internal/browser"
	"github.com/rohmanhakim/docs-crawler/internal/build"
	"github.com/rohmanhakim/docs-crawler/internal/cache"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/mdconvert"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/internal/pool"
	"github.com/rohmanhakim/docs-crawler/internal/sanitizer"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/rohmanhakim/docs-crawler/pkg/rotation"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
)

// ScrapeOptions is the per-request tuning knobs recognized on the
// synchronous path, trimmed to the fields that affect a single
// fetch+clean+transform run rather than a crawl.
type ScrapeOptions struct {
	UserAgent           string           `json:"userAgent,omitempty"`
	Timeout             time.Duration    `json:"timeout,omitempty"`
	MaxRetries          int              `json:"maxRetries,omitempty"`
	BackoffFactor       float64          `json:"backoffFactor,omitempty"`
	UseBrowser          bool             `json:"useBrowser,omitempty"`
	SkipTLSVerification bool             `json:"skipTlsVerification,omitempty"`
	SkipCache           bool             `json:"skipCache,omitempty"`
	CacheTTL            time.Duration    `json:"cacheTtl,omitempty"`
	ExtractorFormat     string           `json:"extractorFormat,omitempty"` // "html", "markdown" (default), or "text"
	WaitForSelector     string           `json:"waitForSelector,omitempty"` // useBrowser only
	Actions             []browser.Action `json:"actions,omitempty"`         // useBrowser only
	MaxScrolls          int              `json:"maxScrolls,omitempty"`      // useBrowser only
}

func (o ScrapeOptions) withDefaults() ScrapeOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.BackoffFactor <= 0 {
		o.BackoffFactor = 2.0
	}
	if o.ExtractorFormat == "" {
		o.ExtractorFormat = "markdown"
	}
	return o
}

// ScrapeResult is what the pipeline returns to a handler: cleaned Markdown
// plus whether it was served from the response cache.
type ScrapeResult struct {
	Markdown  []byte
	FromCache bool
}

// Pipeline is the synchronous fetch -> clean -> transform chain shared by
// /scrape, /extract-schema, and /summarize. It is grounded on the same
// per-page steps internal/scheduler.Scheduler runs (3 through 6, 8), with
// step 7 (asset localization to an output directory) and step 9 (storage
// write to a per-crawl job directory) omitted: there is no crawl job, no
// output directory, and no frontier to feed discovered links back into on
// this path.
type Pipeline struct {
	metadataSink metadata.MetadataSink
	httpFetcher  fetcher.Fetcher
	extractor    extractor.Extractor
	sanitizer    sanitizer.Sanitizer
	converter    mdconvert.ConvertRule
	normalizer   normalize.MarkdownConstraint
	cache        cache.Cache
	uaRotator    rotation.Rotator

	// browserFetcher backs ScrapeOptions.UseBrowser. It launches a Chrome
	// pool on first use rather than at construction time: most Pipeline
	// instances (the CLI's one-shot "scrape" path in particular) never
	// request a browser fetch, so paying chromedp's startup cost upfront
	// would be wasted work.
	browserOnce    sync.Once
	browserFetcher *browser.BrowserFetcher
	browserPool    *pool.Pool
}

// NewPipeline wires a Pipeline from the concrete implementations
// internal/scheduler.NewScheduler uses for the same stages, so both paths
// stay behaviorally identical for the steps they share.
func NewPipeline(metadataSink metadata.MetadataSink, cacheDir string, cacheTTL time.Duration, uaRotator rotation.Rotator) *Pipeline {
	ext := extractor.NewDomExtractor(metadataSink)
	san := sanitizer.NewHTMLSanitizer(metadataSink)
	htmlFetcher := fetcher.NewHtmlFetcher(metadataSink)
	return &Pipeline{
		metadataSink: metadataSink,
		httpFetcher:  &htmlFetcher,
		extractor:    &ext,
		sanitizer:    &san,
		converter:    mdconvert.NewRule(metadataSink),
		normalizer:   normalize.NewMarkdownConstraint(metadataSink),
		cache:        cache.NewDiskCache(cacheDir, cacheTTL, metadataSink),
		uaRotator:    uaRotator,
	}
}

// Scrape runs the pipeline for a single URL, consulting the response
// cache first unless opts.SkipCache is set: a second call within TTL
// with skipCache=false returns the first result byte-for-byte.
func (p *Pipeline) Scrape(ctx context.Context, target url.URL, opts ScrapeOptions) (ScrapeResult, failure.ClassifiedError) {
	opts = opts.withDefaults()

	keyOpts := cache.KeyOptions{Format: opts.ExtractorFormat, ForceBrowser: opts.UseBrowser}
	key := cache.FingerprintKey(target.String(), keyOpts)

	if opts.SkipCache {
		entry, err := p.build(ctx, target, opts)
		if err != nil {
			return ScrapeResult{}, err
		}
		return ScrapeResult{Markdown: entry.Content, FromCache: false}, nil
	}

	if entry, hit := p.cache.Get(key); hit {
		return ScrapeResult{Markdown: entry.Content, FromCache: true}, nil
	}

	entry, err := p.cache.GetOrBuild(ctx, key, func(ctx context.Context) (cache.Entry, failure.ClassifiedError) {
		return p.build(ctx, target, opts)
	})
	if err != nil {
		return ScrapeResult{}, err
	}
	return ScrapeResult{Markdown: entry.Content, FromCache: false}, nil
}

// Close releases the browser pool, if one was ever launched. Safe to call
// even when no browser fetch was ever requested.
func (p *Pipeline) Close() {
	if p.browserPool != nil {
		p.browserPool.Close()
	}
}

// browserFetcherFor lazily constructs the pooled browser fetcher for the
// useBrowser option, mirroring internal/scheduler.Scheduler's
// cfg.UseBrowser() branch and reusing the same config defaults for the
// pool.
func (p *Pipeline) browserFetcherFor() *browser.BrowserFetcher {
	p.browserOnce.Do(func() {
		p.browserPool = pool.NewPool(pool.Param{
			MaxInstances:       2,
			MaxTabsPerInstance: 4,
			IdleTimeout:        30 * time.Second,
			AcquireTimeout:     30 * time.Second,
		}, p.metadataSink)
		f := browser.NewBrowserFetcher(p.metadataSink, p.browserPool, false, 0)
		p.browserFetcher = &f
	})
	return p.browserFetcher
}

func (p *Pipeline) build(ctx context.Context, target url.URL, opts ScrapeOptions) (cache.Entry, failure.ClassifiedError) {
	var activeFetcher fetcher.Fetcher = p.httpFetcher
	var browserFetcher *browser.BrowserFetcher
	switch {
	case opts.UseBrowser:
		browserFetcher = p.browserFetcherFor()
		activeFetcher = browserFetcher
	case opts.SkipTLSVerification:
		// A fresh HtmlFetcher per call, never p.httpFetcher: Fetcher.Init
		// mutates its client field with no locking, so swapping the
		// shared fetcher's transport under concurrent requests would race.
		insecure := fetcher.NewHtmlFetcher(p.metadataSink)
		insecure.Init(&http.Client{Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit per-request opt-in
		}})
		activeFetcher = &insecure
	}

	userAgent := opts.UserAgent
	if userAgent == "" && p.uaRotator != nil {
		userAgent = p.uaRotator.NextUserAgent()
	}
	fetchParam := fetcher.NewFetchParam(target, userAgent)
	retryParam := retry.NewRetryParam(
		500*time.Millisecond,
		100*time.Millisecond,
		time.Now().UnixNano(),
		opts.MaxRetries,
		timeutil.NewBackoffParam(500*time.Millisecond, opts.BackoffFactor, 10*time.Second),
	)

	var fetchResult fetcher.FetchResult
	var err failure.ClassifiedError
	if browserFetcher != nil && (opts.WaitForSelector != "" || len(opts.Actions) > 0 || opts.MaxScrolls > 0) {
		fetchResult, err = browserFetcher.FetchWithActions(ctx, 0, fetchParam, retryParam, browser.FetchActionsParam{
			WaitSelector: opts.WaitForSelector,
			Actions:      opts.Actions,
			MaxScrolls:   opts.MaxScrolls,
			Timeout:      opts.Timeout,
		})
	} else {
		fetchResult, err = activeFetcher.Fetch(ctx, 0, fetchParam, retryParam)
	}
	if err != nil {
		return cache.Entry{}, err
	}

	extractionResult, err := p.extractor.Extract(fetchResult.URL(), fetchResult.Body())
	if err != nil {
		return cache.Entry{}, err
	}

	sanitizedHTML, err := p.sanitizer.Sanitize(extractionResult.ContentNode)
	if err != nil {
		return cache.Entry{}, err
	}

	conversionResult, err := p.converter.Convert(sanitizedHTML)
	if err != nil {
		return cache.Entry{}, err
	}

	// No asset localization: there is no per-crawl output directory to
	// write images into on the synchronous path, so the AssetfulMarkdownDoc
	// carries the converted Markdown through untouched.
	assetfulMarkdown := assets.NewAssetfulMarkdownDoc(conversionResult.GetMarkdownContent(), nil, nil, nil)

	normalizeParam := normalize.NewNormalizeParam(
		build.FullVersion(),
		fetchResult.FetchedAt(),
		hashutil.HashAlgoSHA256,
		0,
		nil,
	)
	normalizedMarkdown, err := p.normalizer.Normalize(fetchResult.URL(), assetfulMarkdown, normalizeParam)
	if err != nil {
		return cache.Entry{}, err
	}

	return cache.Entry{
		Content:     normalizedMarkdown.Content(),
		ContentType: "text/markdown",
		SourceURL:   target.String(),
	}, nil
}
