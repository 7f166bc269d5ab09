package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/pool"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
)

/*
Responsibilities
- Navigate a pooled tab to a URL and wait for it to settle
- On a failed attempt, retry with an added 500ms settle delay (tabs are
  not cleared between attempts)
- Run a scripted click/scroll/wait/fill/select action sequence
- Perform a bounded auto-scroll pass for lazy-loaded content
- Optionally block ad/tracking hosts and heavy resource types
- Extract the rendered HTML after every script has run

The fetcher never parses content beyond the outer HTML string; it only
returns bytes and metadata, same as the plain HTTP fetcher.
*/

// trackerHosts is a documented set of common ad/tracking domains aborted
// when resource blocking is enabled, independent of resource-type blocking.
var trackerHosts = []string{
	"doubleclick.net",
	"google-analytics.com",
	"googletagmanager.com",
	"googlesyndication.com",
	"adservice.google.com",
	"facebook.net",
	"hotjar.com",
	"segment.io",
}

type BrowserFetcher struct {
	metadataSink   metadata.MetadataSink
	pool           *pool.Pool
	blockResources bool
	maxScrolls     int
}

func NewBrowserFetcher(metadataSink metadata.MetadataSink, browserPool *pool.Pool, blockResources bool, maxScrolls int) BrowserFetcher {
	return BrowserFetcher{
		metadataSink:   metadataSink,
		pool:           browserPool,
		blockResources: blockResources,
		maxScrolls:     maxScrolls,
	}
}

// Init satisfies fetcher.Fetcher; the browser fetcher drives chromedp
// directly and has no use for a shared *http.Client.
func (b *BrowserFetcher) Init(_ *http.Client) {}

func (b *BrowserFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	return b.FetchWithActions(ctx, crawlDepth, fetchParam, retryParam, FetchActionsParam{MaxScrolls: b.maxScrolls})
}

func (b *BrowserFetcher) FetchWithActions(
	ctx context.Context,
	crawlDepth int,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
	actionsParam FetchActionsParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	callerMethod := "BrowserFetcher.FetchWithActions"
	startTime := time.Now()

	attempt := 0
	fetchTask := func() (fetcher.FetchResult, failure.ClassifiedError) {
		escalated := attempt > 0
		attempt++
		return b.navigateAndExtract(ctx, fetchParam, actionsParam, escalated)
	}

	retryResult := retry.Retry(retryParam, fetchTask)
	err := retryResult.Err()
	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	if err == nil {
		statusCode = retryResult.Value().Code()
		contentType = "text/html"
	}
	b.metadataSink.RecordFetch(fetchParam.URL().String(), statusCode, duration, contentType, attempt-1, crawlDepth)

	if err != nil {
		var browserErr *BrowserError
		if errors.As(err, &browserErr) {
			b.metadataSink.RecordError(
				time.Now(),
				"browser",
				callerMethod,
				mapBrowserErrorToMetadataCause(browserErr),
				err.Error(),
				[]metadata.Attribute{
					metadata.NewAttr(metadata.AttrURL, fetchParam.URL().String()),
				},
			)
		}
		return fetcher.FetchResult{}, err
	}
	return retryResult.Value(), nil
}

// navigateAndExtract acquires a tab from the pool, navigates, runs the
// scripted actions and auto-scroll, then extracts the rendered HTML.
// Every attempt waits for WaitReady("body"); escalated only adds a 500ms
// settle delay after it. No full page-load wait is used, and the tab's
// cookies and local storage are not cleared between attempts.
func (b *BrowserFetcher) navigateAndExtract(
	ctx context.Context,
	fetchParam fetcher.FetchParam,
	actionsParam FetchActionsParam,
	escalated bool,
) (fetcher.FetchResult, failure.ClassifiedError) {
	timeout := actionsParam.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var htmlContent string
	var finalURL string

	poolErr := b.pool.WithTab(ctx, func(tabCtx context.Context) error {
		navCtx, cancel := context.WithTimeout(tabCtx, timeout)
		defer cancel()

		if err := chromedp.Run(navCtx, chromedp.ActionFunc(func(context.Context) error { return nil })); err != nil {
			return err
		}

		if b.blockResources {
			if err := enableResourceBlocking(navCtx); err != nil {
				return err
			}
		}

		navActions := []chromedp.Action{chromedp.Navigate(fetchParam.URL().String())}
		if escalated {
			navActions = append(navActions, chromedp.WaitReady("body", chromedp.ByQuery), chromedp.Sleep(500*time.Millisecond))
		} else {
			navActions = append(navActions, chromedp.WaitReady("body", chromedp.ByQuery))
		}
		if actionsParam.WaitSelector != "" {
			navActions = append(navActions, chromedp.WaitVisible(actionsParam.WaitSelector, chromedp.ByQuery))
		}
		if err := chromedp.Run(navCtx, navActions...); err != nil {
			return err
		}

		for _, action := range actionsParam.Actions {
			if runErr := runScriptedAction(navCtx, action); runErr != nil && !action.Optional {
				return runErr
			}
		}

		if err := autoScroll(navCtx, actionsParam.MaxScrolls); err != nil {
			return err
		}

		return chromedp.Run(navCtx,
			chromedp.Location(&finalURL),
			chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
		)
	})

	if poolErr != nil {
		var pe *pool.PoolError
		if errors.As(poolErr, &pe) {
			return fetcher.FetchResult{}, &BrowserError{Message: pe.Error(), Retryable: true, Cause: ErrCausePoolExhausted}
		}
		return fetcher.FetchResult{}, &BrowserError{Message: poolErr.Error(), Retryable: true, Cause: ErrCauseNavigationTimeout}
	}

	resolvedURL, parseErr := url.Parse(finalURL)
	if parseErr != nil || resolvedURL.String() == "" {
		navURL := fetchParam.URL()
		resolvedURL = &navURL
	}

	result := fetcher.NewFetchResultForTest(*resolvedURL, []byte(htmlContent), 200, "text/html", map[string]string{}, time.Now())
	return result, nil
}

// runScriptedAction translates one Action into a chromedp run.
func runScriptedAction(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionClick:
		return chromedp.Run(ctx, chromedp.Click(action.Selector, chromedp.ByQuery))
	case ActionScroll:
		return chromedp.Run(ctx, chromedp.ScrollIntoView(action.Selector, chromedp.ByQuery))
	case ActionWait:
		return chromedp.Run(ctx, chromedp.WaitVisible(action.Selector, chromedp.ByQuery))
	case ActionFill:
		return chromedp.Run(ctx, chromedp.SendKeys(action.Selector, action.Value, chromedp.ByQuery))
	case ActionSelect:
		return chromedp.Run(ctx, chromedp.SetValue(action.Selector, action.Value, chromedp.ByQuery))
	default:
		return fmt.Errorf("unknown action kind: %s", action.Kind)
	}
}

// autoScroll scrolls to the bottom of the document up to maxScrolls times,
// stopping early once the scroll height stabilizes (no more lazy content
// loaded).
func autoScroll(ctx context.Context, maxScrolls int) error {
	if maxScrolls <= 0 {
		return nil
	}

	var lastHeight int64
	for i := 0; i < maxScrolls; i++ {
		var height int64
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(300*time.Millisecond),
		); err != nil {
			return err
		}
		if height == lastHeight {
			break
		}
		lastHeight = height
	}
	return nil
}

// enableResourceBlocking intercepts every request via the Fetch domain and
// aborts ones matching a tracker host or a heavy resource type, per the
// browser fetcher's resource policy contract.
func enableResourceBlocking(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		network.Enable(),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{URLPattern: "*"}}),
	); err != nil {
		return err
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		event, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		if isBlockedHost(event.Request.URL) || isBlockedResourceType(event.ResourceType) {
			go func() { _ = fetch.FailRequest(event.RequestID, network.ErrorReasonBlockedByClient).Do(ctx) }()
			return
		}
		go func() { _ = fetch.ContinueRequest(event.RequestID).Do(ctx) }()
	})
	return nil
}

func isBlockedHost(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, host := range trackerHosts {
		if parsed.Host == host || hasSuffixDot(parsed.Host, host) {
			return true
		}
	}
	return false
}

func hasSuffixDot(host, suffix string) bool {
	return len(host) > len(suffix) && host[len(host)-len(suffix)-1:] == "."+suffix
}

func isBlockedResourceType(resourceType network.ResourceType) bool {
	switch resourceType {
	case network.ResourceTypeImage, network.ResourceTypeMedia, network.ResourceTypeFont, network.ResourceTypeStylesheet:
		return true
	default:
		return false
	}
}
