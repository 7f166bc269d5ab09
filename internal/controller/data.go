package controller

import "time"

// CrawlRequest is the recognized body of POST /crawl.
type CrawlRequest struct {
	URL                       string         `json:"url"`
	IncludePaths              []string       `json:"includePaths,omitempty"`
	ExcludePaths              []string       `json:"excludePaths,omitempty"`
	Limit                     int            `json:"limit,omitempty"`
	MaxDepth                  int            `json:"maxDepth,omitempty"`
	AllowBackwardCrawling     bool           `json:"allowBackwardCrawling,omitempty"`
	AllowExternalContentLinks bool           `json:"allowExternalContentLinks,omitempty"`
	AllowSubdomains           bool           `json:"allowSubdomains,omitempty"`
	IgnoreRobotsTxt           bool           `json:"ignoreRobotsTxt,omitempty"`
	RegexOnFullURL            bool           `json:"regexOnFullURL,omitempty"`
	Strategy                  string         `json:"strategy,omitempty"` // "bfs" | "dfs" | "best_first"
	UseBrowser                bool           `json:"useBrowser,omitempty"`
	ScrapeOptions             ScraperOptions `json:"scrapeOptions,omitempty"`
	Webhook                   string         `json:"webhook,omitempty"`
}

// ScraperOptions is the recognized per-page option set, shared by the
// single-URL /scrape path and every page of a /crawl.
type ScraperOptions struct {
	Timeout              time.Duration    `json:"timeout,omitempty"`
	UserAgent            string           `json:"userAgent,omitempty"`
	Proxy                string           `json:"proxy,omitempty"`
	ProxyUsername        string           `json:"proxyUsername,omitempty"`
	ProxyPassword        string           `json:"proxyPassword,omitempty"`
	ProxyRotation        bool             `json:"proxyRotation,omitempty"`
	ProxyList            []string         `json:"proxyList,omitempty"`
	Cookies              map[string]string `json:"cookies,omitempty"`
	Headers              map[string]string `json:"headers,omitempty"`
	WaitForSelector      string           `json:"waitForSelector,omitempty"`
	WaitForTimeout       time.Duration    `json:"waitForTimeout,omitempty"`
	Actions              []BrowserAction  `json:"actions,omitempty"`
	ExtractorFormat      string           `json:"extractorFormat,omitempty"` // "html" | "markdown" | "text"
	SkipCache            bool             `json:"skipCache,omitempty"`
	CacheTTL             time.Duration    `json:"cacheTtl,omitempty"`
	SkipTLSVerification  bool             `json:"skipTlsVerification,omitempty"`
	BlockAds             bool             `json:"blockAds,omitempty"`
	BlockResources       bool             `json:"blockResources,omitempty"`
	UseBrowser           bool             `json:"useBrowser,omitempty"`
	StealthMode          bool             `json:"stealthMode,omitempty"`
	MaxScrolls           int              `json:"maxScrolls,omitempty"`
	MinDelay             time.Duration    `json:"minDelay,omitempty"`
	MaxDelay             time.Duration    `json:"maxDelay,omitempty"`
	MaxRetries           int              `json:"maxRetries,omitempty"`
	BackoffFactor        float64          `json:"backoffFactor,omitempty"`
	RotateUserAgent      bool             `json:"rotateUserAgent,omitempty"`
	OnlyMainContent      bool             `json:"onlyMainContent,omitempty"`
}

// BrowserAction is one step of ScraperOptions.Actions. Only the fields
// relevant to Type are populated; the rest are zero.
type BrowserAction struct {
	Type     string `json:"type"` // "click" | "scroll" | "wait" | "fill" | "select"
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
	Position string `json:"position,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// CrawlStatus is the computed overall status of a crawl.
type CrawlStatus string

const (
	StatusScraping  CrawlStatus = "scraping"
	StatusCompleted CrawlStatus = "completed"
	StatusCancelled CrawlStatus = "cancelled"
)

// PageResult is one completed or failed page's outcome, as returned by
// Status' bounded page of results.
type PageResult struct {
	URL     string `json:"url"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// CrawlSnapshot is the return value of Status.
type CrawlSnapshot struct {
	ID        string       `json:"id"`
	Status    CrawlStatus  `json:"status"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Data      []PageResult `json:"data"`
}
