package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Initial pages to give to the crawler to begin discovering and traversing other pages.
	seedURLs []url.URL
	// Whitelisted hostname. Build fills an empty set with the seed URLs' hostnames
	allowedHosts map[string]struct{}
	// Which URL path segments are permitted to be fetched and traversed, even if the links are on the same domain
	allowedPathPrefix []string

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from a seed (root) URL
	maxDepth int
	// Maximum number of total documents are allowed to be fetched
	maxPages int

	//===============
	// Politeness
	//===============
	// Maximum number of crawl worker goroutines processing URLs concurrently;
	// it does not control OS threads or CPU parallelism.
	concurrency int
	// Minimum, fixed waiting time you enforce between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	// Intentional randomness applied to timing.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request in millisecond
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Additional user agents to rotate through across attempts/hosts, in
	// round-robin order. Empty means always use userAgent.
	userAgents []string
	// Proxy URLs to rotate through in round-robin order. Empty means no proxy.
	proxies []string

	//===============
	// Output
	//===============
	// Root directory in which to store the resulting markdown files
	outputDir string
	// Whether the program will simulates what it would do without
	// actually performing any irreversible or side-effecting actions
	dryRun bool
	// Maximum size, in bytes, of a single asset the resolver will download
	// and rewrite to a local path. Larger assets are left pointing at the
	// original remote URL.
	maxAssetSize int64
	// Hash algorithm used for content-addressed filenames and content hashes.
	hashAlgo hashutil.HashAlgo

	//===============
	// Extraction
	//===============
	// BodySpecificityBias is the threshold for preferring a child container over <body>.
	// If a child node's score is >= BodySpecificityBias * bodyScore, the child is preferred.
	// Default: 0.75 (75%)
	bodySpecificityBias float64
	// LinkDensityThreshold is the maximum ratio of link text to total text before
	// applying a penalty. Higher values allow more link-heavy content.
	// Default: 0.80 (80%)
	linkDensityThreshold float64
	// ScoreMultiplierNonWhitespaceDivisor is the divisor for calculating text score.
	// Score gets +1 point per NonWhitespaceDivisor characters.
	// Default: 50.0
	scoreMultiplierNonWhitespaceDivisor float64
	// ScoreMultiplierParagraphs is the score multiplier for each paragraph element.
	// Default: 5.0
	scoreMultiplierParagraphs float64
	// ScoreMultiplierHeadings is the score multiplier for each heading element (h1-h3).
	// Default: 10.0
	scoreMultiplierHeadings float64
	// ScoreMultiplierCodeBlocks is the score multiplier for each code block.
	// Default: 15.0
	scoreMultiplierCodeBlocks float64
	// ScoreMultiplierListItems is the score multiplier for each list item.
	// Default: 2.0
	scoreMultiplierListItems float64
	// ThresholdMinNonWhitespace is the minimum number of non-whitespace characters
	// required for content to be considered meaningful.
	// Default: 50
	thresholdMinNonWhitespace int
	// ThresholdMinHeadings is the minimum number of headings required.
	// Headings are optional but valuable.
	// Default: 0
	thresholdMinHeadings int
	// ThresholdMinParagraphsOrCode is the minimum number of paragraphs OR code blocks
	// required for content to be considered meaningful.
	// Default: 1
	thresholdMinParagraphsOrCode int
	// ThresholdMaxLinkDensity is the maximum ratio of link text to total text before
	// content is considered navigation-only and rejected.
	// Default: 0.8 (80%)
	thresholdMaxLinkDensity float64

	//===============
	// Crawl strategy / scope
	//===============
	// Traversal order the frontier dequeues in: "bfs", "dfs", or "best_first".
	strategy string
	// Whether links pointing to a shallower depth than already visited are admitted.
	allowBackward bool
	// Whether links to hosts outside AllowedHosts are admitted.
	allowExternal bool
	// Whether subdomains of an allowed host are treated as in-scope.
	allowSubdomains bool
	// Whether robots.txt is consulted before admission.
	ignoreRobots bool
	// Maximum number of URLs discovered (not necessarily fetched) before the
	// frontier stops accepting new admission candidates.
	discoveryLimit int
	// Regex patterns a candidate must match at least one of to be admitted.
	// Empty means no include restriction.
	includePaths []string
	// Regex patterns that reject a candidate on match, checked after includePaths.
	excludePaths []string
	// Whether includePaths/excludePaths match against the full URL instead
	// of just the path.
	regexOnFullURL bool

	//===============
	// Response cache
	//===============
	cacheEnabled bool
	cacheTTL     time.Duration
	cacheDir     string

	//===============
	// Browser fetch / pool
	//===============
	useBrowser         bool
	maxBrowserInstance int
	maxTabsPerInstance int
	browserIdleTimeout time.Duration
	stealthMode        bool
	blockResources     bool
	maxScrolls         int
}

type configDTO struct {
	SeedURLs               []url.URL           `json:"seedUrls"`
	AllowedHosts           map[string]struct{} `json:"allowedHosts,omitempty"`
	AllowedPathPrefix      []string            `json:"allowedPathPrefix,omitempty"`
	MaxDepth               int                 `json:"maxDepth,omitempty"`
	MaxPages               int                 `json:"maxPages,omitempty"`
	Concurrency            int                 `json:"concurrency,omitempty"`
	BaseDelay              time.Duration       `json:"baseDelay,omitempty"`
	Jitter                 time.Duration       `json:"jitter,omitempty"`
	RandomSeed             int64               `json:"randomSeed,omitempty"`
	MaxAttempt             int                 `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration       `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64             `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration       `json:"backoffMaxDuration,omitempty"`
	Timeout                time.Duration       `json:"timeout,omitempty"`
	UserAgent              string              `json:"userAgent,omitempty"`
	UserAgents             []string            `json:"userAgents,omitempty"`
	Proxies                []string            `json:"proxies,omitempty"`
	OutputDir              string              `json:"outputDir,omitempty"`
	DryRun                 bool                `json:"dryRun,omitempty"`
	MaxAssetSize           int64               `json:"maxAssetSize,omitempty"`
	HashAlgo               hashutil.HashAlgo   `json:"hashAlgo,omitempty"`
	// Extraction parameters
	BodySpecificityBias                 float64 `json:"bodySpecificityBias,omitempty"`
	LinkDensityThreshold                float64 `json:"linkDensityThreshold,omitempty"`
	ScoreMultiplierNonWhitespaceDivisor float64 `json:"scoreMultiplierNonWhitespaceDivisor,omitempty"`
	ScoreMultiplierParagraphs           float64 `json:"scoreMultiplierParagraphs,omitempty"`
	ScoreMultiplierHeadings             float64 `json:"scoreMultiplierHeadings,omitempty"`
	ScoreMultiplierCodeBlocks           float64 `json:"scoreMultiplierCodeBlocks,omitempty"`
	ScoreMultiplierListItems            float64 `json:"scoreMultiplierListItems,omitempty"`
	ThresholdMinNonWhitespace           int     `json:"thresholdMinNonWhitespace,omitempty"`
	ThresholdMinHeadings                int     `json:"thresholdMinHeadings,omitempty"`
	ThresholdMinParagraphsOrCode        int     `json:"thresholdMinParagraphsOrCode,omitempty"`
	ThresholdMaxLinkDensity             float64 `json:"thresholdMaxLinkDensity,omitempty"`
	// Crawl strategy / scope
	Strategy        string        `json:"strategy,omitempty"`
	AllowBackward   bool          `json:"allowBackward,omitempty"`
	AllowExternal   bool          `json:"allowExternal,omitempty"`
	AllowSubdomains bool          `json:"allowSubdomains,omitempty"`
	IgnoreRobots    bool          `json:"ignoreRobots,omitempty"`
	DiscoveryLimit  int           `json:"discoveryLimit,omitempty"`
	IncludePaths    []string      `json:"includePaths,omitempty"`
	ExcludePaths    []string      `json:"excludePaths,omitempty"`
	RegexOnFullURL  bool          `json:"regexOnFullURL,omitempty"`
	// Response cache
	CacheEnabled bool          `json:"cacheEnabled,omitempty"`
	CacheTTL     time.Duration `json:"cacheTTL,omitempty"`
	CacheDir     string        `json:"cacheDir,omitempty"`
	// Browser fetch / pool
	UseBrowser         bool          `json:"useBrowser,omitempty"`
	MaxBrowserInstance int           `json:"maxBrowserInstance,omitempty"`
	MaxTabsPerInstance int           `json:"maxTabsPerInstance,omitempty"`
	BrowserIdleTimeout time.Duration `json:"browserIdleTimeout,omitempty"`
	StealthMode        bool          `json:"stealthMode,omitempty"`
	BlockResources     bool          `json:"blockResources,omitempty"`
	MaxScrolls         int           `json:"maxScrolls,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault(dto.SeedURLs).Build()
	if err != nil {
		return Config{}, err
	}

	// AllowedHosts can be empty - if so, default to seed URLs hostnames
	if len(dto.AllowedHosts) > 0 {
		cfg.allowedHosts = dto.AllowedHosts
	}

	// AllowedPathPrefix can be empty - always use DTO values
	cfg.allowedPathPrefix = dto.AllowedPathPrefix

	// For other fields, only override if non-zero value is provided
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}

	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if len(dto.UserAgents) > 0 {
		cfg.userAgents = dto.UserAgents
	}
	if len(dto.Proxies) > 0 {
		cfg.proxies = dto.Proxies
	}
	if dto.OutputDir != "" {
		cfg.outputDir = dto.OutputDir
	}
	// DryRun is a boolean, check if explicitly set (we use the DTO value as-is since bool zero value is false)
	cfg.dryRun = dto.DryRun
	if dto.MaxAssetSize != 0 {
		cfg.maxAssetSize = dto.MaxAssetSize
	}
	if dto.HashAlgo != "" {
		cfg.hashAlgo = dto.HashAlgo
	}

	// Extraction parameters - only override if non-zero value is provided
	// For float64, we check if value is not 0 (which is also the zero value)
	if dto.BodySpecificityBias != 0 {
		cfg.bodySpecificityBias = dto.BodySpecificityBias
	}
	if dto.LinkDensityThreshold != 0 {
		cfg.linkDensityThreshold = dto.LinkDensityThreshold
	}
	if dto.ScoreMultiplierNonWhitespaceDivisor != 0 {
		cfg.scoreMultiplierNonWhitespaceDivisor = dto.ScoreMultiplierNonWhitespaceDivisor
	}
	if dto.ScoreMultiplierParagraphs != 0 {
		cfg.scoreMultiplierParagraphs = dto.ScoreMultiplierParagraphs
	}
	if dto.ScoreMultiplierHeadings != 0 {
		cfg.scoreMultiplierHeadings = dto.ScoreMultiplierHeadings
	}
	if dto.ScoreMultiplierCodeBlocks != 0 {
		cfg.scoreMultiplierCodeBlocks = dto.ScoreMultiplierCodeBlocks
	}
	if dto.ScoreMultiplierListItems != 0 {
		cfg.scoreMultiplierListItems = dto.ScoreMultiplierListItems
	}
	if dto.ThresholdMinNonWhitespace != 0 {
		cfg.thresholdMinNonWhitespace = dto.ThresholdMinNonWhitespace
	}
	// Note: ThresholdMinHeadings can be 0 (which is a valid value), so we don't check for non-zero
	cfg.thresholdMinHeadings = dto.ThresholdMinHeadings
	if dto.ThresholdMinParagraphsOrCode != 0 {
		cfg.thresholdMinParagraphsOrCode = dto.ThresholdMinParagraphsOrCode
	}
	if dto.ThresholdMaxLinkDensity != 0 {
		cfg.thresholdMaxLinkDensity = dto.ThresholdMaxLinkDensity
	}

	if dto.Strategy != "" {
		cfg.strategy = dto.Strategy
	}
	cfg.allowBackward = dto.AllowBackward
	cfg.allowExternal = dto.AllowExternal
	cfg.allowSubdomains = dto.AllowSubdomains
	cfg.ignoreRobots = dto.IgnoreRobots
	if dto.DiscoveryLimit != 0 {
		cfg.discoveryLimit = dto.DiscoveryLimit
	}
	if len(dto.IncludePaths) > 0 {
		cfg.includePaths = dto.IncludePaths
	}
	if len(dto.ExcludePaths) > 0 {
		cfg.excludePaths = dto.ExcludePaths
	}
	cfg.regexOnFullURL = dto.RegexOnFullURL
	cfg.cacheEnabled = dto.CacheEnabled
	if dto.CacheTTL != 0 {
		cfg.cacheTTL = dto.CacheTTL
	}
	if dto.CacheDir != "" {
		cfg.cacheDir = dto.CacheDir
	}
	cfg.useBrowser = dto.UseBrowser
	if dto.MaxBrowserInstance != 0 {
		cfg.maxBrowserInstance = dto.MaxBrowserInstance
	}
	if dto.MaxTabsPerInstance != 0 {
		cfg.maxTabsPerInstance = dto.MaxTabsPerInstance
	}
	if dto.BrowserIdleTimeout != 0 {
		cfg.browserIdleTimeout = dto.BrowserIdleTimeout
	}
	cfg.stealthMode = dto.StealthMode
	cfg.blockResources = dto.BlockResources
	if dto.MaxScrolls != 0 {
		cfg.maxScrolls = dto.MaxScrolls
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided seed URLs and default values for all other fields.
// seedUrls is mandatory and must not be empty - an error will be returned if it is.
func WithDefault(seedUrls []url.URL) *Config {
	defaultConfig := Config{
		seedURLs:     seedUrls,
		allowedHosts: map[string]struct{}{},
		allowedPathPrefix: []string{
			"/",
		},
		maxDepth:               3,
		maxPages:               100,
		concurrency:            10,
		baseDelay:              time.Second,
		jitter:                 time.Millisecond * 500,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             10,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		timeout:                time.Second * 10,
		userAgent:              "docs-crawler/1.0",
		outputDir:              "output",
		dryRun:                 false,
		maxAssetSize:           10 * 1024 * 1024,
		hashAlgo:               hashutil.HashAlgoSHA256,
		// Extraction defaults
		bodySpecificityBias:                 0.75,
		linkDensityThreshold:                0.80,
		scoreMultiplierNonWhitespaceDivisor: 50.0,
		scoreMultiplierParagraphs:           5.0,
		scoreMultiplierHeadings:             10.0,
		scoreMultiplierCodeBlocks:           15.0,
		scoreMultiplierListItems:            2.0,
		thresholdMinNonWhitespace:           50,
		thresholdMinHeadings:                0,
		thresholdMinParagraphsOrCode:        1,
		thresholdMaxLinkDensity:             0.8,
		strategy:                            "bfs",
		allowBackward:                       true,
		allowExternal:                       false,
		allowSubdomains:                     false,
		ignoreRobots:                        false,
		discoveryLimit:                      0,
		cacheEnabled:                        false,
		cacheTTL:                            time.Hour,
		cacheDir:                            ".cache",
		useBrowser:                          false,
		maxBrowserInstance:                  2,
		maxTabsPerInstance:                  4,
		browserIdleTimeout:                  30 * time.Second,
		stealthMode:                         false,
		blockResources:                      true,
		maxScrolls:                          0,
	}
	return &defaultConfig
}

func (c *Config) WithMaxAssetSize(size int64) *Config {
	c.maxAssetSize = size
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithStrategy(strategy string) *Config {
	c.strategy = strategy
	return c
}

func (c *Config) WithAllowBackward(allow bool) *Config {
	c.allowBackward = allow
	return c
}

func (c *Config) WithAllowExternal(allow bool) *Config {
	c.allowExternal = allow
	return c
}

func (c *Config) WithAllowSubdomains(allow bool) *Config {
	c.allowSubdomains = allow
	return c
}

func (c *Config) WithIgnoreRobots(ignore bool) *Config {
	c.ignoreRobots = ignore
	return c
}

func (c *Config) WithDiscoveryLimit(limit int) *Config {
	c.discoveryLimit = limit
	return c
}

func (c *Config) WithIncludePaths(patterns []string) *Config {
	c.includePaths = patterns
	return c
}

func (c *Config) WithExcludePaths(patterns []string) *Config {
	c.excludePaths = patterns
	return c
}

func (c *Config) WithRegexOnFullURL(onFullURL bool) *Config {
	c.regexOnFullURL = onFullURL
	return c
}

func (c *Config) WithCacheEnabled(enabled bool) *Config {
	c.cacheEnabled = enabled
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithCacheDir(dir string) *Config {
	c.cacheDir = dir
	return c
}

func (c *Config) WithUseBrowser(use bool) *Config {
	c.useBrowser = use
	return c
}

func (c *Config) WithMaxBrowserInstance(max int) *Config {
	c.maxBrowserInstance = max
	return c
}

func (c *Config) WithMaxTabsPerInstance(max int) *Config {
	c.maxTabsPerInstance = max
	return c
}

func (c *Config) WithBrowserIdleTimeout(timeout time.Duration) *Config {
	c.browserIdleTimeout = timeout
	return c
}

func (c *Config) WithStealthMode(stealth bool) *Config {
	c.stealthMode = stealth
	return c
}

func (c *Config) WithBlockResources(block bool) *Config {
	c.blockResources = block
	return c
}

func (c *Config) WithMaxScrolls(max int) *Config {
	c.maxScrolls = max
	return c
}

func (c *Config) WithSeedUrls(urls []url.URL) *Config {
	c.seedURLs = urls
	return c
}

func (c *Config) WithAllowedHosts(hosts map[string]struct{}) *Config {
	c.allowedHosts = hosts
	return c
}

func (c *Config) WithAllowedPathPrefix(prefixes []string) *Config {
	c.allowedPathPrefix = prefixes
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithUserAgents(agents []string) *Config {
	c.userAgents = agents
	return c
}

func (c *Config) WithProxies(proxies []string) *Config {
	c.proxies = proxies
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) WithBodySpecificityBias(bias float64) *Config {
	c.bodySpecificityBias = bias
	return c
}

func (c *Config) WithLinkDensityThreshold(threshold float64) *Config {
	c.linkDensityThreshold = threshold
	return c
}

func (c *Config) WithScoreMultiplierNonWhitespaceDivisor(divisor float64) *Config {
	c.scoreMultiplierNonWhitespaceDivisor = divisor
	return c
}

func (c *Config) WithScoreMultiplierParagraphs(multiplier float64) *Config {
	c.scoreMultiplierParagraphs = multiplier
	return c
}

func (c *Config) WithScoreMultiplierHeadings(multiplier float64) *Config {
	c.scoreMultiplierHeadings = multiplier
	return c
}

func (c *Config) WithScoreMultiplierCodeBlocks(multiplier float64) *Config {
	c.scoreMultiplierCodeBlocks = multiplier
	return c
}

func (c *Config) WithScoreMultiplierListItems(multiplier float64) *Config {
	c.scoreMultiplierListItems = multiplier
	return c
}

func (c *Config) WithThresholdMinNonWhitespace(min int) *Config {
	c.thresholdMinNonWhitespace = min
	return c
}

func (c *Config) WithThresholdMinHeadings(min int) *Config {
	c.thresholdMinHeadings = min
	return c
}

func (c *Config) WithThresholdMinParagraphsOrCode(min int) *Config {
	c.thresholdMinParagraphsOrCode = min
	return c
}

func (c *Config) WithThresholdMaxLinkDensity(max float64) *Config {
	c.thresholdMaxLinkDensity = max
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.seedURLs) == 0 {
		return Config{}, fmt.Errorf("%w: seedUrls cannot be empty", ErrInvalidConfig)
	}

	// If allowedHosts is empty, default to seed URLs hostnames
	if len(c.allowedHosts) == 0 {
		c.allowedHosts = make(map[string]struct{})
		for _, u := range c.seedURLs {
			if u.Host != "" {
				c.allowedHosts[u.Host] = struct{}{}
			}
		}
	}

	return *c, nil
}

func (c Config) SeedURLs() []url.URL {
	urls := make([]url.URL, len(c.seedURLs))
	copy(urls, c.seedURLs)
	return urls
}

func (c Config) AllowedHosts() map[string]struct{} {
	hosts := make(map[string]struct{})
	for k, v := range c.allowedHosts {
		hosts[k] = v
	}
	return hosts
}

func (c Config) AllowedPathPrefix() []string {
	prefixes := make([]string, len(c.allowedPathPrefix))
	copy(prefixes, c.allowedPathPrefix)
	return prefixes
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) UserAgents() []string {
	return c.userAgents
}

func (c Config) Proxies() []string {
	return c.proxies
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) DryRun() bool {
	return c.dryRun
}

func (c Config) MaxAssetSize() int64 {
	return c.maxAssetSize
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) BodySpecificityBias() float64 {
	return c.bodySpecificityBias
}

func (c Config) LinkDensityThreshold() float64 {
	return c.linkDensityThreshold
}

func (c Config) ScoreMultiplierNonWhitespaceDivisor() float64 {
	return c.scoreMultiplierNonWhitespaceDivisor
}

func (c Config) ScoreMultiplierParagraphs() float64 {
	return c.scoreMultiplierParagraphs
}

func (c Config) ScoreMultiplierHeadings() float64 {
	return c.scoreMultiplierHeadings
}

func (c Config) ScoreMultiplierCodeBlocks() float64 {
	return c.scoreMultiplierCodeBlocks
}

func (c Config) ScoreMultiplierListItems() float64 {
	return c.scoreMultiplierListItems
}

func (c Config) ThresholdMinNonWhitespace() int {
	return c.thresholdMinNonWhitespace
}

func (c Config) ThresholdMinHeadings() int {
	return c.thresholdMinHeadings
}

func (c Config) ThresholdMinParagraphsOrCode() int {
	return c.thresholdMinParagraphsOrCode
}

func (c Config) ThresholdMaxLinkDensity() float64 {
	return c.thresholdMaxLinkDensity
}

func (c Config) Strategy() string {
	return c.strategy
}

func (c Config) AllowBackward() bool {
	return c.allowBackward
}

func (c Config) AllowExternal() bool {
	return c.allowExternal
}

func (c Config) AllowSubdomains() bool {
	return c.allowSubdomains
}

func (c Config) IgnoreRobots() bool {
	return c.ignoreRobots
}

func (c Config) DiscoveryLimit() int {
	return c.discoveryLimit
}

func (c Config) IncludePaths() []string {
	patterns := make([]string, len(c.includePaths))
	copy(patterns, c.includePaths)
	return patterns
}

func (c Config) ExcludePaths() []string {
	patterns := make([]string, len(c.excludePaths))
	copy(patterns, c.excludePaths)
	return patterns
}

func (c Config) RegexOnFullURL() bool {
	return c.regexOnFullURL
}

func (c Config) CacheEnabled() bool {
	return c.cacheEnabled
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) CacheDir() string {
	return c.cacheDir
}

func (c Config) UseBrowser() bool {
	return c.useBrowser
}

func (c Config) MaxBrowserInstance() int {
	return c.maxBrowserInstance
}

func (c Config) MaxTabsPerInstance() int {
	return c.maxTabsPerInstance
}

func (c Config) BrowserIdleTimeout() time.Duration {
	return c.browserIdleTimeout
}

func (c Config) StealthMode() bool {
	return c.stealthMode
}

func (c Config) BlockResources() bool {
	return c.blockResources
}

func (c Config) MaxScrolls() int {
	return c.maxScrolls
}
